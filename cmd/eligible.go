package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philjestin/buildsass/internal/eligibility"
	"github.com/philjestin/buildsass/internal/provider"
)

var (
	eligibleProbe          string
	eligibleRequireSources bool
)

// eligibleCmd prints true or false and exits 1 when the provider should not
// be offered.
var eligibleCmd = &cobra.Command{
	Use:   "eligible",
	Short: "Check whether the sass toolchain is usable for the project",
	RunE: func(cmd *cobra.Command, args []string) error {
		probe, ok := eligibility.ParseProbe(eligibleProbe)
		if !ok {
			return fmt.Errorf("unknown probe %q (want lookup or version)", eligibleProbe)
		}
		checkerOpts := []eligibility.Option{eligibility.WithProbe(probe)}
		if eligibleRequireSources {
			checkerOpts = append(checkerOpts, eligibility.WithRequiredSources(workspace))
		}

		p := newProvider(provider.WithCheckerOptions(checkerOpts...))
		defer p.Close()

		ok = p.IsEligible(cmd.Context())
		fmt.Fprintln(cmd.OutOrStdout(), ok)
		if !ok {
			return errNotEligible
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eligibleCmd)
	eligibleCmd.Flags().StringVar(&eligibleProbe, "probe", "lookup", "binary probe: lookup|version")
	eligibleCmd.Flags().BoolVar(&eligibleRequireSources, "require-sources", false, "also require a .sass or .scss file under --cwd")
}

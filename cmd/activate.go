package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/philjestin/buildsass/internal/deps"
	"github.com/philjestin/buildsass/internal/runner"
	"github.com/philjestin/buildsass/internal/tlogger"
)

var (
	activateSpecMode bool
	activateApm      string
)

// specModeEnv marks a host test run, like --spec-mode.
const specModeEnv = "BUILD_SASS_SPEC_MODE"

var activateCmd = &cobra.Command{
	Use:   "activate",
	Short: "Install and enable companion editor packages when manageDependencies is set",
	RunE: func(cmd *cobra.Command, args []string) error {
		host := deps.HostFunc(func() bool {
			return activateSpecMode || os.Getenv(specModeEnv) != ""
		})
		pm := deps.Apm{Runner: runner.Exec{Dir: workspace}, Bin: activateApm}

		ran, err := deps.NewBootstrapper(pm, host, nil).Activate(cmd.Context(), source.Settings())
		if err != nil {
			return err
		}
		tlogger.Info("msg", "activated", "dependencies", ran)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(activateCmd)
	activateCmd.Flags().BoolVar(&activateSpecMode, "spec-mode", false, "host is running its own test suite; skip dependencies")
	activateCmd.Flags().StringVar(&activateApm, "apm", "apm", "editor package manager binary")
}

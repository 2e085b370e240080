package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/philjestin/buildsass/internal/config"
	"github.com/philjestin/buildsass/internal/provider"
	"github.com/philjestin/buildsass/internal/tlogger"
)

// cfgFile stores an optional explicit path to a config file
// (if not provided we try <cwd>/build-sass.config.{json,yaml,toml}).
var cfgFile string

// workspace (aka --cwd) is the project root handed to the provider.
var workspace string

var verbose int

// source is loaded in PersistentPreRunE and read by every subcommand.
var source *config.ViperSource

// errNotEligible makes the process exit 1 without printing an error.
var errNotEligible = errors.New("not eligible")

var rootCmd = &cobra.Command{
	Use:           "buildsass",
	Short:         "Sass/SCSS build provider: task table, eligibility and dependency bootstrap",
	SilenceUsage:  true,
	SilenceErrors: true,
	// PersistentPreRunE executes before any subcommand; we use it to load config/env.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		tlogger.ApplyVerbose(verbose)

		// A fresh viper per run keeps repeated Execute calls independent.
		v := viper.New()
		source = config.NewViperSource(v)

		// Flags win over env and the config file.
		flags := cmd.Root().PersistentFlags()
		if err := v.BindPFlag(config.Key(config.KeyPathToSass), flags.Lookup("sass")); err != nil {
			return err
		}
		if err := v.BindPFlag(config.Key(config.KeyAlwaysEligible), flags.Lookup("always-eligible")); err != nil {
			return err
		}

		if err := source.Load(cfgFile, workspace); err != nil {
			return err
		}
		if f := source.File(); f != "" {
			tlogger.Debug("msg", "using config file", "file", f)
		}
		return nil
	},
}

// Execute is called from main.go and starts the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errNotEligible) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// newProvider builds the provider for --cwd from the loaded settings.
func newProvider(opts ...provider.Option) *provider.SassProvider {
	return provider.ProvideBuilder(source, opts...)(workspace)
}

// encode writes v as indented json or yaml.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}

func init() {
	// Define persistent flags that apply to all subcommands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: <cwd>/build-sass.config.{json,yaml,toml})")
	rootCmd.PersistentFlags().StringVar(&workspace, "cwd", ".", "project root")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "verbose output (-v debug, -vv all)")
	rootCmd.PersistentFlags().String("sass", "", "path to the sass binary (overrides pathToSass)")
	rootCmd.PersistentFlags().Bool("always-eligible", false, "offer the provider even when sass is missing")
}

package cmd

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/philjestin/buildsass/internal/provider"
	"github.com/philjestin/buildsass/internal/tlogger"
)

var (
	watchFormat    string
	watchAnyChange bool
)

// watchDebounce coalesces bursts of config writes (editors often save twice).
const watchDebounce = 300 * time.Millisecond

// watchCmd watches the config file and reprints the task table on each refresh.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the task table, then print it again whenever the settings change",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var opts []provider.Option
		if watchAnyChange {
			opts = append(opts, provider.WithRefreshOnAnyChange())
		}
		p := newProvider(opts...)
		defer p.Close()

		out := cmd.OutOrStdout()
		if err := encode(out, watchFormat, p.Settings()); err != nil {
			return err
		}

		// debounce refreshes
		var mu sync.Mutex
		var timer *time.Timer
		flush := func() {
			mu.Lock()
			defer mu.Unlock()
			if err := encode(out, watchFormat, p.Settings()); err != nil {
				tlogger.Error("msg", "write tasks", "err", err)
			}
		}
		cancel := p.OnRefresh(func() {
			mu.Lock()
			defer mu.Unlock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, flush)
		})
		defer cancel()

		if source.File() == "" {
			tlogger.Warn("msg", "no config file found; nothing to watch", "cwd", workspace)
		} else {
			source.Watch()
			tlogger.Info("msg", "watching", "file", source.File())
		}

		<-ctx.Done()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchFormat, "format", "json", "output format: json|yaml")
	watchCmd.Flags().BoolVar(&watchAnyChange, "all", false, "refresh on any setting change, not only custom arguments")
}

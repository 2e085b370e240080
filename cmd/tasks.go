package cmd

import (
	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"github.com/philjestin/buildsass/internal/tasks"
)

var (
	tasksFormat string
	tasksName   string
)

var errTaskNotFound = zerr.New("task not found")

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Print the task table the provider offers for the current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := newProvider()
		defer p.Close()

		table := p.Settings()
		if tasksName == "" {
			return encode(cmd.OutOrStdout(), tasksFormat, table)
		}

		t, ok := tasks.Find(table, tasksName)
		if !ok {
			return zerr.With(errTaskNotFound, "task", tasksName)
		}
		return encode(cmd.OutOrStdout(), tasksFormat, t)
	},
}

func init() {
	rootCmd.AddCommand(tasksCmd)
	tasksCmd.Flags().StringVar(&tasksFormat, "format", "json", "output format: json|yaml")
	tasksCmd.Flags().StringVar(&tasksName, "name", "", "print only the task with this name or command id")
}

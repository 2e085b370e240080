// Package tasks builds the table of sass invocations offered to the host.
package tasks

import (
	"strings"

	"github.com/philjestin/buildsass/internal/config"
)

// Placeholders substituted by the host when a task runs. They are never
// resolved here.
const (
	FileActive         = "{FILE_ACTIVE}"
	FileActiveNameBase = "{FILE_ACTIVE_NAME_BASE}"
	FileActivePath     = "{FILE_ACTIVE_PATH}"
)

// ErrorMatch extracts message, line and file from compiler output.
const ErrorMatch = `(?<message>Error: .*)\n\s+on line (?<line>\d+) of (?<file>.*)\n`

// Task is a fully parameterized invocation template.
type Task struct {
	Name            string   `json:"name" yaml:"name"`
	Exec            string   `json:"exec" yaml:"exec"`
	Args            []string `json:"args" yaml:"args"`
	Cwd             string   `json:"cwd" yaml:"cwd"`
	Sh              bool     `json:"sh" yaml:"sh"`
	AtomCommandName string   `json:"atomCommandName" yaml:"atomCommandName"`
	ErrorMatch      []string `json:"errorMatch" yaml:"errorMatch"`
}

// SplitArgs trims s and splits it on whitespace. A blank string yields an
// empty, non-nil slice. Quoting is not supported.
func SplitArgs(s string) []string {
	fields := strings.Fields(strings.TrimSpace(s))
	if fields == nil {
		return []string{}
	}
	return fields
}

// Find returns the task whose name or command id equals key.
func Find(table []Task, key string) (Task, bool) {
	for _, t := range table {
		if t.Name == key || t.AtomCommandName == key {
			return t, true
		}
	}
	return Task{}, false
}

// Build returns the ordered task table for the given settings.
func Build(s config.Settings) []Task {
	exec := s.PathToSass
	if exec == "" {
		exec = config.DefaultPathToSass
	}

	out := make([]Task, 0, 2*len(variants))
	for _, syn := range []syntax{scss, sass} {
		for _, v := range variants {
			name := syn.label + v.label
			if v.watch {
				name = "Watch " + name
			}
			t := Task{
				Name:            name,
				Exec:            exec,
				Cwd:             FileActivePath,
				Sh:              false,
				AtomCommandName: syn.command + ":" + v.command,
				ErrorMatch:      []string{ErrorMatch},
			}
			if v.user {
				t.Args = SplitArgs(syn.customArgs(s))
			} else {
				t.Args = v.args(syn.flags)
			}
			out = append(out, t)
		}
	}
	return out
}

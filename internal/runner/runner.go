// Package runner runs external programs for the probes and the package
// manager.
package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"go.trai.ch/zerr"
)

// Runner runs a program to completion and returns its standard output.
//
//go:generate mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type Runner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Exec implements Runner with os/exec. Dir, when set, is the working
// directory of every command.
type Exec struct {
	Dir string
}

// Output starts name and waits for it. A non-zero exit returns the captured
// stdout together with an error carrying the exit code and stderr.
func (e Exec) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec // configured binary
	cmd.Dir = e.Dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		wrapped := zerr.With(zerr.Wrap(err, "command failed"), "command", name)
		wrapped = zerr.With(wrapped, "exit_code", exitCode)
		if stderr.Len() > 0 {
			wrapped = zerr.With(wrapped, "stderr", string(bytes.TrimSpace(stderr.Bytes())))
		}
		return out, wrapped
	}
	return out, nil
}

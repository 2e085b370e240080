package deps

import (
	"bufio"
	"bytes"
	"context"
	"strings"

	"github.com/philjestin/buildsass/internal/runner"
)

// Apm drives the editor's package manager command line.
type Apm struct {
	Runner runner.Runner
	// Bin is the package manager binary, "apm" when empty.
	Bin string
}

func (a Apm) bin() string {
	if a.Bin == "" {
		return "apm"
	}
	return a.Bin
}

// Installed lists installed packages with apm list --installed --bare.
func (a Apm) Installed(ctx context.Context) (map[string]bool, error) {
	out, err := a.Runner.Output(ctx, a.bin(), "list", "--installed", "--bare")
	if err != nil {
		return nil, err
	}
	return parseBare(out), nil
}

// Disabled lists installed packages that are disabled.
func (a Apm) Disabled(ctx context.Context) (map[string]bool, error) {
	out, err := a.Runner.Output(ctx, a.bin(), "list", "--installed", "--bare", "--disabled")
	if err != nil {
		return nil, err
	}
	return parseBare(out), nil
}

// Install runs apm install for names.
func (a Apm) Install(ctx context.Context, names ...string) error {
	_, err := a.Runner.Output(ctx, a.bin(), append([]string{"install"}, names...)...)
	return err
}

// Enable runs apm enable for names.
func (a Apm) Enable(ctx context.Context, names ...string) error {
	_, err := a.Runner.Output(ctx, a.bin(), append([]string{"enable"}, names...)...)
	return err
}

// parseBare reads "name@version" lines.
func parseBare(out []byte) map[string]bool {
	set := map[string]bool{}
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		name := line
		// scoped names start with @
		if i := strings.LastIndex(line, "@"); i > 0 {
			name = line[:i]
		}
		set[name] = true
	}
	return set
}

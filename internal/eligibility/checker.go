// Package eligibility decides whether the sass toolchain is usable for a
// project.
package eligibility

import (
	"context"
	"runtime"
	"strings"

	"github.com/philjestin/buildsass/internal/config"
	"github.com/philjestin/buildsass/internal/runner"
	"github.com/philjestin/buildsass/internal/tlogger"
)

// Probe selects how the binary is located.
type Probe string

const (
	// ProbeLookup resolves the binary with which, or where on Windows.
	ProbeLookup Probe = "lookup"
	// ProbeVersion runs the binary with --version.
	ProbeVersion Probe = "version"
)

// ParseProbe accepts "lookup", "version" or "" (lookup).
func ParseProbe(s string) (Probe, bool) {
	switch Probe(s) {
	case "", ProbeLookup:
		return ProbeLookup, true
	case ProbeVersion:
		return ProbeVersion, true
	default:
		return "", false
	}
}

// Checker runs the eligibility probes. The zero value is not usable; build
// one with NewChecker.
type Checker struct {
	runner         runner.Runner
	probe          Probe
	goos           string
	projectDir     string
	requireSources bool
}

// Option configures a Checker.
type Option func(*Checker)

// WithProbe selects the binary probe.
func WithProbe(p Probe) Option {
	return func(c *Checker) { c.probe = p }
}

// WithGOOS overrides the platform used to pick the lookup utility.
func WithGOOS(goos string) Option {
	return func(c *Checker) { c.goos = goos }
}

// WithRequiredSources additionally requires a .sass or .scss file under dir.
func WithRequiredSources(dir string) Option {
	return func(c *Checker) {
		c.projectDir = dir
		c.requireSources = true
	}
}

// NewChecker returns a Checker that spawns probes through r.
func NewChecker(r runner.Runner, opts ...Option) *Checker {
	c := &Checker{
		runner: r,
		probe:  ProbeLookup,
		goos:   runtime.GOOS,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LookupCommand returns the utility that resolves binaries on goos.
func LookupCommand(goos string) string {
	if goos == "windows" {
		return "where"
	}
	return "which"
}

// Eligible reports whether the provider should be offered. Probe failures
// of any kind yield false; they are logged, never returned.
func (c *Checker) Eligible(ctx context.Context, s config.Settings) bool {
	if s.AlwaysEligible {
		return true
	}

	bin := s.PathToSass
	if bin == "" {
		bin = config.DefaultPathToSass
	}

	var ok bool
	switch c.probe {
	case ProbeVersion:
		ok = c.version(ctx, bin, s.Debug)
	default:
		ok = c.lookup(ctx, bin, s.Debug)
	}
	if !ok {
		return false
	}

	if c.requireSources {
		found, err := HasSources(ctx, c.projectDir)
		if err != nil {
			report(s.Debug, "probe", "sources", "dir", c.projectDir, "err", err)
			return false
		}
		if !found {
			report(s.Debug, "probe", "sources", "dir", c.projectDir, "msg", "no sass or scss files")
		}
		return found
	}
	return true
}

func (c *Checker) lookup(ctx context.Context, bin string, debug bool) bool {
	util := LookupCommand(c.goos)
	out, err := c.runner.Output(ctx, util, bin)
	if err != nil {
		report(debug, "probe", string(ProbeLookup), "bin", bin, "util", util, "err", err)
		return false
	}
	if len(strings.TrimSpace(string(out))) == 0 {
		report(debug, "probe", string(ProbeLookup), "bin", bin, "util", util, "msg", "not found")
		return false
	}
	tlogger.Debug("probe", string(ProbeLookup), "bin", bin, "resolved", firstLine(out))
	return true
}

func (c *Checker) version(ctx context.Context, bin string, debug bool) bool {
	out, err := c.runner.Output(ctx, bin, "--version")
	if err != nil {
		report(debug, "probe", string(ProbeVersion), "bin", bin, "err", err)
		return false
	}
	if len(strings.TrimSpace(string(out))) == 0 {
		report(debug, "probe", string(ProbeVersion), "bin", bin, "msg", "no version output")
		return false
	}
	tlogger.Debug("probe", string(ProbeVersion), "bin", bin, "version", firstLine(out))
	return true
}

// report logs a failed probe; in debug mode it is visible at the default level.
func report(debug bool, keyvals ...interface{}) {
	if debug {
		tlogger.Info(keyvals...)
		return
	}
	tlogger.Debug(keyvals...)
}

func firstLine(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}

// Package deps installs and enables the companion editor packages the
// provider relies on.
package deps

import (
	"context"
	"errors"

	"go.trai.ch/zerr"

	"github.com/philjestin/buildsass/internal/config"
	"github.com/philjestin/buildsass/internal/tlogger"
)

// Companions are the editor packages declared as dependencies.
var Companions = []string{"build"}

var (
	// ErrListFailed is returned when the package manager cannot list packages.
	ErrListFailed = zerr.New("failed to list editor packages")

	// ErrInstallFailed is returned when installing companion packages fails.
	ErrInstallFailed = zerr.New("failed to install editor packages")

	// ErrEnableFailed is returned when enabling companion packages fails.
	ErrEnableFailed = zerr.New("failed to enable editor packages")
)

// PackageManager manages editor packages.
type PackageManager interface {
	Installed(ctx context.Context) (map[string]bool, error)
	Disabled(ctx context.Context) (map[string]bool, error)
	Install(ctx context.Context, names ...string) error
	Enable(ctx context.Context, names ...string) error
}

// Host reports on the editor the provider is activated in.
type Host interface {
	// InSpecMode is true while the editor runs its own test suite.
	InSpecMode() bool
}

// HostFunc adapts a func to Host.
type HostFunc func() bool

func (f HostFunc) InSpecMode() bool { return f() }

// Bootstrapper performs the one-shot activation step.
type Bootstrapper struct {
	pm       PackageManager
	host     Host
	packages []string
}

// NewBootstrapper returns a Bootstrapper for packages; nil means Companions.
func NewBootstrapper(pm PackageManager, host Host, packages []string) *Bootstrapper {
	if packages == nil {
		packages = Companions
	}
	return &Bootstrapper{pm: pm, host: host, packages: packages}
}

// Activate installs missing companions and enables disabled ones when
// manageDependencies is set and the host is not in spec mode. It reports
// whether the bootstrap ran. Errors are returned unhandled.
func (b *Bootstrapper) Activate(ctx context.Context, s config.Settings) (bool, error) {
	if !s.ManageDependencies {
		tlogger.Debug("msg", "dependency management disabled")
		return false, nil
	}
	if b.host != nil && b.host.InSpecMode() {
		tlogger.Debug("msg", "spec mode, skipping dependencies")
		return false, nil
	}
	return true, b.satisfy(ctx)
}

func (b *Bootstrapper) satisfy(ctx context.Context) error {
	installed, err := b.pm.Installed(ctx)
	if err != nil {
		return errors.Join(ErrListFailed, err)
	}

	var missing []string
	for _, name := range b.packages {
		if !installed[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		tlogger.Info("msg", "installing packages", "packages", missing)
		if err := b.pm.Install(ctx, missing...); err != nil {
			return errors.Join(ErrInstallFailed, zerr.With(err, "packages", missing))
		}
	}

	disabled, err := b.pm.Disabled(ctx)
	if err != nil {
		return errors.Join(ErrListFailed, err)
	}

	var toEnable []string
	for _, name := range b.packages {
		if disabled[name] {
			toEnable = append(toEnable, name)
		}
	}
	if len(toEnable) > 0 {
		tlogger.Info("msg", "enabling packages", "packages", toEnable)
		if err := b.pm.Enable(ctx, toEnable...); err != nil {
			return errors.Join(ErrEnableFailed, zerr.With(err, "packages", toEnable))
		}
	}
	return nil
}

// Package provider is the builder registered with the editor's build
// package: a nice name, an eligibility check, the task table and a refresh
// signal when the table changes.
package provider

import (
	"context"
	"slices"
	"sync"

	"github.com/philjestin/buildsass/internal/config"
	"github.com/philjestin/buildsass/internal/eligibility"
	"github.com/philjestin/buildsass/internal/runner"
	"github.com/philjestin/buildsass/internal/tasks"
)

// NiceName is the label the host shows for this provider.
const NiceName = "Sass"

// refreshKeys trigger a refresh unless WithRefreshOnAnyChange is set.
var refreshKeys = []string{
	config.KeyCustomSassArguments,
	config.KeyCustomScssArguments,
}

// Option configures providers built by a factory.
type Option func(*options)

type options struct {
	checkerOpts []eligibility.Option
	runner      runner.Runner
	refreshAll  bool
}

// WithRunner sets the runner used by the eligibility probes.
func WithRunner(r runner.Runner) Option {
	return func(o *options) { o.runner = r }
}

// WithCheckerOptions passes options to the eligibility checker.
func WithCheckerOptions(opts ...eligibility.Option) Option {
	return func(o *options) { o.checkerOpts = append(o.checkerOpts, opts...) }
}

// WithRefreshOnAnyChange emits refresh for every settings change, not only
// the custom argument strings.
func WithRefreshOnAnyChange() Option {
	return func(o *options) { o.refreshAll = true }
}

// ProvideBuilder returns the factory the host calls once per project root.
func ProvideBuilder(src config.Source, opts ...Option) func(cwd string) *SassProvider {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return func(cwd string) *SassProvider {
		r := o.runner
		if r == nil {
			r = runner.Exec{Dir: cwd}
		}
		return newSassProvider(cwd, src, eligibility.NewChecker(r, o.checkerOpts...), o.refreshAll)
	}
}

// SassProvider serves one project root.
type SassProvider struct {
	cwd     string
	src     config.Source
	checker *eligibility.Checker

	mu        sync.Mutex
	next      int
	listeners map[int]func()
	stop      func()
}

func newSassProvider(cwd string, src config.Source, checker *eligibility.Checker, refreshAll bool) *SassProvider {
	p := &SassProvider{
		cwd:       cwd,
		src:       src,
		checker:   checker,
		listeners: make(map[int]func()),
	}
	p.stop = src.OnChange(func(keys []string) {
		if refreshAll || slices.ContainsFunc(keys, func(k string) bool { return slices.Contains(refreshKeys, k) }) {
			p.emitRefresh()
		}
	})
	return p
}

// Cwd is the project root the provider was created for.
func (p *SassProvider) Cwd() string {
	return p.cwd
}

func (p *SassProvider) NiceName() string {
	return NiceName
}

// IsEligible probes the toolchain with the current settings. It blocks until
// the probe finishes or ctx is done.
func (p *SassProvider) IsEligible(ctx context.Context) bool {
	return p.checker.Eligible(ctx, p.src.Settings())
}

// Settings returns the task table for the current settings.
func (p *SassProvider) Settings() []tasks.Task {
	return tasks.Build(p.src.Settings())
}

// OnRefresh registers fn to run whenever the host should call Settings
// again. The returned func unregisters it.
func (p *SassProvider) OnRefresh(fn func()) (cancel func()) {
	p.mu.Lock()
	id := p.next
	p.next++
	p.listeners[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

func (p *SassProvider) emitRefresh() {
	p.mu.Lock()
	fns := make([]func(), 0, len(p.listeners))
	for i := 0; i < p.next; i++ {
		if fn, ok := p.listeners[i]; ok {
			fns = append(fns, fn)
		}
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Close stops observing the settings source.
func (p *SassProvider) Close() {
	p.stop()
}

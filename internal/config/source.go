package config

import "sync"

// Source serves the current settings and reports changes to them.
type Source interface {
	Settings() Settings

	// OnChange registers fn to be called with the keys that changed. The
	// returned func removes the registration.
	OnChange(fn func(keys []string)) (cancel func())
}

// subscribers fans change notifications out to registered callbacks.
type subscribers struct {
	mu   sync.Mutex
	next int
	fns  map[int]func([]string)
}

func (s *subscribers) add(fn func([]string)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fns == nil {
		s.fns = make(map[int]func([]string))
	}
	id := s.next
	s.next++
	s.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.fns, id)
			s.mu.Unlock()
		})
	}
}

func (s *subscribers) notify(keys []string) {
	if len(keys) == 0 {
		return
	}
	s.mu.Lock()
	fns := make([]func([]string), 0, len(s.fns))
	// registration order
	for i := 0; i < s.next; i++ {
		if fn, ok := s.fns[i]; ok {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(keys)
	}
}

// Static is an in-memory Source.
type Static struct {
	mu       sync.RWMutex
	settings Settings
	subs     subscribers
}

// NewStatic returns a Static source holding s.
func NewStatic(s Settings) *Static {
	return &Static{settings: s}
}

// Settings returns the held settings.
func (s *Static) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Set replaces the settings and notifies subscribers of the keys that changed.
func (s *Static) Set(next Settings) {
	s.mu.Lock()
	keys := Changed(s.settings, next)
	s.settings = next
	s.mu.Unlock()
	s.subs.notify(keys)
}

// OnChange registers fn for the keys each Set changes.
func (s *Static) OnChange(fn func(keys []string)) func() {
	return s.subs.add(fn)
}

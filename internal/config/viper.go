package config

import (
	"errors"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.trai.ch/zerr"
)

// ConfigName is the file name viper searches for, without extension.
const ConfigName = Namespace + ".config"

// ViperSource reads settings from a viper instance: flags > env > config
// file > schema defaults. Viper is read only by Load, Refresh and the file
// watcher; Settings serves the snapshot they leave behind.
type ViperSource struct {
	v *viper.Viper

	// vmu serializes reads of v outside the watcher goroutine.
	vmu sync.Mutex

	mu   sync.RWMutex
	last Settings
	file string
	subs subscribers
}

// NewViperSource wraps v and registers the schema defaults on it.
// Environment variables BUILD_SASS_<KEY> override file values.
func NewViperSource(v *viper.Viper) *ViperSource {
	for _, f := range Schema() {
		v.SetDefault(Key(f.Key), f.Default)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	s := &ViperSource{v: v}
	s.last = s.read()
	return s
}

// Key returns the fully qualified viper key for a setting.
func Key(k string) string {
	return Namespace + "." + k
}

// Load reads cfgFile, or ConfigName.{json,yaml,toml} from dir when cfgFile is
// empty. A missing file in dir is not an error. Load also picks up flags
// bound to v since the source was created.
func (s *ViperSource) Load(cfgFile, dir string) error {
	if cfgFile != "" {
		s.v.SetConfigFile(cfgFile)
	} else {
		if dir == "" {
			dir = "."
		}
		s.v.AddConfigPath(dir)
		s.v.SetConfigName(ConfigName)
	}

	s.vmu.Lock()
	err := s.v.ReadInConfig()
	file := s.v.ConfigFileUsed()
	s.vmu.Unlock()

	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			var parseErr viper.ConfigParseError
			if errors.As(err, &parseErr) {
				return errors.Join(ErrConfigParseFailed, zerr.With(zerr.Wrap(err, ErrConfigParseFailed.Error()), "file", file))
			}
			return errors.Join(ErrConfigReadFailed, zerr.With(zerr.Wrap(err, ErrConfigReadFailed.Error()), "file", file))
		}
		file = ""
	}

	next := s.read()
	s.mu.Lock()
	s.last = next
	s.file = file
	s.mu.Unlock()
	return nil
}

// File returns the config file in use, if any.
func (s *ViperSource) File() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.file
}

// Settings returns the snapshot taken by the last Load or Refresh.
func (s *ViperSource) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// OnChange registers fn for the keys each Refresh finds changed.
func (s *ViperSource) OnChange(fn func(keys []string)) func() {
	return s.subs.add(fn)
}

// Watch starts watching the config file. Viper re-reads the file on its own
// goroutine and then calls Refresh there, so subscribers receive the keys
// that changed. Call Watch once, after Load.
func (s *ViperSource) Watch() {
	s.v.OnConfigChange(func(fsnotify.Event) {
		s.Refresh()
	})
	s.v.WatchConfig()
}

// Refresh re-reads viper, compares the result with the last snapshot and
// notifies subscribers of any difference. Once Watch is running only the
// watcher calls it.
func (s *ViperSource) Refresh() {
	next := s.read()
	s.mu.Lock()
	keys := Changed(s.last, next)
	s.last = next
	s.mu.Unlock()
	s.subs.notify(keys)
}

func (s *ViperSource) read() Settings {
	s.vmu.Lock()
	defer s.vmu.Unlock()
	return Settings{
		PathToSass:          s.v.GetString(Key(KeyPathToSass)),
		CustomSassArguments: s.v.GetString(Key(KeyCustomSassArguments)),
		CustomScssArguments: s.v.GetString(Key(KeyCustomScssArguments)),
		ManageDependencies:  s.v.GetBool(Key(KeyManageDependencies)),
		AlwaysEligible:      s.v.GetBool(Key(KeyAlwaysEligible)),
		Debug:               s.v.GetBool(Key(KeyDebug)),
	}
}

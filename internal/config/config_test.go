package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philjestin/buildsass/internal/config"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestViperSource_Defaults(t *testing.T) {
	src := config.NewViperSource(viper.New())
	assert.Equal(t, config.Defaults(), src.Settings())
}

func TestViperSource_LoadFromDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, config.ConfigName+".yaml"), `
build-sass:
  pathToSass: /opt/bin/sass
  customSassArguments: "--style expanded {FILE_ACTIVE} out.css"
  alwaysEligible: true
  manageDependencies: false
`)

	src := config.NewViperSource(viper.New())
	require.NoError(t, src.Load("", dir))

	got := src.Settings()
	assert.Equal(t, "/opt/bin/sass", got.PathToSass)
	assert.Equal(t, "--style expanded {FILE_ACTIVE} out.css", got.CustomSassArguments)
	assert.Equal(t, config.Defaults().CustomScssArguments, got.CustomScssArguments)
	assert.True(t, got.AlwaysEligible)
	assert.False(t, got.ManageDependencies)
	assert.Equal(t, config.ConfigName+".yaml", filepath.Base(src.File()))
}

func TestViperSource_MissingFileInDirIsNotAnError(t *testing.T) {
	src := config.NewViperSource(viper.New())
	require.NoError(t, src.Load("", t.TempDir()))
	assert.Equal(t, config.Defaults(), src.Settings())
}

func TestViperSource_ExplicitMissingFile(t *testing.T) {
	src := config.NewViperSource(viper.New())
	err := src.Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrConfigReadFailed))
}

func TestViperSource_MalformedFile(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "bad.json"), `{"build-sass": {`)

	src := config.NewViperSource(viper.New())
	err := src.Load(path, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrConfigParseFailed) || errors.Is(err, config.ErrConfigReadFailed))
}

func TestViperSource_EnvOverride(t *testing.T) {
	t.Setenv("BUILD_SASS_PATHTOSASS", "/env/sass")
	t.Setenv("BUILD_SASS_ALWAYSELIGIBLE", "true")

	src := config.NewViperSource(viper.New())
	got := src.Settings()
	assert.Equal(t, "/env/sass", got.PathToSass)
	assert.True(t, got.AlwaysEligible)
}

func TestViperSource_RefreshReportsChangedKeys(t *testing.T) {
	v := viper.New()
	src := config.NewViperSource(v)

	var got [][]string
	cancel := src.OnChange(func(keys []string) { got = append(got, keys) })
	defer cancel()

	src.Refresh()
	assert.Empty(t, got, "no change, no notification")

	v.Set(config.Key(config.KeyCustomSassArguments), "--watch a:b")
	src.Refresh()
	require.Len(t, got, 1)
	assert.Equal(t, []string{config.KeyCustomSassArguments}, got[0])
}

func TestViperSource_LoadRefreshesSnapshot(t *testing.T) {
	v := viper.New()
	src := config.NewViperSource(v)

	v.Set(config.Key(config.KeyPathToSass), "/flag/sass")
	assert.Equal(t, config.DefaultPathToSass, src.Settings().PathToSass)

	require.NoError(t, src.Load("", t.TempDir()))
	assert.Equal(t, "/flag/sass", src.Settings().PathToSass)
	assert.Empty(t, src.File())
}

func TestViperSource_WatchReportsFileChanges(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, config.ConfigName+".yaml"), `
build-sass:
  customSassArguments: "{FILE_ACTIVE} a.css"
`)

	src := config.NewViperSource(viper.New())
	require.NoError(t, src.Load("", dir))
	require.Equal(t, "{FILE_ACTIVE} a.css", src.Settings().CustomSassArguments)

	var mu sync.Mutex
	var got [][]string
	cancel := src.OnChange(func(keys []string) {
		mu.Lock()
		got = append(got, keys)
		mu.Unlock()
	})
	defer cancel()

	src.Watch()

	// readers run while the watcher reloads the file
	done := make(chan struct{})
	var readers sync.WaitGroup
	for range 4 {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for {
				select {
				case <-done:
					return
				default:
					_ = src.Settings()
				}
			}
		}()
	}

	const want = "--style expanded {FILE_ACTIVE} b.css"
	for i := range 20 {
		args := "{FILE_ACTIVE} a.css"
		if i == 19 {
			args = want
		}
		writeFile(t, path, "build-sass:\n  customSassArguments: \""+args+"\"\n")
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return src.Settings().CustomSassArguments == want
	}, 5*time.Second, 20*time.Millisecond)

	close(done)
	readers.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, got)
	for _, keys := range got {
		assert.True(t, slices.Contains(keys, config.KeyCustomSassArguments), "keys %v", keys)
	}
}

func TestStatic_SetNotifiesUntilCancelled(t *testing.T) {
	src := config.NewStatic(config.Defaults())

	calls := 0
	cancel := src.OnChange(func(keys []string) {
		calls++
		assert.Equal(t, []string{config.KeyPathToSass, config.KeyDebug}, keys)
	})

	next := config.Defaults()
	next.PathToSass = "/usr/local/bin/sass"
	next.Debug = true
	src.Set(next)
	assert.Equal(t, 1, calls)
	assert.Equal(t, next, src.Settings())

	cancel()
	cancel()
	next.PathToSass = "sass"
	src.Set(next)
	assert.Equal(t, 1, calls)
}

func TestChanged(t *testing.T) {
	a := config.Defaults()
	assert.Empty(t, config.Changed(a, a))

	b := a
	b.CustomScssArguments = ""
	b.AlwaysEligible = true
	assert.Equal(t, []string{config.KeyCustomScssArguments, config.KeyAlwaysEligible}, config.Changed(a, b))
}

func TestSchema_OrderedAndMatchesDefaults(t *testing.T) {
	fields := config.Schema()
	require.Len(t, fields, 6)

	d := config.Defaults()
	want := map[string]any{
		config.KeyPathToSass:          d.PathToSass,
		config.KeyCustomSassArguments: d.CustomSassArguments,
		config.KeyCustomScssArguments: d.CustomScssArguments,
		config.KeyManageDependencies:  d.ManageDependencies,
		config.KeyAlwaysEligible:      d.AlwaysEligible,
		config.KeyDebug:               d.Debug,
	}
	for i, f := range fields {
		assert.Equal(t, i, f.Order)
		assert.Equal(t, want[f.Key], f.Default, f.Key)
	}
	assert.Equal(t, "sass", fields[0].Default)
}

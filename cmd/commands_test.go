package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/philjestin/buildsass/internal/config"
	"github.com/philjestin/buildsass/internal/tasks"
)

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	err := rootCmd.Execute()
	return out.String(), err
}

func projectWithConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigName+".yaml"), []byte(content), 0o600))
	return dir
}

func TestTasksCommand_JSON(t *testing.T) {
	dir := projectWithConfig(t, `
build-sass:
  pathToSass: /opt/bin/sass
  customSassArguments: "--style compressed {FILE_ACTIVE} {FILE_ACTIVE_NAME_BASE}.min.css"
`)

	out, err := run(t, "tasks", "--cwd", dir)
	require.NoError(t, err)

	var table []tasks.Task
	require.NoError(t, json.Unmarshal([]byte(out), &table))
	require.Len(t, table, 18)
	for _, task := range table {
		assert.Equal(t, "/opt/bin/sass", task.Exec)
	}
	user, ok := tasks.Find(table, "Sass (user)")
	require.True(t, ok)
	assert.Equal(t, []string{"--style", "compressed", "{FILE_ACTIVE}", "{FILE_ACTIVE_NAME_BASE}.min.css"}, user.Args)
}

func TestTasksCommand_SingleTaskYAML(t *testing.T) {
	out, err := run(t, "tasks", "--cwd", t.TempDir(), "--sass", "/usr/bin/sass", "--format", "yaml", "--name", "SCSS:watch-and-compile")
	require.NoError(t, err)

	var task tasks.Task
	require.NoError(t, yaml.Unmarshal([]byte(out), &task))
	assert.Equal(t, "Watch SCSS", task.Name)
	assert.Equal(t, "/usr/bin/sass", task.Exec)
	assert.Equal(t, []string{"--scss", "--watch", "{FILE_ACTIVE}:{FILE_ACTIVE_NAME_BASE}.css"}, task.Args)
}

func TestTasksCommand_UnknownTask(t *testing.T) {
	_, err := run(t, "tasks", "--cwd", t.TempDir(), "--name", "Less")
	require.ErrorContains(t, err, errTaskNotFound.Error())
}

func TestTasksCommand_UnknownFormat(t *testing.T) {
	_, err := run(t, "tasks", "--cwd", t.TempDir(), "--format", "xml")
	assert.Error(t, err)
}

func TestSchemaCommand(t *testing.T) {
	out, err := run(t, "schema", "--cwd", t.TempDir(), "--format", "yaml")
	require.NoError(t, err)

	var fields []config.Field
	require.NoError(t, yaml.Unmarshal([]byte(out), &fields))
	require.Len(t, fields, len(config.Schema()))
	assert.Equal(t, "pathToSass", fields[0].Key)
	assert.Equal(t, "sass", fields[0].Default)
}

func TestEligibleCommand(t *testing.T) {
	out, err := run(t, "eligible", "--cwd", t.TempDir(), "--sass", "buildsass-test-no-such-binary-7f3a")
	assert.True(t, errors.Is(err, errNotEligible))
	assert.Equal(t, "false\n", out)

	out, err = run(t, "eligible", "--cwd", t.TempDir(), "--sass", "buildsass-test-no-such-binary-7f3a", "--always-eligible")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

func TestEligibleCommand_AlwaysEligibleFromConfig(t *testing.T) {
	dir := projectWithConfig(t, `
build-sass:
  pathToSass: buildsass-test-no-such-binary-7f3a
  alwaysEligible: true
`)
	out, err := run(t, "eligible", "--cwd", dir, "--probe", "version")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

func TestEligibleCommand_BadProbe(t *testing.T) {
	_, err := run(t, "eligible", "--cwd", t.TempDir(), "--probe", "guess")
	require.Error(t, err)
	assert.False(t, errors.Is(err, errNotEligible))
}

func TestActivateCommand_Skipped(t *testing.T) {
	dir := projectWithConfig(t, `
build-sass:
  manageDependencies: false
`)
	_, err := run(t, "activate", "--cwd", dir, "--apm", "buildsass-test-no-such-apm")
	require.NoError(t, err)

	_, err = run(t, "activate", "--cwd", t.TempDir(), "--apm", "buildsass-test-no-such-apm", "--spec-mode")
	require.NoError(t, err)
}

func TestActivateCommand_FailurePropagates(t *testing.T) {
	_, err := run(t, "activate", "--cwd", t.TempDir(), "--apm", "buildsass-test-no-such-apm")
	assert.Error(t, err)
}

func TestRoot_BadConfigFile(t *testing.T) {
	_, err := run(t, "tasks", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrConfigReadFailed))
}

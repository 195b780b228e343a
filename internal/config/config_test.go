package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist/internal/view"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", DefaultConfigFileName)

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, filepath.Join(dir, "sub", DefaultDBName), cfg.DBPath)
	assert.Equal(t, filepath.Join(dir, "sub", DefaultLogName), cfg.LogPath)
	assert.Equal(t, "a", cfg.Keys.Add)
	assert.Equal(t, view.FilterAll, cfg.Filter())
	assert.Equal(t, view.SortNewest, cfg.Sort())

	again, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadOrCreateReadsOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	data := `db_path = "/var/tmp/tasks.db"
default_filter = "pending"
default_sort = "oldest"
log_level = "debug"

[keys]
add = "n"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/tmp/tasks.db", cfg.DBPath)
	assert.Equal(t, view.FilterPending, cfg.Filter())
	assert.Equal(t, view.SortOldest, cfg.Sort())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "n", cfg.Keys.Add)
	assert.Equal(t, "q", cfg.Keys.Quit, "unset keys keep defaults")
}

func TestUnknownSelectionsFallBack(t *testing.T) {
	cfg := Config{DefaultFilter: "someday", DefaultSort: "alpha"}
	assert.Equal(t, view.FilterAll, cfg.Filter())
	assert.Equal(t, view.SortNewest, cfg.Sort())
}

func TestLoadOrCreateBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("db_path = ["), 0o644))
	_, err := LoadOrCreate(path)
	assert.Error(t, err)
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv("TODO_CONFIG", "/etc/todo.toml")
	assert.Equal(t, "/etc/todo.toml", ResolveConfigPath())

	t.Setenv("TODO_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "tasklist", DefaultConfigFileName), ResolveConfigPath())
}

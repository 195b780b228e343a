package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"tasklist/internal/view"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "todo.db"
	DefaultLogName        = "todo.log"
	appDir                = "tasklist"
)

type Keymap struct {
	Quit    string `toml:"quit"`
	Add     string `toml:"add"`
	Up      string `toml:"up"`
	Down    string `toml:"down"`
	Toggle  string `toml:"toggle"`
	Delete  string `toml:"delete"`
	Edit    string `toml:"edit"`
	Confirm string `toml:"confirm"`
	Cancel  string `toml:"cancel"`
	Filter  string `toml:"filter"`
	Sort    string `toml:"sort"`
}

type Config struct {
	DBPath        string `toml:"db_path"`
	LogPath       string `toml:"log_path"`
	LogLevel      string `toml:"log_level"`
	DefaultFilter string `toml:"default_filter"`
	DefaultSort   string `toml:"default_sort"`
	Keys          Keymap `toml:"keys"`
}

// ResolveConfigPath picks $TODO_CONFIG, then the XDG config dir, then
// ~/.config, falling back to the working directory.
func ResolveConfigPath() string {
	if p := os.Getenv("TODO_CONFIG"); p != "" {
		return p
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appDir, DefaultConfigFileName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", appDir, DefaultConfigFileName)
	}
	return DefaultConfigFileName
}

// LoadOrCreate reads path, writing defaults there first if it does not exist.
// Relative db and log paths are resolved against the config file's directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, fmt.Errorf("write default config: %w", err)
		}
		return cfg.resolve(filepath.Dir(path)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg.resolve(filepath.Dir(path)), nil
}

// Filter returns the configured default filter, or all when it is unknown.
func (c Config) Filter() view.Filter {
	f, err := view.ParseFilter(c.DefaultFilter)
	if err != nil {
		return view.FilterAll
	}
	return f
}

func (c Config) Sort() view.Sort {
	s, err := view.ParseSort(c.DefaultSort)
	if err != nil {
		return view.SortNewest
	}
	return s
}

func (c Config) resolve(dir string) Config {
	if c.DBPath == "" {
		c.DBPath = DefaultDBName
	}
	if c.LogPath == "" {
		c.LogPath = DefaultLogName
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if !filepath.IsAbs(c.DBPath) {
		c.DBPath = filepath.Join(dir, c.DBPath)
	}
	if !filepath.IsAbs(c.LogPath) {
		c.LogPath = filepath.Join(dir, c.LogPath)
	}
	c.Keys = c.Keys.withDefaults(defaultConfig().Keys)
	return c
}

func (k Keymap) withDefaults(d Keymap) Keymap {
	pick := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	return Keymap{
		Quit:    pick(k.Quit, d.Quit),
		Add:     pick(k.Add, d.Add),
		Up:      pick(k.Up, d.Up),
		Down:    pick(k.Down, d.Down),
		Toggle:  pick(k.Toggle, d.Toggle),
		Delete:  pick(k.Delete, d.Delete),
		Edit:    pick(k.Edit, d.Edit),
		Confirm: pick(k.Confirm, d.Confirm),
		Cancel:  pick(k.Cancel, d.Cancel),
		Filter:  pick(k.Filter, d.Filter),
		Sort:    pick(k.Sort, d.Sort),
	}
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Default returns the built-in configuration with paths under dir.
func Default(dir string) Config {
	return defaultConfig().resolve(dir)
}

func defaultConfig() Config {
	return Config{
		DBPath:        DefaultDBName,
		LogPath:       DefaultLogName,
		LogLevel:      "info",
		DefaultFilter: string(view.FilterAll),
		DefaultSort:   string(view.SortNewest),
		Keys: Keymap{
			Quit:    "q",
			Add:     "a",
			Up:      "k",
			Down:    "j",
			Toggle:  " ",
			Delete:  "d",
			Edit:    "e",
			Confirm: "enter",
			Cancel:  "esc",
			Filter:  "f",
			Sort:    "s",
		},
	}
}

package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"tasklist/internal/config"
	"tasklist/internal/logging"
	"tasklist/internal/storage"
	"tasklist/internal/task"
)

type globalFlags struct {
	configPath string
	dbPath     string
	logLevel   string
}

// app is everything a command needs, opened in dependency order and closed
// in reverse.
type app struct {
	cfg     config.Config
	logger  *log.Logger
	db      *storage.Store
	tasks   *task.Store
	closers []io.Closer
}

func openApp(g globalFlags) (*app, error) {
	path := g.configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if g.dbPath != "" {
		cfg.DBPath = g.dbPath
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}

	a := &app{cfg: cfg}
	logger, logFile, err := logging.OpenFile(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	a.logger = logger
	a.closers = append(a.closers, logFile)

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.db = db
	a.closers = append(a.closers, db)

	a.tasks = task.Open(storage.NewPersistence(db, logger.WithPrefix("storage")), task.WithLogger(logger))
	return a, nil
}

func (a *app) Close() {
	if a.tasks != nil {
		a.tasks.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && a.logger != nil {
			a.logger.Warn("close", "err", err)
		}
	}
	a.closers = nil
}

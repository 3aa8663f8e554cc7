package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/DaniarKamaev/Tasks/internal/config"
	"github.com/DaniarKamaev/Tasks/internal/core"
	"github.com/DaniarKamaev/Tasks/internal/logging"
	"github.com/DaniarKamaev/Tasks/internal/remote"
	"github.com/DaniarKamaev/Tasks/internal/storage"
)

// configPath is the --config flag: an explicit config file that
// replaces the global/project merge.
var configPath string

// loadConfig resolves the effective configuration for a command.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load()
}

// app bundles the wired components a command needs: merged config,
// logger, the SQLite store, and the task service on top of it.
type app struct {
	cfg   *config.Config
	log   *logrus.Logger
	store *storage.TaskStore
	svc   *core.TaskService
}

// newApp loads configuration and wires the service stack. Service
// error notifications go to stderr so background failures (seed,
// persistence) are visible without failing the command.
func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logging.New("tasks-cli")
	if lvl, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(lvl)
	}

	store, err := storage.NewTaskStore(cfg.Database.Path, log)
	if err != nil {
		return nil, fmt.Errorf("open task store: %w", err)
	}

	var seed core.SeedSource
	if cfg.Seed.Enabled {
		seed = remote.NewClient(cfg.Seed.URL)
	}

	svc := core.NewTaskService(core.TaskServiceDeps{
		Store: store,
		Seed:  seed,
		Log:   log,
	})
	svc.OnError(func(message string) {
		fmt.Fprintln(os.Stderr, "warning:", message)
	})

	return &app{cfg: cfg, log: log, store: store, svc: svc}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.WithError(err).Warn("failed to close task store")
	}
}

// printTasks renders the filtered set as a numbered list. The printed
// position is what done/rm take as their argument.
func (a *app) printTasks() {
	n := a.svc.NumberOfTodos()
	if n == 0 {
		fmt.Println("No tasks.")
		return
	}
	for i := 0; i < n; i++ {
		task, err := a.svc.Todo(i)
		if err != nil {
			continue
		}
		mark := " "
		if task.IsCompleted {
			mark = "x"
		}
		fmt.Printf("%3d. [%s] #%-4d %s\n", i+1, mark, task.ID, task.Title)
		if task.Description != "" && task.Description != core.DefaultDescription {
			fmt.Printf("              %s\n", task.Description)
		}
	}
}

// resolveIndex converts a 1-based list position (as printed by ls)
// into the 0-based index the service expects.
func (a *app) resolveIndex(position int) (int, error) {
	if position < 1 || position > a.svc.NumberOfTodos() {
		return 0, fmt.Errorf("no task at position %d (run 'tasks ls' to see positions)", position)
	}
	return position - 1, nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"kanban-todo/internal/api"
	"kanban-todo/internal/cli"
	"kanban-todo/internal/config"
	"kanban-todo/internal/logging"
	"kanban-todo/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(config.NewLoader(), newApp)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// newApp wires the local store, the server client and the services once
// configuration is final.
func newApp(cfg *config.Config) (*cli.App, func(), error) {
	// Create repository factory based on environment
	factory := config.NewRepositoryFactory(config.GetEnvironment(), cfg)
	repo, err := factory.CreateRepository()
	if err != nil {
		return nil, nil, fmt.Errorf("error creating repository: %w", err)
	}
	logging.Debugf("opened %s store", factory.Environment())

	sessions := services.NewSessionStore(repo)
	// the command context carries the application timeout
	client := api.New(cfg.API.BaseURL, sessions)

	container := services.NewServiceContainer(cfg, repo, client, sessions)
	return cli.NewApp(container, cfg), func() { repo.Close() }, nil
}

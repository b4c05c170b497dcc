package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/madstone-tech/ducksearch/internal/adapters/cache"
	"github.com/madstone-tech/ducksearch/internal/adapters/compiler"
	"github.com/madstone-tech/ducksearch/internal/adapters/config"
	"github.com/madstone-tech/ducksearch/internal/adapters/duckdbrt"
	"github.com/madstone-tech/ducksearch/internal/adapters/filesystem"
	"github.com/madstone-tech/ducksearch/internal/adapters/logging"
	"github.com/madstone-tech/ducksearch/internal/adapters/reportparser"
	"github.com/madstone-tech/ducksearch/internal/adapters/rootlayout"
	"github.com/madstone-tech/ducksearch/internal/api"
	"github.com/madstone-tech/ducksearch/internal/core/usecases"
)

// ServeCommand runs the HTTP API server against a report root.
type ServeCommand struct {
	root    string
	host    string
	port    int
	workers int
	dev     bool
}

// NewServeCommand creates a new serve command.
func NewServeCommand(root string) *ServeCommand {
	return &ServeCommand{
		root:    root,
		host:    "localhost",
		port:    8080,
		workers: 1,
	}
}

// WithHost sets the server host.
func (c *ServeCommand) WithHost(host string) *ServeCommand {
	c.host = host
	return c
}

// WithPort sets the server port.
func (c *ServeCommand) WithPort(port int) *ServeCommand {
	c.port = port
	return c
}

// WithDev enables the file watcher for report-change notifications.
func (c *ServeCommand) WithDev(dev bool) *ServeCommand {
	c.dev = dev
	return c
}

// WithWorkers caps the number of concurrent embedded-engine connections.
func (c *ServeCommand) WithWorkers(workers int) *ServeCommand {
	c.workers = workers
	return c
}

// Execute wires C1-C5 behind the API server and runs it until a signal
// or the server itself fails.
func (c *ServeCommand) Execute(ctx context.Context) error {
	logger := logging.GetLogger()

	runtimeConfig, err := config.NewLoader().LoadConfig(ctx, c.root)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	host, port, workers := c.host, c.port, c.workers
	if host == "localhost" && runtimeConfig.Server.Host != "" {
		host = runtimeConfig.Server.Host
	}
	if port == 8080 && runtimeConfig.Server.Port != 0 {
		port = runtimeConfig.Server.Port
	}
	if workers == 1 && runtimeConfig.Server.Workers != 0 {
		workers = runtimeConfig.Server.Workers
	}
	defaultTTL := time.Duration(runtimeConfig.Cache.TTLSeconds) * time.Second

	validator := rootlayout.New()
	parser := reportparser.New()
	comp := compiler.New()
	coordinator := cache.New()
	executor := duckdbrt.New(parser, comp, coordinator, logger).
		WithMaxOpenConns(workers).
		WithDefaultTTL(defaultTTL)
	useCase := usecases.NewExecuteReport(validator, executor, logger)

	serverConfig := api.DefaultConfig()
	serverConfig.Host = host
	serverConfig.Port = port
	serverConfig.Root = c.root

	server := api.NewServer(serverConfig, useCase)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if c.dev {
		watcher, err := filesystem.NewFileWatcher()
		if err != nil {
			return fmt.Errorf("failed to start file watcher: %w", err)
		}
		events, err := watcher.Watch(runCtx, c.root)
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", c.root, err)
		}
		go func() {
			defer watcher.Stop()
			for {
				select {
				case <-runCtx.Done():
					return
				case ev, ok := <-events:
					if !ok {
						return
					}
					logger.Info("report change detected", "path", ev.Path, "op", ev.Op)
				}
			}
		}()
	}

	errChan := make(chan error, 1)
	go func() {
		fmt.Printf("ducksearch serving %s on http://%s:%d\n", c.root, host, port)
		fmt.Println("press Ctrl+C to stop")
		errChan <- server.Start(runCtx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-sigChan:
		fmt.Printf("\nreceived signal: %v, shutting down\n", sig)
		cancel()
		if err := <-errChan; err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	}
}

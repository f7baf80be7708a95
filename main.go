package main

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/mahirjain10/pixelmancer/config"
	"github.com/mahirjain10/pixelmancer/internal/aws"
	"github.com/mahirjain10/pixelmancer/internal/optimize"
	"github.com/mahirjain10/pixelmancer/internal/processor"
	"github.com/mahirjain10/pixelmancer/internal/queue"
	"github.com/mahirjain10/pixelmancer/internal/watcher"
)

type App struct {
	config          *config.Config
	runID           string
	processor       *processor.Processor
	rabbitMqService *queue.RabbitMqService
}

// NewApp creates and initializes a new App instance with all dependencies
func NewApp(ctx context.Context, cfg *config.Config, out io.Writer) (*App, error) {
	cfg, err := config.InitializeEnvs(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize environment config: %w", err)
	}

	app := &App{config: cfg, runID: uuid.NewString()}
	deps := processor.Dependencies{Out: out}

	if cfg.Optimize {
		pngquant, err := optimize.NewPngquant()
		if err != nil {
			return nil, err
		}
		deps.Optimizer = pngquant
	}

	if cfg.Upload {
		awsConfig, err := config.InitializeAws(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize AWS config: %w", err)
		}
		deps.Uploader = aws.NewS3Service(aws.NewS3Client(awsConfig), cfg.AwsBucket)
	}

	if cfg.Notify {
		conn, err := queue.NewRabbitMQClient(cfg.RabbitMqURL)
		if err != nil {
			return nil, err
		}
		rabbitMqService, err := queue.NewRabbitMqService(conn, cfg.Exchange, cfg.RoutingKey)
		if err != nil {
			conn.Close()
			return nil, err
		}
		app.rabbitMqService = rabbitMqService
		deps.Notifier = rabbitMqService
	}

	app.processor = processor.NewProcessor(cfg, app.runID, deps)
	return app, nil
}

// Run does the batch pass and then, with --watch, keeps processing new files
// until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	log.Printf("run %s started", a.runID)
	if err := a.processor.Run(ctx); err != nil {
		return err
	}
	if !a.config.Watch {
		return nil
	}

	w, err := watcher.NewWatcher(ctx, a.config.InputDir, a.config.OutputDir, a.processor)
	if err != nil {
		return err
	}
	defer w.Close()
	return w.Run(ctx)
}

// Close gracefully shuts down the application
func (a *App) Close() {
	if a.rabbitMqService != nil {
		a.rabbitMqService.Close()
	}
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vanshika/socialgraph/internal/config"
	"github.com/vanshika/socialgraph/internal/generator"
	"github.com/vanshika/socialgraph/internal/graph"
	"github.com/vanshika/socialgraph/internal/logging"
	"github.com/vanshika/socialgraph/internal/repository"
	"github.com/vanshika/socialgraph/internal/service"
	"github.com/vanshika/socialgraph/internal/socialgraph"
)

var errEmptyDataset = errors.New("dataset has no users")

func main() {
	var (
		datasetDir = flag.String("dataset-dir", "./data", "Directory containing users.json and connections.json")
		workers    = flag.Int("workers", 4, "Number of concurrent workers for ingestion")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "ingest")

	dataset, err := generator.ReadDataset(*datasetDir)
	if err != nil {
		logger.Error("failed to load dataset", "error", err, "dir", *datasetDir)
		os.Exit(1)
	}
	if len(dataset.Users) == 0 {
		logger.Error("dataset resolution failed", "error", errEmptyDataset, "dir", *datasetDir)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	graphClient, err := buildGraphClient(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := graphClient.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	engine := socialgraph.New(socialgraph.WithLogger(logger))
	svc := service.NewGraphService(engine, repository.New(graphClient), logger)
	ingestor := service.NewBulkIngestor(svc, *workers)

	start := time.Now()
	logger.Info("ingesting users", "count", len(dataset.Users), "workers", *workers)
	if err := ingestor.IngestUsers(ctx, dataset.Users); err != nil {
		logger.Error("user ingestion failed", "error", err)
		os.Exit(1)
	}

	logger.Info("ingesting connections", "count", len(dataset.Connections))
	if err := ingestor.IngestConnections(ctx, dataset.Connections); err != nil {
		logger.Error("connection ingestion failed", "error", err)
		os.Exit(1)
	}

	stats := svc.Stats()
	logger.Info("ingestion complete",
		"duration", time.Since(start).String(),
		"users", stats.Users,
		"edges", stats.Edges,
		"connections", stats.Connections,
	)
}

func buildGraphClient(ctx context.Context, logger *slog.Logger, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		return nil, fmt.Errorf("GRAPH_URI is required for ingestion: %w", graph.ErrMissingURI)
	}
	opts := graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
		QueryTimeout:   cfg.Graph.QueryTimeout,
	}
	client, err := graph.NewNeo4jClient(ctx, opts)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
	return client, nil
}

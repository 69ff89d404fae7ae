package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/vanshika/socialgraph/internal/config"
	"github.com/vanshika/socialgraph/internal/generator"
	"github.com/vanshika/socialgraph/internal/graph"
	"github.com/vanshika/socialgraph/internal/logging"
	"github.com/vanshika/socialgraph/internal/repository"
	"github.com/vanshika/socialgraph/internal/server"
	"github.com/vanshika/socialgraph/internal/service"
	"github.com/vanshika/socialgraph/internal/socialgraph"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, cfg); err != nil {
		logger.Error("server stopped unexpectedly", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg config.Config) error {
	graphClient, err := buildGraphClient(ctx, logger, cfg)
	if err != nil {
		return fmt.Errorf("create graph client: %w", err)
	}

	var store service.SnapshotStore
	if graphClient != nil {
		defer func() {
			if err := graphClient.Close(context.Background()); err != nil {
				logger.Warn("closing graph client failed", "error", err)
			}
		}()
		store = repository.New(graphClient)
	}

	svc := service.NewGraphService(buildEngine(logger, cfg.Engine), store, logger)
	svc.WithRecommendationLimit(cfg.Engine.RecommendationLimit)

	if store != nil {
		stats, err := svc.Reload(ctx)
		if err != nil {
			return err
		}
		logger.Info("graph snapshot loaded from database", "users", stats.Users, "edges", stats.Edges)
	}
	if cfg.Engine.SeedDir != "" {
		if err := seed(ctx, logger, svc, cfg.Engine.SeedDir); err != nil {
			return err
		}
	}

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           server.GraphHealthService{Client: graphClient, Graph: svc},
		API:              server.NewAPIHandlers(logger, svc),
		MetricsEnabled:   cfg.HTTP.MetricsEnabled,
		AllowedOrigins:   parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	})

	return server.New(logger, cfg.HTTP, router).Run(ctx)
}

func buildEngine(logger *slog.Logger, cfg config.EngineConfig) *socialgraph.Engine {
	opts := []socialgraph.Option{
		socialgraph.WithLogger(logger.With("component", "engine")),
		socialgraph.WithMaxLabelRounds(cfg.MaxLabelRounds),
	}
	if cfg.ImpactSeed != 0 {
		opts = append(opts, socialgraph.WithImpactEstimator(socialgraph.NewRandomImpactEstimator(cfg.ImpactSeed)))
	}
	return socialgraph.New(opts...)
}

// seed ingests a dataset directory on top of whatever the database held.
func seed(ctx context.Context, logger *slog.Logger, svc *service.GraphService, dir string) error {
	dataset, err := generator.ReadDataset(dir)
	if err != nil {
		return fmt.Errorf("read seed dataset: %w", err)
	}

	ingestor := service.NewBulkIngestor(svc, 1)
	if err := ingestor.IngestUsers(ctx, dataset.Users); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	if err := ingestor.IngestConnections(ctx, dataset.Connections); err != nil {
		return fmt.Errorf("seed connections: %w", err)
	}
	logger.Info("seed dataset loaded", "dir", dir, "users", len(dataset.Users), "connections", len(dataset.Connections))
	return nil
}

// buildGraphClient returns a nil client when no GRAPH_URI is configured.
func buildGraphClient(ctx context.Context, logger *slog.Logger, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		logger.Info("GRAPH_URI not set, serving an in-memory graph only")
		return nil, nil
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

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	var origins []string
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}

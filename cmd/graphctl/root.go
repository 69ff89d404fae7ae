package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vanshika/socialgraph/internal/config"
	"github.com/vanshika/socialgraph/internal/generator"
	"github.com/vanshika/socialgraph/internal/logging"
	"github.com/vanshika/socialgraph/internal/service"
	"github.com/vanshika/socialgraph/internal/socialgraph"
)

type globalOptions struct {
	datasetDir string
	impactSeed int64
	rounds     int
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:           "graphctl",
		Short:         "Query a social graph dataset from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.datasetDir, "dataset", "./data", "directory containing users.json and connections.json")
	root.PersistentFlags().Int64Var(&opts.impactSeed, "seed", 1, "seed for impact estimates and community detection")
	root.PersistentFlags().IntVar(&opts.rounds, "rounds", socialgraph.DefaultMaxLabelRounds, "maximum label propagation rounds")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log progress to stderr")

	root.AddCommand(newStatsCmd(opts))
	root.AddCommand(newPathCmd(opts))
	root.AddCommand(newRecommendCmd(opts))
	root.AddCommand(newInfluenceCmd(opts))
	root.AddCommand(newRankCmd(opts))
	root.AddCommand(newCommunitiesCmd(opts))
	root.AddCommand(newCommunityCmd(opts))
	return root
}

// loadService reads the dataset into a fresh in-memory graph. Ingestion is
// sequential so insertion order matches the files.
func loadService(cmd *cobra.Command, opts *globalOptions) (*service.GraphService, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if opts.verbose {
		logger = logging.NewWithWriter(config.LoggingConfig{Level: "debug"}, os.Stderr)
	}

	dataset, err := generator.ReadDataset(opts.datasetDir)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	engine := socialgraph.New(
		socialgraph.WithLogger(logger),
		socialgraph.WithMaxLabelRounds(opts.rounds),
		socialgraph.WithImpactEstimator(socialgraph.NewRandomImpactEstimator(opts.impactSeed)),
		socialgraph.WithRand(rand.New(rand.NewSource(opts.impactSeed))),
	)
	svc := service.NewGraphService(engine, nil, logger)

	ingestor := service.NewBulkIngestor(svc, 1)
	if err := ingestor.IngestUsers(cmd.Context(), dataset.Users); err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	if err := ingestor.IngestConnections(cmd.Context(), dataset.Connections); err != nil {
		return nil, fmt.Errorf("load connections: %w", err)
	}
	return svc, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func splitIDs(csv string) []string {
	if csv == "" {
		return nil
	}
	var ids []string
	for _, part := range strings.Split(csv, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}

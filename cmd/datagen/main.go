package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vanshika/socialgraph/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		users          = flag.Int("users", cfg.NumUsers, "number of users to generate")
		connections    = flag.Int("connections", cfg.NumConnections, "number of connections to generate")
		interests      = flag.Int("interests", cfg.InterestsPerUser, "interests assigned to each user")
		bias           = flag.Float64("shared-interest-bias", cfg.SharedInterestBias, "probability that a connection targets a user with a common interest")
		locationChance = flag.Float64("location-chance", cfg.LocationChance, "probability that a user has a home location")
		seed           = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		outputDir      = flag.String("output-dir", "data", "directory to write users.json and connections.json")
		writeStdout    = flag.Bool("stdout", false, "write combined dataset to stdout instead of files")
	)
	flag.Parse()

	genCfg := generator.Config{
		NumUsers:           *users,
		NumConnections:     *connections,
		InterestsPerUser:   *interests,
		SharedInterestBias: clampProbability(*bias),
		LocationChance:     clampProbability(*locationChance),
		Seed:               *seed,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dataset, err := generator.New(genCfg).Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if *writeStdout {
		if err := json.NewEncoder(os.Stdout).Encode(dataset); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write dataset to stdout: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := generator.WriteDataset(dataset, *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d users and %d connections into %s\n", len(dataset.Users), len(dataset.Connections), *outputDir)
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}

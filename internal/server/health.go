package server

import (
	"context"
	"fmt"

	"github.com/vanshika/socialgraph/internal/domain"
	"github.com/vanshika/socialgraph/internal/graph"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) (HealthReport, error)
}

// StatsSource reports the size of the in-memory graph.
type StatsSource interface {
	Stats() domain.GraphStats
}

// HealthReport is the body of a readiness response.
type HealthReport struct {
	Store string `json:"store"`
	Users int    `json:"users"`
	Edges int    `json:"edges"`
}

// GraphHealthService reports the graph size and checks the Bolt connection
// of the snapshot store. A nil Client means the graph lives in memory only
// and the probe never fails.
type GraphHealthService struct {
	Client graph.Client
	Graph  StatsSource
}

// Probe implements the HealthService interface.
func (s GraphHealthService) Probe(ctx context.Context) (HealthReport, error) {
	report := HealthReport{Store: "memory"}
	if s.Graph != nil {
		stats := s.Graph.Stats()
		report.Users = stats.Users
		report.Edges = stats.Edges
	}
	if s.Client == nil {
		return report, nil
	}
	report.Store = "neo4j"
	if err := s.Client.VerifyConnectivity(ctx); err != nil {
		return report, fmt.Errorf("snapshot store unreachable: %w", err)
	}
	return report, nil
}

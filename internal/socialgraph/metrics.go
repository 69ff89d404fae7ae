package socialgraph

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	opAddUser         = "add_user"
	opAddConnection   = "add_connection"
	opShortestPath    = "shortest_path"
	opRecommend       = "recommend"
	opInfluence       = "influence"
	opRankInfluence   = "rank_influence"
	opDetectCommunity = "detect_communities"
)

var (
	operationTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialgraph_operations_total",
		Help: "Engine operations by type",
	}, []string{"operation"})

	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "socialgraph_operation_duration_seconds",
		Help:    "Engine operation latency",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
	}, []string{"operation"})

	labelRounds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "socialgraph_label_propagation_rounds",
		Help:    "Rounds run per community detection",
		Buckets: []float64{1, 2, 3, 5, 8, 10},
	})

	nodesGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "socialgraph_nodes",
		Help: "Nodes in the most recently mutated graph",
	})

	edgesGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "socialgraph_edges",
		Help: "Undirected edges in the most recently mutated graph",
	})
)

func observe(operation string, start time.Time) {
	operationTotal.WithLabelValues(operation).Inc()
	operationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

package socialgraph

import (
	"math"
	"time"

	"github.com/vanshika/socialgraph/internal/domain"
)

// FindShortestPath returns the fewest-hop route between two users. The
// second return value is false when either id is unknown or no route
// exists; that is an expected outcome, not an error.
func (e *Engine) FindShortestPath(fromID, toID string) (domain.SocialPath, bool) {
	defer observe(opShortestPath, time.Now())

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shortestPathLocked(fromID, toID)
}

// shortestPathLocked is Dijkstra with unit edge cost and a linear scan for
// the closest unvisited node. Ties go to the earliest inserted node and
// neighbors are relaxed in sorted order, so the result is stable.
func (e *Engine) shortestPathLocked(fromID, toID string) (domain.SocialPath, bool) {
	if _, ok := e.adjacency[fromID]; !ok {
		return domain.SocialPath{}, false
	}
	if _, ok := e.adjacency[toID]; !ok {
		return domain.SocialPath{}, false
	}
	if fromID == toID {
		return domain.SocialPath{Path: []string{fromID}}, true
	}

	dist := make(map[string]float64, len(e.order))
	prev := make(map[string]string, len(e.order))
	visited := make(map[string]bool, len(e.order))
	for _, id := range e.order {
		dist[id] = math.Inf(1)
	}
	dist[fromID] = 0

	for {
		current := ""
		best := math.Inf(1)
		for _, id := range e.order {
			if visited[id] {
				continue
			}
			if d := dist[id]; d < best {
				best = d
				current = id
			}
		}
		if current == "" {
			break
		}
		if current == toID {
			break
		}
		visited[current] = true

		for _, n := range e.neighborsLocked(current) {
			if visited[n] {
				continue
			}
			if alt := dist[current] + 1; alt < dist[n] {
				dist[n] = alt
				prev[n] = current
			}
		}
	}

	if math.IsInf(dist[toID], 1) {
		return domain.SocialPath{}, false
	}

	path := []string{toID}
	for at := toID; at != fromID; {
		at = prev[at]
		path = append(path, at)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	total := 0.0
	for i := 0; i < len(path)-1; i++ {
		total += e.adjacency[path[i]][path[i+1]]
	}
	hops := len(path) - 1

	return domain.SocialPath{
		Path:     path,
		Distance: hops,
		Strength: total / float64(hops),
	}, true
}

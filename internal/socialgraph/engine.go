// Package socialgraph holds the in-memory social graph engine: a store of
// users and weighted connections plus shortest-path search, friend-of-friend
// recommendations, influence scoring and community detection.
//
// An Engine is owned by its caller. All methods are safe for concurrent use;
// a single mutex serialises access because the algorithms are not designed
// for concurrent graph mutation.
package socialgraph

import (
	"io"
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/vanshika/socialgraph/internal/domain"
)

const (
	// DefaultMaxLabelRounds bounds the label propagation loop.
	DefaultMaxLabelRounds = 10
	// DefaultRecommendationLimit applies when a caller passes limit <= 0.
	DefaultRecommendationLimit = 10
)

// Engine is the social graph store and its query algorithms.
type Engine struct {
	mu sync.Mutex

	users       map[string]domain.User
	order       []string
	connections map[string][]domain.Connection
	adjacency   map[string]map[string]float64

	influence   map[string]domain.InfluenceScore
	communities []domain.Community
	memberOf    map[string]int

	impact         ImpactEstimator
	rng            *rand.Rand
	maxLabelRounds int
	logger         *slog.Logger
}

// Option customises an Engine.
type Option func(*Engine)

// WithImpactEstimator sets the source of event and community impact.
func WithImpactEstimator(est ImpactEstimator) Option {
	return func(e *Engine) {
		if est != nil {
			e.impact = est
		}
	}
}

// WithRand sets the random source used for label propagation shuffling and
// tie-breaking.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithMaxLabelRounds overrides DefaultMaxLabelRounds.
func WithMaxLabelRounds(rounds int) Option {
	return func(e *Engine) {
		if rounds > 0 {
			e.maxLabelRounds = rounds
		}
	}
}

// WithLogger attaches a logger. The default discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New returns an empty engine.
func New(opts ...Option) *Engine {
	seed := time.Now().UnixNano()
	e := &Engine{
		rng:            rand.New(rand.NewSource(seed)),
		maxLabelRounds: DefaultMaxLabelRounds,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	e.impact = NewRandomImpactEstimator(seed + 1)
	e.resetLocked()
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reset drops every user, connection and cached result.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetLocked()
	nodesGauge.Set(0)
	edgesGauge.Set(0)
}

func (e *Engine) resetLocked() {
	e.users = make(map[string]domain.User)
	e.order = nil
	e.connections = make(map[string][]domain.Connection)
	e.adjacency = make(map[string]map[string]float64)
	e.influence = make(map[string]domain.InfluenceScore)
	e.communities = nil
	e.memberOf = nil
}

// AddUser inserts or overwrites a user. Duplicates are not an error; the
// last write wins.
func (e *Engine) AddUser(user domain.User) {
	defer observe(opAddUser, time.Now())

	e.mu.Lock()
	defer e.mu.Unlock()

	e.users[user.ID] = user.Clone()
	e.ensureNodeLocked(user.ID)
	e.invalidateCommunitiesLocked()
	e.updateGaugesLocked()
}

// AddConnection records a connection in both directions. The edge weight
// is overwritten on repeat calls for the same pair and another record is
// appended; endpoints that were never added get an empty adjacency row.
func (e *Engine) AddConnection(conn domain.Connection) {
	defer observe(opAddConnection, time.Now())

	e.mu.Lock()
	defer e.mu.Unlock()

	from, to := conn.FromUserID, conn.ToUserID
	e.ensureNodeLocked(from)
	e.ensureNodeLocked(to)

	e.connections[from] = append(e.connections[from], conn.Clone())
	e.connections[to] = append(e.connections[to], conn.Reverse())

	e.adjacency[from][to] = conn.Strength
	e.adjacency[to][from] = conn.Strength

	e.invalidateCommunitiesLocked()
	e.updateGaugesLocked()
}

// Connections returns the connection records of a user, or an empty slice
// for unknown ids.
func (e *Engine) Connections(userID string) []domain.Connection {
	e.mu.Lock()
	defer e.mu.Unlock()

	records := e.connections[userID]
	out := make([]domain.Connection, 0, len(records))
	for _, c := range records {
		out = append(out, c.Clone())
	}
	return out
}

// Followers returns the ids of users holding an outgoing connection to
// userID. It scans every connection list.
func (e *Engine) Followers(userID string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.followersLocked(userID)
}

func (e *Engine) followersLocked(userID string) []string {
	followers := []string{}
	for _, id := range e.order {
		for _, c := range e.connections[id] {
			if c.ToUserID == userID {
				followers = append(followers, id)
				break
			}
		}
	}
	return followers
}

// User returns the user record for id.
func (e *Engine) User(id string) (domain.User, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	u, ok := e.users[id]
	if !ok {
		return domain.User{}, false
	}
	return u.Clone(), true
}

// Users returns every user record in insertion order.
func (e *Engine) Users() []domain.User {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.User, 0, len(e.users))
	for _, id := range e.order {
		if u, ok := e.users[id]; ok {
			out = append(out, u.Clone())
		}
	}
	return out
}

// Neighbors returns the sorted ids adjacent to userID.
func (e *Engine) Neighbors(userID string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.neighborsLocked(userID)
}

// EdgeWeight returns the weight of the a->b edge.
func (e *Engine) EdgeWeight(a, b string) (float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	w, ok := e.adjacency[a][b]
	return w, ok
}

// Stats reports the size of the graph.
func (e *Engine) Stats() domain.GraphStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return domain.GraphStats{
		Users:       len(e.users),
		Nodes:       len(e.order),
		Edges:       e.edgeCountLocked(),
		Connections: e.connectionCountLocked(),
	}
}

func (e *Engine) ensureNodeLocked(id string) {
	if _, ok := e.adjacency[id]; ok {
		return
	}
	e.adjacency[id] = make(map[string]float64)
	e.order = append(e.order, id)
}

func (e *Engine) neighborsLocked(id string) []string {
	row := e.adjacency[id]
	ids := make([]string, 0, len(row))
	for n := range row {
		ids = append(ids, n)
	}
	sort.Strings(ids)
	return ids
}

// edgeCountLocked counts undirected edges; a self-loop counts once.
func (e *Engine) edgeCountLocked() int {
	directed, loops := 0, 0
	for id, row := range e.adjacency {
		directed += len(row)
		if _, ok := row[id]; ok {
			loops++
		}
	}
	return (directed-loops)/2 + loops
}

func (e *Engine) connectionCountLocked() int {
	total := 0
	for _, records := range e.connections {
		total += len(records)
	}
	return total / 2
}

func (e *Engine) invalidateCommunitiesLocked() {
	e.communities = nil
	e.memberOf = nil
}

func (e *Engine) updateGaugesLocked() {
	nodesGauge.Set(float64(len(e.order)))
	edgesGauge.Set(float64(e.edgeCountLocked()))
}

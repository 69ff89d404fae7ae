package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/vanshika/socialgraph/internal/domain"
	"github.com/vanshika/socialgraph/internal/socialgraph"
)

// ErrInvalidInput marks validation failures of inbound payloads.
var ErrInvalidInput = errors.New("invalid input")

// ErrNoStore is returned by Reload when no snapshot store is configured.
var ErrNoStore = errors.New("no snapshot store configured")

// SnapshotStore is the persistence contract required by the graph service.
type SnapshotStore interface {
	UpsertUser(ctx context.Context, user domain.User) error
	UpsertConnection(ctx context.Context, conn domain.Connection) error
	LoadSnapshot(ctx context.Context) (domain.Snapshot, error)
}

// GraphService validates inbound data, writes it through to the snapshot
// store when one is configured, and answers queries from the engine.
type GraphService struct {
	engine *socialgraph.Engine
	store  SnapshotStore
	logger *slog.Logger
	nowFn  func() time.Time
	limit  int
}

// NewGraphService wires a service around engine. store may be nil, in which
// case the graph lives only in memory.
func NewGraphService(engine *socialgraph.Engine, store SnapshotStore, logger *slog.Logger) *GraphService {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &GraphService{
		engine: engine,
		store:  store,
		logger: logger.With("component", "graph-service"),
		nowFn:  time.Now,
		limit:  socialgraph.DefaultRecommendationLimit,
	}
}

// WithClock overrides the time provider (used primarily in tests).
func (s *GraphService) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// WithRecommendationLimit sets the limit used when callers pass none.
func (s *GraphService) WithRecommendationLimit(limit int) {
	if limit > 0 {
		s.limit = limit
	}
}

// AddUser normalizes and stores a user.
func (s *GraphService) AddUser(ctx context.Context, input UserInput) (domain.User, error) {
	id := sanitizeString(input.ID)
	if id == "" {
		return domain.User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if loc := input.Location; loc != nil {
		if loc.Lat < -90 || loc.Lat > 90 || loc.Lng < -180 || loc.Lng > 180 {
			return domain.User{}, fmt.Errorf("%w: location %.4f,%.4f out of range", ErrInvalidInput, loc.Lat, loc.Lng)
		}
	}

	user := domain.User{
		ID:        id,
		Name:      sanitizeString(input.Name),
		Avatar:    sanitizeString(input.Avatar),
		Interests: normalizeTags(input.Interests),
		Location:  input.Location.ToDomainLocation(),
	}

	if s.store != nil {
		if err := s.store.UpsertUser(ctx, user); err != nil {
			return domain.User{}, err
		}
	}
	s.engine.AddUser(user)
	return user, nil
}

// AddConnection normalizes and stores a connection.
func (s *GraphService) AddConnection(ctx context.Context, input ConnectionInput) (domain.Connection, error) {
	from := sanitizeString(input.FromUserID)
	to := sanitizeString(input.ToUserID)
	if from == "" || to == "" {
		return domain.Connection{}, fmt.Errorf("%w: fromUserId and toUserId are required", ErrInvalidInput)
	}

	createdAt := s.nowFn().UTC()
	if input.CreatedAt != nil && !input.CreatedAt.IsZero() {
		createdAt = input.CreatedAt.UTC()
	}

	conn := domain.Connection{
		FromUserID:      from,
		ToUserID:        to,
		Strength:        clampStrength(input.Strength),
		MutualFriends:   input.MutualFriends,
		SharedInterests: normalizeTags(input.SharedInterests),
		SharedEvents:    normalizeTags(input.SharedEvents),
		CreatedAt:       createdAt,
	}
	if conn.SharedInterests == nil {
		a, okA := s.engine.User(from)
		b, okB := s.engine.User(to)
		if okA && okB {
			conn.SharedInterests = intersectTags(a.Interests, b.Interests)
		}
	}
	if conn.MutualFriends < 0 {
		conn.MutualFriends = 0
	}

	if s.store != nil {
		if err := s.store.UpsertConnection(ctx, conn); err != nil {
			return domain.Connection{}, err
		}
	}
	s.engine.AddConnection(conn)
	return conn, nil
}

// LoadSnapshot replaces the in-memory graph with snap without touching the
// store.
func (s *GraphService) LoadSnapshot(snap domain.Snapshot) domain.GraphStats {
	s.engine.Reset()
	for _, u := range snap.Users {
		s.engine.AddUser(u)
	}
	for _, c := range snap.Connections {
		s.engine.AddConnection(c)
	}
	stats := s.engine.Stats()
	s.logger.Info("snapshot loaded", "users", stats.Users, "nodes", stats.Nodes, "edges", stats.Edges)
	return stats
}

// Reload reads a fresh snapshot from the store into the engine.
func (s *GraphService) Reload(ctx context.Context) (domain.GraphStats, error) {
	if s.store == nil {
		return domain.GraphStats{}, ErrNoStore
	}
	snap, err := s.store.LoadSnapshot(ctx)
	if err != nil {
		return domain.GraphStats{}, fmt.Errorf("reload snapshot: %w", err)
	}
	return s.LoadSnapshot(snap), nil
}

// Users lists every user in insertion order.
func (s *GraphService) Users() []domain.User {
	return s.engine.Users()
}

// Stats reports the size of the in-memory graph.
func (s *GraphService) Stats() domain.GraphStats {
	return s.engine.Stats()
}

// Connections returns the connection records of a user.
func (s *GraphService) Connections(userID string) []domain.Connection {
	return s.engine.Connections(sanitizeString(userID))
}

// Followers returns the users holding a connection to userID.
func (s *GraphService) Followers(userID string) []string {
	return s.engine.Followers(sanitizeString(userID))
}

// ShortestPath returns the fewest-hop path between two users. found is
// false when the users are not connected.
func (s *GraphService) ShortestPath(fromID, toID string) (path domain.SocialPath, found bool, err error) {
	fromID = sanitizeString(fromID)
	toID = sanitizeString(toID)
	if fromID == "" || toID == "" {
		return domain.SocialPath{}, false, fmt.Errorf("%w: from and to are required", ErrInvalidInput)
	}
	path, found = s.engine.FindShortestPath(fromID, toID)
	return path, found, nil
}

// Recommendations suggests new connections for userID. A limit <= 0 uses
// the service default.
func (s *GraphService) Recommendations(userID string, limit int) ([]domain.RecommendedConnection, error) {
	userID = sanitizeString(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = s.limit
	}
	return s.engine.RecommendedConnections(userID, limit), nil
}

// Influence scores a single user.
func (s *GraphService) Influence(userID string) (domain.InfluenceScore, error) {
	userID = sanitizeString(userID)
	if userID == "" {
		return domain.InfluenceScore{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return s.engine.CalculateInfluenceScore(userID), nil
}

// RankInfluence scores and ranks users in the given order; nil means every
// user in insertion order.
func (s *GraphService) RankInfluence(order []string) []domain.InfluenceScore {
	var ids []string
	for _, id := range order {
		if id = sanitizeString(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		ids = nil
	}
	start := time.Now()
	ranked := s.engine.RankInfluence(ids)
	s.logger.Debug("influence ranked", "users", len(ranked), "duration_ms", time.Since(start).Milliseconds())
	return ranked
}

// Communities runs a fresh community detection.
func (s *GraphService) Communities() []domain.Community {
	start := time.Now()
	communities := s.engine.DetectCommunities()
	s.logger.Debug("communities detected", "count", len(communities), "duration_ms", time.Since(start).Milliseconds())
	return communities
}

// UserCommunity returns the community containing userID.
func (s *GraphService) UserCommunity(userID string) (domain.Community, bool, error) {
	userID = sanitizeString(userID)
	if userID == "" {
		return domain.Community{}, false, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	c, ok := s.engine.UserCommunity(userID)
	return c, ok, nil
}

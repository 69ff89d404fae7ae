package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/socialgraph/internal/domain"
	"github.com/vanshika/socialgraph/internal/socialgraph"
)

type stubStore struct {
	mu          sync.Mutex
	users       []domain.User
	connections []domain.Connection
	userErr     error
	connErr     error
	snapshot    domain.Snapshot
	snapshotErr error
}

func (s *stubStore) UpsertUser(ctx context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userErr != nil {
		return s.userErr
	}
	s.users = append(s.users, user)
	return nil
}

func (s *stubStore) UpsertConnection(ctx context.Context, conn domain.Connection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.connErr != nil {
		return s.connErr
	}
	s.connections = append(s.connections, conn)
	return nil
}

func (s *stubStore) LoadSnapshot(ctx context.Context) (domain.Snapshot, error) {
	if s.snapshotErr != nil {
		return domain.Snapshot{}, s.snapshotErr
	}
	return s.snapshot, nil
}

func newTestService(store SnapshotStore) *GraphService {
	engine := socialgraph.New(
		socialgraph.WithImpactEstimator(socialgraph.StaticImpactEstimator{}),
		socialgraph.WithRand(rand.New(rand.NewSource(3))),
	)
	return NewGraphService(engine, store, nil)
}

func TestGraphService_AddUser(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(store)

	user, err := svc.AddUser(context.Background(), UserInput{
		ID:        "  USR-1 ",
		Name:      "  Jane   Doe ",
		Interests: []string{" Music", "music", "", "Tech  "},
		Location:  &LocationInput{Lat: 40.7, Lng: -74},
	})
	require.NoError(t, err)

	assert.Equal(t, "USR-1", user.ID)
	assert.Equal(t, "Jane Doe", user.Name)
	assert.Equal(t, []string{"Music", "Tech"}, user.Interests)
	require.NotNil(t, user.Location)
	assert.Equal(t, 40.7, user.Location.Lat)

	require.Len(t, store.users, 1)
	assert.Equal(t, user, store.users[0])
	assert.Equal(t, 1, svc.Stats().Users)
}

func TestGraphService_AddUserValidation(t *testing.T) {
	svc := newTestService(nil)

	_, err := svc.AddUser(context.Background(), UserInput{ID: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AddUser(context.Background(), UserInput{ID: "A", Location: &LocationInput{Lat: 95}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Empty(t, svc.Users())
}

func TestGraphService_AddUserStoreFailureSkipsEngine(t *testing.T) {
	boom := errors.New("neo4j down")
	svc := newTestService(&stubStore{userErr: boom})

	_, err := svc.AddUser(context.Background(), UserInput{ID: "A"})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, svc.Users())
}

func TestGraphService_AddConnection(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(store)
	now := time.Date(2024, 4, 20, 12, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return now })

	ctx := context.Background()
	_, err := svc.AddUser(ctx, UserInput{ID: "A", Interests: []string{"Music", "Tech", "Art"}})
	require.NoError(t, err)
	_, err = svc.AddUser(ctx, UserInput{ID: "B", Interests: []string{"Tech", "Art"}})
	require.NoError(t, err)

	conn, err := svc.AddConnection(ctx, ConnectionInput{FromUserID: "A", ToUserID: "B", Strength: 140, MutualFriends: -2})
	require.NoError(t, err)

	assert.Equal(t, 100.0, conn.Strength)
	assert.Equal(t, 0, conn.MutualFriends)
	assert.Equal(t, []string{"Tech", "Art"}, conn.SharedInterests)
	assert.Equal(t, now, conn.CreatedAt)
	require.Len(t, store.connections, 1)

	assert.Len(t, svc.Connections("A"), 1)
	assert.Equal(t, []string{"B"}, svc.Followers("A"))
}

func TestGraphService_AddConnectionKeepsExplicitFields(t *testing.T) {
	svc := newTestService(nil)
	created := time.Date(2023, 1, 2, 3, 4, 5, 0, time.FixedZone("EST", -5*3600))

	conn, err := svc.AddConnection(context.Background(), ConnectionInput{
		FromUserID:      "A",
		ToUserID:        "B",
		Strength:        55,
		SharedInterests: []string{"Hiking"},
		SharedEvents:    []string{"EVT-1", "EVT-1"},
		CreatedAt:       &created,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hiking"}, conn.SharedInterests)
	assert.Equal(t, []string{"EVT-1"}, conn.SharedEvents)
	assert.Equal(t, created.UTC(), conn.CreatedAt)

	stats := svc.Stats()
	assert.Equal(t, 0, stats.Users)
	assert.Equal(t, 2, stats.Nodes)
	assert.Equal(t, 1, stats.Edges)
}

func TestGraphService_AddConnectionValidation(t *testing.T) {
	svc := newTestService(nil)
	_, err := svc.AddConnection(context.Background(), ConnectionInput{FromUserID: "A"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGraphService_Reload(t *testing.T) {
	store := &stubStore{snapshot: domain.Snapshot{
		Users: []domain.User{{ID: "A"}, {ID: "B"}, {ID: "C"}},
		Connections: []domain.Connection{
			{FromUserID: "A", ToUserID: "B", Strength: 10},
			{FromUserID: "B", ToUserID: "C", Strength: 10},
		},
	}}
	svc := newTestService(store)
	_, err := svc.AddUser(context.Background(), UserInput{ID: "stale"})
	require.NoError(t, err)

	stats, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.GraphStats{Users: 3, Nodes: 3, Edges: 2, Connections: 2}, stats)

	path, found, err := svc.ShortestPath("A", "C")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"A", "B", "C"}, path.Path)
}

func TestGraphService_ReloadErrors(t *testing.T) {
	_, err := newTestService(nil).Reload(context.Background())
	assert.ErrorIs(t, err, ErrNoStore)

	boom := errors.New("timeout")
	svc := newTestService(&stubStore{snapshotErr: boom})
	_, err = svc.AddUser(context.Background(), UserInput{ID: "A"})
	require.NoError(t, err)

	_, err = svc.Reload(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Len(t, svc.Users(), 1, "failed reload keeps the current graph")
}

func TestGraphService_Queries(t *testing.T) {
	svc := newTestService(nil)
	svc.LoadSnapshot(domain.Snapshot{
		Users: []domain.User{
			{ID: "A", Interests: []string{"Tech"}},
			{ID: "B"},
			{ID: "C", Interests: []string{"Tech"}},
		},
		Connections: []domain.Connection{
			{FromUserID: "A", ToUserID: "B", Strength: 50},
			{FromUserID: "B", ToUserID: "C", Strength: 50},
		},
	})

	recs, err := svc.Recommendations(" A ", 0)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "C", recs[0].User.ID)

	score, err := svc.Influence("B")
	require.NoError(t, err)
	assert.Equal(t, "B", score.UserID)
	assert.Equal(t, 2, score.ConnectionCount)

	ranked := svc.RankInfluence([]string{"", "  "})
	require.Len(t, ranked, 3)
	assert.Equal(t, "B", ranked[0].UserID)
	assert.Equal(t, 1, ranked[0].Rank)

	communities := svc.Communities()
	require.NotEmpty(t, communities)

	c, ok, err := svc.UserCommunity("C")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, c.Members, "C")

	_, found, err := svc.ShortestPath("A", "nobody")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGraphService_QueryValidation(t *testing.T) {
	svc := newTestService(nil)

	_, _, err := svc.ShortestPath("", "B")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Recommendations(" ", 5)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Influence("")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, _, err = svc.UserCommunity("")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGraphService_RecommendationLimitDefault(t *testing.T) {
	svc := newTestService(nil)
	svc.WithRecommendationLimit(1)

	snap := domain.Snapshot{}
	for _, id := range []string{"B", "C", "D"} {
		snap.Connections = append(snap.Connections, domain.Connection{FromUserID: "A", ToUserID: "hub" + id, Strength: 30})
		snap.Connections = append(snap.Connections, domain.Connection{FromUserID: "hub" + id, ToUserID: id, Strength: 30})
	}
	svc.LoadSnapshot(snap)

	recs, err := svc.Recommendations("A", 0)
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	recs, err = svc.Recommendations("A", 3)
	require.NoError(t, err)
	assert.Len(t, recs, 3)
}

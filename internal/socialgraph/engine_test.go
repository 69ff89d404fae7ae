package socialgraph

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/socialgraph/internal/domain"
)

func newTestEngine(opts ...Option) *Engine {
	base := []Option{
		WithImpactEstimator(StaticImpactEstimator{}),
		WithRand(rand.New(rand.NewSource(7))),
	}
	return New(append(base, opts...)...)
}

func connect(e *Engine, from, to string, strength float64) {
	e.AddConnection(domain.Connection{
		FromUserID: from,
		ToUserID:   to,
		Strength:   strength,
		CreatedAt:  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	})
}

func addUsers(e *Engine, ids ...string) {
	for _, id := range ids {
		e.AddUser(domain.User{ID: id, Name: "User " + id})
	}
}

func TestAddConnectionIsSymmetric(t *testing.T) {
	e := newTestEngine()
	addUsers(e, "A", "B", "C")
	connect(e, "A", "B", 50)
	connect(e, "B", "C", 80)

	edges := []struct {
		a, b string
		w    float64
	}{
		{"A", "B", 50},
		{"B", "C", 80},
	}
	for _, edge := range edges {
		ab, ok := e.EdgeWeight(edge.a, edge.b)
		require.True(t, ok)
		ba, ok := e.EdgeWeight(edge.b, edge.a)
		require.True(t, ok)
		assert.Equal(t, edge.w, ab)
		assert.Equal(t, edge.w, ba)
	}
}

func TestAddConnectionOverwritesWeightAndKeepsRecords(t *testing.T) {
	e := newTestEngine()
	addUsers(e, "A", "B")
	connect(e, "A", "B", 10)
	connect(e, "B", "A", 90)

	w, ok := e.EdgeWeight("A", "B")
	require.True(t, ok)
	assert.Equal(t, 90.0, w)
	assert.Len(t, e.Connections("A"), 2)
	assert.Len(t, e.Connections("B"), 2)

	stats := e.Stats()
	assert.Equal(t, 1, stats.Edges)
	assert.Equal(t, 2, stats.Connections)
}

func TestAddUserDuplicateLastWriteWins(t *testing.T) {
	e := newTestEngine()
	e.AddUser(domain.User{ID: "A", Name: "first"})
	e.AddUser(domain.User{ID: "A", Name: "second", Interests: []string{"Music"}})

	u, ok := e.User("A")
	require.True(t, ok)
	assert.Equal(t, "second", u.Name)
	assert.Equal(t, []string{"Music"}, u.Interests)
	assert.Equal(t, 1, e.Stats().Nodes)
}

func TestConnectionsUnknownUserIsEmpty(t *testing.T) {
	e := newTestEngine()
	conns := e.Connections("ghost")
	assert.NotNil(t, conns)
	assert.Empty(t, conns)
}

func TestConnectionsAreMirrored(t *testing.T) {
	e := newTestEngine()
	addUsers(e, "A", "B")
	connect(e, "A", "B", 40)

	a := e.Connections("A")
	require.Len(t, a, 1)
	assert.Equal(t, "B", a[0].ToUserID)

	b := e.Connections("B")
	require.Len(t, b, 1)
	assert.Equal(t, "B", b[0].FromUserID)
	assert.Equal(t, "A", b[0].ToUserID)
}

func TestFollowers(t *testing.T) {
	e := newTestEngine()
	addUsers(e, "A", "B", "C", "D")
	connect(e, "A", "B", 50)
	connect(e, "C", "B", 20)

	assert.Equal(t, []string{"A", "C"}, e.Followers("B"))
	assert.Equal(t, []string{"B"}, e.Followers("A"))
	assert.Empty(t, e.Followers("D"))
}

func TestConnectionToUnknownUserCreatesNode(t *testing.T) {
	e := newTestEngine()
	addUsers(e, "A")
	connect(e, "A", "ghost", 30)

	stats := e.Stats()
	assert.Equal(t, 1, stats.Users)
	assert.Equal(t, 2, stats.Nodes)
	assert.Equal(t, []string{"ghost"}, e.Neighbors("A"))

	e.AddUser(domain.User{ID: "ghost", Name: "Ghost"})
	assert.Equal(t, 2, e.Stats().Nodes)
	assert.Equal(t, []string{"A"}, e.Neighbors("ghost"))
}

func TestSelfLoopAccepted(t *testing.T) {
	e := newTestEngine()
	addUsers(e, "A")
	connect(e, "A", "A", 10)

	w, ok := e.EdgeWeight("A", "A")
	require.True(t, ok)
	assert.Equal(t, 10.0, w)
	assert.Equal(t, 1, e.Stats().Edges)
}

func TestResetClearsGraph(t *testing.T) {
	e := newTestEngine()
	addUsers(e, "A", "B")
	connect(e, "A", "B", 10)
	e.CalculateInfluenceScore("A")

	e.Reset()

	assert.Equal(t, domain.GraphStats{}, e.Stats())
	_, ok := e.CachedInfluence("A")
	assert.False(t, ok)
}

func TestUsersReturnsCopies(t *testing.T) {
	e := newTestEngine()
	e.AddUser(domain.User{ID: "A", Interests: []string{"Music"}})

	users := e.Users()
	require.Len(t, users, 1)
	users[0].Interests[0] = "changed"

	u, _ := e.User("A")
	assert.Equal(t, "Music", u.Interests[0])
}

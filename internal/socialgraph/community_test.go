package socialgraph

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/socialgraph/internal/domain"
)

func triangle(e *Engine, a, b, c string) {
	addUsers(e, a, b, c)
	connect(e, a, b, 50)
	connect(e, b, c, 50)
	connect(e, a, c, 50)
}

func TestDetectCommunitiesTriangle(t *testing.T) {
	// label propagation is randomised; a triangle converges the same way
	// for every shuffle
	for seed := int64(0); seed < 25; seed++ {
		e := newTestEngine(WithRand(rand.New(rand.NewSource(seed))))
		triangle(e, "A", "B", "C")

		communities := e.DetectCommunities()
		require.Len(t, communities, 1, "seed %d", seed)
		c := communities[0]
		assert.Equal(t, 3, c.Size)
		assert.ElementsMatch(t, []string{"A", "B", "C"}, c.Members)
		assert.InDelta(t, 1.0, c.Density, 1e-9)
		assert.NotEmpty(t, c.ID)
	}
}

func TestDetectCommunitiesDisjointTriangles(t *testing.T) {
	e := newTestEngine()
	triangle(e, "A", "B", "C")
	triangle(e, "X", "Y", "Z")

	communities := e.DetectCommunities()
	require.Len(t, communities, 2)
	assert.ElementsMatch(t, []string{"A", "B", "C"}, communities[0].Members)
	assert.ElementsMatch(t, []string{"X", "Y", "Z"}, communities[1].Members)
	assert.NotEqual(t, communities[0].ID, communities[1].ID)
}

func TestDetectCommunitiesSingletonDensity(t *testing.T) {
	e := newTestEngine()
	addUsers(e, "loner")
	triangle(e, "A", "B", "C")

	communities := e.DetectCommunities()
	require.Len(t, communities, 2)
	assert.Equal(t, []string{"loner"}, communities[0].Members)
	assert.Equal(t, 1.0, communities[0].Density)
}

func TestDetectCommunitiesIsPartition(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	e := newTestEngine(WithRand(rand.New(rand.NewSource(3))))
	const n = 60
	for i := 0; i < n; i++ {
		addUsers(e, fmt.Sprintf("u%02d", i))
	}
	for i := 0; i < 150; i++ {
		a := fmt.Sprintf("u%02d", rng.Intn(n))
		b := fmt.Sprintf("u%02d", rng.Intn(n))
		connect(e, a, b, float64(rng.Intn(101)))
	}

	communities := e.DetectCommunities()

	seen := make(map[string]int)
	total := 0
	for _, c := range communities {
		assert.Equal(t, len(c.Members), c.Size)
		assert.GreaterOrEqual(t, c.Density, 0.0)
		assert.LessOrEqual(t, c.Density, 1.0)
		assert.LessOrEqual(t, len(c.Influencers), 3)
		total += c.Size
		for _, m := range c.Members {
			seen[m]++
		}
	}
	assert.Equal(t, n, total)
	assert.Len(t, seen, n)
	for id, count := range seen {
		assert.Equal(t, 1, count, "user %s in %d communities", id, count)
	}
}

func TestDetectCommunitiesDensityOfPath(t *testing.T) {
	e := newTestEngine()
	addUsers(e, "A", "B", "C")
	connect(e, "A", "B", 10)
	connect(e, "B", "C", 10)

	assert.InDelta(t, 2.0/3.0, e.densityLocked([]string{"A", "B", "C"}), 1e-9)
	assert.Equal(t, 1.0, e.densityLocked([]string{"A"}))
}

func TestDetectCommunitiesCommonInterestsAndInfluencers(t *testing.T) {
	e := newTestEngine()
	e.AddUser(domain.User{ID: "A", Interests: []string{"Music", "Tech"}})
	e.AddUser(domain.User{ID: "B", Interests: []string{"Music"}})
	e.AddUser(domain.User{ID: "C", Interests: []string{"Art"}})
	e.AddUser(domain.User{ID: "D", Interests: []string{"Music", "Art"}})
	for _, pair := range [][2]string{{"A", "B"}, {"A", "C"}, {"A", "D"}, {"B", "C"}, {"B", "D"}, {"C", "D"}} {
		connect(e, pair[0], pair[1], 50)
	}
	connect(e, "A", "B", 50)

	communities := e.DetectCommunities()
	require.Len(t, communities, 1)
	c := communities[0]
	assert.Equal(t, []string{"Music", "Art"}, c.CommonInterests)
	assert.Equal(t, "Music community", c.Label)
	require.Len(t, c.Influencers, 3)
	// A and B hold the duplicate A-B record, so they have more connections
	assert.ElementsMatch(t, []string{"A", "B"}, c.Influencers[:2])

	_, cached := e.CachedInfluence("C")
	assert.True(t, cached)
}

func TestUserCommunity(t *testing.T) {
	e := newTestEngine()
	triangle(e, "A", "B", "C")
	addUsers(e, "D")

	c, ok := e.UserCommunity("B")
	require.True(t, ok)
	assert.Equal(t, 3, c.Size)

	again, ok := e.UserCommunity("A")
	require.True(t, ok)
	assert.Equal(t, c.ID, again.ID)

	_, ok = e.UserCommunity("nobody")
	assert.False(t, ok)
}

func TestUserCommunityRedetectsAfterMutation(t *testing.T) {
	e := newTestEngine()
	triangle(e, "A", "B", "C")
	addUsers(e, "D")

	d, ok := e.UserCommunity("D")
	require.True(t, ok)
	assert.Equal(t, 1, d.Size)

	connect(e, "D", "A", 10)
	connect(e, "D", "B", 10)
	connect(e, "D", "C", 10)

	d, ok = e.UserCommunity("D")
	require.True(t, ok)
	assert.Equal(t, 4, d.Size)
}

func TestDetectCommunitiesEmptyGraph(t *testing.T) {
	e := newTestEngine()
	assert.Empty(t, e.DetectCommunities())
}

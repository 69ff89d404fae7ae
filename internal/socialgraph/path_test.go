package socialgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindShortestPathChain(t *testing.T) {
	e := newTestEngine()
	addUsers(e, "A", "B", "C")
	connect(e, "A", "B", 50)
	connect(e, "B", "C", 80)

	path, ok := e.FindShortestPath("A", "C")
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B", "C"}, path.Path)
	assert.Equal(t, 2, path.Distance)
	assert.InDelta(t, 65.0, path.Strength, 1e-9)
}

func TestFindShortestPathDisconnected(t *testing.T) {
	e := newTestEngine()
	addUsers(e, "A", "B", "C", "D")
	connect(e, "A", "B", 50)
	connect(e, "B", "C", 80)

	_, ok := e.FindShortestPath("A", "D")
	assert.False(t, ok)
}

func TestFindShortestPathUnknownIDs(t *testing.T) {
	e := newTestEngine()
	addUsers(e, "A")

	_, ok := e.FindShortestPath("A", "missing")
	assert.False(t, ok)
	_, ok = e.FindShortestPath("missing", "A")
	assert.False(t, ok)
}

func TestFindShortestPathSameUser(t *testing.T) {
	e := newTestEngine()
	addUsers(e, "A")

	path, ok := e.FindShortestPath("A", "A")
	require.True(t, ok)
	assert.Equal(t, []string{"A"}, path.Path)
	assert.Zero(t, path.Distance)
	assert.Zero(t, path.Strength)
}

func TestFindShortestPathPrefersFewestHops(t *testing.T) {
	e := newTestEngine()
	addUsers(e, "A", "B", "C", "D", "E")
	// long strong route A-B-C-D and a short weak one A-E-D
	connect(e, "A", "B", 100)
	connect(e, "B", "C", 100)
	connect(e, "C", "D", 100)
	connect(e, "A", "E", 5)
	connect(e, "E", "D", 15)

	path, ok := e.FindShortestPath("A", "D")
	require.True(t, ok)
	assert.Equal(t, []string{"A", "E", "D"}, path.Path)
	assert.Equal(t, 2, path.Distance)
	assert.InDelta(t, 10.0, path.Strength, 1e-9)
}

func TestFindShortestPathEdgesExist(t *testing.T) {
	e := newTestEngine()
	ids := []string{"u0", "u1", "u2", "u3", "u4", "u5", "u6", "u7"}
	addUsers(e, ids...)
	for i := 0; i < len(ids)-1; i++ {
		connect(e, ids[i], ids[i+1], float64(10*(i+1)))
	}
	connect(e, "u0", "u4", 40)

	for _, target := range ids[1:] {
		path, ok := e.FindShortestPath("u0", target)
		require.True(t, ok, target)
		assert.Equal(t, len(path.Path)-1, path.Distance)
		for i := 0; i < len(path.Path)-1; i++ {
			_, edge := e.EdgeWeight(path.Path[i], path.Path[i+1])
			assert.True(t, edge, "missing edge %s-%s", path.Path[i], path.Path[i+1])
		}
	}

	path, ok := e.FindShortestPath("u0", "u5")
	require.True(t, ok)
	assert.Equal(t, []string{"u0", "u4", "u5"}, path.Path)
}

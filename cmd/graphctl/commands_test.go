package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/socialgraph/internal/domain"
)

func writeDataset(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	users := `[
  {"id": "A", "name": "Ann", "interests": ["Tech"]},
  {"id": "B", "name": "Bob"},
  {"id": "C", "name": "Cid", "interests": ["Tech"]}
]`
	conns := `[
  {"fromUserId": "A", "toUserId": "B", "strength": 60},
  {"fromUserId": "B", "toUserId": "C", "strength": 40}
]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.json"), []byte(users), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "connections.json"), []byte(conns), 0o644))
	return dir
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestStatsCommand(t *testing.T) {
	dir := writeDataset(t)
	out, err := runCmd(t, "stats", "--dataset", dir)
	require.NoError(t, err)

	var stats domain.GraphStats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, domain.GraphStats{Users: 3, Nodes: 3, Edges: 2, Connections: 2}, stats)
}

func TestPathCommand(t *testing.T) {
	dir := writeDataset(t)
	out, err := runCmd(t, "path", "A", "C", "--dataset", dir)
	require.NoError(t, err)

	var path domain.SocialPath
	require.NoError(t, json.Unmarshal([]byte(out), &path))
	assert.Equal(t, []string{"A", "B", "C"}, path.Path)
	assert.Equal(t, 2, path.Distance)

	_, err = runCmd(t, "path", "A", "nobody", "--dataset", dir)
	assert.ErrorContains(t, err, "no path")

	_, err = runCmd(t, "path", "A", "--dataset", dir)
	assert.Error(t, err)
}

func TestRecommendCommand(t *testing.T) {
	dir := writeDataset(t)
	out, err := runCmd(t, "recommend", "A", "--limit", "3", "--dataset", dir)
	require.NoError(t, err)

	var recs []domain.RecommendedConnection
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "C", recs[0].User.ID)
	assert.Equal(t, []string{"Tech"}, recs[0].SharedInterests)
}

func TestRankCommand(t *testing.T) {
	dir := writeDataset(t)
	out, err := runCmd(t, "rank", "--top", "2", "--dataset", dir)
	require.NoError(t, err)

	var ranked []domain.InfluenceScore
	require.NoError(t, json.Unmarshal([]byte(out), &ranked))
	require.Len(t, ranked, 2)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.GreaterOrEqual(t, ranked[0].Score, ranked[1].Score)
}

func TestCommunityCommands(t *testing.T) {
	dir := writeDataset(t)
	out, err := runCmd(t, "communities", "--dataset", dir)
	require.NoError(t, err)

	var communities []domain.Community
	require.NoError(t, json.Unmarshal([]byte(out), &communities))
	total := 0
	for _, c := range communities {
		total += c.Size
	}
	assert.Equal(t, 3, total)

	_, err = runCmd(t, "community", "ghost", "--dataset", dir)
	assert.ErrorContains(t, err, "not found")
}

func TestMissingDataset(t *testing.T) {
	_, err := runCmd(t, "stats", "--dataset", filepath.Join(t.TempDir(), "missing"))
	assert.ErrorContains(t, err, "read dataset")
}

func TestSplitIDs(t *testing.T) {
	assert.Nil(t, splitIDs(""))
	assert.Equal(t, []string{"A", "B"}, splitIDs(" A, ,B "))
}

package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryClientScriptedResults(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryClient().
		On("MATCH (u:User) RETURN u", Result{Records: []Record{{"userId": "A"}}}).
		On("MATCH (u:User) RETURN u", Result{Records: []Record{{"userId": "B"}}})

	// whitespace differences do not matter
	first, err := mem.ExecuteRead(ctx, "MATCH (u:User)\n  RETURN u", nil)
	require.NoError(t, err)
	assert.Equal(t, "A", first.Records[0]["userId"])

	second, err := mem.ExecuteRead(ctx, "MATCH (u:User) RETURN u", nil)
	require.NoError(t, err)
	assert.Equal(t, "B", second.Records[0]["userId"])

	third, err := mem.ExecuteRead(ctx, "MATCH (u:User) RETURN u", nil)
	require.NoError(t, err)
	assert.Empty(t, third.Records)

	assert.Len(t, mem.ReadCalls(), 3)
	assert.Empty(t, mem.WriteCalls())
}

func TestMemoryClientRecordsParamsByValue(t *testing.T) {
	mem := NewMemoryClient()
	params := map[string]any{"userId": "A"}

	_, err := mem.ExecuteWrite(context.Background(), "MERGE (u:User {userId: $userId})", params)
	require.NoError(t, err)
	params["userId"] = "changed"

	calls := mem.WriteCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "A", calls[0].Params["userId"])
	assert.True(t, calls[0].Write)
}

func TestMemoryClientErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	mem := NewMemoryClient().FailOn("RETURN 1", boom)
	_, err := mem.ExecuteRead(ctx, "RETURN 1", nil)
	assert.ErrorIs(t, err, boom)
	_, err = mem.ExecuteRead(ctx, "RETURN 2", nil)
	assert.NoError(t, err)

	mem.WithError(boom)
	_, err = mem.ExecuteWrite(ctx, "RETURN 2", nil)
	assert.ErrorIs(t, err, boom)

	mem.WithConnectivityError(boom)
	assert.ErrorIs(t, mem.VerifyConnectivity(ctx), boom)

	require.NoError(t, mem.Close(ctx))
	assert.True(t, mem.Closed())
}

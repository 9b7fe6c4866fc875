package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/session-engine/catalog"
	"github.com/warp/session-engine/quota"
	"github.com/warp/session-engine/quota/store"
)

func TestParse_ValidDocument(t *testing.T) {
	data := []byte(`[
		{"id": "pt-10", "name": "Personal Training x10", "paid_sessions": 10, "free_sessions": 2},
		{"id": "massage-5", "name": "Massage x5", "paid_sessions": 5}
	]`)

	defs, err := catalog.Parse(data)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, quota.DefinitionID("pt-10"), defs[0].ID)
	assert.Equal(t, 10, defs[0].PaidSessions)
	assert.Equal(t, 2, defs[0].FreeSessions)
	assert.Equal(t, 0, defs[1].FreeSessions, "absent totals default to zero")
}

func TestParse_MissingID_FailsFast(t *testing.T) {
	data := []byte(`[{"name": "no id", "paid_sessions": 1}]`)

	_, err := catalog.Parse(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing id")
}

func TestParse_NegativeTotal(t *testing.T) {
	data := []byte(`[{"id": "bad", "paid_sessions": -1}]`)

	_, err := catalog.Parse(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative")
}

func TestParse_MalformedJSON(t *testing.T) {
	_, err := catalog.Parse([]byte(`{not json`))
	assert.Error(t, err)
}

func TestLoad_UpsertsAll(t *testing.T) {
	// GIVEN: A catalog with an entry that already exists
	// WHEN:  Loading the document twice with changed totals
	// THEN:  The second load replaces, not duplicates

	mem := store.NewMemory()
	ctx := context.Background()

	n, err := catalog.Load(ctx, mem, []byte(`[{"id": "pt-10", "name": "PT", "paid_sessions": 10}]`))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = catalog.Load(ctx, mem, []byte(`[{"id": "pt-10", "name": "PT", "paid_sessions": 12, "free_sessions": 1}]`))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	defs, err := mem.ListDefinitions(ctx)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, 12, defs[0].PaidSessions)
	assert.Equal(t, 1, defs[0].FreeSessions)
}

func TestLoad_InvalidDocumentWritesNothing(t *testing.T) {
	mem := store.NewMemory()

	_, err := catalog.Load(context.Background(), mem, []byte(`[{"paid_sessions": 1}]`))
	require.Error(t, err)

	defs, err := mem.ListDefinitions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, defs)
}

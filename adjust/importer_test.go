package adjust_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/session-engine/adjust"
	"github.com/warp/session-engine/quota"
)

func newTestImporter(t *testing.T) (*adjust.Importer, quota.ServiceID, quota.Store) {
	t.Helper()
	r, mem, svcID := newTestReconciler(t)
	imp := adjust.NewImporter(mem, r)
	return imp, svcID, mem
}

// =============================================================================
// BATCH SEMANTICS
// =============================================================================

func TestImport_FailedRowSkippedNotFatal(t *testing.T) {
	// GIVEN: Three rows where the middle one references an unknown service
	// WHEN:  Importing the batch
	// THEN:  Two adjustments are created; one error names file row 3
	//        (1-indexed data plus header)

	imp, svcID, mem := newTestImporter(t)
	ctx := context.Background()

	rows := []adjust.Row{
		{adjust.ColServiceID: string(svcID), adjust.ColPaidUsed: "1", adjust.ColFreeUsed: "0", adjust.ColBonus: "0"},
		{adjust.ColServiceID: "missing-svc", adjust.ColPaidUsed: "1"},
		{adjust.ColServiceID: string(svcID), adjust.ColPaidUsed: "0.5", adjust.ColBonus: "2"},
	}

	res := imp.Import(ctx, rows, admin)

	assert.Equal(t, 2, res.Created)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "row 3")
	assert.Contains(t, res.Errors[0], "missing-svc")

	adjs, err := mem.ListAdjustmentsByService(ctx, svcID)
	require.NoError(t, err)
	assert.Len(t, adjs, 2)
}

func TestImport_MissingServiceID(t *testing.T) {
	imp, _, _ := newTestImporter(t)

	res := imp.Import(context.Background(), []adjust.Row{
		{adjust.ColPaidUsed: "1"},
	}, admin)

	assert.Equal(t, 0, res.Created)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "row 2")
	assert.Contains(t, res.Errors[0], "missing service_id")
}

func TestImport_LenientNumericParsing(t *testing.T) {
	// GIVEN: Blank and garbage numeric fields
	// WHEN:  Importing
	// THEN:  They coerce to zero and the row still succeeds

	imp, svcID, mem := newTestImporter(t)
	ctx := context.Background()

	res := imp.Import(ctx, []adjust.Row{
		{adjust.ColServiceID: string(svcID), adjust.ColPaidUsed: "abc", adjust.ColFreeUsed: "  ", adjust.ColBonus: "1.5"},
	}, admin)

	assert.Equal(t, 1, res.Created)
	assert.Empty(t, res.Errors)

	adjs, err := mem.ListAdjustmentsByService(ctx, svcID)
	require.NoError(t, err)
	require.Len(t, adjs, 1)
	assert.True(t, adjs[0].Paid().IsZero())
	assert.True(t, adjs[0].Free().IsZero())
	assert.True(t, decimal.RequireFromString("1.5").Equal(adjs[0].Bonus()))
}

func TestImport_AttributedToActingUser(t *testing.T) {
	// Rows carry no user column: every created adjustment belongs to the
	// importing actor, even for employees.
	imp, svcID, mem := newTestImporter(t)
	ctx := context.Background()

	res := imp.Import(ctx, []adjust.Row{
		{adjust.ColServiceID: string(svcID), adjust.ColPaidUsed: "1"},
	}, employee)

	assert.Equal(t, 1, res.Created)
	adjs, err := mem.ListAdjustmentsByService(ctx, svcID)
	require.NoError(t, err)
	require.Len(t, adjs, 1)
	assert.Equal(t, employee.ID, adjs[0].UserID)
}

func TestImport_EmptyBatch(t *testing.T) {
	imp, _, _ := newTestImporter(t)

	res := imp.Import(context.Background(), nil, admin)
	assert.Equal(t, 0, res.Created)
	assert.Empty(t, res.Errors)
}

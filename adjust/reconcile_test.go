package adjust_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/session-engine/adjust"
	"github.com/warp/session-engine/quota"
	"github.com/warp/session-engine/quota/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var (
	employee = quota.Actor{ID: "staff-1", Capability: quota.CapEmployee}
	admin    = quota.Actor{ID: "admin-1", Capability: quota.CapAdmin}
)

func newTestReconciler(t *testing.T) (*adjust.Reconciler, *store.Memory, quota.ServiceID) {
	t.Helper()
	ctx := context.Background()
	mem := store.NewMemory()

	svcID := quota.ServiceID("svc-1")
	require.NoError(t, mem.CreateService(ctx, quota.PurchasedService{
		ID:       svcID,
		ClientID: "client-1",
		Status:   quota.StatusActive,
	}))

	r := adjust.NewReconciler(mem).WithClock(func() time.Time {
		return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	})
	return r, mem, svcID
}

// =============================================================================
// APPLY TESTS
// =============================================================================

func TestApply_RecordsDeltas(t *testing.T) {
	r, mem, svcID := newTestReconciler(t)
	ctx := context.Background()

	a, err := r.Apply(ctx, svcID, admin, "admin-1",
		quota.SomeDelta(decimal.RequireFromString("0.5")),
		quota.NoDelta(),
		quota.SomeDelta(decimal.NewFromInt(2)))
	require.NoError(t, err)

	got, err := mem.GetAdjustment(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.5").Equal(got.Paid()))
	assert.False(t, got.FreeUsedDelta.Valid, "absent delta stays absent")
	assert.True(t, decimal.NewFromInt(2).Equal(got.Bonus()))
}

func TestApply_UnknownService(t *testing.T) {
	r, _, _ := newTestReconciler(t)

	_, err := r.Apply(context.Background(), "nope", admin, "admin-1",
		quota.NoDelta(), quota.NoDelta(), quota.NoDelta())
	assert.ErrorIs(t, err, quota.ErrServiceNotFound)
}

func TestApply_EmployeeAttributionForcedToSelf(t *testing.T) {
	// GIVEN: An employee naming someone else as the attributed user
	// WHEN:  Applying the adjustment
	// THEN:  Attribution is silently overridden to the actor

	r, _, svcID := newTestReconciler(t)

	a, err := r.Apply(context.Background(), svcID, employee, "someone-else",
		quota.SomeDelta(decimal.NewFromInt(1)), quota.NoDelta(), quota.NoDelta())
	require.NoError(t, err)
	assert.Equal(t, employee.ID, a.UserID)
}

func TestApply_AdminAttributesOthers(t *testing.T) {
	r, _, svcID := newTestReconciler(t)

	a, err := r.Apply(context.Background(), svcID, admin, "staff-7",
		quota.SomeDelta(decimal.NewFromInt(1)), quota.NoDelta(), quota.NoDelta())
	require.NoError(t, err)
	assert.Equal(t, quota.UserID("staff-7"), a.UserID)
}

func TestApply_EmptyAttributionDefaultsToActor(t *testing.T) {
	r, _, svcID := newTestReconciler(t)

	a, err := r.Apply(context.Background(), svcID, admin, "",
		quota.NoDelta(), quota.NoDelta(), quota.NoDelta())
	require.NoError(t, err)
	assert.Equal(t, admin.ID, a.UserID)
}

// =============================================================================
// UPDATE / DELETE TESTS - Admin-gated
// =============================================================================

func TestUpdate_EmployeeDenied(t *testing.T) {
	r, _, svcID := newTestReconciler(t)
	ctx := context.Background()

	a, err := r.Apply(ctx, svcID, admin, "admin-1",
		quota.SomeDelta(decimal.NewFromInt(1)), quota.NoDelta(), quota.NoDelta())
	require.NoError(t, err)

	_, err = r.Update(ctx, a.ID, employee,
		quota.SomeDelta(decimal.NewFromInt(5)), quota.NoDelta(), quota.NoDelta())
	assert.ErrorIs(t, err, quota.ErrNotPermitted)
}

func TestUpdate_AdminRewritesDeltas(t *testing.T) {
	r, mem, svcID := newTestReconciler(t)
	ctx := context.Background()

	a, err := r.Apply(ctx, svcID, admin, "admin-1",
		quota.SomeDelta(decimal.NewFromInt(1)), quota.NoDelta(), quota.NoDelta())
	require.NoError(t, err)

	_, err = r.Update(ctx, a.ID, admin,
		quota.NoDelta(),
		quota.SomeDelta(decimal.RequireFromString("-0.5")),
		quota.NoDelta())
	require.NoError(t, err)

	got, err := mem.GetAdjustment(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, got.PaidUsedDelta.Valid, "update replaces, not merges")
	assert.True(t, decimal.RequireFromString("-0.5").Equal(got.Free()))
}

func TestDelete_EmployeeDenied_AdminAllowed(t *testing.T) {
	r, mem, svcID := newTestReconciler(t)
	ctx := context.Background()

	a, err := r.Apply(ctx, svcID, admin, "admin-1",
		quota.SomeDelta(decimal.NewFromInt(1)), quota.NoDelta(), quota.NoDelta())
	require.NoError(t, err)

	err = r.Delete(ctx, a.ID, employee)
	assert.ErrorIs(t, err, quota.ErrNotPermitted)

	err = r.Delete(ctx, a.ID, admin)
	require.NoError(t, err)

	_, err = mem.GetAdjustment(ctx, a.ID)
	assert.ErrorIs(t, err, quota.ErrAdjustmentNotFound)
}

func TestUpdate_UnknownAdjustment(t *testing.T) {
	r, _, _ := newTestReconciler(t)

	_, err := r.Update(context.Background(), "ghost", admin,
		quota.NoDelta(), quota.NoDelta(), quota.NoDelta())
	assert.ErrorIs(t, err, quota.ErrAdjustmentNotFound)
}

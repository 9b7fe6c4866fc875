package quota_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/session-engine/quota"
	"github.com/warp/session-engine/quota/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestLedger(t *testing.T) (*quota.Ledger, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	return quota.NewLedger(mem), mem
}

func seedService(t *testing.T, mem *store.Memory, paidTotal, freeTotal int) quota.ServiceID {
	t.Helper()
	ctx := context.Background()

	def := quota.ServiceDefinition{
		ID:           "pt-pack",
		Name:         "Personal Training",
		PaidSessions: paidTotal,
		FreeSessions: freeTotal,
	}
	require.NoError(t, mem.UpsertDefinition(ctx, def))

	svc := quota.PurchasedService{
		ID:           quota.NewServiceID(),
		ClientID:     "client-1",
		DefinitionID: def.ID,
		Status:       quota.StatusActive,
		StartDate:    time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		ExpireDate:   time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, mem.CreateService(ctx, svc))
	return svc.ID
}

func session(serviceID quota.ServiceID, id string, at time.Time, typ quota.SessionType, present, confirmed bool) quota.Booking {
	return quota.Booking{
		ID:          quota.BookingID(id),
		Kind:        quota.KindSession,
		ClientID:    "client-1",
		ServiceID:   serviceID,
		UserID:      "staff-1",
		CreatorID:   "staff-1",
		OccurredAt:  at,
		Duration:    decimal.NewFromInt(1),
		Present:     present,
		SessionType: typ,
		Confirmed:   confirmed,
	}
}

// =============================================================================
// RAW REMAINDER TESTS
// =============================================================================

func TestLedger_RemainingPaid_CountsConfirmedPresentOnly(t *testing.T) {
	// GIVEN: 10 paid / 2 free, two confirmed present sessions and one
	//        unconfirmed present session
	// WHEN:  Computing the paid remainder
	// THEN:  Only confirmed sessions consume: 10 - 2 = 8

	ledger, mem := newTestLedger(t)
	ctx := context.Background()
	svcID := seedService(t, mem, 10, 2)

	base := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, mem.CreateBooking(ctx, session(svcID, "b1", base, quota.SessionPaid, true, true)))
	require.NoError(t, mem.CreateBooking(ctx, session(svcID, "b2", base.Add(time.Hour), quota.SessionPaid, true, true)))
	require.NoError(t, mem.CreateBooking(ctx, session(svcID, "b3", base.Add(2*time.Hour), quota.SessionPaid, true, false)))

	remaining, ok, err := ledger.RemainingPaid(ctx, svcID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, decimal.NewFromInt(8).Equal(remaining))
}

func TestLedger_RemainingFree_AbsencesConsumeFree(t *testing.T) {
	// GIVEN: 10 paid / 2 free, one confirmed absence
	// WHEN:  Computing both remainders
	// THEN:  free 2-1=1, paid untouched at 10

	ledger, mem := newTestLedger(t)
	ctx := context.Background()
	svcID := seedService(t, mem, 10, 2)

	at := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, mem.CreateBooking(ctx, session(svcID, "b1", at, quota.SessionFree, false, true)))

	free, ok, err := ledger.RemainingFree(ctx, svcID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, decimal.NewFromInt(1).Equal(free))

	paid, _, err := ledger.RemainingPaid(ctx, svcID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(paid))
}

func TestLedger_RemainingPaid_AbsenceOverflowSpillsIntoPaid(t *testing.T) {
	// GIVEN: 10 paid / 2 free and 4 confirmed absences
	// WHEN:  Computing remainders
	// THEN:  free clamps to 0, the 2 excess absences consume paid: 10-2=8

	ledger, mem := newTestLedger(t)
	ctx := context.Background()
	svcID := seedService(t, mem, 10, 2)

	base := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		b := session(svcID, string(quota.NewBookingID()), base.Add(time.Duration(i)*time.Hour), quota.SessionFree, false, true)
		require.NoError(t, mem.CreateBooking(ctx, b))
	}

	free, _, err := ledger.RemainingFree(ctx, svcID)
	require.NoError(t, err)
	assert.True(t, free.IsZero(), "free remainder clamps at zero, got %s", free)

	paid, _, err := ledger.RemainingPaid(ctx, svcID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(8).Equal(paid))
}

func TestLedger_Remaining_UnknownWithoutDefinition(t *testing.T) {
	// GIVEN: A purchase with no resolvable catalog definition
	// WHEN:  Computing any remainder
	// THEN:  ok is false - unknown, not zero

	ledger, mem := newTestLedger(t)
	ctx := context.Background()

	svc := quota.PurchasedService{
		ID:       quota.NewServiceID(),
		ClientID: "client-1",
		Status:   quota.StatusActive,
	}
	require.NoError(t, mem.CreateService(ctx, svc))

	_, ok, err := ledger.RemainingPaid(ctx, svc.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = ledger.EffectiveRemainingFree(ctx, svc.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLedger_Remaining_UnknownService(t *testing.T) {
	ledger, _ := newTestLedger(t)

	_, _, err := ledger.RemainingPaid(context.Background(), "nope")
	assert.ErrorIs(t, err, quota.ErrServiceNotFound)
}

// =============================================================================
// EFFECTIVE REMAINDER TESTS - Adjustment layering
// =============================================================================

func TestLedger_EffectivePaid_LayersDeltasAndBonus(t *testing.T) {
	// GIVEN: 10 paid total, paid_used_delta +2.5 and bonus +1
	// WHEN:  Computing the effective paid remainder
	// THEN:  10 - 2.5 + 1 = 8.5

	ledger, mem := newTestLedger(t)
	ctx := context.Background()
	svcID := seedService(t, mem, 10, 2)

	require.NoError(t, mem.CreateAdjustment(ctx, quota.UsageAdjustment{
		ID:            quota.NewAdjustmentID(),
		ServiceID:     svcID,
		UserID:        "staff-1",
		PaidUsedDelta: quota.SomeDelta(decimal.RequireFromString("2.5")),
		BonusSessions: quota.SomeDelta(decimal.NewFromInt(1)),
	}))

	eff, ok, err := ledger.EffectiveRemainingPaid(ctx, svcID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, decimal.RequireFromString("8.5").Equal(eff), "got %s", eff)
}

func TestLedger_EffectiveFree_NegativeDeltaGivesBack(t *testing.T) {
	// GIVEN: 2 free total, one confirmed absence, free_used_delta -1
	//        (a "that absence was our mistake" correction)
	// WHEN:  Computing the effective free remainder
	// THEN:  (2-1) - (-1) = 2

	ledger, mem := newTestLedger(t)
	ctx := context.Background()
	svcID := seedService(t, mem, 10, 2)

	at := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, mem.CreateBooking(ctx, session(svcID, "b1", at, quota.SessionFree, false, true)))
	require.NoError(t, mem.CreateAdjustment(ctx, quota.UsageAdjustment{
		ID:            quota.NewAdjustmentID(),
		ServiceID:     svcID,
		UserID:        "staff-1",
		FreeUsedDelta: quota.SomeDelta(decimal.NewFromInt(-1)),
	}))

	eff, ok, err := ledger.EffectiveRemainingFree(ctx, svcID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, decimal.NewFromInt(2).Equal(eff), "got %s", eff)
}

// =============================================================================
// SEQUENCE NUMBER TESTS
// =============================================================================

func TestLedger_SequenceNumber_ShiftedByEarlierAdjustment(t *testing.T) {
	// GIVEN: Three paid sessions at t1 < t2 < t3 and a paid_used_delta of
	//        +1 recorded before t2
	// WHEN:  Computing the ordinal of the t2 session
	// THEN:  2 positional + 1 from the adjustment = 3

	ledger, mem := newTestLedger(t)
	ctx := context.Background()
	svcID := seedService(t, mem, 10, 2)

	t1 := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(24 * time.Hour)
	t3 := t2.Add(24 * time.Hour)

	require.NoError(t, mem.CreateBooking(ctx, session(svcID, "b1", t1, quota.SessionPaid, true, true)))
	require.NoError(t, mem.CreateBooking(ctx, session(svcID, "b2", t2, quota.SessionPaid, true, true)))
	require.NoError(t, mem.CreateBooking(ctx, session(svcID, "b3", t3, quota.SessionPaid, true, true)))

	require.NoError(t, mem.CreateAdjustment(ctx, quota.UsageAdjustment{
		ID:            quota.NewAdjustmentID(),
		ServiceID:     svcID,
		UserID:        "staff-1",
		PaidUsedDelta: quota.SomeDelta(decimal.NewFromInt(1)),
		CreatedAt:     t1.Add(time.Hour), // before t2
	}))

	n, err := ledger.SequenceNumber(ctx, "b2")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(3).Equal(n), "got %s", n)
}

func TestLedger_SequenceNumber_IgnoresOtherType(t *testing.T) {
	// GIVEN: A free session before a paid session
	// WHEN:  Computing the paid session's ordinal
	// THEN:  The free session does not count: Paid #1

	ledger, mem := newTestLedger(t)
	ctx := context.Background()
	svcID := seedService(t, mem, 10, 2)

	t1 := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, mem.CreateBooking(ctx, session(svcID, "b1", t1, quota.SessionFree, false, true)))
	require.NoError(t, mem.CreateBooking(ctx, session(svcID, "b2", t1.Add(time.Hour), quota.SessionPaid, true, true)))

	n, err := ledger.SequenceNumber(ctx, "b2")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1).Equal(n))
}

func TestLedger_SequenceLabel_Formatting(t *testing.T) {
	// GIVEN: One paid session, with and without a fractional adjustment
	// WHEN:  Formatting the label
	// THEN:  Whole ordinals render bare, fractional ones with 2 decimals

	ledger, mem := newTestLedger(t)
	ctx := context.Background()
	svcID := seedService(t, mem, 10, 2)

	t1 := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, mem.CreateBooking(ctx, session(svcID, "b1", t1, quota.SessionPaid, true, true)))

	label, err := ledger.SequenceLabel(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "Paid #1", label)

	require.NoError(t, mem.CreateAdjustment(ctx, quota.UsageAdjustment{
		ID:            quota.NewAdjustmentID(),
		ServiceID:     svcID,
		UserID:        "staff-1",
		PaidUsedDelta: quota.SomeDelta(decimal.RequireFromString("1.5")),
		CreatedAt:     t1.Add(-time.Hour),
	}))

	label, err = ledger.SequenceLabel(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "Paid #2.50", label)
}

func TestLedger_SequenceNumber_ConsultationHasNone(t *testing.T) {
	ledger, mem := newTestLedger(t)
	ctx := context.Background()
	svcID := seedService(t, mem, 10, 2)

	require.NoError(t, mem.CreateBooking(ctx, quota.Booking{
		ID:         "c1",
		Kind:       quota.KindConsultation,
		ClientID:   "client-1",
		ServiceID:  svcID,
		UserID:     "staff-1",
		CreatorID:  "staff-1",
		OccurredAt: time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC),
		Duration:   decimal.NewFromInt(1),
	}))

	_, err := ledger.SequenceNumber(ctx, "c1")
	assert.Error(t, err)
}

// =============================================================================
// FORMATTING
// =============================================================================

func TestFormatOrdinal(t *testing.T) {
	assert.Equal(t, "7", quota.FormatOrdinal(decimal.NewFromInt(7)))
	assert.Equal(t, "2.50", quota.FormatOrdinal(decimal.RequireFromString("2.5")))
	assert.Equal(t, "0", quota.FormatOrdinal(decimal.Zero))
}

func TestSessionType_Label(t *testing.T) {
	assert.Equal(t, "Paid", quota.SessionPaid.Label())
	assert.Equal(t, "Free", quota.SessionFree.Label())
}

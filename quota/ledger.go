/*
ledger.go - Remaining-quota and sequence-number calculation

PURPOSE:
  The Quota Ledger answers two questions for a purchased service:
    1. "How many paid/free sessions remain?"
    2. "Which ordinal is this session within its type?"

  Both answers are DERIVED on every call from the current confirmed
  bookings and adjustment rows. Nothing is cached or materialized:
  correctness under concurrent adjustment creation matters more than
  read latency at this scale.

REMAINING QUOTA:
  paid:  used = confirmed present sessions
              + absences beyond the free-absence allotment
         remaining = max(paid_total - used, 0)
  free:  used = confirmed absent sessions
         remaining = max(free_total - used, 0)

  Without a resolvable ServiceDefinition the answer is "unknown"
  (ok == false) - totals live only in the catalog.

ADJUSTMENT LAYERING:
  The raw remainders above exclude manual adjustments; consumers layer
  them in. The Effective* variants do that layering in one place so the
  validator, the API and any display code can never diverge:
    effective paid = raw - SUM(paid_used_delta) + SUM(bonus_sessions)
    effective free = raw - SUM(free_used_delta)

SEQUENCE NUMBERS:
  A session's ordinal within its (service, type) group, ordered by
  occurred_at (ties by ID), plus same-typed adjustment deltas created at
  or before the session's time. Fractional ordinals are possible when
  adjustments are non-integer; display rounds to 2 decimals only then.

KNOWN RACE:
  Two concurrent booking attempts can both read "1 remaining" and both
  be accepted, over-consuming quota. The source system behaves the same
  way and callers depend on accepted-then-rejected semantics, so the
  ledger does not serialize per service.

SEE ALSO:
  - booking/validator.go: Quota-sufficiency check and classification
  - store.go: Read guarantees the calculation relies on
*/
package quota

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Ledger computes derived quota state for purchased services.
type Ledger struct {
	store Store
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

// =============================================================================
// RAW REMAINDERS - Definition totals minus confirmed consumption
// =============================================================================

// RemainingPaid returns the clamped paid-session remainder, before
// adjustment deltas. ok is false when the service has no resolvable
// definition.
func (l *Ledger) RemainingPaid(ctx context.Context, id ServiceID) (decimal.Decimal, bool, error) {
	def, u, err := l.usage(ctx, id)
	if err != nil {
		return decimal.Zero, false, err
	}
	if def == nil {
		return decimal.Zero, false, nil
	}

	// Absences beyond the free allotment spill into paid quota.
	overflow := u.absent - def.FreeSessions
	if overflow < 0 {
		overflow = 0
	}
	used := u.present + overflow

	remaining := decimal.NewFromInt(int64(def.PaidSessions - used))
	return clampZero(remaining), true, nil
}

// RemainingFree returns the clamped free-session remainder, before
// adjustment deltas. ok is false when the service has no resolvable
// definition.
func (l *Ledger) RemainingFree(ctx context.Context, id ServiceID) (decimal.Decimal, bool, error) {
	def, u, err := l.usage(ctx, id)
	if err != nil {
		return decimal.Zero, false, err
	}
	if def == nil {
		return decimal.Zero, false, nil
	}

	remaining := decimal.NewFromInt(int64(def.FreeSessions - u.absent))
	return clampZero(remaining), true, nil
}

// =============================================================================
// EFFECTIVE REMAINDERS - Raw remainders with adjustment deltas layered in
// =============================================================================

// AdjustmentTotals sums the three delta kinds across all adjustments
// for a service.
func (l *Ledger) AdjustmentTotals(ctx context.Context, id ServiceID) (paid, free, bonus decimal.Decimal, err error) {
	adjs, err := l.store.ListAdjustmentsByService(ctx, id)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, fmt.Errorf("ledger: sum adjustments: %w", err)
	}
	for _, a := range adjs {
		paid = paid.Add(a.Paid())
		free = free.Add(a.Free())
		bonus = bonus.Add(a.Bonus())
	}
	return paid, free, bonus, nil
}

// EffectiveRemainingPaid layers adjustments into the paid remainder:
// used-deltas consume, bonus sessions extend.
func (l *Ledger) EffectiveRemainingPaid(ctx context.Context, id ServiceID) (decimal.Decimal, bool, error) {
	raw, ok, err := l.RemainingPaid(ctx, id)
	if err != nil || !ok {
		return decimal.Zero, ok, err
	}
	paid, _, bonus, err := l.AdjustmentTotals(ctx, id)
	if err != nil {
		return decimal.Zero, false, err
	}
	return raw.Sub(paid).Add(bonus), true, nil
}

// EffectiveRemainingFree layers free-used deltas into the free remainder.
func (l *Ledger) EffectiveRemainingFree(ctx context.Context, id ServiceID) (decimal.Decimal, bool, error) {
	raw, ok, err := l.RemainingFree(ctx, id)
	if err != nil || !ok {
		return decimal.Zero, ok, err
	}
	_, free, _, err := l.AdjustmentTotals(ctx, id)
	if err != nil {
		return decimal.Zero, false, err
	}
	return raw.Sub(free), true, nil
}

// =============================================================================
// SEQUENCE NUMBERS - "this is the 7th paid session"
// =============================================================================

// SequenceNumber returns the booking's ordinal within its
// (service, type) group: the count of same-typed sessions occurring at
// or before it (ties broken by ID), plus same-typed adjustment deltas
// created at or before its occurrence time.
func (l *Ledger) SequenceNumber(ctx context.Context, id BookingID) (decimal.Decimal, error) {
	b, err := l.store.GetBooking(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	if b.Kind != KindSession || !b.HasService() {
		return decimal.Zero, fmt.Errorf("ledger: booking %s: %w", id, ErrServiceNotFound)
	}

	sessions, err := l.store.ListSessionsByService(ctx, b.ServiceID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ledger: list sessions: %w", err)
	}

	count := 0
	for _, s := range sessions {
		if s.SessionType != b.SessionType {
			continue
		}
		if s.OccurredAt.Before(b.OccurredAt) ||
			(s.OccurredAt.Equal(b.OccurredAt) && s.ID <= b.ID) {
			count++
		}
	}

	adjs, err := l.store.ListAdjustmentsByService(ctx, b.ServiceID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ledger: list adjustments: %w", err)
	}
	shift := decimal.Zero
	for _, a := range adjs {
		if a.CreatedAt.After(b.OccurredAt) {
			continue
		}
		switch b.SessionType {
		case SessionPaid:
			shift = shift.Add(a.Paid())
		case SessionFree:
			shift = shift.Add(a.Free())
		}
	}

	return decimal.NewFromInt(int64(count)).Add(shift), nil
}

// SequenceLabel formats the ordinal as "<Type> #<n>", with 2 decimals
// only when the ordinal is non-integral.
func (l *Ledger) SequenceLabel(ctx context.Context, id BookingID) (string, error) {
	b, err := l.store.GetBooking(ctx, id)
	if err != nil {
		return "", err
	}
	n, err := l.SequenceNumber(ctx, id)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s #%s", b.SessionType.Label(), FormatOrdinal(n)), nil
}

// FormatOrdinal renders a sequence number: integer when whole, else
// fixed 2 decimals.
func FormatOrdinal(n decimal.Decimal) string {
	if n.IsInteger() {
		return n.String()
	}
	return n.StringFixed(2)
}

// =============================================================================
// INTERNALS
// =============================================================================

// sessionUsage is the confirmed-session tally the remainders derive from.
type sessionUsage struct {
	present int
	absent  int
}

// usage loads the definition (nil when unresolvable) and tallies
// confirmed sessions by attendance.
func (l *Ledger) usage(ctx context.Context, id ServiceID) (*ServiceDefinition, sessionUsage, error) {
	svc, err := l.store.GetService(ctx, id)
	if err != nil {
		return nil, sessionUsage{}, err
	}

	var def *ServiceDefinition
	if svc.HasDefinition() {
		def, err = l.store.GetDefinition(ctx, svc.DefinitionID)
		if err != nil && !IsNotFound(err) {
			return nil, sessionUsage{}, err
		}
	}
	if def == nil {
		return nil, sessionUsage{}, nil
	}

	sessions, err := l.store.ListSessionsByService(ctx, id)
	if err != nil {
		return nil, sessionUsage{}, fmt.Errorf("ledger: list sessions: %w", err)
	}

	var u sessionUsage
	for _, s := range sessions {
		if !s.Confirmed {
			continue
		}
		if s.Present {
			u.present++
		} else {
			u.absent++
		}
	}
	return def, u, nil
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

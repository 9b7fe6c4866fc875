/*
workflow.go - Confirmation transition and booking mutation rules

PURPOSE:
  Confirmation marks a booking as "staff verified this actually
  happened as recorded". It is strictly one-way: there is no
  un-confirm anywhere in the system.

CONFIRM SEMANTICS:
  - Bulk: a set of booking IDs transitions together.
  - Idempotent: already-confirmed IDs are excluded from the update set,
    so re-confirming returns 0 without error.
  - Atomic: the eligible subset transitions all-or-nothing at the
    storage layer (single transactional UPDATE in sqlite).
  - Quota-neutral: confirmation mutates booking state only; remaining
    quota changes as a CONSEQUENCE because the ledger counts confirmed
    rows, but no quota field is written anywhere.

MUTATION RULES (from the booking lifecycle):
  note / presence / occurrence time / duration are mutable
    - while unconfirmed, by the booking's creator
    - at any time, by an Admin+ actor
  Session type is NOT mutable: classification happens once at creation.

SEE ALSO:
  - validator.go: Creation-side state machine
  - quota/store.go: ConfirmBookings contract
*/
package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/session-engine/quota"
)

// Confirm transitions every currently-unconfirmed booking in ids and
// returns the number actually transitioned.
func (s *Service) Confirm(ctx context.Context, ids []quota.BookingID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	count, err := s.store.ConfirmBookings(ctx, ids, s.now())
	if err != nil {
		return 0, fmt.Errorf("booking: confirm: %w", err)
	}
	return count, nil
}

// Mutation carries the fields staff may change after creation. Nil
// means "leave unchanged".
type Mutation struct {
	Note       *string
	Present    *bool
	OccurredAt *time.Time
	Duration   *decimal.Decimal
}

// Update applies a mutation under the lifecycle rules and returns the
// updated booking.
func (s *Service) Update(ctx context.Context, id quota.BookingID, mut Mutation, actor quota.Actor) (*quota.Booking, error) {
	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if b.Confirmed && !actor.Capability.CanMutateConfirmed() {
		return nil, quota.ErrBookingConfirmed
	}
	if !b.Confirmed && actor.ID != b.CreatorID && !actor.Capability.CanMutateConfirmed() {
		return nil, quota.ErrNotPermitted
	}

	if mut.Note != nil {
		b.Note = *mut.Note
	}
	if mut.Present != nil {
		b.Present = *mut.Present
	}
	if mut.OccurredAt != nil {
		b.OccurredAt = *mut.OccurredAt
	}
	if mut.Duration != nil {
		b.Duration = *mut.Duration
	}

	if err := s.store.UpdateBooking(ctx, *b); err != nil {
		return nil, fmt.Errorf("booking: update: %w", err)
	}
	return b, nil
}

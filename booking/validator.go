/*
Package booking wraps the quota engine with the booking-specific rules.

PURPOSE:
  The quota engine (package quota) knows how to count; it doesn't know
  WHEN a session may be booked. This package owns that policy:

  - validator.go: the per-attempt state machine
      draft -> {accepted, rejected}
    with type/duration classification and the ordered check set.
  - workflow.go: the one-way confirmation transition and the
    capability-gated mutation rules.

CLASSIFICATION (runs at draft-finalization, before validation):
  1. Duration defaults to 1.0 hour when unset.
  2. present=true forces "paid" - attendance always consumes paid quota,
     regardless of the remaining free balance.
  3. No resolvable ServiceDefinition -> "paid" (free eligibility can't
     be evaluated).
  4. Otherwise "free" iff effective remaining free >= duration, else
     "paid". Greedy: free quota is exhausted before paid for absences.

CHECKS (each produces its own rejection reason; ALL violations are
collected, none short-circuits):
  1. Presence: client, service (sessions), creator, occurrence time
  2. Non-duplication: client+service+exact timestamp
  3. Client-service match
  4. Service lifecycle: not cancelled
  5. Booking window, twice over - both guards exist in the source and
     both are kept deliberately (see DESIGN.md):
       a. session date within [start-30d, expire+30d]
       b. relative to TODAY: service must not start more than 30 days
          from now nor have expired more than 30 days ago
  6. Quota sufficiency: effective remaining of the classified type must
     cover the duration

RESULT:
  Accepted -> the booking is persisted with its classified type and
  duration. Rejected -> a quota.Rejection listing every violation is
  returned as a VALUE; errors are reserved for infrastructure failures.

SEE ALSO:
  - quota/ledger.go: Effective remainders the checks read
  - workflow.go: Confirmation and mutation
*/
package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/session-engine/quota"
)

// GraceDays is the slack on both booking-window guards.
const GraceDays = 30

// DefaultDuration is applied when a draft carries no duration (hours).
var DefaultDuration = decimal.NewFromInt(1)

// Draft is a booking attempt before validation. CreatorID defaults to
// UserID; Duration defaults to 1.0.
type Draft struct {
	Kind      quota.BookingKind
	ClientID  quota.ClientID
	ServiceID quota.ServiceID // required for sessions
	UserID    quota.UserID    // responsible staff member
	CreatorID quota.UserID

	OccurredAt time.Time
	Duration   decimal.Decimal
	Present    bool
	Note       string
}

// Service orchestrates booking creation, confirmation and mutation.
// The clock is injectable so window checks are testable.
type Service struct {
	store  quota.Store
	ledger *quota.Ledger
	now    func() time.Time
}

func NewService(store quota.Store) *Service {
	return &Service{
		store:  store,
		ledger: quota.NewLedger(store),
		now:    time.Now,
	}
}

// WithClock replaces the time source. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Ledger exposes the service's ledger for read paths.
func (s *Service) Ledger() *quota.Ledger { return s.ledger }

// =============================================================================
// CREATE - draft -> {accepted, rejected}
// =============================================================================

// Create finalizes and validates a draft. On acceptance the persisted
// booking is returned; on rejection the full violation list is returned
// as a value. The error return is for infrastructure failures only.
func (s *Service) Create(ctx context.Context, draft Draft) (*quota.Booking, *quota.Rejection, error) {
	if draft.Kind == "" {
		draft.Kind = quota.KindSession
	}
	if draft.CreatorID == "" {
		draft.CreatorID = draft.UserID
	}
	if draft.Duration.IsZero() {
		draft.Duration = DefaultDuration
	}

	switch draft.Kind {
	case quota.KindConsultation:
		return s.createConsultation(ctx, draft)
	default:
		return s.createSession(ctx, draft)
	}
}

func (s *Service) createSession(ctx context.Context, draft Draft) (*quota.Booking, *quota.Rejection, error) {
	rej := &quota.Rejection{}

	// 1. Presence
	if draft.ClientID == "" {
		rej.Add(quota.ReasonMissingClient, "client is required")
	}
	if draft.ServiceID == "" {
		rej.Add(quota.ReasonMissingService, "service is required for sessions")
	}
	if draft.CreatorID == "" {
		rej.Add(quota.ReasonMissingCreator, "creator is required")
	}
	if draft.OccurredAt.IsZero() {
		rej.Add(quota.ReasonMissingTime, "occurrence time is required")
	}
	if !rej.Empty() {
		// The remaining checks all need a resolvable draft.
		return nil, rej, nil
	}

	svc, err := s.store.GetService(ctx, draft.ServiceID)
	if quota.IsNotFound(err) {
		rej.Add(quota.ReasonServiceNotFound, "service %s does not exist", draft.ServiceID)
		return nil, rej, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("booking: resolve service: %w", err)
	}

	sessionType, err := s.classify(ctx, draft, svc)
	if err != nil {
		return nil, nil, err
	}

	// 2. Non-duplication
	dup, err := s.store.SessionExistsAt(ctx, draft.ClientID, draft.ServiceID, draft.OccurredAt)
	if err != nil {
		return nil, nil, fmt.Errorf("booking: duplicate check: %w", err)
	}
	if dup {
		rej.Add(quota.ReasonDuplicateSession,
			"client already has a session on this service at %s", draft.OccurredAt.Format(time.RFC3339))
	}

	// 3. Client-service match
	if svc.ClientID != draft.ClientID {
		rej.Add(quota.ReasonServiceMismatch, "service %s does not belong to client %s", svc.ID, draft.ClientID)
	}

	// 4. Service lifecycle
	if svc.Status == quota.StatusCancelled {
		rej.Add(quota.ReasonServiceCancelled, "service %s is cancelled", svc.ID)
	}

	// 5a. Window relative to the session's own date
	if draft.OccurredAt.Before(svc.StartDate.AddDate(0, 0, -GraceDays)) ||
		draft.OccurredAt.After(svc.ExpireDate.AddDate(0, 0, GraceDays)) {
		rej.Add(quota.ReasonOutsideServiceWindow,
			"session date is outside the service window (%s to %s, %d-day grace)",
			svc.StartDate.Format("2006-01-02"), svc.ExpireDate.Format("2006-01-02"), GraceDays)
	}

	// 5b. Window relative to today
	today := s.now()
	if svc.StartDate.After(today.AddDate(0, 0, GraceDays)) {
		rej.Add(quota.ReasonOutsideCurrentWindow,
			"service starts more than %d days from now", GraceDays)
	}
	if svc.ExpireDate.Before(today.AddDate(0, 0, -GraceDays)) {
		rej.Add(quota.ReasonOutsideCurrentWindow,
			"service expired more than %d days ago", GraceDays)
	}

	// 6. Quota sufficiency for the classified type. A service without a
	// definition has unknown quota; the check cannot fail it.
	if err := s.checkQuota(ctx, draft, sessionType, rej); err != nil {
		return nil, nil, err
	}

	if !rej.Empty() {
		return nil, rej, nil
	}

	b := quota.Booking{
		ID:          quota.NewBookingID(),
		Kind:        quota.KindSession,
		ClientID:    draft.ClientID,
		ServiceID:   draft.ServiceID,
		UserID:      draft.UserID,
		CreatorID:   draft.CreatorID,
		OccurredAt:  draft.OccurredAt,
		Duration:    draft.Duration,
		Present:     draft.Present,
		Note:        draft.Note,
		SessionType: sessionType,
		CreatedAt:   s.now(),
	}
	if err := s.store.CreateBooking(ctx, b); err != nil {
		// The unique index is the backstop for the read-then-write race
		// on the duplicate check.
		if quota.IsClientError(err) {
			rej.Add(quota.ReasonDuplicateSession, "%v", err)
			return nil, rej, nil
		}
		return nil, nil, fmt.Errorf("booking: persist: %w", err)
	}
	return &b, nil, nil
}

func (s *Service) createConsultation(ctx context.Context, draft Draft) (*quota.Booking, *quota.Rejection, error) {
	rej := &quota.Rejection{}

	if draft.ClientID == "" {
		rej.Add(quota.ReasonMissingClient, "client is required")
	}
	if draft.CreatorID == "" {
		rej.Add(quota.ReasonMissingCreator, "creator is required")
	}
	if draft.OccurredAt.IsZero() {
		rej.Add(quota.ReasonMissingTime, "occurrence time is required")
	}
	if !rej.Empty() {
		return nil, rej, nil
	}

	// The service link is optional for consultations; when present it
	// must belong to the client and not already carry a consultation.
	if draft.ServiceID != "" {
		svc, err := s.store.GetService(ctx, draft.ServiceID)
		if quota.IsNotFound(err) {
			rej.Add(quota.ReasonServiceNotFound, "service %s does not exist", draft.ServiceID)
			return nil, rej, nil
		}
		if err != nil {
			return nil, nil, fmt.Errorf("booking: resolve service: %w", err)
		}
		if svc.ClientID != draft.ClientID {
			rej.Add(quota.ReasonServiceMismatch, "service %s does not belong to client %s", svc.ID, draft.ClientID)
		}
		taken, err := s.store.ConsultationExistsForService(ctx, draft.ServiceID)
		if err != nil {
			return nil, nil, fmt.Errorf("booking: consultation check: %w", err)
		}
		if taken {
			rej.Add(quota.ReasonConsultationTaken, "service %s already has a consultation", svc.ID)
		}
	}

	if !rej.Empty() {
		return nil, rej, nil
	}

	b := quota.Booking{
		ID:         quota.NewBookingID(),
		Kind:       quota.KindConsultation,
		ClientID:   draft.ClientID,
		ServiceID:  draft.ServiceID,
		UserID:     draft.UserID,
		CreatorID:  draft.CreatorID,
		OccurredAt: draft.OccurredAt,
		Duration:   draft.Duration,
		Present:    draft.Present,
		Note:       draft.Note,
		CreatedAt:  s.now(),
	}
	if err := s.store.CreateBooking(ctx, b); err != nil {
		if quota.IsClientError(err) {
			rej.Add(quota.ReasonConsultationTaken, "%v", err)
			return nil, rej, nil
		}
		return nil, nil, fmt.Errorf("booking: persist: %w", err)
	}
	return &b, nil, nil
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

// classify decides the quota bucket for a session draft. Greedy
// eager-free policy: absences consume free quota while it covers the
// duration, then paid.
func (s *Service) classify(ctx context.Context, draft Draft, svc *quota.PurchasedService) (quota.SessionType, error) {
	if draft.Present {
		return quota.SessionPaid, nil
	}
	if !svc.HasDefinition() {
		return quota.SessionPaid, nil
	}
	free, ok, err := s.ledger.EffectiveRemainingFree(ctx, svc.ID)
	if err != nil {
		return "", fmt.Errorf("booking: classify: %w", err)
	}
	if ok && free.GreaterThanOrEqual(draft.Duration) {
		return quota.SessionFree, nil
	}
	return quota.SessionPaid, nil
}

// checkQuota appends a quota violation when the classified bucket can't
// cover the duration. Unknown quota (no definition) always passes.
func (s *Service) checkQuota(ctx context.Context, draft Draft, t quota.SessionType, rej *quota.Rejection) error {
	var (
		remaining decimal.Decimal
		ok        bool
		err       error
	)
	switch t {
	case quota.SessionFree:
		remaining, ok, err = s.ledger.EffectiveRemainingFree(ctx, draft.ServiceID)
	default:
		remaining, ok, err = s.ledger.EffectiveRemainingPaid(ctx, draft.ServiceID)
	}
	if err != nil {
		return fmt.Errorf("booking: quota check: %w", err)
	}
	if ok && remaining.LessThan(draft.Duration) {
		rej.Add(quota.ReasonQuotaExceeded,
			"%s quota exhausted: %s remaining, %s required",
			t, remaining.String(), draft.Duration.String())
	}
	return nil
}

/*
errors.go - Centralized error types for the quota engine

PURPOSE:
  All sentinel and structured errors in one place. Domain packages wrap
  these with additional context; the API layer classifies them into
  HTTP statuses with IsClientError / IsNotFound.

ERROR CATEGORIES:
  1. Not-found errors   - referenced rows that don't exist
  2. Invariant errors   - duplication / one-way transition violations
  3. Permission errors  - capability checks that failed
  4. Rejection          - the multi-reason booking validation result
     (returned as a value alongside the booking, NOT raised - see
     booking/validator.go)

SEE ALSO:
  - booking/validator.go: Produces Rejection values
  - api/handlers.go: Maps these onto HTTP statuses
*/
package quota

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrClientNotFound is returned when a referenced client doesn't exist.
	ErrClientNotFound = errors.New("client not found")

	// ErrServiceNotFound is returned when a referenced purchased service
	// doesn't exist.
	ErrServiceNotFound = errors.New("service not found")

	// ErrDefinitionNotFound is returned when a referenced service
	// definition doesn't exist in the catalog.
	ErrDefinitionNotFound = errors.New("service definition not found")

	// ErrBookingNotFound is returned when a referenced booking doesn't exist.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAdjustmentNotFound is returned when a referenced adjustment
	// doesn't exist.
	ErrAdjustmentNotFound = errors.New("adjustment not found")

	// ErrDuplicateSession is returned by the store when the
	// client+service+occurred_at uniqueness constraint is violated.
	ErrDuplicateSession = errors.New("duplicate session for client, service and time")

	// ErrConsultationTaken is returned when a service already carries
	// its one allowed consultation.
	ErrConsultationTaken = errors.New("service already has a consultation")

	// ErrBookingConfirmed is returned when mutating a confirmed booking
	// without the required capability. Confirmation is one-way.
	ErrBookingConfirmed = errors.New("booking is confirmed and immutable")

	// ErrNotPermitted is returned when the actor's capability does not
	// allow the operation.
	ErrNotPermitted = errors.New("operation not permitted for actor")
)

// =============================================================================
// REJECTION - Multi-reason booking validation result
// =============================================================================

// RejectionReason names one distinct way a booking attempt can fail
// validation. Every check in the validator produces its own reason so
// staff see all violations, not just the first.
type RejectionReason string

const (
	ReasonMissingClient        RejectionReason = "missing_client"
	ReasonMissingService       RejectionReason = "missing_service"
	ReasonMissingCreator       RejectionReason = "missing_creator"
	ReasonMissingTime          RejectionReason = "missing_time"
	ReasonServiceNotFound      RejectionReason = "service_not_found"
	ReasonDuplicateSession     RejectionReason = "duplicate_session"
	ReasonServiceMismatch      RejectionReason = "service_mismatch"
	ReasonServiceCancelled     RejectionReason = "service_cancelled"
	ReasonOutsideServiceWindow RejectionReason = "outside_service_window"
	ReasonOutsideCurrentWindow RejectionReason = "outside_current_window"
	ReasonConsultationTaken    RejectionReason = "consultation_taken"
	ReasonQuotaExceeded        RejectionReason = "quota_exceeded"
)

// Violation pairs a reason code with its human-readable message.
type Violation struct {
	Reason  RejectionReason
	Message string
}

// Rejection is the rejected-draft result of a booking validation run.
// It collects EVERY violation; control returns it as a value rather
// than raising, so the caller can render the full list.
type Rejection struct {
	Violations []Violation
}

// Add appends a violation.
func (r *Rejection) Add(reason RejectionReason, format string, args ...any) {
	r.Violations = append(r.Violations, Violation{
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
	})
}

// Has reports whether a specific reason is present.
func (r *Rejection) Has(reason RejectionReason) bool {
	for _, v := range r.Violations {
		if v.Reason == reason {
			return true
		}
	}
	return false
}

// Empty reports whether validation passed.
func (r *Rejection) Empty() bool { return len(r.Violations) == 0 }

// Error makes Rejection usable as an error where a single value is
// required (e.g. import row messages).
func (r *Rejection) Error() string {
	msgs := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		msgs[i] = v.Message
	}
	return strings.Join(msgs, "; ")
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound reports whether the error indicates a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrClientNotFound) ||
		errors.Is(err, ErrServiceNotFound) ||
		errors.Is(err, ErrDefinitionNotFound) ||
		errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrAdjustmentNotFound)
}

// IsClientError reports whether the error is due to invalid input or a
// violated business invariant, as opposed to an infrastructure failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrDuplicateSession) ||
		errors.Is(err, ErrConsultationTaken) ||
		errors.Is(err, ErrBookingConfirmed) ||
		errors.Is(err, ErrNotPermitted)
}

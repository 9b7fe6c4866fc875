/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types
  decouple the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Request types carry go-playground/validator tags; handlers run the
  shared validator before touching domain logic. Domain-level rules
  (windows, quota, duplicates) stay in package booking - the tags only
  cover shape.

SEE ALSO:
  - handlers.go: Uses these types
  - booking/validator.go: Domain-level validation
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/session-engine/quota"
)

// =============================================================================
// BOOKINGS
// =============================================================================

// CreateBookingRequest is the request to record a session or
// consultation.
type CreateBookingRequest struct {
	Kind       string  `json:"kind" validate:"omitempty,oneof=session consultation"`
	ClientID   string  `json:"client_id" validate:"required"`
	ServiceID  string  `json:"service_id"`
	UserID     string  `json:"user_id" validate:"required"`
	CreatorID  string  `json:"creator_id"`
	OccurredAt string  `json:"occurred_at" validate:"required"`
	Duration   *string `json:"duration,omitempty"`
	Present    bool    `json:"present"`
	Note       string  `json:"note"`
}

// BookingDTO represents a booking in API responses.
type BookingDTO struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	ClientID    string  `json:"client_id"`
	ServiceID   string  `json:"service_id,omitempty"`
	UserID      string  `json:"user_id"`
	CreatorID   string  `json:"creator_id"`
	OccurredAt  string  `json:"occurred_at"`
	Duration    string  `json:"duration"`
	Present     bool    `json:"present"`
	Note        string  `json:"note,omitempty"`
	SessionType string  `json:"session_type,omitempty"`
	Confirmed   bool    `json:"confirmed"`
	ConfirmedAt *string `json:"confirmed_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// RejectionDTO is the 422 body listing every violation found.
type RejectionDTO struct {
	Rejected   bool           `json:"rejected"`
	Violations []ViolationDTO `json:"violations"`
}

type ViolationDTO struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// ConfirmRequest is the bulk confirmation request.
type ConfirmRequest struct {
	BookingIDs []string `json:"booking_ids" validate:"required,min=1"`
}

// ConfirmResponse reports how many bookings actually transitioned.
type ConfirmResponse struct {
	Confirmed int `json:"confirmed"`
}

// UpdateBookingRequest carries the mutable booking fields. Absent
// fields are left unchanged.
type UpdateBookingRequest struct {
	Note       *string `json:"note,omitempty"`
	Present    *bool   `json:"present,omitempty"`
	OccurredAt *string `json:"occurred_at,omitempty"`
	Duration   *string `json:"duration,omitempty"`
}

// SequenceDTO is the ordinal of a session within its type.
type SequenceDTO struct {
	BookingID   string `json:"booking_id"`
	SessionType string `json:"session_type"`
	Number      string `json:"number"`
	Label       string `json:"label"`
}

// =============================================================================
// QUOTA
// =============================================================================

// QuotaDTO reports the derived quota state of a purchased service.
// Remaining values are null when the service has no resolvable
// definition - unknown, not zero.
type QuotaDTO struct {
	ServiceID              string  `json:"service_id"`
	RemainingPaid          *string `json:"remaining_paid"`
	RemainingFree          *string `json:"remaining_free"`
	EffectiveRemainingPaid *string `json:"effective_remaining_paid"`
	EffectiveRemainingFree *string `json:"effective_remaining_free"`
}

// =============================================================================
// ADJUSTMENTS
// =============================================================================

// AdjustmentRequest creates or rewrites a usage adjustment. Deltas are
// optional and signed; 0.5 steps are conventional but not enforced.
type AdjustmentRequest struct {
	PaidUsedDelta *string `json:"paid_used_delta,omitempty"`
	FreeUsedDelta *string `json:"free_used_delta,omitempty"`
	BonusSessions *string `json:"bonus_sessions,omitempty"`
	AttributeTo   string  `json:"attribute_to,omitempty"`
}

// AdjustmentDTO represents an adjustment in API responses.
type AdjustmentDTO struct {
	ID            string  `json:"id"`
	ServiceID     string  `json:"service_id"`
	UserID        string  `json:"user_id"`
	PaidUsedDelta *string `json:"paid_used_delta,omitempty"`
	FreeUsedDelta *string `json:"free_used_delta,omitempty"`
	BonusSessions *string `json:"bonus_sessions,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// ImportRequest is a batch of already-parsed tabular rows.
type ImportRequest struct {
	Rows []map[string]string `json:"rows" validate:"required"`
}

// ImportResponse reports the batch outcome.
type ImportResponse struct {
	Created int      `json:"created"`
	Errors  []string `json:"errors"`
}

// =============================================================================
// DIRECTORY
// =============================================================================

// ClientDTO represents a client in API responses.
type ClientDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	CreatedAt string `json:"created_at"`
}

// CreateClientRequest mirrors a directory client into the engine.
type CreateClientRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
}

// ServiceDTO represents a purchased service in API responses.
type ServiceDTO struct {
	ID           string `json:"id"`
	ClientID     string `json:"client_id"`
	DefinitionID string `json:"definition_id,omitempty"`
	Status       string `json:"status"`
	StartDate    string `json:"start_date"`
	ExpireDate   string `json:"expire_date"`
	PurchaseDate string `json:"purchase_date"`
}

// CreateServiceRequest records a purchase instance. Dates are
// YYYY-MM-DD.
type CreateServiceRequest struct {
	ID           string `json:"id"`
	ClientID     string `json:"client_id" validate:"required"`
	DefinitionID string `json:"definition_id"`
	Status       string `json:"status"`
	StartDate    string `json:"start_date" validate:"required"`
	ExpireDate   string `json:"expire_date" validate:"required"`
	PurchaseDate string `json:"purchase_date"`
}

// DefinitionDTO represents a catalog entry in API responses.
type DefinitionDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PaidSessions int    `json:"paid_sessions"`
	FreeSessions int    `json:"free_sessions"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// MAPPING HELPERS
// =============================================================================

func toBookingDTO(b *quota.Booking) BookingDTO {
	dto := BookingDTO{
		ID:          string(b.ID),
		Kind:        string(b.Kind),
		ClientID:    string(b.ClientID),
		ServiceID:   string(b.ServiceID),
		UserID:      string(b.UserID),
		CreatorID:   string(b.CreatorID),
		OccurredAt:  b.OccurredAt.Format(time.RFC3339),
		Duration:    b.Duration.String(),
		Present:     b.Present,
		Note:        b.Note,
		SessionType: string(b.SessionType),
		Confirmed:   b.Confirmed,
		CreatedAt:   b.CreatedAt.Format(time.RFC3339),
	}
	if b.ConfirmedAt != nil {
		dto.ConfirmedAt = strPtr(b.ConfirmedAt.Format(time.RFC3339))
	}
	return dto
}

func toRejectionDTO(rej *quota.Rejection) RejectionDTO {
	dto := RejectionDTO{Rejected: true, Violations: []ViolationDTO{}}
	for _, v := range rej.Violations {
		dto.Violations = append(dto.Violations, ViolationDTO{
			Reason:  string(v.Reason),
			Message: v.Message,
		})
	}
	return dto
}

func toAdjustmentDTO(a *quota.UsageAdjustment) AdjustmentDTO {
	return AdjustmentDTO{
		ID:            string(a.ID),
		ServiceID:     string(a.ServiceID),
		UserID:        string(a.UserID),
		PaidUsedDelta: nullDecimalPtr(a.PaidUsedDelta),
		FreeUsedDelta: nullDecimalPtr(a.FreeUsedDelta),
		BonusSessions: nullDecimalPtr(a.BonusSessions),
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
	}
}

func toServiceDTO(s *quota.PurchasedService) ServiceDTO {
	return ServiceDTO{
		ID:           string(s.ID),
		ClientID:     string(s.ClientID),
		DefinitionID: string(s.DefinitionID),
		Status:       string(s.Status),
		StartDate:    s.StartDate.Format("2006-01-02"),
		ExpireDate:   s.ExpireDate.Format("2006-01-02"),
		PurchaseDate: s.PurchaseDate.Format("2006-01-02"),
	}
}

func nullDecimalPtr(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	return strPtr(d.Decimal.String())
}

func strPtr(s string) *string { return &s }

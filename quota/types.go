/*
Package quota provides the core quota accounting engine.

PURPOSE:
  This package contains the domain types and the Quota Ledger for a
  staff-facing operations tool: clients purchase service packages with a
  fixed allotment of paid and free sessions, staff book sessions and
  consultations against those packages, and manual adjustments correct
  the consumed totals when reality and the books disagree.

KEY CONCEPTS IN THIS FILE (types.go):
  - ServiceDefinition: Catalog-level quota template (paid/free totals)
  - PurchasedService:  One client's purchase instance with its own
                       validity window and status
  - Booking:           A session or consultation occurrence
  - UsageAdjustment:   A manual correction to consumed quota
  - Capability:        Explicit staff capability level, passed as an
                       argument to authorization-sensitive operations

DESIGN PRINCIPLES:
  1. Derived, never stored: remaining quota is always recomputed from
     the current booking and adjustment rows (see ledger.go)
  2. Precision: decimal.Decimal for every fractional quantity
     (durations, deltas, ordinals) - no floating-point drift
  3. Type safety: distinct ID types prevent mixing client/service/
     booking identifiers
  4. Explicit actor: no ambient "current user" - every sensitive
     operation takes an Actor

SEE ALSO:
  - ledger.go: Remaining-quota and sequence-number calculation
  - store.go:  Persistence interfaces
  - errors.go: Sentinel errors and validation rejections
*/
package quota

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type (
	ClientID     string
	ServiceID    string
	DefinitionID string
	BookingID    string
	AdjustmentID string
	UserID       string
)

func NewClientID() ClientID         { return ClientID(uuid.NewString()) }
func NewServiceID() ServiceID       { return ServiceID(uuid.NewString()) }
func NewBookingID() BookingID       { return BookingID(uuid.NewString()) }
func NewAdjustmentID() AdjustmentID { return AdjustmentID(uuid.NewString()) }

// =============================================================================
// ENUMERATIONS
// =============================================================================

// ServiceStatus is the lifecycle status of a purchased service, as
// reported by the external membership directory.
type ServiceStatus string

const (
	StatusActive    ServiceStatus = "active"
	StatusInactive  ServiceStatus = "inactive"
	StatusCancelled ServiceStatus = "cancelled"
	StatusStopped   ServiceStatus = "stopped"
	StatusUnknown   ServiceStatus = "unknown"
)

// ParseServiceStatus maps directory-provided status strings onto the
// known set. Anything unrecognized becomes StatusUnknown rather than an
// error: the directory is an external system we don't control.
func ParseServiceStatus(s string) ServiceStatus {
	switch ServiceStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusActive, StatusInactive, StatusCancelled, StatusStopped:
		return ServiceStatus(strings.ToLower(strings.TrimSpace(s)))
	default:
		return StatusUnknown
	}
}

// SessionType classifies which quota bucket a session consumes.
// Decided once at creation time, never re-derived afterwards.
type SessionType string

const (
	SessionPaid SessionType = "paid"
	SessionFree SessionType = "free"
)

// Label returns the user-facing form ("Paid", "Free").
func (t SessionType) Label() string {
	if len(t) == 0 {
		return ""
	}
	return strings.ToUpper(string(t[0])) + string(t[1:])
}

// BookingKind distinguishes sessions (quota-consuming, service-bound)
// from consultations (at most one per linked service, no quota).
type BookingKind string

const (
	KindSession      BookingKind = "session"
	KindConsultation BookingKind = "consultation"
)

// =============================================================================
// CAPABILITY - Explicit staff capability level
// =============================================================================

// Capability replaces scattered "is this actor admin-like?" checks with
// an ordered enum passed explicitly to every sensitive operation.
type Capability int

const (
	CapEmployee Capability = iota
	CapManager
	CapAdmin
	CapSuperAdmin
)

func (c Capability) String() string {
	switch c {
	case CapEmployee:
		return "employee"
	case CapManager:
		return "manager"
	case CapAdmin:
		return "admin"
	case CapSuperAdmin:
		return "superadmin"
	default:
		return "employee"
	}
}

// ParseCapability maps a role string from the identity provider.
// Unknown roles degrade to the least-privileged level.
func ParseCapability(s string) Capability {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "superadmin", "super_admin":
		return CapSuperAdmin
	case "admin":
		return CapAdmin
	case "manager":
		return CapManager
	default:
		return CapEmployee
	}
}

// CanAttributeOthers reports whether the actor may record an adjustment
// attributed to a different staff member.
func (c Capability) CanAttributeOthers() bool { return c >= CapAdmin }

// CanEditAdjustments reports whether the actor may edit or delete
// existing adjustment rows.
func (c Capability) CanEditAdjustments() bool { return c >= CapAdmin }

// CanMutateConfirmed reports whether the actor may modify a booking
// after confirmation, or someone else's unconfirmed booking.
func (c Capability) CanMutateConfirmed() bool { return c >= CapAdmin }

// Actor is the staff identity performing an operation. Identity and
// role resolution happen in the external identity provider; the core
// only needs the ID and the capability level.
type Actor struct {
	ID         UserID
	Capability Capability
}

// =============================================================================
// DIRECTORY RECORDS
// =============================================================================

// Client is a gym/clinic client. Maintained by the external membership
// directory; mirrored here so bookings have something to reference.
type Client struct {
	ID        ClientID
	Name      string
	Email     string
	CreatedAt time.Time
}

// ServiceDefinition is the catalog-level quota template. Many purchased
// services may reference one definition; quota totals are ALWAYS
// sourced from here, never stored per purchase.
type ServiceDefinition struct {
	ID           DefinitionID
	Name         string
	PaidSessions int
	FreeSessions int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PurchasedService is one client's purchase of a service package.
// DefinitionID may be empty when the catalog is incomplete - the ledger
// then reports remaining quota as unknown rather than guessing.
type PurchasedService struct {
	ID           ServiceID
	ClientID     ClientID
	DefinitionID DefinitionID // empty = no resolvable definition
	Status       ServiceStatus
	StartDate    time.Time
	ExpireDate   time.Time
	PurchaseDate time.Time
	CreatedAt    time.Time
}

// HasDefinition reports whether the purchase references a catalog entry.
func (s PurchasedService) HasDefinition() bool { return s.DefinitionID != "" }

// =============================================================================
// BOOKING - A session or consultation occurrence
// =============================================================================

// Booking records one session or consultation. Sessions belong to
// exactly one purchased service; consultations may link one (and a
// service can carry at most one consultation).
//
// LIFECYCLE:
//   created (unconfirmed) -> confirmed  (one-way, never reversed)
//
// While unconfirmed, note/presence/time are mutable by the creator.
// Admin-capability actors may mutate at any time.
type Booking struct {
	ID        BookingID
	Kind      BookingKind
	ClientID  ClientID
	ServiceID ServiceID // empty only for unlinked consultations
	UserID    UserID    // responsible staff member
	CreatorID UserID    // defaults to UserID

	OccurredAt time.Time
	Duration   decimal.Decimal // hours, positive
	Present    bool
	Note       string

	// Sessions only. Fixed at creation by the validator.
	SessionType SessionType

	Confirmed   bool
	ConfirmedAt *time.Time

	CreatedAt time.Time
}

// HasService reports whether the booking is linked to a purchased service.
func (b Booking) HasService() bool { return b.ServiceID != "" }

// =============================================================================
// USAGE ADJUSTMENT - Manual correction to consumed quota
// =============================================================================

// UsageAdjustment carries up to three independent signed deltas against
// one purchased service. 0.5 granularity is expected but not enforced.
// CreatedAt doubles as the adjustment's effective-at time for sequence
// numbering.
type UsageAdjustment struct {
	ID        AdjustmentID
	ServiceID ServiceID
	UserID    UserID // attributed staff member

	PaidUsedDelta decimal.NullDecimal
	FreeUsedDelta decimal.NullDecimal
	BonusSessions decimal.NullDecimal

	CreatedAt time.Time
}

// Paid returns the paid-used delta, zero when absent.
func (a UsageAdjustment) Paid() decimal.Decimal { return nullOrZero(a.PaidUsedDelta) }

// Free returns the free-used delta, zero when absent.
func (a UsageAdjustment) Free() decimal.Decimal { return nullOrZero(a.FreeUsedDelta) }

// Bonus returns the bonus-sessions delta, zero when absent.
func (a UsageAdjustment) Bonus() decimal.Decimal { return nullOrZero(a.BonusSessions) }

func nullOrZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

// SomeDelta wraps a concrete value as a present NullDecimal.
func SomeDelta(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// NoDelta is the absent delta value.
func NoDelta() decimal.NullDecimal { return decimal.NullDecimal{} }

/*
store.go - Persistence interfaces for the quota engine

PURPOSE:
  Defines the contract between domain logic and the database. Small
  capability interfaces compose into the full Store; implementations
  exist for SQLite (store/sqlite) and in-memory (quota/store).

READ GUARANTEES:
  The ledger recomputes remaining quota from live rows on every read.
  Implementations must return all previously committed bookings and
  adjustments at read time - no caching, no snapshots.

INVARIANTS ENFORCED AT THE STORE LAYER:
  - One session per (client, service, occurred_at): CreateBooking
    returns ErrDuplicateSession.
  - At most one consultation per linked service: CreateBooking returns
    ErrConsultationTaken.
  - ConfirmBookings is all-or-nothing over the eligible subset and only
    ever flips confirmed from false to true.

SEE ALSO:
  - store/sqlite/sqlite.go: Production implementation
  - quota/store/memory.go:  In-memory implementation for tests
*/
package quota

import (
	"context"
	"time"
)

// ClientStore persists the mirrored client directory.
type ClientStore interface {
	CreateClient(ctx context.Context, c Client) error
	GetClient(ctx context.Context, id ClientID) (*Client, error)
	ListClients(ctx context.Context) ([]Client, error)
}

// DefinitionStore persists the service-definition catalog.
type DefinitionStore interface {
	// UpsertDefinition inserts or replaces a catalog entry; quota totals
	// live only here.
	UpsertDefinition(ctx context.Context, d ServiceDefinition) error
	GetDefinition(ctx context.Context, id DefinitionID) (*ServiceDefinition, error)
	ListDefinitions(ctx context.Context) ([]ServiceDefinition, error)
}

// ServiceStore persists purchased services.
type ServiceStore interface {
	CreateService(ctx context.Context, s PurchasedService) error
	GetService(ctx context.Context, id ServiceID) (*PurchasedService, error)
	ListServicesByClient(ctx context.Context, id ClientID) ([]PurchasedService, error)
}

// BookingStore persists bookings and implements the confirmation
// transition.
type BookingStore interface {
	CreateBooking(ctx context.Context, b Booking) error
	GetBooking(ctx context.Context, id BookingID) (*Booking, error)

	// UpdateBooking rewrites the mutable fields of an existing booking.
	// Capability rules are the caller's concern (booking package).
	UpdateBooking(ctx context.Context, b Booking) error

	// ListSessionsByService returns session bookings for a service,
	// ordered by occurred_at ascending, ties broken by ID.
	ListSessionsByService(ctx context.Context, id ServiceID) ([]Booking, error)

	// SessionExistsAt checks the client+service+timestamp uniqueness
	// invariant ahead of insert (the store constraint is the backstop).
	SessionExistsAt(ctx context.Context, client ClientID, service ServiceID, at time.Time) (bool, error)

	// ConsultationExistsForService checks the one-consultation-per-
	// service invariant.
	ConsultationExistsForService(ctx context.Context, id ServiceID) (bool, error)

	// ConfirmBookings transitions every currently-unconfirmed booking in
	// ids to confirmed with confirmed_at = at, atomically as a set, and
	// returns the number actually transitioned. Already-confirmed ids
	// are skipped, which makes the operation idempotent.
	ConfirmBookings(ctx context.Context, ids []BookingID, at time.Time) (int, error)
}

// AdjustmentStore persists usage adjustments. Full CRUD is deliberate:
// the source system allows admin edit/delete (see DESIGN.md).
type AdjustmentStore interface {
	CreateAdjustment(ctx context.Context, a UsageAdjustment) error
	GetAdjustment(ctx context.Context, id AdjustmentID) (*UsageAdjustment, error)
	UpdateAdjustment(ctx context.Context, a UsageAdjustment) error
	DeleteAdjustment(ctx context.Context, id AdjustmentID) error

	// ListAdjustmentsByService returns adjustments ordered by created_at
	// ascending.
	ListAdjustmentsByService(ctx context.Context, id ServiceID) ([]UsageAdjustment, error)
}

// Store is the full persistence surface.
type Store interface {
	ClientStore
	DefinitionStore
	ServiceStore
	BookingStore
	AdjustmentStore
}

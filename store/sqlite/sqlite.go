/*
Package sqlite provides the SQLite-backed implementation of quota.Store.

PURPOSE:
  Persists the client directory, service catalog, purchased services,
  bookings and usage adjustments. The same patterns apply to PostgreSQL
  in a larger deployment - only minor SQL dialect differences.

KEY TABLES:
  clients:             Mirrored client directory
  service_definitions: Catalog-level quota templates
  purchased_services:  Purchase instances with validity windows
  bookings:            Sessions and consultations
  usage_adjustments:   Manual quota corrections

INVARIANTS ENFORCED BY SCHEMA:
  - idx_unique_session_slot: one session per
    (client, service, occurred_at). The validator pre-checks this, but
    the index is the authoritative backstop under concurrency.
  - idx_unique_service_consultation: at most one consultation per
    linked service.
  Both are partial indexes so the two booking kinds don't constrain
  each other.

CONFIRMATION:
  ConfirmBookings runs a single transactional UPDATE restricted to
  confirmed = 0, which makes the bulk transition atomic as a set and
  idempotent by construction. confirmed only ever goes 0 -> 1.

REPRESENTATION:
  - Timestamps: RFC3339Nano TEXT, UTC
  - Decimals:   TEXT via decimal.String() - no float drift
  - Absent deltas: NULL

WAL MODE:
  Opened with WAL for better read concurrency. A single connection is
  used so ":memory:" databases survive the connection pool.

SEE ALSO:
  - quota/store.go: Interface contracts
  - quota/store/memory.go: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/session-engine/quota"
)

// Store implements quota.Store on SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database at dbPath and migrates the
// schema. Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Single writer; also keeps ":memory:" databases on one connection.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS clients (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS service_definitions (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		paid_sessions INTEGER NOT NULL DEFAULT 0,
		free_sessions INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS purchased_services (
		id            TEXT PRIMARY KEY,
		client_id     TEXT NOT NULL,
		definition_id TEXT,
		status        TEXT NOT NULL,
		start_date    TEXT NOT NULL,
		expire_date   TEXT NOT NULL,
		purchase_date TEXT NOT NULL,
		created_at    TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_services_client
		ON purchased_services(client_id);

	CREATE TABLE IF NOT EXISTS bookings (
		id           TEXT PRIMARY KEY,
		kind         TEXT NOT NULL,
		client_id    TEXT NOT NULL,
		service_id   TEXT,
		user_id      TEXT NOT NULL,
		creator_id   TEXT NOT NULL,
		occurred_at  TEXT NOT NULL,
		duration     TEXT NOT NULL,
		present      INTEGER NOT NULL DEFAULT 0,
		session_type TEXT,
		confirmed    INTEGER NOT NULL DEFAULT 0,
		confirmed_at TEXT,
		note         TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL
	);

	-- One session per client+service+timestamp. Authoritative backstop
	-- for the validator's duplicate pre-check.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_unique_session_slot
		ON bookings(client_id, service_id, occurred_at)
		WHERE kind = 'session';

	-- At most one consultation per linked service.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_unique_service_consultation
		ON bookings(service_id)
		WHERE kind = 'consultation' AND service_id IS NOT NULL AND service_id != '';

	-- Ledger hot path: sessions of a service in time order.
	CREATE INDEX IF NOT EXISTS idx_bookings_service_time
		ON bookings(service_id, occurred_at, id);

	CREATE TABLE IF NOT EXISTS usage_adjustments (
		id              TEXT PRIMARY KEY,
		service_id      TEXT NOT NULL,
		user_id         TEXT NOT NULL,
		paid_used_delta TEXT,
		free_used_delta TEXT,
		bonus_sessions  TEXT,
		created_at      TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_adjustments_service
		ON usage_adjustments(service_id, created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CLIENTS
// =============================================================================

func (s *Store) CreateClient(ctx context.Context, c quota.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO clients (id, name, email, created_at) VALUES (?, ?, ?, ?)`,
		string(c.ID), c.Name, c.Email, formatTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("sqlite: create client: %w", err)
	}
	return nil
}

func (s *Store) GetClient(ctx context.Context, id quota.ClientID) (*quota.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, created_at FROM clients WHERE id = ?`, string(id))

	var c quota.Client
	var createdAt string
	var email sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &email, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, quota.ErrClientNotFound
		}
		return nil, fmt.Errorf("sqlite: get client: %w", err)
	}
	c.Email = email.String
	c.CreatedAt = parseTime(createdAt)
	return &c, nil
}

func (s *Store) ListClients(ctx context.Context) ([]quota.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, created_at FROM clients ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list clients: %w", err)
	}
	defer rows.Close()

	var out []quota.Client
	for rows.Next() {
		var c quota.Client
		var createdAt string
		var email sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &email, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan client: %w", err)
		}
		c.Email = email.String
		c.CreatedAt = parseTime(createdAt)
		out = append(out, c)
	}
	return out, rows.Err()
}

// =============================================================================
// SERVICE DEFINITIONS
// =============================================================================

func (s *Store) UpsertDefinition(ctx context.Context, d quota.ServiceDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO service_definitions (id, name, paid_sessions, free_sessions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			paid_sessions = excluded.paid_sessions,
			free_sessions = excluded.free_sessions,
			updated_at = excluded.updated_at`,
		string(d.ID), d.Name, d.PaidSessions, d.FreeSessions,
		formatTime(d.CreatedAt), formatTime(d.UpdatedAt))
	if err != nil {
		return fmt.Errorf("sqlite: upsert definition: %w", err)
	}
	return nil
}

func (s *Store) GetDefinition(ctx context.Context, id quota.DefinitionID) (*quota.ServiceDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, paid_sessions, free_sessions, created_at, updated_at
		FROM service_definitions WHERE id = ?`, string(id))

	var d quota.ServiceDefinition
	var createdAt, updatedAt string
	if err := row.Scan(&d.ID, &d.Name, &d.PaidSessions, &d.FreeSessions, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, quota.ErrDefinitionNotFound
		}
		return nil, fmt.Errorf("sqlite: get definition: %w", err)
	}
	d.CreatedAt = parseTime(createdAt)
	d.UpdatedAt = parseTime(updatedAt)
	return &d, nil
}

func (s *Store) ListDefinitions(ctx context.Context) ([]quota.ServiceDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, paid_sessions, free_sessions, created_at, updated_at
		FROM service_definitions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list definitions: %w", err)
	}
	defer rows.Close()

	var out []quota.ServiceDefinition
	for rows.Next() {
		var d quota.ServiceDefinition
		var createdAt, updatedAt string
		if err := rows.Scan(&d.ID, &d.Name, &d.PaidSessions, &d.FreeSessions, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan definition: %w", err)
		}
		d.CreatedAt = parseTime(createdAt)
		d.UpdatedAt = parseTime(updatedAt)
		out = append(out, d)
	}
	return out, rows.Err()
}

// =============================================================================
// PURCHASED SERVICES
// =============================================================================

func (s *Store) CreateService(ctx context.Context, svc quota.PurchasedService) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO purchased_services
			(id, client_id, definition_id, status, start_date, expire_date, purchase_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(svc.ID), string(svc.ClientID), nullString(string(svc.DefinitionID)),
		string(svc.Status), formatTime(svc.StartDate), formatTime(svc.ExpireDate),
		formatTime(svc.PurchaseDate), formatTime(svc.CreatedAt))
	if err != nil {
		return fmt.Errorf("sqlite: create service: %w", err)
	}
	return nil
}

func (s *Store) GetService(ctx context.Context, id quota.ServiceID) (*quota.PurchasedService, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, client_id, definition_id, status, start_date, expire_date, purchase_date, created_at
		FROM purchased_services WHERE id = ?`, string(id))

	svc, err := scanService(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, quota.ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get service: %w", err)
	}
	return svc, nil
}

func (s *Store) ListServicesByClient(ctx context.Context, id quota.ClientID) ([]quota.PurchasedService, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, client_id, definition_id, status, start_date, expire_date, purchase_date, created_at
		FROM purchased_services WHERE client_id = ? ORDER BY id`, string(id))
	if err != nil {
		return nil, fmt.Errorf("sqlite: list services: %w", err)
	}
	defer rows.Close()

	var out []quota.PurchasedService
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan service: %w", err)
		}
		out = append(out, *svc)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanService(row scanner) (*quota.PurchasedService, error) {
	var svc quota.PurchasedService
	var definitionID sql.NullString
	var status, startDate, expireDate, purchaseDate, createdAt string
	if err := row.Scan(&svc.ID, &svc.ClientID, &definitionID, &status,
		&startDate, &expireDate, &purchaseDate, &createdAt); err != nil {
		return nil, err
	}
	svc.DefinitionID = quota.DefinitionID(definitionID.String)
	svc.Status = quota.ServiceStatus(status)
	svc.StartDate = parseTime(startDate)
	svc.ExpireDate = parseTime(expireDate)
	svc.PurchaseDate = parseTime(purchaseDate)
	svc.CreatedAt = parseTime(createdAt)
	return &svc, nil
}

// =============================================================================
// BOOKINGS
// =============================================================================

const bookingColumns = `id, kind, client_id, service_id, user_id, creator_id,
	occurred_at, duration, present, session_type, confirmed, confirmed_at, note, created_at`

func (s *Store) CreateBooking(ctx context.Context, b quota.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var confirmedAt any
	if b.ConfirmedAt != nil {
		confirmedAt = formatTime(*b.ConfirmedAt)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bookings (`+bookingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(b.ID), string(b.Kind), string(b.ClientID), nullString(string(b.ServiceID)),
		string(b.UserID), string(b.CreatorID), formatTime(b.OccurredAt),
		b.Duration.String(), boolInt(b.Present), nullString(string(b.SessionType)),
		boolInt(b.Confirmed), confirmedAt, b.Note, formatTime(b.CreatedAt))
	if err != nil {
		return mapBookingConstraint(err, b.Kind)
	}
	return nil
}

// mapBookingConstraint turns schema-level uniqueness violations into
// the domain sentinels.
func mapBookingConstraint(err error, kind quota.BookingKind) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		if kind == quota.KindConsultation {
			return quota.ErrConsultationTaken
		}
		return quota.ErrDuplicateSession
	}
	return fmt.Errorf("sqlite: create booking: %w", err)
}

func (s *Store) GetBooking(ctx context.Context, id quota.BookingID) (*quota.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, string(id))

	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, quota.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get booking: %w", err)
	}
	return b, nil
}

func (s *Store) UpdateBooking(ctx context.Context, b quota.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var confirmedAt any
	if b.ConfirmedAt != nil {
		confirmedAt = formatTime(*b.ConfirmedAt)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE bookings
		SET occurred_at = ?, duration = ?, present = ?, note = ?,
		    confirmed = ?, confirmed_at = ?
		WHERE id = ?`,
		formatTime(b.OccurredAt), b.Duration.String(), boolInt(b.Present), b.Note,
		boolInt(b.Confirmed), confirmedAt, string(b.ID))
	if err != nil {
		return fmt.Errorf("sqlite: update booking: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: update booking: %w", err)
	}
	if n == 0 {
		return quota.ErrBookingNotFound
	}
	return nil
}

func (s *Store) ListSessionsByService(ctx context.Context, id quota.ServiceID) ([]quota.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE kind = 'session' AND service_id = ?
		ORDER BY occurred_at, id`, string(id))
	if err != nil {
		return nil, fmt.Errorf("sqlite: list sessions: %w", err)
	}
	defer rows.Close()

	var out []quota.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan booking: %w", err)
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (s *Store) SessionExistsAt(ctx context.Context, client quota.ClientID, service quota.ServiceID, at time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM bookings
		WHERE kind = 'session' AND client_id = ? AND service_id = ? AND occurred_at = ?`,
		string(client), string(service), formatTime(at)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("sqlite: session exists: %w", err)
	}
	return n > 0, nil
}

func (s *Store) ConsultationExistsForService(ctx context.Context, id quota.ServiceID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM bookings
		WHERE kind = 'consultation' AND service_id = ?`, string(id)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("sqlite: consultation exists: %w", err)
	}
	return n > 0, nil
}

// ConfirmBookings flips confirmed 0 -> 1 for the eligible subset of ids
// in one transactional UPDATE: atomic as a set, idempotent, one-way.
func (s *Store) ConfirmBookings(ctx context.Context, ids []quota.BookingID, at time.Time) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: confirm: begin: %w", err)
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")

	args := make([]any, 0, len(ids)+1)
	args = append(args, formatTime(at))
	for _, id := range ids {
		args = append(args, string(id))
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE bookings SET confirmed = 1, confirmed_at = ?
		WHERE id IN (`+placeholders+`) AND confirmed = 0`, args...)
	if err != nil {
		return 0, fmt.Errorf("sqlite: confirm: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: confirm: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: confirm: commit: %w", err)
	}
	return int(n), nil
}

func scanBooking(row scanner) (*quota.Booking, error) {
	var b quota.Booking
	var serviceID, sessionType, confirmedAt sql.NullString
	var occurredAt, duration, createdAt string
	var present, confirmed int
	if err := row.Scan(&b.ID, &b.Kind, &b.ClientID, &serviceID, &b.UserID, &b.CreatorID,
		&occurredAt, &duration, &present, &sessionType, &confirmed, &confirmedAt,
		&b.Note, &createdAt); err != nil {
		return nil, err
	}
	b.ServiceID = quota.ServiceID(serviceID.String)
	b.SessionType = quota.SessionType(sessionType.String)
	b.OccurredAt = parseTime(occurredAt)
	b.Duration = mustDecimal(duration)
	b.Present = present != 0
	b.Confirmed = confirmed != 0
	if confirmedAt.Valid {
		t := parseTime(confirmedAt.String)
		b.ConfirmedAt = &t
	}
	b.CreatedAt = parseTime(createdAt)
	return &b, nil
}

// =============================================================================
// USAGE ADJUSTMENTS
// =============================================================================

func (s *Store) CreateAdjustment(ctx context.Context, a quota.UsageAdjustment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO usage_adjustments
			(id, service_id, user_id, paid_used_delta, free_used_delta, bonus_sessions, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(a.ID), string(a.ServiceID), string(a.UserID),
		nullDecimalArg(a.PaidUsedDelta), nullDecimalArg(a.FreeUsedDelta),
		nullDecimalArg(a.BonusSessions), formatTime(a.CreatedAt))
	if err != nil {
		return fmt.Errorf("sqlite: create adjustment: %w", err)
	}
	return nil
}

func (s *Store) GetAdjustment(ctx context.Context, id quota.AdjustmentID) (*quota.UsageAdjustment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, service_id, user_id, paid_used_delta, free_used_delta, bonus_sessions, created_at
		FROM usage_adjustments WHERE id = ?`, string(id))

	a, err := scanAdjustment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, quota.ErrAdjustmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get adjustment: %w", err)
	}
	return a, nil
}

func (s *Store) UpdateAdjustment(ctx context.Context, a quota.UsageAdjustment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE usage_adjustments
		SET paid_used_delta = ?, free_used_delta = ?, bonus_sessions = ?
		WHERE id = ?`,
		nullDecimalArg(a.PaidUsedDelta), nullDecimalArg(a.FreeUsedDelta),
		nullDecimalArg(a.BonusSessions), string(a.ID))
	if err != nil {
		return fmt.Errorf("sqlite: update adjustment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: update adjustment: %w", err)
	}
	if n == 0 {
		return quota.ErrAdjustmentNotFound
	}
	return nil
}

func (s *Store) DeleteAdjustment(ctx context.Context, id quota.AdjustmentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM usage_adjustments WHERE id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("sqlite: delete adjustment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: delete adjustment: %w", err)
	}
	if n == 0 {
		return quota.ErrAdjustmentNotFound
	}
	return nil
}

func (s *Store) ListAdjustmentsByService(ctx context.Context, id quota.ServiceID) ([]quota.UsageAdjustment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, service_id, user_id, paid_used_delta, free_used_delta, bonus_sessions, created_at
		FROM usage_adjustments WHERE service_id = ?
		ORDER BY created_at, id`, string(id))
	if err != nil {
		return nil, fmt.Errorf("sqlite: list adjustments: %w", err)
	}
	defer rows.Close()

	var out []quota.UsageAdjustment
	for rows.Next() {
		a, err := scanAdjustment(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan adjustment: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func scanAdjustment(row scanner) (*quota.UsageAdjustment, error) {
	var a quota.UsageAdjustment
	var paid, free, bonus sql.NullString
	var createdAt string
	if err := row.Scan(&a.ID, &a.ServiceID, &a.UserID, &paid, &free, &bonus, &createdAt); err != nil {
		return nil, err
	}
	a.PaidUsedDelta = scanNullDecimal(paid)
	a.FreeUsedDelta = scanNullDecimal(free)
	a.BonusSessions = scanNullDecimal(bonus)
	a.CreatedAt = parseTime(createdAt)
	return &a, nil
}

// =============================================================================
// REPRESENTATION HELPERS
// =============================================================================

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullDecimalArg(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.String()
}

func scanNullDecimal(s sql.NullString) decimal.NullDecimal {
	if !s.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: mustDecimal(s.String), Valid: true}
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

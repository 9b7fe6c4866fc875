// Package store provides an in-memory quota.Store for tests and dev.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/session-engine/quota"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory implements quota.Store with mutex-guarded maps. Reads return
// copies so callers can't mutate stored state.
type Memory struct {
	mu          sync.RWMutex
	clients     map[quota.ClientID]quota.Client
	definitions map[quota.DefinitionID]quota.ServiceDefinition
	services    map[quota.ServiceID]quota.PurchasedService
	bookings    map[quota.BookingID]quota.Booking
	adjustments map[quota.AdjustmentID]quota.UsageAdjustment
}

func NewMemory() *Memory {
	return &Memory{
		clients:     make(map[quota.ClientID]quota.Client),
		definitions: make(map[quota.DefinitionID]quota.ServiceDefinition),
		services:    make(map[quota.ServiceID]quota.PurchasedService),
		bookings:    make(map[quota.BookingID]quota.Booking),
		adjustments: make(map[quota.AdjustmentID]quota.UsageAdjustment),
	}
}

// =============================================================================
// CLIENTS
// =============================================================================

func (m *Memory) CreateClient(_ context.Context, c quota.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[c.ID] = c
	return nil
}

func (m *Memory) GetClient(_ context.Context, id quota.ClientID) (*quota.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.clients[id]
	if !ok {
		return nil, quota.ErrClientNotFound
	}
	return &c, nil
}

func (m *Memory) ListClients(_ context.Context) ([]quota.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]quota.Client, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// =============================================================================
// DEFINITIONS
// =============================================================================

func (m *Memory) UpsertDefinition(_ context.Context, d quota.ServiceDefinition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.definitions[d.ID] = d
	return nil
}

func (m *Memory) GetDefinition(_ context.Context, id quota.DefinitionID) (*quota.ServiceDefinition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.definitions[id]
	if !ok {
		return nil, quota.ErrDefinitionNotFound
	}
	return &d, nil
}

func (m *Memory) ListDefinitions(_ context.Context) ([]quota.ServiceDefinition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]quota.ServiceDefinition, 0, len(m.definitions))
	for _, d := range m.definitions {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// =============================================================================
// SERVICES
// =============================================================================

func (m *Memory) CreateService(_ context.Context, s quota.PurchasedService) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.services[s.ID] = s
	return nil
}

func (m *Memory) GetService(_ context.Context, id quota.ServiceID) (*quota.PurchasedService, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.services[id]
	if !ok {
		return nil, quota.ErrServiceNotFound
	}
	return &s, nil
}

func (m *Memory) ListServicesByClient(_ context.Context, id quota.ClientID) ([]quota.PurchasedService, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []quota.PurchasedService
	for _, s := range m.services {
		if s.ClientID == id {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// =============================================================================
// BOOKINGS
// =============================================================================

func (m *Memory) CreateBooking(_ context.Context, b quota.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Mirror the store-level invariants the sqlite schema enforces.
	if b.Kind == quota.KindSession && b.HasService() {
		for _, x := range m.bookings {
			if x.Kind == quota.KindSession && x.ClientID == b.ClientID &&
				x.ServiceID == b.ServiceID && x.OccurredAt.Equal(b.OccurredAt) {
				return quota.ErrDuplicateSession
			}
		}
	}
	if b.Kind == quota.KindConsultation && b.HasService() {
		for _, x := range m.bookings {
			if x.Kind == quota.KindConsultation && x.ServiceID == b.ServiceID {
				return quota.ErrConsultationTaken
			}
		}
	}

	m.bookings[b.ID] = b
	return nil
}

func (m *Memory) GetBooking(_ context.Context, id quota.BookingID) (*quota.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, quota.ErrBookingNotFound
	}
	return &b, nil
}

func (m *Memory) UpdateBooking(_ context.Context, b quota.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[b.ID]; !ok {
		return quota.ErrBookingNotFound
	}
	m.bookings[b.ID] = b
	return nil
}

func (m *Memory) ListSessionsByService(_ context.Context, id quota.ServiceID) ([]quota.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []quota.Booking
	for _, b := range m.bookings {
		if b.Kind == quota.KindSession && b.ServiceID == id {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].OccurredAt.Before(out[j].OccurredAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) SessionExistsAt(_ context.Context, client quota.ClientID, service quota.ServiceID, at time.Time) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.bookings {
		if b.Kind == quota.KindSession && b.ClientID == client &&
			b.ServiceID == service && b.OccurredAt.Equal(at) {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) ConsultationExistsForService(_ context.Context, id quota.ServiceID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.bookings {
		if b.Kind == quota.KindConsultation && b.ServiceID == id {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) ConfirmBookings(_ context.Context, ids []quota.BookingID, at time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, id := range ids {
		b, ok := m.bookings[id]
		if !ok || b.Confirmed {
			continue
		}
		b.Confirmed = true
		ts := at
		b.ConfirmedAt = &ts
		m.bookings[id] = b
		count++
	}
	return count, nil
}

// =============================================================================
// ADJUSTMENTS
// =============================================================================

func (m *Memory) CreateAdjustment(_ context.Context, a quota.UsageAdjustment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.adjustments[a.ID] = a
	return nil
}

func (m *Memory) GetAdjustment(_ context.Context, id quota.AdjustmentID) (*quota.UsageAdjustment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.adjustments[id]
	if !ok {
		return nil, quota.ErrAdjustmentNotFound
	}
	return &a, nil
}

func (m *Memory) UpdateAdjustment(_ context.Context, a quota.UsageAdjustment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.adjustments[a.ID]; !ok {
		return quota.ErrAdjustmentNotFound
	}
	m.adjustments[a.ID] = a
	return nil
}

func (m *Memory) DeleteAdjustment(_ context.Context, id quota.AdjustmentID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.adjustments[id]; !ok {
		return quota.ErrAdjustmentNotFound
	}
	delete(m.adjustments, id)
	return nil
}

func (m *Memory) ListAdjustmentsByService(_ context.Context, id quota.ServiceID) ([]quota.UsageAdjustment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []quota.UsageAdjustment
	for _, a := range m.adjustments {
		if a.ServiceID == id {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

/*
handlers.go - HTTP API handlers for the session engine

PURPOSE:
  Exposes the quota engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Bookings:
    POST   /api/bookings                    Record a session/consultation
    POST   /api/bookings/confirm            Bulk one-way confirmation
    GET    /api/bookings/{id}               Booking details
    PATCH  /api/bookings/{id}               Mutate note/presence/time/duration
    GET    /api/bookings/{id}/sequence      "Paid #7" ordinal

  Quota:
    GET    /api/services/{id}/quota         Derived remainders

  Adjustments:
    POST   /api/services/{id}/adjustments   Record a correction
    GET    /api/services/{id}/adjustments   List corrections
    PUT    /api/adjustments/{id}            Rewrite deltas (admin+)
    DELETE /api/adjustments/{id}            Remove (admin+)
    POST   /api/adjustments/import          Best-effort batch import

  Directory:
    GET/POST /api/clients                   Mirrored client directory
    GET    /api/clients/{id}
    GET    /api/clients/{id}/services
    POST   /api/services                    Record a purchase
    GET    /api/services/{id}
    GET/POST /api/definitions               Quota catalog

ACTOR RESOLUTION:
  Staff identity arrives from the upstream identity proxy as headers:
    X-Actor-ID:   staff member identifier
    X-Actor-Role: employee | manager | admin | superadmin
  Unknown roles degrade to employee. The domain layer receives an
  explicit quota.Actor - no ambient user anywhere below this file.

ERROR HANDLING:
  - 400: Malformed body, bad dates/decimals, failed shape validation
  - 403: Capability denied
  - 404: Unknown client/service/booking/adjustment
  - 409: Confirmed-booking mutation, storage conflicts
  - 422: Domain rejection with the FULL violation list
  - 500: Infrastructure failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator"
	"github.com/shopspring/decimal"

	"github.com/warp/session-engine/adjust"
	"github.com/warp/session-engine/booking"
	"github.com/warp/session-engine/catalog"
	"github.com/warp/session-engine/metrics"
	"github.com/warp/session-engine/quota"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      quota.Store
	Bookings   *booking.Service
	Reconciler *adjust.Reconciler
	Importer   *adjust.Importer

	validate *validator.Validate
}

// NewHandler wires the domain services over one store.
func NewHandler(store quota.Store) *Handler {
	bookings := booking.NewService(store)
	reconciler := adjust.NewReconciler(store)
	return &Handler{
		Store:      store,
		Bookings:   bookings,
		Reconciler: reconciler,
		Importer:   adjust.NewImporter(store, reconciler),
		validate:   validator.New(),
	}
}

// actorFrom resolves the acting staff member from the identity-proxy
// headers.
func actorFrom(r *http.Request) quota.Actor {
	return quota.Actor{
		ID:         quota.UserID(r.Header.Get("X-Actor-ID")),
		Capability: quota.ParseCapability(r.Header.Get("X-Actor-Role")),
	}
}

// =============================================================================
// BOOKING ENDPOINTS
// =============================================================================

// CreateBooking records a session or consultation attempt.
// POST /api/bookings
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	occurredAt, err := time.Parse(time.RFC3339, req.OccurredAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid occurred_at (use RFC3339)", err)
		return
	}

	draft := booking.Draft{
		Kind:       quota.BookingKind(req.Kind),
		ClientID:   quota.ClientID(req.ClientID),
		ServiceID:  quota.ServiceID(req.ServiceID),
		UserID:     quota.UserID(req.UserID),
		CreatorID:  quota.UserID(req.CreatorID),
		OccurredAt: occurredAt,
		Present:    req.Present,
		Note:       req.Note,
	}
	if req.Duration != nil {
		d, err := decimal.NewFromString(*req.Duration)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid duration", err)
			return
		}
		draft.Duration = d
	}

	b, rej, err := h.Bookings.Create(r.Context(), draft)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create booking", err)
		return
	}
	if rej != nil {
		if len(rej.Violations) > 0 {
			metrics.RecordBookingRejected(string(rej.Violations[0].Reason))
		}
		writeJSON(w, http.StatusUnprocessableEntity, toRejectionDTO(rej))
		return
	}

	metrics.RecordBookingAccepted(string(b.Kind), string(b.SessionType))
	writeJSON(w, http.StatusCreated, toBookingDTO(b))
}

// ConfirmBookings transitions a set of bookings to confirmed.
// POST /api/bookings/confirm
func (h *Handler) ConfirmBookings(w http.ResponseWriter, r *http.Request) {
	var req ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	ids := make([]quota.BookingID, 0, len(req.BookingIDs))
	for _, id := range req.BookingIDs {
		ids = append(ids, quota.BookingID(id))
	}

	count, err := h.Bookings.Confirm(r.Context(), ids)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to confirm bookings", err)
		return
	}

	metrics.RecordConfirmations(count)
	writeJSON(w, http.StatusOK, ConfirmResponse{Confirmed: count})
}

// GetBooking returns one booking.
// GET /api/bookings/{id}
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id := quota.BookingID(chi.URLParam(r, "id"))

	b, err := h.Store.GetBooking(r.Context(), id)
	if quota.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Booking not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get booking", err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingDTO(b))
}

// UpdateBooking mutates the staff-editable fields under the lifecycle
// rules.
// PATCH /api/bookings/{id}
func (h *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	id := quota.BookingID(chi.URLParam(r, "id"))

	var req UpdateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	mut := booking.Mutation{Note: req.Note, Present: req.Present}
	if req.OccurredAt != nil {
		t, err := time.Parse(time.RFC3339, *req.OccurredAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid occurred_at (use RFC3339)", err)
			return
		}
		mut.OccurredAt = &t
	}
	if req.Duration != nil {
		d, err := decimal.NewFromString(*req.Duration)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid duration", err)
			return
		}
		mut.Duration = &d
	}

	b, err := h.Bookings.Update(r.Context(), id, mut, actorFrom(r))
	switch {
	case quota.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Booking not found", nil)
		return
	case errors.Is(err, quota.ErrBookingConfirmed):
		writeError(w, http.StatusConflict, "Booking is confirmed and cannot be modified", nil)
		return
	case errors.Is(err, quota.ErrNotPermitted):
		writeError(w, http.StatusForbidden, "Not permitted", nil)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Failed to update booking", err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingDTO(b))
}

// GetSequence returns the session's ordinal within its type.
// GET /api/bookings/{id}/sequence
func (h *Handler) GetSequence(w http.ResponseWriter, r *http.Request) {
	id := quota.BookingID(chi.URLParam(r, "id"))
	ctx := r.Context()

	b, err := h.Store.GetBooking(ctx, id)
	if quota.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Booking not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get booking", err)
		return
	}

	ledger := h.Bookings.Ledger()
	n, err := ledger.SequenceNumber(ctx, id)
	if quota.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Booking has no sequence (not a service-linked session)", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute sequence", err)
		return
	}
	label, err := ledger.SequenceLabel(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute sequence", err)
		return
	}

	writeJSON(w, http.StatusOK, SequenceDTO{
		BookingID:   string(b.ID),
		SessionType: string(b.SessionType),
		Number:      quota.FormatOrdinal(n),
		Label:       label,
	})
}

// =============================================================================
// QUOTA ENDPOINT
// =============================================================================

// GetQuota returns the derived quota state of a purchased service.
// Null remainders mean "unknown" - the purchase has no resolvable
// catalog definition.
// GET /api/services/{id}/quota
func (h *Handler) GetQuota(w http.ResponseWriter, r *http.Request) {
	id := quota.ServiceID(chi.URLParam(r, "id"))
	ctx := r.Context()
	ledger := h.Bookings.Ledger()

	dto := QuotaDTO{ServiceID: string(id)}

	rawPaid, ok, err := ledger.RemainingPaid(ctx, id)
	if quota.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Service not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute quota", err)
		return
	}
	if !ok {
		// No definition: every remainder is unknown.
		writeJSON(w, http.StatusOK, dto)
		return
	}
	dto.RemainingPaid = strPtr(rawPaid.String())

	rawFree, _, err := ledger.RemainingFree(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute quota", err)
		return
	}
	dto.RemainingFree = strPtr(rawFree.String())

	effPaid, _, err := ledger.EffectiveRemainingPaid(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute quota", err)
		return
	}
	dto.EffectiveRemainingPaid = strPtr(effPaid.String())

	effFree, _, err := ledger.EffectiveRemainingFree(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute quota", err)
		return
	}
	dto.EffectiveRemainingFree = strPtr(effFree.String())

	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// ADJUSTMENT ENDPOINTS
// =============================================================================

// CreateAdjustment records a manual correction against a service.
// POST /api/services/{id}/adjustments
func (h *Handler) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	serviceID := quota.ServiceID(chi.URLParam(r, "id"))

	var req AdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	paid, free, bonus, err := parseDeltas(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid delta value", err)
		return
	}

	a, err := h.Reconciler.Apply(r.Context(), serviceID, actorFrom(r),
		quota.UserID(req.AttributeTo), paid, free, bonus)
	if quota.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Service not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create adjustment", err)
		return
	}

	metrics.RecordAdjustment("create")
	writeJSON(w, http.StatusCreated, toAdjustmentDTO(a))
}

// ListAdjustments lists a service's corrections in creation order.
// GET /api/services/{id}/adjustments
func (h *Handler) ListAdjustments(w http.ResponseWriter, r *http.Request) {
	serviceID := quota.ServiceID(chi.URLParam(r, "id"))
	ctx := r.Context()

	if _, err := h.Store.GetService(ctx, serviceID); err != nil {
		if quota.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Service not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get service", err)
		return
	}

	adjs, err := h.Store.ListAdjustmentsByService(ctx, serviceID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list adjustments", err)
		return
	}

	dtos := make([]AdjustmentDTO, 0, len(adjs))
	for i := range adjs {
		dtos = append(dtos, toAdjustmentDTO(&adjs[i]))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// UpdateAdjustment rewrites an adjustment's deltas. Admin+ only.
// PUT /api/adjustments/{id}
func (h *Handler) UpdateAdjustment(w http.ResponseWriter, r *http.Request) {
	id := quota.AdjustmentID(chi.URLParam(r, "id"))

	var req AdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	paid, free, bonus, err := parseDeltas(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid delta value", err)
		return
	}

	a, err := h.Reconciler.Update(r.Context(), id, actorFrom(r), paid, free, bonus)
	switch {
	case errors.Is(err, quota.ErrNotPermitted):
		writeError(w, http.StatusForbidden, "Not permitted", nil)
		return
	case quota.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Adjustment not found", nil)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Failed to update adjustment", err)
		return
	}

	metrics.RecordAdjustment("update")
	writeJSON(w, http.StatusOK, toAdjustmentDTO(a))
}

// DeleteAdjustment removes an adjustment. Admin+ only.
// DELETE /api/adjustments/{id}
func (h *Handler) DeleteAdjustment(w http.ResponseWriter, r *http.Request) {
	id := quota.AdjustmentID(chi.URLParam(r, "id"))

	err := h.Reconciler.Delete(r.Context(), id, actorFrom(r))
	switch {
	case errors.Is(err, quota.ErrNotPermitted):
		writeError(w, http.StatusForbidden, "Not permitted", nil)
		return
	case quota.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Adjustment not found", nil)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Failed to delete adjustment", err)
		return
	}

	metrics.RecordAdjustment("delete")
	w.WriteHeader(http.StatusNoContent)
}

// ImportAdjustments runs the best-effort batch pipeline over
// already-parsed tabular rows. Always 200: failures are row-scoped.
// POST /api/adjustments/import
func (h *Handler) ImportAdjustments(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	rows := make([]adjust.Row, 0, len(req.Rows))
	for _, row := range req.Rows {
		rows = append(rows, adjust.Row(row))
	}

	res := h.Importer.Import(r.Context(), rows, actorFrom(r))

	metrics.RecordImportRows(res.Created, len(res.Errors))
	writeJSON(w, http.StatusOK, ImportResponse{
		Created: res.Created,
		Errors:  append([]string{}, res.Errors...),
	})
}

func parseDeltas(req AdjustmentRequest) (paid, free, bonus decimal.NullDecimal, err error) {
	if paid, err = parseOptionalDecimal(req.PaidUsedDelta); err != nil {
		return
	}
	if free, err = parseOptionalDecimal(req.FreeUsedDelta); err != nil {
		return
	}
	bonus, err = parseOptionalDecimal(req.BonusSessions)
	return
}

func parseOptionalDecimal(s *string) (decimal.NullDecimal, error) {
	if s == nil {
		return quota.NoDelta(), nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return quota.NoDelta(), err
	}
	return quota.SomeDelta(d), nil
}

// =============================================================================
// DIRECTORY ENDPOINTS
// =============================================================================

// ListClients returns the mirrored client directory.
// GET /api/clients
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Store.ListClients(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list clients", err)
		return
	}

	dtos := make([]ClientDTO, 0, len(clients))
	for _, c := range clients {
		dtos = append(dtos, ClientDTO{
			ID:        string(c.ID),
			Name:      c.Name,
			Email:     c.Email,
			CreatedAt: c.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateClient mirrors a directory client.
// POST /api/clients
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	c := quota.Client{
		ID:        quota.ClientID(req.ID),
		Name:      req.Name,
		Email:     req.Email,
		CreatedAt: time.Now(),
	}
	if c.ID == "" {
		c.ID = quota.NewClientID()
	}
	if err := h.Store.CreateClient(r.Context(), c); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create client", err)
		return
	}
	writeJSON(w, http.StatusCreated, ClientDTO{
		ID:        string(c.ID),
		Name:      c.Name,
		Email:     c.Email,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	})
}

// GetClient returns one client.
// GET /api/clients/{id}
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	id := quota.ClientID(chi.URLParam(r, "id"))

	c, err := h.Store.GetClient(r.Context(), id)
	if quota.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Client not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get client", err)
		return
	}
	writeJSON(w, http.StatusOK, ClientDTO{
		ID:        string(c.ID),
		Name:      c.Name,
		Email:     c.Email,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	})
}

// ListClientServices returns a client's purchased services.
// GET /api/clients/{id}/services
func (h *Handler) ListClientServices(w http.ResponseWriter, r *http.Request) {
	id := quota.ClientID(chi.URLParam(r, "id"))
	ctx := r.Context()

	if _, err := h.Store.GetClient(ctx, id); err != nil {
		if quota.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Client not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get client", err)
		return
	}

	services, err := h.Store.ListServicesByClient(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list services", err)
		return
	}

	dtos := make([]ServiceDTO, 0, len(services))
	for i := range services {
		dtos = append(dtos, toServiceDTO(&services[i]))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateService records a purchase instance.
// POST /api/services
func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date (use YYYY-MM-DD)", err)
		return
	}
	expire, err := time.Parse("2006-01-02", req.ExpireDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid expire_date (use YYYY-MM-DD)", err)
		return
	}
	purchase := start
	if req.PurchaseDate != "" {
		purchase, err = time.Parse("2006-01-02", req.PurchaseDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid purchase_date (use YYYY-MM-DD)", err)
			return
		}
	}

	svc := quota.PurchasedService{
		ID:           quota.ServiceID(req.ID),
		ClientID:     quota.ClientID(req.ClientID),
		DefinitionID: quota.DefinitionID(req.DefinitionID),
		Status:       quota.ParseServiceStatus(req.Status),
		StartDate:    start,
		ExpireDate:   expire,
		PurchaseDate: purchase,
		CreatedAt:    time.Now(),
	}
	if svc.ID == "" {
		svc.ID = quota.NewServiceID()
	}
	if err := h.Store.CreateService(r.Context(), svc); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create service", err)
		return
	}
	writeJSON(w, http.StatusCreated, toServiceDTO(&svc))
}

// GetService returns one purchased service.
// GET /api/services/{id}
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	id := quota.ServiceID(chi.URLParam(r, "id"))

	svc, err := h.Store.GetService(r.Context(), id)
	if quota.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Service not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get service", err)
		return
	}
	writeJSON(w, http.StatusOK, toServiceDTO(svc))
}

// ListDefinitions returns the quota catalog.
// GET /api/definitions
func (h *Handler) ListDefinitions(w http.ResponseWriter, r *http.Request) {
	defs, err := h.Store.ListDefinitions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list definitions", err)
		return
	}

	dtos := make([]DefinitionDTO, 0, len(defs))
	for _, d := range defs {
		dtos = append(dtos, DefinitionDTO{
			ID:           string(d.ID),
			Name:         d.Name,
			PaidSessions: d.PaidSessions,
			FreeSessions: d.FreeSessions,
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// LoadCatalog upserts a catalog document.
// POST /api/definitions
func (h *Handler) LoadCatalog(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	count, err := catalog.Load(r.Context(), h.Store, raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid catalog document", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"loaded": count})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

/*
Package adjust applies manual usage corrections to purchased services.

PURPOSE:
  When the books and reality disagree - a session logged in the old
  system, a goodwill bonus, a data-entry mistake - staff record a
  UsageAdjustment: up to three independent signed deltas (paid-used,
  free-used, bonus sessions) against one service. The quota ledger
  layers these into its effective remainders; this package owns how
  they are created, edited and bulk-imported.

TWO ENTRY POINTS:
  - reconcile.go: Reconciler - single ad-hoc corrections with the
    attribution rules.
  - importer.go:  Importer - best-effort batch over tabular rows.

ATTRIBUTION:
  Adjustments are attributed to a staff member. Non-privileged actors
  cannot attribute to anyone but themselves - the attribution argument
  is silently overridden with the acting user. Admin+ may attribute
  others.

MUTABILITY:
  Adjustments are append-only corrections in spirit, but the source
  system grants Admin+ full edit/delete, and that capability is kept
  (see DESIGN.md Open Questions).

SEE ALSO:
  - quota/ledger.go: Where the deltas take effect
  - importer.go: Bulk import pipeline
*/
package adjust

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/session-engine/quota"
)

// Reconciler creates and maintains usage adjustments.
type Reconciler struct {
	store quota.Store
	now   func() time.Time
}

func NewReconciler(store quota.Store) *Reconciler {
	return &Reconciler{store: store, now: time.Now}
}

// WithClock replaces the time source. Tests only.
func (r *Reconciler) WithClock(now func() time.Time) *Reconciler {
	r.now = now
	return r
}

// Apply records one adjustment against a service. Deltas are optional
// and unconstrained in sign: negative values are "give back"
// corrections. attributeTo is honored only for actors allowed to
// attribute others; everyone else is attributed themselves.
func (r *Reconciler) Apply(
	ctx context.Context,
	serviceID quota.ServiceID,
	actor quota.Actor,
	attributeTo quota.UserID,
	paidDelta, freeDelta, bonusDelta decimal.NullDecimal,
) (*quota.UsageAdjustment, error) {
	if _, err := r.store.GetService(ctx, serviceID); err != nil {
		return nil, err
	}

	if attributeTo == "" || !actor.Capability.CanAttributeOthers() {
		attributeTo = actor.ID
	}

	a := quota.UsageAdjustment{
		ID:            quota.NewAdjustmentID(),
		ServiceID:     serviceID,
		UserID:        attributeTo,
		PaidUsedDelta: paidDelta,
		FreeUsedDelta: freeDelta,
		BonusSessions: bonusDelta,
		CreatedAt:     r.now(),
	}
	if err := r.store.CreateAdjustment(ctx, a); err != nil {
		return nil, fmt.Errorf("adjust: persist: %w", err)
	}
	return &a, nil
}

// Update rewrites an adjustment's deltas. Admin+ only.
func (r *Reconciler) Update(
	ctx context.Context,
	id quota.AdjustmentID,
	actor quota.Actor,
	paidDelta, freeDelta, bonusDelta decimal.NullDecimal,
) (*quota.UsageAdjustment, error) {
	if !actor.Capability.CanEditAdjustments() {
		return nil, quota.ErrNotPermitted
	}
	a, err := r.store.GetAdjustment(ctx, id)
	if err != nil {
		return nil, err
	}

	a.PaidUsedDelta = paidDelta
	a.FreeUsedDelta = freeDelta
	a.BonusSessions = bonusDelta

	if err := r.store.UpdateAdjustment(ctx, *a); err != nil {
		return nil, fmt.Errorf("adjust: update: %w", err)
	}
	return a, nil
}

// Delete removes an adjustment. Admin+ only.
func (r *Reconciler) Delete(ctx context.Context, id quota.AdjustmentID, actor quota.Actor) error {
	if !actor.Capability.CanEditAdjustments() {
		return quota.ErrNotPermitted
	}
	if err := r.store.DeleteAdjustment(ctx, id); err != nil {
		return err
	}
	return nil
}

/*
importer.go - Best-effort bulk import of adjustment rows

PURPOSE:
  Staff reconcile whole spreadsheets of corrections at once. File I/O
  and CSV mechanics belong to an external collaborator; this pipeline
  receives already-parsed rows as plain string maps and feeds each one
  through the Reconciler.

SEMANTICS:
  - Sequential: row N completes before row N+1 begins. Order only
    matters for error numbering - rows are independent.
  - Best-effort batch: a failed row is recorded and skipped, NEVER
    aborts the batch. The result is always a created count plus an
    ordered error list.
  - Row numbering in messages is 1-indexed with a +1 offset for the
    header row, matching what staff see in their spreadsheet.

PARSE LENIENCY:
  Malformed or blank numeric fields coerce to 0.0 and are NOT errors.
  This is a deliberate permissiveness decision carried over from the
  source system, not a defect.

SEE ALSO:
  - reconcile.go: Per-row delegate
*/
package adjust

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warp/session-engine/quota"
)

// Expected row headers, as delivered by the tabular-data collaborator.
const (
	ColServiceID = "service_id"
	ColPaidUsed  = "paid_used"
	ColFreeUsed  = "free_used"
	ColBonus     = "bonus_sessions"
)

// Row is one tabular record keyed by header name.
type Row map[string]string

// Result aggregates a batch: how many adjustments were created and the
// ordered row-level error messages.
type Result struct {
	Created int
	Errors  []string
}

// Importer runs the bulk import pipeline.
type Importer struct {
	store      quota.Store
	reconciler *Reconciler
}

func NewImporter(store quota.Store, reconciler *Reconciler) *Importer {
	return &Importer{store: store, reconciler: reconciler}
}

// Import processes rows in order, creating one adjustment per
// resolvable row, attributed to the acting user. Never returns an
// error: every failure is row-scoped.
func (imp *Importer) Import(ctx context.Context, rows []Row, actor quota.Actor) Result {
	var res Result
	for i, row := range rows {
		// +2: 1-indexed data plus the header row staff see in the file.
		n := i + 2

		serviceID := strings.TrimSpace(row[ColServiceID])
		if serviceID == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: missing service_id", n))
			continue
		}
		if _, err := imp.store.GetService(ctx, quota.ServiceID(serviceID)); err != nil {
			if quota.IsNotFound(err) {
				res.Errors = append(res.Errors, fmt.Sprintf("row %d: service %q not found", n, serviceID))
			} else {
				res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", n, err))
			}
			continue
		}

		_, err := imp.reconciler.Apply(ctx,
			quota.ServiceID(serviceID), actor, actor.ID,
			quota.SomeDelta(parseLenient(row[ColPaidUsed])),
			quota.SomeDelta(parseLenient(row[ColFreeUsed])),
			quota.SomeDelta(parseLenient(row[ColBonus])),
		)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", n, err))
			continue
		}
		res.Created++
	}
	return res
}

// parseLenient coerces blank/unparseable numerics to zero. Never fails.
func parseLenient(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

/*
Package catalog parses and loads service-definition documents.

PURPOSE:
  Quota totals live at the catalog level: a ServiceDefinition says how
  many paid and free sessions one purchase of that service type grants.
  Staff maintain the catalog as a JSON document; this package converts
  it into domain records and upserts them.

FORMAT:
  [
    {"id": "pt-10", "name": "Personal Training x10",
     "paid_sessions": 10, "free_sessions": 2},
    ...
  ]

VALIDATION:
  - id is required
  - session totals must be non-negative
  Parse fails fast on the first invalid entry - unlike the adjustment
  importer, the catalog is authored in-house and a bad document should
  be fixed, not partially applied.

SEE ALSO:
  - quota/types.go: ServiceDefinition
  - quota/store.go: DefinitionStore
*/
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/warp/session-engine/quota"
)

// DefinitionJSON is the document form of a catalog entry.
type DefinitionJSON struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PaidSessions int    `json:"paid_sessions"`
	FreeSessions int    `json:"free_sessions"`
}

// Parse converts a catalog document into domain records.
func Parse(data []byte) ([]quota.ServiceDefinition, error) {
	var entries []DefinitionJSON
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}

	now := time.Now()
	defs := make([]quota.ServiceDefinition, 0, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("catalog: entry %d: missing id", i)
		}
		if e.PaidSessions < 0 || e.FreeSessions < 0 {
			return nil, fmt.Errorf("catalog: entry %q: negative session total", e.ID)
		}
		defs = append(defs, quota.ServiceDefinition{
			ID:           quota.DefinitionID(e.ID),
			Name:         e.Name,
			PaidSessions: e.PaidSessions,
			FreeSessions: e.FreeSessions,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return defs, nil
}

// Load parses and upserts a catalog document, returning the number of
// definitions written.
func Load(ctx context.Context, store quota.DefinitionStore, data []byte) (int, error) {
	defs, err := Parse(data)
	if err != nil {
		return 0, err
	}
	for _, d := range defs {
		if err := store.UpsertDefinition(ctx, d); err != nil {
			return 0, fmt.Errorf("catalog: upsert %s: %w", d.ID, err)
		}
	}
	return len(defs), nil
}

/*
store.go - Persistence interface for certification records

PURPOSE:
  The classifier never loads data. Callers that do (the HTTP layer, the
  expiry alert scheduler) go through this interface so the same code runs
  against SQLite in production and memory in tests.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - certification/store/memory.go: In-memory for testing

SEE ALSO:
  - classifier.go: consumes the records
*/
package certification

import "context"

// Store loads and saves certification records and category reference data.
type Store interface {
	// ListCertifications returns every record, ordered by pilot then check.
	ListCertifications(ctx context.Context) ([]Record, error)

	// ListCertificationsByPilot returns one pilot's records.
	ListCertificationsByPilot(ctx context.Context, pilotID string) ([]Record, error)

	// GetCertification returns ErrRecordNotFound for unknown ids.
	GetCertification(ctx context.Context, id string) (*Record, error)

	// SaveCertification inserts or replaces a record by ID.
	SaveCertification(ctx context.Context, rec Record) error

	// ListCategories returns the category configuration.
	ListCategories(ctx context.Context) (Categories, error)

	// SaveCategory inserts or replaces a category by code.
	SaveCategory(ctx context.Context, cat Category) error
}

package testutil

import (
	"context"
	"testing"

	"github.com/pharmstock/pharmstock-backend/internal/pharmacy/migrations"
	"github.com/pharmstock/pharmstock-backend/pkg/database"
	"github.com/pharmstock/pharmstock-backend/pkg/logger"
)

// NewTestDB opens a fresh in-memory SQLite database with the full schema
// applied. The driver is pure Go, so tests get a real database with no
// external dependencies. The database is torn down with the test.
func NewTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.NewWithDSN(":memory:", logger.Nop())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Apply(context.Background(), db.DB, logger.Nop()); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}

	return db
}

package database

import (
	"gorm.io/gorm"
)

// constraintStatements run on every boot, so each one has to be
// rerunnable. PostgreSQL has no IF NOT EXISTS form for ALTER TABLE ..
// ADD CONSTRAINT; the unique backstop is expressed as a unique index
// instead, which also matches the index the ticket model declares.
var constraintStatements = []string{
	// The seat-allocation commit point: a seat can carry at most one ticket
	// per show. Everything upstream (availability checks, re-checks at
	// submission) is advisory; this index is the hard guarantee.
	`CREATE UNIQUE INDEX IF NOT EXISTS unique_seat_per_show
	 ON tickets (show_id, seat_id);`,

	// Index for the active-reservation scan that backs seat availability
	`CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_reservations_show_timeout
	 ON reservations (show_id, session_timeout);`,

	// Index for pricing model resolution (latest valid_from <= t per group)
	`CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_pricing_models_group_valid_from
	 ON pricing_models (seating_group_id, valid_from DESC);`,
}

// MigrateConstraints adds critical database constraints for concurrency control
func MigrateConstraints(db *gorm.DB) error {
	for _, stmt := range constraintStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

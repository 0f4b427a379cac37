package repository

import (
	"context"
	"time"
)

// The unique constraint on (person_id, shift_id) backs the duplicate-signup
// check in the handlers; its generated name is matched there.
var schemaStatements = []string{
	`
	CREATE TABLE IF NOT EXISTS persons (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
	`,
	`
	CREATE TABLE IF NOT EXISTS shifts (
		id BIGSERIAL PRIMARY KEY,
		date TEXT NOT NULL,
		start_time TEXT NOT NULL,
		location TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		customer TEXT,
		event_type TEXT,
		guest_count INTEGER,
		required_staff INTEGER NOT NULL,
		admin_note TEXT,
		state INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
	`,
	`
	CREATE TABLE IF NOT EXISTS signups (
		id BIGSERIAL PRIMARY KEY,
		person_id BIGINT NOT NULL REFERENCES persons (id),
		shift_id BIGINT NOT NULL REFERENCES shifts (id),
		status TEXT NOT NULL DEFAULT 'REQUESTED',
		available_from TEXT,
		available_until TEXT,
		freelancer_note TEXT,
		meet_time TEXT,
		work_start TEXT,
		work_end TEXT,
		work_hours DOUBLE PRECISION,
		approved_work_hours DOUBLE PRECISION,
		hours_approved_by_admin BOOLEAN NOT NULL DEFAULT FALSE,
		payroll_paid BOOLEAN NOT NULL DEFAULT FALSE,
		payroll_paid_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (person_id, shift_id)
	)
	`,
	`
	CREATE TABLE IF NOT EXISTS extra_shifts (
		id BIGSERIAL PRIMARY KEY,
		person_id BIGINT NOT NULL REFERENCES persons (id),
		date TEXT NOT NULL,
		work_start TEXT NOT NULL,
		work_end TEXT NOT NULL,
		work_hours DOUBLE PRECISION NOT NULL,
		note TEXT,
		status TEXT NOT NULL DEFAULT 'REQUESTED',
		approved_work_hours DOUBLE PRECISION,
		hours_approved_by_admin BOOLEAN NOT NULL DEFAULT FALSE,
		payroll_paid BOOLEAN NOT NULL DEFAULT FALSE,
		payroll_paid_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
	`,
}

// EnsureSchema creates the tables on first start. All statements are
// idempotent, so running it on every boot is safe.
func (r *Repository) EnsureSchema() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	for _, stmt := range schemaStatements {
		if _, err := r.dbpool.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}

package repository

import (
	"context"
	"time"

	"github.com/myggens/vagtplan/backend/internal/domain"
)

func (r *Repository) CreateShift(shift *domain.Shift) error {
	query := `
		INSERT INTO shifts (
			date, start_time, location, description,
			customer, event_type, guest_count, required_staff, admin_note, state
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		shift.Date,
		shift.StartTime,
		shift.Location,
		shift.Description,
		shift.Customer,
		shift.EventType,
		shift.GuestCount,
		shift.RequiredStaff,
		shift.AdminNote,
		shift.State,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&shift.ID, &shift.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateShift(shift *domain.Shift) error {
	query := `
		UPDATE shifts
		SET
			date = $1,
			start_time = $2,
			location = $3,
			description = $4,
			customer = $5,
			event_type = $6,
			guest_count = $7,
			required_staff = $8,
			admin_note = $9
		WHERE id = $10
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		shift.Date,
		shift.StartTime,
		shift.Location,
		shift.Description,
		shift.Customer,
		shift.EventType,
		shift.GuestCount,
		shift.RequiredStaff,
		shift.AdminNote,
		shift.ID,
	}
	if _, err := r.dbpool.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	return nil
}

const shiftWithCountsQuery = `
	SELECT
		s.id, s.date, s.start_time, s.location, s.description,
		s.customer, s.event_type, s.guest_count, s.required_staff,
		s.admin_note, s.state, s.created_at,
		COALESCE(SUM(CASE WHEN sg.status = 'APPROVED' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN sg.status = 'REQUESTED' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN sg.status = 'RELEASE_REQUESTED' THEN 1 ELSE 0 END), 0)
	FROM shifts s
	LEFT JOIN signups sg ON sg.shift_id = s.id
`

func scanShiftWithCounts(scan func(dst ...any) error) (*domain.ShiftWithCounts, error) {
	shift := &domain.ShiftWithCounts{}
	dst := []any{
		&shift.ID,
		&shift.Date,
		&shift.StartTime,
		&shift.Location,
		&shift.Description,
		&shift.Customer,
		&shift.EventType,
		&shift.GuestCount,
		&shift.RequiredStaff,
		&shift.AdminNote,
		&shift.State,
		&shift.CreatedAt,
		&shift.ApprovedCount,
		&shift.RequestedCount,
		&shift.ReleaseRequestedCount,
	}
	if err := scan(dst...); err != nil {
		return nil, err
	}

	shift.PendingCount = shift.RequestedCount + shift.ReleaseRequestedCount
	return shift, nil
}

// GetShift loads one shift with its signup counts computed fresh.
func (r *Repository) GetShift(id int64) (*domain.ShiftWithCounts, error) {
	query := shiftWithCountsQuery + `
		WHERE s.id = $1
		GROUP BY s.id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanShiftWithCounts(r.dbpool.QueryRowContext(ctx, query, id).Scan)
}

// GetAllShiftsWithCounts loads every shift regardless of lifecycle state.
// Callers filter by state; the counts are always aggregated on read so they
// can never drift from the ledger.
func (r *Repository) GetAllShiftsWithCounts() ([]*domain.ShiftWithCounts, error) {
	query := shiftWithCountsQuery + `
		GROUP BY s.id
		ORDER BY s.date, s.start_time
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := []*domain.ShiftWithCounts{}
	for rows.Next() {
		shift, err := scanShiftWithCounts(rows.Scan)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}

func (r *Repository) SetShiftState(id int64, state domain.ShiftState) error {
	query := `
		UPDATE shifts SET state = $1 WHERE id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, state, id); err != nil {
		return err
	}

	return nil
}

// SinkArchivedShifts moves every archived shift into the long-term history.
func (r *Repository) SinkArchivedShifts() error {
	query := `
		UPDATE shifts SET state = $1 WHERE state = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, domain.ShiftHistoric, domain.ShiftArchived); err != nil {
		return err
	}

	return nil
}

func (r *Repository) SetShiftAdminNote(id int64, note *string) error {
	query := `
		UPDATE shifts SET admin_note = $1 WHERE id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, note, id); err != nil {
		return err
	}

	return nil
}

// DeleteShiftPermanently removes a shift and all signups attached to it in a
// single transaction.
func (r *Repository) DeleteShiftPermanently(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM signups WHERE shift_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM shifts WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit()
}

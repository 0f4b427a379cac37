package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/myggens/vagtplan/backend/internal/domain"
)

func (r *Repository) CreateExtraShift(extra *domain.ExtraShift) error {
	query := `
		INSERT INTO extra_shifts (person_id, date, work_start, work_end, work_hours, note, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		extra.PersonID,
		extra.Date,
		extra.WorkStart,
		extra.WorkEnd,
		extra.WorkHours,
		extra.Note,
		extra.Status,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&extra.ID, &extra.CreatedAt); err != nil {
		return err
	}

	return nil
}

const extraShiftDetailQuery = `
	SELECT
		e.id, e.person_id, e.date, e.work_start, e.work_end, e.work_hours,
		e.note, e.status, e.approved_work_hours, e.hours_approved_by_admin,
		e.payroll_paid, e.payroll_paid_at, e.created_at,
		p.name, p.phone
	FROM extra_shifts e
	JOIN persons p ON p.id = e.person_id
`

func scanExtraShiftDetail(scan func(dst ...any) error) (*domain.ExtraShiftDetail, error) {
	extra := &domain.ExtraShiftDetail{}
	dst := []any{
		&extra.ID,
		&extra.PersonID,
		&extra.Date,
		&extra.WorkStart,
		&extra.WorkEnd,
		&extra.WorkHours,
		&extra.Note,
		&extra.Status,
		&extra.ApprovedWorkHours,
		&extra.HoursApprovedByAdmin,
		&extra.PayrollPaid,
		&extra.PayrollPaidAt,
		&extra.CreatedAt,
		&extra.PersonName,
		&extra.Phone,
	}
	if err := scan(dst...); err != nil {
		return nil, err
	}
	return extra, nil
}

func (r *Repository) GetExtraShiftByID(id int64) (*domain.ExtraShiftDetail, error) {
	query := extraShiftDetailQuery + `
		WHERE e.id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanExtraShiftDetail(r.dbpool.QueryRowContext(ctx, query, id).Scan)
}

// GetExtraShiftsForMonth returns extra shifts landing in a calendar month.
// Rejected submissions stay visible so the admin can see what was turned
// down; callers filter if they do not want them.
func (r *Repository) GetExtraShiftsForMonth(year int, month int, includePaid bool) ([]*domain.ExtraShiftDetail, error) {
	query := extraShiftDetailQuery + `
		WHERE substr(e.date, 1, 4) = $1
		  AND substr(e.date, 6, 2) = $2
	`
	if !includePaid {
		query += ` AND e.payroll_paid = FALSE`
	}
	query += ` ORDER BY p.name, e.date`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	extras := []*domain.ExtraShiftDetail{}
	for rows.Next() {
		extra, err := scanExtraShiftDetail(rows.Scan)
		if err != nil {
			return nil, err
		}
		extras = append(extras, extra)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return extras, nil
}

// ApproveExtraHours approves an extra shift and records the admin-approved
// hour value in one statement.
func (r *Repository) ApproveExtraHours(id int64, approvedHours float64) error {
	query := `
		UPDATE extra_shifts
		SET status = $1, approved_work_hours = $2, hours_approved_by_admin = TRUE
		WHERE id = $3
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, domain.ExtraApproved, approvedHours, id); err != nil {
		return err
	}

	return nil
}

func (r *Repository) RejectExtraShift(id int64) error {
	query := `
		UPDATE extra_shifts SET status = $1 WHERE id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, domain.ExtraRejected, id); err != nil {
		return err
	}

	return nil
}

// SetExtraPayrollPaid mirrors SetPayrollPaid for extra shifts: paying out
// requires admin-approved hours, enforced by the UPDATE condition.
func (r *Repository) SetExtraPayrollPaid(id int64, paid bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if !paid {
		query := `
			UPDATE extra_shifts SET payroll_paid = FALSE, payroll_paid_at = NULL WHERE id = $1
		`
		_, err := r.dbpool.ExecContext(ctx, query, id)
		return err
	}

	query := `
		UPDATE extra_shifts
		SET payroll_paid = TRUE, payroll_paid_at = NOW()
		WHERE id = $1 AND hours_approved_by_admin = TRUE
	`
	res, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrHoursNotApproved
	}

	return nil
}

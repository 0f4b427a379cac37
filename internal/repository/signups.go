package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/myggens/vagtplan/backend/internal/domain"
)

func (r *Repository) CreateSignup(signup *domain.Signup) error {
	query := `
		INSERT INTO signups (person_id, shift_id, status, available_from, available_until, freelancer_note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		signup.PersonID,
		signup.ShiftID,
		signup.Status,
		signup.AvailableFrom,
		signup.AvailableUntil,
		signup.FreelancerNote,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&signup.ID, &signup.CreatedAt); err != nil {
		return err
	}

	return nil
}

const signupDetailQuery = `
	SELECT
		sg.id, sg.person_id, sg.shift_id, sg.status,
		sg.available_from, sg.available_until, sg.freelancer_note, sg.meet_time,
		sg.work_start, sg.work_end, sg.work_hours, sg.approved_work_hours,
		sg.hours_approved_by_admin, sg.payroll_paid, sg.payroll_paid_at, sg.created_at,
		p.name, p.phone
	FROM signups sg
	JOIN persons p ON p.id = sg.person_id
`

func scanSignupDetail(scan func(dst ...any) error) (*domain.SignupDetail, error) {
	signup := &domain.SignupDetail{}
	dst := []any{
		&signup.ID,
		&signup.PersonID,
		&signup.ShiftID,
		&signup.Status,
		&signup.AvailableFrom,
		&signup.AvailableUntil,
		&signup.FreelancerNote,
		&signup.MeetTime,
		&signup.WorkStart,
		&signup.WorkEnd,
		&signup.WorkHours,
		&signup.ApprovedWorkHours,
		&signup.HoursApprovedByAdmin,
		&signup.PayrollPaid,
		&signup.PayrollPaidAt,
		&signup.CreatedAt,
		&signup.PersonName,
		&signup.Phone,
	}
	if err := scan(dst...); err != nil {
		return nil, err
	}
	return signup, nil
}

func (r *Repository) GetSignupByID(id int64) (*domain.SignupDetail, error) {
	query := signupDetailQuery + `
		WHERE sg.id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanSignupDetail(r.dbpool.QueryRowContext(ctx, query, id).Scan)
}

// GetSignupsForShift returns every signup on a shift, joined with the person,
// in signup order.
func (r *Repository) GetSignupsForShift(shiftID int64) ([]*domain.SignupDetail, error) {
	query := signupDetailQuery + `
		WHERE sg.shift_id = $1
		ORDER BY sg.created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	signups := []*domain.SignupDetail{}
	for rows.Next() {
		signup, err := scanSignupDetail(rows.Scan)
		if err != nil {
			return nil, err
		}
		signups = append(signups, signup)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return signups, nil
}

const signupWithShiftQuery = `
	SELECT
		sg.id, sg.person_id, sg.shift_id, sg.status,
		sg.available_from, sg.available_until, sg.freelancer_note, sg.meet_time,
		sg.work_start, sg.work_end, sg.work_hours, sg.approved_work_hours,
		sg.hours_approved_by_admin, sg.payroll_paid, sg.payroll_paid_at, sg.created_at,
		s.id, s.date, s.start_time, s.location, s.description,
		s.customer, s.event_type, s.guest_count, s.required_staff,
		s.admin_note, s.state, s.created_at
	FROM signups sg
	JOIN shifts s ON s.id = sg.shift_id
`

func (r *Repository) querySignupsWithShift(where string, args ...any) ([]*domain.SignupWithShift, error) {
	query := signupWithShiftQuery + where

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	signups := []*domain.SignupWithShift{}
	for rows.Next() {
		signup := &domain.SignupWithShift{}
		dst := []any{
			&signup.ID,
			&signup.PersonID,
			&signup.ShiftID,
			&signup.Status,
			&signup.AvailableFrom,
			&signup.AvailableUntil,
			&signup.FreelancerNote,
			&signup.MeetTime,
			&signup.WorkStart,
			&signup.WorkEnd,
			&signup.WorkHours,
			&signup.ApprovedWorkHours,
			&signup.HoursApprovedByAdmin,
			&signup.PayrollPaid,
			&signup.PayrollPaidAt,
			&signup.CreatedAt,
			&signup.Shift.ID,
			&signup.Shift.Date,
			&signup.Shift.StartTime,
			&signup.Shift.Location,
			&signup.Shift.Description,
			&signup.Shift.Customer,
			&signup.Shift.EventType,
			&signup.Shift.GuestCount,
			&signup.Shift.RequiredStaff,
			&signup.Shift.AdminNote,
			&signup.Shift.State,
			&signup.Shift.CreatedAt,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		signups = append(signups, signup)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return signups, nil
}

func (r *Repository) GetSignupsByPhone(phone string) ([]*domain.SignupWithShift, error) {
	return r.querySignupsWithShift(`
		JOIN persons p ON p.id = sg.person_id
		WHERE p.phone = $1
		ORDER BY s.date, s.start_time
	`, phone)
}

func (r *Repository) GetSignupsForPerson(personID int64) ([]*domain.SignupWithShift, error) {
	return r.querySignupsWithShift(`
		WHERE sg.person_id = $1
		ORDER BY s.date, s.start_time
	`, personID)
}

// ApproveSignup moves a signup from REQUESTED to APPROVED, but only while the
// shift still has room. The capacity check sits inside the UPDATE itself, so
// two concurrent approvals cannot both slip past the required_staff limit.
func (r *Repository) ApproveSignup(id int64) error {
	query := `
		UPDATE signups sg
		SET status = $1
		FROM shifts s
		WHERE sg.id = $2
		  AND sg.status = $3
		  AND s.id = sg.shift_id
		  AND (
			SELECT COUNT(*) FROM signups a
			WHERE a.shift_id = sg.shift_id AND a.status = $1
		  ) < s.required_staff
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, domain.StatusApproved, id, domain.StatusRequested)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	// Nothing changed: figure out why, so the admin gets a useful message.
	signup, err := r.GetSignupByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows
		}
		return err
	}
	if signup.Status != domain.StatusRequested {
		return ErrSignupNotPending
	}
	return ErrShiftFull
}

// RequestRelease moves an APPROVED signup to RELEASE_REQUESTED. From any
// other state this is a no-op, matching the forgiving freelancer flow.
func (r *Repository) RequestRelease(id int64) error {
	query := `
		UPDATE signups SET status = $1 WHERE id = $2 AND status = $3
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, domain.StatusReleaseRequested, id, domain.StatusApproved); err != nil {
		return err
	}

	return nil
}

// DenyRelease reverts RELEASE_REQUESTED back to APPROVED; the person stays
// obligated to the shift.
func (r *Repository) DenyRelease(id int64) error {
	query := `
		UPDATE signups SET status = $1 WHERE id = $2 AND status = $3
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, domain.StatusApproved, id, domain.StatusReleaseRequested)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotReleaseRequest
	}

	return nil
}

// DeleteSignup removes a signup row entirely. Removal is always a real
// delete, never a tombstone, so the person can sign up again afterwards.
func (r *Repository) DeleteSignup(id int64) error {
	query := `
		DELETE FROM signups WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

// DeleteSignupIfRequested is the self-cancel path: the row only goes away
// while it is still REQUESTED. Returns whether anything was deleted.
func (r *Repository) DeleteSignupIfRequested(id int64) (bool, error) {
	query := `
		DELETE FROM signups WHERE id = $1 AND status = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, id, domain.StatusRequested)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (r *Repository) SetWorkedHours(id int64, workStart, workEnd string, hours float64) error {
	query := `
		UPDATE signups SET work_start = $1, work_end = $2, work_hours = $3 WHERE id = $4
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, workStart, workEnd, hours, id); err != nil {
		return err
	}

	return nil
}

func (r *Repository) ApproveWorkHours(id int64, approvedHours float64) error {
	query := `
		UPDATE signups
		SET approved_work_hours = $1, hours_approved_by_admin = TRUE
		WHERE id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, approvedHours, id); err != nil {
		return err
	}

	return nil
}

// SetPayrollPaid marks a signup as paid out or clears the mark. Marking as
// paid requires admin-approved hours; the guard lives in the UPDATE so the
// ordering cannot be bypassed.
func (r *Repository) SetPayrollPaid(id int64, paid bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if !paid {
		query := `
			UPDATE signups SET payroll_paid = FALSE, payroll_paid_at = NULL WHERE id = $1
		`
		_, err := r.dbpool.ExecContext(ctx, query, id)
		return err
	}

	query := `
		UPDATE signups
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

func (r *Repository) SetMeetTime(id int64, meetTime *string) error {
	query := `
		UPDATE signups SET meet_time = $1 WHERE id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, meetTime, id); err != nil {
		return err
	}

	return nil
}

// GetPendingCounts returns how many open admin actions exist: new signup
// requests and pending release requests.
func (r *Repository) GetPendingCounts() (int, int, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN status = $1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = $2 THEN 1 ELSE 0 END), 0)
		FROM signups
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var requested, releases int
	if err := r.dbpool.QueryRowContext(ctx, query, domain.StatusRequested, domain.StatusReleaseRequested).Scan(&requested, &releases); err != nil {
		return 0, 0, err
	}

	return requested, releases, nil
}

// GetPayrollRowsForMonth returns the approved signups that land in a given
// calendar month, never including future-dated shifts.
func (r *Repository) GetPayrollRowsForMonth(year int, month int, includePaid bool, includeMissing bool) ([]*domain.PayrollRow, error) {
	query := `
		SELECT
			sg.id, sg.work_start, sg.work_end, sg.work_hours, sg.approved_work_hours,
			sg.hours_approved_by_admin, sg.payroll_paid, sg.payroll_paid_at,
			s.date, s.location, s.description,
			p.name, p.phone
		FROM signups sg
		JOIN shifts s ON s.id = sg.shift_id
		JOIN persons p ON p.id = sg.person_id
		WHERE sg.status = $1
		  AND substr(s.date, 1, 4) = $2
		  AND substr(s.date, 6, 2) = $3
		  AND s.date <= $4
	`
	if !includeMissing {
		query += ` AND sg.work_hours IS NOT NULL`
	}
	if !includePaid {
		query += ` AND sg.payroll_paid = FALSE`
	}
	query += ` ORDER BY p.name, s.date`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		domain.StatusApproved,
		fmt.Sprintf("%04d", year),
		fmt.Sprintf("%02d", month),
		time.Now().Format("2006-01-02"),
	}

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*domain.PayrollRow{}
	for rows.Next() {
		row := &domain.PayrollRow{}
		dst := []any{
			&row.SignupID,
			&row.WorkStart,
			&row.WorkEnd,
			&row.WorkHours,
			&row.ApprovedWorkHours,
			&row.HoursApprovedByAdmin,
			&row.PayrollPaid,
			&row.PayrollPaidAt,
			&row.ShiftDate,
			&row.Location,
			&row.Description,
			&row.PersonName,
			&row.Phone,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

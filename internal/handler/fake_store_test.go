package handler

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/myggens/vagtplan/backend/internal/domain"
	"github.com/myggens/vagtplan/backend/internal/repository"
)

// fakeStore is an in-memory Store with the same semantics as the real
// repository: the capacity guard on approval, the requested-only self-cancel,
// the payroll guard, and the duplicate-signup constraint error.
type fakeStore struct {
	nextID  int64
	persons map[int64]*domain.Person
	shifts  map[int64]*domain.Shift
	signups map[int64]*domain.Signup
	extras  map[int64]*domain.ExtraShift
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		persons: map[int64]*domain.Person{},
		shifts:  map[int64]*domain.Shift{},
		signups: map[int64]*domain.Signup{},
		extras:  map[int64]*domain.ExtraShift{},
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) GetOrCreatePerson(name, phone string) (*domain.Person, error) {
	for _, p := range f.persons {
		if p.Phone == phone {
			p.Name = name
			return p, nil
		}
	}
	p := &domain.Person{ID: f.id(), Name: name, Phone: phone, CreatedAt: time.Now()}
	f.persons[p.ID] = p
	return p, nil
}

func (f *fakeStore) GetPerson(id int64) (*domain.Person, error) {
	p, ok := f.persons[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (f *fakeStore) GetAllPersons() ([]*domain.Person, error) {
	out := []*domain.Person{}
	for _, p := range f.persons {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) DeletePerson(id int64) error {
	for sid, sg := range f.signups {
		if sg.PersonID == id {
			delete(f.signups, sid)
		}
	}
	for eid, e := range f.extras {
		if e.PersonID == id {
			delete(f.extras, eid)
		}
	}
	delete(f.persons, id)
	return nil
}

func (f *fakeStore) CreateShift(shift *domain.Shift) error {
	shift.ID = f.id()
	shift.CreatedAt = time.Now()
	f.shifts[shift.ID] = shift
	return nil
}

func (f *fakeStore) UpdateShift(shift *domain.Shift) error {
	if _, ok := f.shifts[shift.ID]; !ok {
		return sql.ErrNoRows
	}
	f.shifts[shift.ID] = shift
	return nil
}

func (f *fakeStore) withCounts(shift *domain.Shift) *domain.ShiftWithCounts {
	sc := &domain.ShiftWithCounts{Shift: *shift}
	for _, sg := range f.signups {
		if sg.ShiftID != shift.ID {
			continue
		}
		switch sg.Status {
		case domain.StatusApproved:
			sc.ApprovedCount++
		case domain.StatusRequested:
			sc.RequestedCount++
		case domain.StatusReleaseRequested:
			sc.ReleaseRequestedCount++
		}
	}
	sc.PendingCount = sc.RequestedCount + sc.ReleaseRequestedCount
	return sc
}

func (f *fakeStore) GetShift(id int64) (*domain.ShiftWithCounts, error) {
	shift, ok := f.shifts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return f.withCounts(shift), nil
}

func (f *fakeStore) GetAllShiftsWithCounts() ([]*domain.ShiftWithCounts, error) {
	out := []*domain.ShiftWithCounts{}
	for _, shift := range f.shifts {
		out = append(out, f.withCounts(shift))
	}
	return out, nil
}

func (f *fakeStore) SetShiftState(id int64, state domain.ShiftState) error {
	shift, ok := f.shifts[id]
	if !ok {
		return sql.ErrNoRows
	}
	shift.State = state
	return nil
}

func (f *fakeStore) SinkArchivedShifts() error {
	for _, shift := range f.shifts {
		if shift.State == domain.ShiftArchived {
			shift.State = domain.ShiftHistoric
		}
	}
	return nil
}

func (f *fakeStore) SetShiftAdminNote(id int64, note *string) error {
	shift, ok := f.shifts[id]
	if !ok {
		return sql.ErrNoRows
	}
	shift.AdminNote = note
	return nil
}

func (f *fakeStore) DeleteShiftPermanently(id int64) error {
	for sid, sg := range f.signups {
		if sg.ShiftID == id {
			delete(f.signups, sid)
		}
	}
	delete(f.shifts, id)
	return nil
}

func (f *fakeStore) CreateSignup(signup *domain.Signup) error {
	for _, sg := range f.signups {
		if sg.PersonID == signup.PersonID && sg.ShiftID == signup.ShiftID {
			return &pgconn.PgError{Code: "23505", ConstraintName: "signups_person_id_shift_id_key"}
		}
	}
	signup.ID = f.id()
	signup.CreatedAt = time.Now()
	f.signups[signup.ID] = signup
	return nil
}

func (f *fakeStore) detail(signup *domain.Signup) (*domain.SignupDetail, error) {
	person, ok := f.persons[signup.PersonID]
	if !ok {
		return nil, fmt.Errorf("person %d missing", signup.PersonID)
	}
	return &domain.SignupDetail{Signup: *signup, PersonName: person.Name, Phone: person.Phone}, nil
}

func (f *fakeStore) GetSignupByID(id int64) (*domain.SignupDetail, error) {
	signup, ok := f.signups[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return f.detail(signup)
}

func (f *fakeStore) GetSignupsForShift(shiftID int64) ([]*domain.SignupDetail, error) {
	out := []*domain.SignupDetail{}
	for _, sg := range f.signups {
		if sg.ShiftID != shiftID {
			continue
		}
		d, err := f.detail(sg)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeStore) withShift(signup *domain.Signup) (*domain.SignupWithShift, error) {
	shift, ok := f.shifts[signup.ShiftID]
	if !ok {
		return nil, fmt.Errorf("shift %d missing", signup.ShiftID)
	}
	return &domain.SignupWithShift{Signup: *signup, Shift: *shift}, nil
}

func (f *fakeStore) GetSignupsByPhone(phone string) ([]*domain.SignupWithShift, error) {
	out := []*domain.SignupWithShift{}
	for _, sg := range f.signups {
		person, ok := f.persons[sg.PersonID]
		if !ok || person.Phone != phone {
			continue
		}
		s, err := f.withShift(sg)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStore) GetSignupsForPerson(personID int64) ([]*domain.SignupWithShift, error) {
	out := []*domain.SignupWithShift{}
	for _, sg := range f.signups {
		if sg.PersonID != personID {
			continue
		}
		s, err := f.withShift(sg)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStore) ApproveSignup(id int64) error {
	signup, ok := f.signups[id]
	if !ok {
		return sql.ErrNoRows
	}
	if signup.Status != domain.StatusRequested {
		return repository.ErrSignupNotPending
	}
	shift, ok := f.shifts[signup.ShiftID]
	if !ok {
		return sql.ErrNoRows
	}
	approved := 0
	for _, sg := range f.signups {
		if sg.ShiftID == shift.ID && sg.Status == domain.StatusApproved {
			approved++
		}
	}
	if approved >= int(shift.RequiredStaff) {
		return repository.ErrShiftFull
	}
	signup.Status = domain.StatusApproved
	return nil
}

func (f *fakeStore) RequestRelease(id int64) error {
	signup, ok := f.signups[id]
	if !ok {
		return sql.ErrNoRows
	}
	if signup.Status == domain.StatusApproved {
		signup.Status = domain.StatusReleaseRequested
	}
	return nil
}

func (f *fakeStore) DenyRelease(id int64) error {
	signup, ok := f.signups[id]
	if !ok || signup.Status != domain.StatusReleaseRequested {
		return repository.ErrNotReleaseRequest
	}
	signup.Status = domain.StatusApproved
	return nil
}

func (f *fakeStore) DeleteSignup(id int64) error {
	delete(f.signups, id)
	return nil
}

func (f *fakeStore) DeleteSignupIfRequested(id int64) (bool, error) {
	signup, ok := f.signups[id]
	if !ok || signup.Status != domain.StatusRequested {
		return false, nil
	}
	delete(f.signups, id)
	return true, nil
}

func (f *fakeStore) SetWorkedHours(id int64, workStart, workEnd string, hours float64) error {
	signup, ok := f.signups[id]
	if !ok {
		return sql.ErrNoRows
	}
	signup.WorkStart = &workStart
	signup.WorkEnd = &workEnd
	signup.WorkHours = &hours
	return nil
}

func (f *fakeStore) ApproveWorkHours(id int64, approvedHours float64) error {
	signup, ok := f.signups[id]
	if !ok {
		return sql.ErrNoRows
	}
	signup.ApprovedWorkHours = &approvedHours
	signup.HoursApprovedByAdmin = true
	return nil
}

func (f *fakeStore) SetPayrollPaid(id int64, paid bool) error {
	signup, ok := f.signups[id]
	if !ok {
		return sql.ErrNoRows
	}
	if !paid {
		signup.PayrollPaid = false
		signup.PayrollPaidAt = nil
		return nil
	}
	if !signup.HoursApprovedByAdmin {
		return repository.ErrHoursNotApproved
	}
	now := time.Now()
	signup.PayrollPaid = true
	signup.PayrollPaidAt = &now
	return nil
}

func (f *fakeStore) SetMeetTime(id int64, meetTime *string) error {
	signup, ok := f.signups[id]
	if !ok {
		return sql.ErrNoRows
	}
	signup.MeetTime = meetTime
	return nil
}

func (f *fakeStore) GetPendingCounts() (int, int, error) {
	requested, releases := 0, 0
	for _, sg := range f.signups {
		switch sg.Status {
		case domain.StatusRequested:
			requested++
		case domain.StatusReleaseRequested:
			releases++
		}
	}
	return requested, releases, nil
}

func (f *fakeStore) GetPayrollRowsForMonth(year, month int, includePaid, includeMissing bool) ([]*domain.PayrollRow, error) {
	today := time.Now().Format("2006-01-02")
	out := []*domain.PayrollRow{}
	for _, sg := range f.signups {
		if sg.Status != domain.StatusApproved {
			continue
		}
		shift, ok := f.shifts[sg.ShiftID]
		if !ok || shift.Date > today {
			continue
		}
		if shift.Date[:4] != fmt.Sprintf("%04d", year) || shift.Date[5:7] != fmt.Sprintf("%02d", month) {
			continue
		}
		if !includeMissing && sg.WorkHours == nil {
			continue
		}
		if !includePaid && sg.PayrollPaid {
			continue
		}
		person := f.persons[sg.PersonID]
		out = append(out, &domain.PayrollRow{
			SignupID:             sg.ID,
			WorkStart:            sg.WorkStart,
			WorkEnd:              sg.WorkEnd,
			WorkHours:            sg.WorkHours,
			ApprovedWorkHours:    sg.ApprovedWorkHours,
			HoursApprovedByAdmin: sg.HoursApprovedByAdmin,
			PayrollPaid:          sg.PayrollPaid,
			PayrollPaidAt:        sg.PayrollPaidAt,
			ShiftDate:            shift.Date,
			Location:             shift.Location,
			Description:          shift.Description,
			PersonName:           person.Name,
			Phone:                person.Phone,
		})
	}
	return out, nil
}

func (f *fakeStore) CreateExtraShift(extra *domain.ExtraShift) error {
	extra.ID = f.id()
	extra.CreatedAt = time.Now()
	f.extras[extra.ID] = extra
	return nil
}

func (f *fakeStore) extraDetail(extra *domain.ExtraShift) (*domain.ExtraShiftDetail, error) {
	person, ok := f.persons[extra.PersonID]
	if !ok {
		return nil, fmt.Errorf("person %d missing", extra.PersonID)
	}
	return &domain.ExtraShiftDetail{ExtraShift: *extra, PersonName: person.Name, Phone: person.Phone}, nil
}

func (f *fakeStore) GetExtraShiftByID(id int64) (*domain.ExtraShiftDetail, error) {
	extra, ok := f.extras[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return f.extraDetail(extra)
}

func (f *fakeStore) GetExtraShiftsForMonth(year, month int, includePaid bool) ([]*domain.ExtraShiftDetail, error) {
	out := []*domain.ExtraShiftDetail{}
	for _, extra := range f.extras {
		if extra.Date[:4] != fmt.Sprintf("%04d", year) || extra.Date[5:7] != fmt.Sprintf("%02d", month) {
			continue
		}
		if !includePaid && extra.PayrollPaid {
			continue
		}
		d, err := f.extraDetail(extra)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeStore) ApproveExtraHours(id int64, approvedHours float64) error {
	extra, ok := f.extras[id]
	if !ok {
		return sql.ErrNoRows
	}
	extra.Status = domain.ExtraApproved
	extra.ApprovedWorkHours = &approvedHours
	extra.HoursApprovedByAdmin = true
	return nil
}

func (f *fakeStore) RejectExtraShift(id int64) error {
	extra, ok := f.extras[id]
	if !ok {
		return sql.ErrNoRows
	}
	extra.Status = domain.ExtraRejected
	return nil
}

func (f *fakeStore) SetExtraPayrollPaid(id int64, paid bool) error {
	extra, ok := f.extras[id]
	if !ok {
		return sql.ErrNoRows
	}
	if !paid {
		extra.PayrollPaid = false
		extra.PayrollPaidAt = nil
		return nil
	}
	if !extra.HoursApprovedByAdmin {
		return repository.ErrHoursNotApproved
	}
	now := time.Now()
	extra.PayrollPaid = true
	extra.PayrollPaidAt = &now
	return nil
}

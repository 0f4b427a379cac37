package handler

import "github.com/myggens/vagtplan/backend/internal/domain"

// Store is the storage surface the handlers run against. *repository.Repository
// implements it; tests swap in an in-memory fake so the signup state machine
// and payroll guards can be exercised without a database.
type Store interface {
	GetOrCreatePerson(name string, phone string) (*domain.Person, error)
	GetPerson(id int64) (*domain.Person, error)
	GetAllPersons() ([]*domain.Person, error)
	DeletePerson(id int64) error

	CreateShift(shift *domain.Shift) error
	UpdateShift(shift *domain.Shift) error
	GetShift(id int64) (*domain.ShiftWithCounts, error)
	GetAllShiftsWithCounts() ([]*domain.ShiftWithCounts, error)
	SetShiftState(id int64, state domain.ShiftState) error
	SinkArchivedShifts() error
	SetShiftAdminNote(id int64, note *string) error
	DeleteShiftPermanently(id int64) error

	CreateSignup(signup *domain.Signup) error
	GetSignupByID(id int64) (*domain.SignupDetail, error)
	GetSignupsForShift(shiftID int64) ([]*domain.SignupDetail, error)
	GetSignupsByPhone(phone string) ([]*domain.SignupWithShift, error)
	GetSignupsForPerson(personID int64) ([]*domain.SignupWithShift, error)
	ApproveSignup(id int64) error
	RequestRelease(id int64) error
	DenyRelease(id int64) error
	DeleteSignup(id int64) error
	DeleteSignupIfRequested(id int64) (bool, error)
	SetWorkedHours(id int64, workStart, workEnd string, hours float64) error
	ApproveWorkHours(id int64, approvedHours float64) error
	SetPayrollPaid(id int64, paid bool) error
	SetMeetTime(id int64, meetTime *string) error
	GetPendingCounts() (int, int, error)
	GetPayrollRowsForMonth(year int, month int, includePaid bool, includeMissing bool) ([]*domain.PayrollRow, error)

	CreateExtraShift(extra *domain.ExtraShift) error
	GetExtraShiftByID(id int64) (*domain.ExtraShiftDetail, error)
	GetExtraShiftsForMonth(year int, month int, includePaid bool) ([]*domain.ExtraShiftDetail, error)
	ApproveExtraHours(id int64, approvedHours float64) error
	RejectExtraShift(id int64) error
	SetExtraPayrollPaid(id int64, paid bool) error
}

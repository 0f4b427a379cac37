package seed

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/myggens/vagtplan/backend/internal/config"
	"github.com/myggens/vagtplan/backend/internal/domain"
	"github.com/myggens/vagtplan/backend/internal/repository"
	"github.com/myggens/vagtplan/backend/internal/staffing"
	"github.com/myggens/vagtplan/backend/internal/utils"
)

// Seed fills the database with random persons, shifts and signups so every
// view has something to show during development. Approvals go through the
// normal capacity-checked path, so seeded data never overbooks a shift.
func Seed(cfg *config.Config, r *repository.Repository) error {
	persons := []*domain.Person{}
	for i := 0; i < cfg.Seed.PersonCount; i++ {
		random := utils.GenerateRandomPerson()
		person, err := r.GetOrCreatePerson(random.Name, random.Phone)
		if err != nil {
			return fmt.Errorf("seed person: %w", err)
		}
		persons = append(persons, person)
	}
	slog.Info("seeded persons", "count", len(persons))

	today := time.Now().Format("2006-01-02")
	for i := 0; i < cfg.Seed.ShiftCount; i++ {
		shift := utils.GenerateRandomShift()
		if err := r.CreateShift(shift); err != nil {
			return fmt.Errorf("seed shift: %w", err)
		}

		if err := seedSignups(r, shift, persons, today); err != nil {
			return err
		}
	}
	slog.Info("seeded shifts", "count", cfg.Seed.ShiftCount)

	if err := seedExtraShifts(r, persons); err != nil {
		return err
	}

	return nil
}

func seedSignups(r *repository.Repository, shift *domain.Shift, persons []*domain.Person, today string) error {
	// Between zero and required+2 people are interested in each shift, so some
	// shifts end up overbooked with requests and some stay empty.
	interested := rand.Intn(int(shift.RequiredStaff) + 3)
	for _, idx := range rand.Perm(len(persons))[:min(interested, len(persons))] {
		person := persons[idx]

		signup := &domain.Signup{
			PersonID: person.ID,
			ShiftID:  shift.ID,
			Status:   domain.StatusRequested,
		}
		if err := r.CreateSignup(signup); err != nil {
			return fmt.Errorf("seed signup: %w", err)
		}

		// Roughly two thirds get approved, through the capacity-checked path.
		if rand.Intn(3) == 0 {
			continue
		}
		if err := r.ApproveSignup(signup.ID); err != nil {
			if errors.Is(err, repository.ErrShiftFull) {
				continue
			}
			return fmt.Errorf("seed approve: %w", err)
		}

		if shift.Date < today {
			if err := seedWorkedHours(r, signup.ID); err != nil {
				return err
			}
		}
	}

	return nil
}

func seedWorkedHours(r *repository.Repository, signupID int64) error {
	// Half of the past approved signups have logged hours, and half of those
	// are already admin-approved, so the payroll view shows every stage.
	if rand.Intn(2) == 0 {
		return nil
	}

	workStart := fmt.Sprintf("%02d:00", rand.Intn(6)+14)
	workEnd := fmt.Sprintf("%02d:30", rand.Intn(6)) // past midnight now and then
	hours, err := staffing.WorkedHours(workStart, workEnd)
	if err != nil {
		return err
	}
	if err := r.SetWorkedHours(signupID, workStart, workEnd, hours); err != nil {
		return fmt.Errorf("seed hours: %w", err)
	}

	if rand.Intn(2) == 0 {
		if err := r.ApproveWorkHours(signupID, hours); err != nil {
			return fmt.Errorf("seed approve hours: %w", err)
		}
	}

	return nil
}

func seedExtraShifts(r *repository.Repository, persons []*domain.Person) error {
	if len(persons) == 0 {
		return nil
	}

	for i := 0; i < 3; i++ {
		person := persons[rand.Intn(len(persons))]
		date := time.Now().AddDate(0, 0, -rand.Intn(10)-1).Format("2006-01-02")

		workStart := fmt.Sprintf("%02d:00", rand.Intn(4)+9)
		workEnd := fmt.Sprintf("%02d:00", rand.Intn(4)+14)
		hours, err := staffing.ExtraShiftHours(workStart, workEnd)
		if err != nil {
			return err
		}

		extra := &domain.ExtraShift{
			PersonID:  person.ID,
			Date:      date,
			WorkStart: workStart,
			WorkEnd:   workEnd,
			WorkHours: hours,
			Status:    domain.ExtraRequested,
		}
		if err := r.CreateExtraShift(extra); err != nil {
			return fmt.Errorf("seed extra shift: %w", err)
		}
	}
	slog.Info("seeded extra shifts", "count", 3)

	return nil
}

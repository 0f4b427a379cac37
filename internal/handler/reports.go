package handler

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/myggens/vagtplan/backend/internal/domain"
	"github.com/myggens/vagtplan/backend/internal/staffing"
	"github.com/myggens/vagtplan/backend/internal/utils"
)

// AdminDashboard returns the active and archived shift lists with approved
// counts and an urgency band per active shift.
func (h *Handler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.store.GetAllShiftsWithCounts()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	now := time.Now()
	active := []*domain.ShiftWithCounts{}
	archived := []*domain.ShiftWithCounts{}
	for _, shift := range shifts {
		switch shift.State {
		case domain.ShiftActive:
			shift.Urgency = staffing.Urgency(shift.ApprovedCount, int(shift.RequiredStaff), shift.Date, now)
			active = append(active, shift)
		case domain.ShiftArchived:
			archived = append(archived, shift)
		}
	}

	h.successResponse(w, r, "", map[string]any{
		"activeShifts":   active,
		"archivedShifts": archived,
	})
}

// AdminActions is the work queue: how many signups and release requests are
// waiting, and which shifts they sit on, busiest first.
func (h *Handler) AdminActions(w http.ResponseWriter, r *http.Request) {
	pendingSignups, pendingReleases, err := h.store.GetPendingCounts()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	shifts, err := h.store.GetAllShiftsWithCounts()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	actionable := []*domain.ShiftWithCounts{}
	for _, shift := range shifts {
		if shift.State != domain.ShiftHistoric && shift.PendingCount > 0 {
			actionable = append(actionable, shift)
		}
	}

	sort.Slice(actionable, func(i, j int) bool {
		a, b := actionable[i], actionable[j]
		if a.PendingCount != b.PendingCount {
			return a.PendingCount > b.PendingCount
		}
		if a.Date != b.Date {
			return a.Date > b.Date
		}
		return a.StartTime > b.StartTime
	})

	h.successResponse(w, r, "", map[string]any{
		"pendingSignups":  pendingSignups,
		"pendingReleases": pendingReleases,
		"shifts":          actionable,
	})
}

type overviewRow struct {
	Shift            *domain.ShiftWithCounts `json:"shift"`
	Approved         []*domain.SignupDetail  `json:"approved"`
	Requested        []*domain.SignupDetail  `json:"requested"`
	ReleaseRequested []*domain.SignupDetail  `json:"releaseRequested"`
}

// AdminOverview shows every upcoming active shift with its signups grouped by
// status, so a planner can see the whole staffing picture in one call.
func (h *Handler) AdminOverview(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.store.GetAllShiftsWithCounts()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	today := time.Now().Format("2006-01-02")
	rows := []*overviewRow{}
	for _, shift := range shifts {
		if shift.State != domain.ShiftActive || shift.Date < today {
			continue
		}

		signups, err := h.store.GetSignupsForShift(shift.ID)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		row := &overviewRow{
			Shift:            shift,
			Approved:         []*domain.SignupDetail{},
			Requested:        []*domain.SignupDetail{},
			ReleaseRequested: []*domain.SignupDetail{},
		}
		for _, signup := range signups {
			switch signup.Status {
			case domain.StatusApproved:
				row.Approved = append(row.Approved, signup)
			case domain.StatusRequested:
				row.Requested = append(row.Requested, signup)
			case domain.StatusReleaseRequested:
				row.ReleaseRequested = append(row.ReleaseRequested, signup)
			}
		}
		rows = append(rows, row)
	}

	h.successResponse(w, r, "", rows)
}

type payrollPerson struct {
	Name       string               `json:"name"`
	Phone      string               `json:"phone"`
	Rows       []*domain.PayrollRow `json:"rows"`
	TotalHours float64              `json:"totalHours"`
}

// AdminPayroll is the monthly hours view: approved signups for the chosen
// month grouped per person, plus the extra shifts for the same month. Paid
// rows are hidden unless showPaid is set.
func (h *Handler) AdminPayroll(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year, month := now.Year(), int(now.Month())
	if y, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil {
		year = y
	}
	if m, err := strconv.Atoi(r.URL.Query().Get("month")); err == nil && m >= 1 && m <= 12 {
		month = m
	}
	showPaid := r.URL.Query().Get("showPaid") == "1"

	rows, err := h.store.GetPayrollRowsForMonth(year, month, showPaid, true)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	byPhone := map[string]*payrollPerson{}
	order := []string{}
	grandTotal := 0.0
	for _, row := range rows {
		person, ok := byPhone[row.Phone]
		if !ok {
			person = &payrollPerson{Name: row.PersonName, Phone: row.Phone}
			byPhone[row.Phone] = person
			order = append(order, row.Phone)
		}
		person.Rows = append(person.Rows, row)
		hours := staffing.ResolveHours(row.WorkHours, row.ApprovedWorkHours, row.HoursApprovedByAdmin)
		person.TotalHours += hours
		grandTotal += hours
	}

	people := make([]*payrollPerson, 0, len(order))
	for _, phone := range order {
		people = append(people, byPhone[phone])
	}
	sort.Slice(people, func(i, j int) bool { return people[i].Name < people[j].Name })

	extras, err := h.store.GetExtraShiftsForMonth(year, month, showPaid)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	extraTotal := 0.0
	for _, extra := range extras {
		if extra.Status == domain.ExtraRejected {
			continue
		}
		extraTotal += staffing.ResolveHours(&extra.WorkHours, extra.ApprovedWorkHours, extra.HoursApprovedByAdmin)
	}

	h.successResponse(w, r, "", map[string]any{
		"year":        year,
		"month":       month,
		"people":      people,
		"grandTotal":  grandTotal,
		"extraShifts": extras,
		"extraTotal":  extraTotal,
	})
}

type historyShift struct {
	Shift      *domain.ShiftWithCounts `json:"shift"`
	Signups    []*domain.SignupDetail  `json:"signups"`
	TotalHours float64                 `json:"totalHours"`
}

type historyMonth struct {
	Year   int             `json:"year"`
	Month  int             `json:"month"`
	Shifts []*historyShift `json:"shifts"`
}

// AdminHistory groups the historic shifts by calendar month, newest first,
// with the hour total per shift.
func (h *Handler) AdminHistory(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.store.GetAllShiftsWithCounts()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	type monthKey struct{ year, month int }
	byMonth := map[monthKey]*historyMonth{}
	for _, shift := range shifts {
		if shift.State != domain.ShiftHistoric {
			continue
		}

		signups, err := h.store.GetSignupsForShift(shift.ID)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		entry := &historyShift{Shift: shift, Signups: []*domain.SignupDetail{}}
		for _, signup := range signups {
			if signup.Status == domain.StatusCancelledByAdmin {
				continue
			}
			entry.Signups = append(entry.Signups, signup)
			entry.TotalHours += staffing.ResolveHours(signup.WorkHours, signup.ApprovedWorkHours, signup.HoursApprovedByAdmin)
		}

		year, month := staffing.MonthOf(shift.Date)
		key := monthKey{year, month}
		group, ok := byMonth[key]
		if !ok {
			group = &historyMonth{Year: year, Month: month}
			byMonth[key] = group
		}
		group.Shifts = append(group.Shifts, entry)
	}

	months := make([]*historyMonth, 0, len(byMonth))
	for _, group := range byMonth {
		sort.Slice(group.Shifts, func(i, j int) bool {
			return group.Shifts[i].Shift.Date > group.Shifts[j].Shift.Date
		})
		months = append(months, group)
	}
	sort.Slice(months, func(i, j int) bool {
		if months[i].Year != months[j].Year {
			return months[i].Year > months[j].Year
		}
		return months[i].Month > months[j].Month
	})

	h.successResponse(w, r, "", months)
}

type myShiftRow struct {
	Signup    *domain.SignupWithShift `json:"signup"`
	Coworkers []string                `json:"coworkers"`
}

// GetMyShifts shows a freelancer their upcoming signups (with the approved
// coworkers on each shift) and the past approved signups still missing
// logged hours. POSTing a phone number looks up another number, which the
// login-by-phone model treats as the same identity claim as logging in.
func (h *Handler) GetMyShifts(w http.ResponseWriter, r *http.Request) {
	phone := sessionPhone(r)

	if r.Method == http.MethodPost {
		var req struct {
			Phone string `json:"phone"`
		}
		if err := h.readJSON(r, &req); err != nil {
			h.badRequest(w, r, err)
			return
		}
		if normalized := utils.NormalizePhone(req.Phone); utils.ValidPhone(normalized) {
			phone = normalized
		}
	}

	signups, err := h.store.GetSignupsByPhone(phone)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	today := time.Now().Format("2006-01-02")
	upcoming := []*myShiftRow{}
	unlogged := []*domain.SignupWithShift{}
	for _, signup := range signups {
		if signup.Status == domain.StatusCancelledByAdmin {
			continue
		}

		if signup.Shift.Date >= today {
			row := &myShiftRow{Signup: signup, Coworkers: []string{}}
			if signup.Status == domain.StatusApproved || signup.Status == domain.StatusReleaseRequested {
				others, err := h.store.GetSignupsForShift(signup.ShiftID)
				if err != nil {
					h.internalServerError(w, r, err)
					return
				}
				for _, other := range others {
					if other.ID != signup.ID && other.Status == domain.StatusApproved {
						row.Coworkers = append(row.Coworkers, other.PersonName)
					}
				}
			}
			upcoming = append(upcoming, row)
			continue
		}

		if (signup.Status == domain.StatusApproved || signup.Status == domain.StatusReleaseRequested) && signup.WorkHours == nil {
			unlogged = append(unlogged, signup)
		}
	}

	h.successResponse(w, r, "", map[string]any{
		"phone":    phone,
		"upcoming": upcoming,
		"unlogged": unlogged,
	})
}

// GetMyHistory lists a freelancer's past approved signups inside a date
// range, with the payroll-resolved hours per signup and the total.
func (h *Handler) GetMyHistory(w http.ResponseWriter, r *http.Request) {
	phone := sessionPhone(r)

	signups, err := h.store.GetSignupsByPhone(phone)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	today := time.Now()
	past := []*domain.SignupWithShift{}
	earliest := today
	years := map[int]bool{}
	for _, signup := range signups {
		if signup.Status != domain.StatusApproved && signup.Status != domain.StatusReleaseRequested {
			continue
		}
		d, err := time.Parse("2006-01-02", signup.Shift.Date)
		if err != nil || d.After(today) {
			continue
		}
		if d.Before(earliest) {
			earliest = d
		}
		years[d.Year()] = true
		past = append(past, signup)
	}

	period := h.historyPeriod(r, earliest, today)

	type historyEntry struct {
		Signup *domain.SignupWithShift `json:"signup"`
		Hours  float64                 `json:"hours"`
	}

	entries := []*historyEntry{}
	total := 0.0
	for _, signup := range past {
		d, _ := time.Parse("2006-01-02", signup.Shift.Date)
		if !period.Contains(d) {
			continue
		}
		hours := staffing.ResolveHours(signup.WorkHours, signup.ApprovedWorkHours, signup.HoursApprovedByAdmin)
		entries = append(entries, &historyEntry{Signup: signup, Hours: hours})
		total += hours
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Signup.Shift.Date > entries[j].Signup.Shift.Date
	})

	yearList := make([]int, 0, len(years))
	for y := range years {
		yearList = append(yearList, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(yearList)))

	h.successResponse(w, r, "", map[string]any{
		"from":       period.From.Format("2006-01-02"),
		"to":         period.To.Format("2006-01-02"),
		"entries":    entries,
		"totalHours": total,
		"years":      yearList,
	})
}

// historyPeriod reads either a year+month pair or a free from/to range off
// the query string. Danish date input is accepted on both ends.
func (h *Handler) historyPeriod(r *http.Request, earliest, today time.Time) staffing.Period {
	q := r.URL.Query()

	if y, err := strconv.Atoi(q.Get("year")); err == nil {
		if m, err := strconv.Atoi(q.Get("month")); err == nil && m >= 1 && m <= 12 {
			from := time.Date(y, time.Month(m), 1, 0, 0, 0, 0, today.Location())
			to := from.AddDate(0, 1, -1)
			return staffing.ClampPeriod(&from, &to, earliest, today)
		}
	}

	var from, to *time.Time
	if iso, err := utils.ParseFlexibleDate(q.Get("fromDate")); err == nil {
		if d, err := time.Parse("2006-01-02", iso); err == nil {
			from = &d
		}
	}
	if iso, err := utils.ParseFlexibleDate(q.Get("toDate")); err == nil {
		if d, err := time.Parse("2006-01-02", iso); err == nil {
			to = &d
		}
	}

	return staffing.ClampPeriod(from, to, earliest, today)
}

// SignupsForPhone is the public lookup used by the signup page to mark shifts
// the caller already has a signup for. The response is a bare object, not the
// usual envelope: external callers depend on its exact shape.
func (h *Handler) SignupsForPhone(w http.ResponseWriter, r *http.Request) {
	phone := utils.NormalizePhone(r.URL.Query().Get("phone"))
	if !utils.ValidPhone(phone) {
		h.writeJSON(w, r, http.StatusOK, map[string]any{"signups": []any{}})
		return
	}

	signups, err := h.store.GetSignupsByPhone(phone)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	out := []map[string]any{}
	for _, signup := range signups {
		if signup.Status == domain.StatusCancelledByAdmin {
			continue
		}
		out = append(out, map[string]any{
			"shift_id":  signup.ShiftID,
			"signup_id": signup.ID,
			"status":    signup.Status,
		})
	}

	h.writeJSON(w, r, http.StatusOK, map[string]any{"signups": out})
}

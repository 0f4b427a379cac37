package handler

import (
	"net/http"
	"time"

	"github.com/myggens/vagtplan/backend/internal/domain"
	"github.com/myggens/vagtplan/backend/internal/staffing"
	"github.com/myggens/vagtplan/backend/internal/utils"
)

// GetOpenShifts lists the active shifts a freelancer can still sign up for:
// today or later, with fresh approved counts.
func (h *Handler) GetOpenShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.store.GetAllShiftsWithCounts()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	today := time.Now().Format("2006-01-02")
	open := []*domain.ShiftWithCounts{}
	for _, shift := range shifts {
		if shift.State == domain.ShiftActive && shift.Date >= today {
			open = append(open, shift)
		}
	}

	h.successResponse(w, r, "", open)
}

func (h *Handler) GetShiftForSignup(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtxKey).(*domain.ShiftWithCounts)

	h.successResponse(w, r, "", shift)
}

type shiftRequest struct {
	Date          string  `json:"date" validate:"required"`
	StartTime     string  `json:"startTime" validate:"required"`
	Location      string  `json:"location" validate:"required"`
	Description   string  `json:"description"`
	Customer      *string `json:"customer"`
	EventType     *string `json:"eventType"`
	GuestCount    *int32  `json:"guestCount"`
	RequiredStaff int32   `json:"requiredStaff" validate:"required,min=1"`
	AdminNote     *string `json:"adminNote"`
}

// applyTo validates the request's date and start time and copies everything
// onto the shift. Danish date input is normalized to ISO here; nothing but
// ISO ever reaches the store.
func (req *shiftRequest) applyTo(shift *domain.Shift) error {
	dateISO, err := utils.ParseFlexibleDate(req.Date)
	if err != nil {
		return err
	}
	if _, err := staffing.ParseClock(req.StartTime); err != nil {
		return err
	}

	shift.Date = dateISO
	shift.StartTime = req.StartTime
	shift.Location = req.Location
	shift.Description = req.Description
	shift.Customer = req.Customer
	shift.EventType = req.EventType
	shift.GuestCount = req.GuestCount
	shift.RequiredStaff = req.RequiredStaff
	shift.AdminNote = req.AdminNote
	return nil
}

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req shiftRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift := &domain.Shift{State: domain.ShiftActive}
	if err := req.applyTo(shift); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.store.CreateShift(shift); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "shift created", shift)
}

func (h *Handler) GetShiftForEdit(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtxKey).(*domain.ShiftWithCounts)

	h.successResponse(w, r, "", shift)
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtxKey).(*domain.ShiftWithCounts)

	var req shiftRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := req.applyTo(&shift.Shift); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.store.UpdateShift(&shift.Shift); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "shift updated", shift.Shift)
}

// SetShiftState moves a shift between active (1), archived (0) and historic
// (-1). Anything else falls back to active.
func (h *Handler) SetShiftState(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtxKey).(*domain.ShiftWithCounts)

	var req struct {
		State int `json:"state"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	state := domain.ShiftState(req.State)
	if !domain.ValidShiftState(req.State) {
		state = domain.ShiftActive
	}

	if err := h.store.SetShiftState(shift.ID, state); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "shift state updated", nil)
}

func (h *Handler) SinkArchivedShifts(w http.ResponseWriter, r *http.Request) {
	if err := h.store.SinkArchivedShifts(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "all archived shifts moved to history", nil)
}

// ReviveShift pulls a shift out of the long-term history back into the
// archive.
func (h *Handler) ReviveShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtxKey).(*domain.ShiftWithCounts)

	if err := h.store.SetShiftState(shift.ID, domain.ShiftArchived); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "shift reopened and moved to the archive", nil)
}

// DeleteShift removes a shift permanently, signups included.
func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtxKey).(*domain.ShiftWithCounts)

	if err := h.store.DeleteShiftPermanently(shift.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "shift deleted permanently", nil)
}

func (h *Handler) SetShiftNote(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtxKey).(*domain.ShiftWithCounts)

	var req struct {
		AdminNote string `json:"adminNote"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	var note *string
	if req.AdminNote != "" {
		note = &req.AdminNote
	}

	if err := h.store.SetShiftAdminNote(shift.ID, note); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "note updated", nil)
}

// AdminShiftDetail shows one shift with every signup on it (admin-cancelled
// rows filtered out) plus the person directory for the add-signup dropdown.
func (h *Handler) AdminShiftDetail(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtxKey).(*domain.ShiftWithCounts)

	signups, err := h.store.GetSignupsForShift(shift.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	visible := []*domain.SignupDetail{}
	for _, signup := range signups {
		if signup.Status != domain.StatusCancelledByAdmin {
			visible = append(visible, signup)
		}
	}

	persons, err := h.store.GetAllPersons()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "", map[string]any{
		"shift":   shift,
		"signups": visible,
		"persons": persons,
	})
}

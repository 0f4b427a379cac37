package handler

import (
	"errors"
	"net/http"

	"github.com/myggens/vagtplan/backend/internal/domain"
	"github.com/myggens/vagtplan/backend/internal/repository"
	"github.com/myggens/vagtplan/backend/internal/staffing"
)

// LogWorkedHours records the actual start and end times for a signup the
// freelancer worked. Shifts regularly run past midnight, so an end before the
// start rolls into the next day.
func (h *Handler) LogWorkedHours(w http.ResponseWriter, r *http.Request) {
	signup := r.Context().Value(SignupCtxKey).(*domain.SignupDetail)

	if signup.Phone != sessionPhone(r) {
		h.forbidden(w, r, "this signup belongs to someone else")
		return
	}

	if signup.Status != domain.StatusApproved && signup.Status != domain.StatusReleaseRequested {
		h.errorResponse(w, r, "hours can only be logged for approved shifts")
		return
	}

	var req struct {
		WorkStart string `json:"workStart" validate:"required"`
		WorkEnd   string `json:"workEnd" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	hours, err := staffing.WorkedHours(req.WorkStart, req.WorkEnd)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if err := h.store.SetWorkedHours(signup.ID, req.WorkStart, req.WorkEnd, hours); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "hours logged", map[string]float64{"workHours": hours})
}

// ApproveWorkedHours sets the hour count that payroll will use. The approved
// value overrides whatever the freelancer logged, even when it disagrees with
// the logged start and end times.
func (h *Handler) ApproveWorkedHours(w http.ResponseWriter, r *http.Request) {
	signup := r.Context().Value(SignupCtxKey).(*domain.SignupDetail)

	var req struct {
		ApprovedWorkHours float64 `json:"approvedWorkHours"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if !staffing.ValidApprovedHours(req.ApprovedWorkHours) {
		h.errorResponse(w, r, "approved hours must be between 0 and 24")
		return
	}

	if err := h.store.ApproveWorkHours(signup.ID, req.ApprovedWorkHours); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "hours approved", nil)
}

// MarkSignupPaid flips the payroll flag. Marking paid requires the hours to
// have been approved first; unmarking is always allowed so mistakes can be
// undone.
func (h *Handler) MarkSignupPaid(w http.ResponseWriter, r *http.Request) {
	signup := r.Context().Value(SignupCtxKey).(*domain.SignupDetail)

	var req struct {
		Paid *bool `json:"paid"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	paid := true
	if req.Paid != nil {
		paid = *req.Paid
	}

	if err := h.store.SetPayrollPaid(signup.ID, paid); err != nil {
		switch {
		case errors.Is(err, repository.ErrHoursNotApproved):
			h.errorResponse(w, r, "approve the hours before marking the signup as paid")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if paid {
		h.successResponse(w, r, "signup marked as paid", nil)
		return
	}
	h.successResponse(w, r, "signup marked as unpaid", nil)
}

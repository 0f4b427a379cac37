package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/myggens/vagtplan/backend/internal/domain"
	"github.com/myggens/vagtplan/backend/internal/repository"
	"github.com/myggens/vagtplan/backend/internal/staffing"
	"github.com/myggens/vagtplan/backend/internal/utils"
)

// CreateExtraShift registers an ad-hoc block of worked hours that was never
// posted as a shift. The hours are computed up front and the request waits
// for an admin to approve or reject it.
func (h *Handler) CreateExtraShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string `json:"name" validate:"required"`
		Phone     string `json:"phone" validate:"required"`
		Date      string `json:"date" validate:"required"`
		WorkStart string `json:"workStart" validate:"required"`
		WorkEnd   string `json:"workEnd" validate:"required"`
		Note      string `json:"note"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	phone := utils.NormalizePhone(req.Phone)
	if !utils.ValidPhone(phone) {
		h.errorResponse(w, r, "check the phone number, it looks wrong")
		return
	}

	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		h.errorResponse(w, r, "date must look like YYYY-MM-DD")
		return
	}

	hours, err := staffing.ExtraShiftHours(req.WorkStart, req.WorkEnd)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	person, err := h.store.GetOrCreatePerson(req.Name, phone)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	var note *string
	if req.Note != "" {
		note = &req.Note
	}

	extra := &domain.ExtraShift{
		PersonID:  person.ID,
		Date:      req.Date,
		WorkStart: req.WorkStart,
		WorkEnd:   req.WorkEnd,
		WorkHours: hours,
		Note:      note,
		Status:    domain.ExtraRequested,
	}

	if err := h.store.CreateExtraShift(extra); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.publishNotification(r, NotificationExtraShift, domain.ExtraShiftNotificationData{
		PersonName: person.Name,
		Phone:      person.Phone,
		Date:       extra.Date,
		WorkStart:  extra.WorkStart,
		WorkEnd:    extra.WorkEnd,
		WorkHours:  extra.WorkHours,
	})

	h.successResponse(w, r, "extra shift registered, awaiting approval", extra)
}

// ApproveExtraShift approves an extra shift with the hour count payroll
// should use. The admin can correct the computed hours here.
func (h *Handler) ApproveExtraShift(w http.ResponseWriter, r *http.Request) {
	extra := r.Context().Value(ExtraShiftCtxKey).(*domain.ExtraShiftDetail)

	var req struct {
		ApprovedWorkHours *float64 `json:"approvedWorkHours"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	hours := extra.WorkHours
	if req.ApprovedWorkHours != nil {
		hours = *req.ApprovedWorkHours
	}
	if !staffing.ValidApprovedHours(hours) {
		h.errorResponse(w, r, "approved hours must be between 0 and 24")
		return
	}

	if err := h.store.ApproveExtraHours(extra.ID, hours); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "extra shift approved", nil)
}

func (h *Handler) RejectExtraShift(w http.ResponseWriter, r *http.Request) {
	extra := r.Context().Value(ExtraShiftCtxKey).(*domain.ExtraShiftDetail)

	if err := h.store.RejectExtraShift(extra.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "extra shift rejected", nil)
}

// MarkExtraShiftPaid flips the payroll flag with the same approval guard as
// regular signups.
func (h *Handler) MarkExtraShiftPaid(w http.ResponseWriter, r *http.Request) {
	extra := r.Context().Value(ExtraShiftCtxKey).(*domain.ExtraShiftDetail)

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

	if err := h.store.SetExtraPayrollPaid(extra.ID, paid); err != nil {
		switch {
		case errors.Is(err, repository.ErrHoursNotApproved):
			h.errorResponse(w, r, "approve the hours before marking the extra shift as paid")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if paid {
		h.successResponse(w, r, "extra shift marked as paid", nil)
		return
	}
	h.successResponse(w, r, "extra shift marked as unpaid", nil)
}

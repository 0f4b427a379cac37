package handler

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/myggens/vagtplan/backend/internal/domain"
	"github.com/myggens/vagtplan/backend/internal/repository"
	"github.com/myggens/vagtplan/backend/internal/staffing"
	"github.com/myggens/vagtplan/backend/internal/utils"
)

// CreateSignup signs the logged-in freelancer up for a shift. The signup
// starts as REQUESTED and only counts against capacity once an admin approves
// it.
func (h *Handler) CreateSignup(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtxKey).(*domain.ShiftWithCounts)

	var req struct {
		Name             string `json:"name" validate:"required"`
		Phone            string `json:"phone" validate:"required"`
		AvailabilityType string `json:"availabilityType"`
		AvailableFrom    string `json:"availableFrom"`
		AvailableUntil   string `json:"availableUntil"`
		FreelancerNote   string `json:"freelancerNote"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if shift.State != domain.ShiftActive {
		h.errorResponse(w, r, "this shift is no longer open for signups")
		return
	}

	phone := utils.NormalizePhone(req.Phone)
	if !utils.ValidPhone(phone) {
		h.errorResponse(w, r, "check the phone number, it looks wrong")
		return
	}

	availableFrom, availableUntil, err := staffing.NormalizeAvailability(req.AvailabilityType, req.AvailableFrom, req.AvailableUntil)
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
	if req.FreelancerNote != "" {
		note = &req.FreelancerNote
	}

	signup := &domain.Signup{
		PersonID:       person.ID,
		ShiftID:        shift.ID,
		Status:         domain.StatusRequested,
		AvailableFrom:  availableFrom,
		AvailableUntil: availableUntil,
		FreelancerNote: note,
	}

	if err := h.store.CreateSignup(signup); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "signups_person_id_shift_id_key":
			h.errorResponse(w, r, "you are already signed up for this shift")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.publishNotification(r, NotificationNewSignup, domain.SignupNotificationData{
		PersonName:    person.Name,
		Phone:         person.Phone,
		ShiftDate:     shift.Date,
		ShiftLocation: shift.Location,
	})

	h.successResponse(w, r, "signup received, awaiting approval", signup)
}

// CancelOwnSignup lets a freelancer withdraw a signup that has not been
// approved yet. Once approved, the release flow is the only way out.
func (h *Handler) CancelOwnSignup(w http.ResponseWriter, r *http.Request) {
	signup := r.Context().Value(SignupCtxKey).(*domain.SignupDetail)

	if signup.Phone != sessionPhone(r) {
		h.forbidden(w, r, "this signup belongs to someone else")
		return
	}

	cancelled, err := h.store.DeleteSignupIfRequested(signup.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !cancelled {
		h.errorResponse(w, r, "the signup has already been processed, ask an admin to release you")
		return
	}

	h.successResponse(w, r, "signup cancelled", nil)
}

// RequestRelease flags an approved signup so an admin can decide whether to
// let the freelancer off the shift. Signups in any other status are left
// untouched.
func (h *Handler) RequestRelease(w http.ResponseWriter, r *http.Request) {
	signup := r.Context().Value(SignupCtxKey).(*domain.SignupDetail)

	if signup.Phone != sessionPhone(r) {
		h.forbidden(w, r, "this signup belongs to someone else")
		return
	}

	if err := h.store.RequestRelease(signup.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if shift, err := h.store.GetShift(signup.ShiftID); err == nil {
		h.publishNotification(r, NotificationReleaseRequest, domain.ReleaseNotificationData{
			PersonName:    signup.PersonName,
			Phone:         signup.Phone,
			ShiftDate:     shift.Date,
			ShiftLocation: shift.Location,
		})
	}

	h.successResponse(w, r, "release requested, an admin will take a look", nil)
}

// ApproveSignup confirms a requested signup. The store enforces the capacity
// rule, so two admins approving concurrently can never overbook a shift.
func (h *Handler) ApproveSignup(w http.ResponseWriter, r *http.Request) {
	signup := r.Context().Value(SignupCtxKey).(*domain.SignupDetail)

	if err := h.store.ApproveSignup(signup.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrShiftFull):
			h.errorResponse(w, r, "the shift is already fully staffed, free a spot before approving more")
		case errors.Is(err, repository.ErrSignupNotPending):
			h.errorResponse(w, r, "only requested signups can be approved")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "signup approved", nil)
}

// RejectSignup removes a requested signup. The freelancer can sign up again
// later since no tombstone is kept.
func (h *Handler) RejectSignup(w http.ResponseWriter, r *http.Request) {
	signup := r.Context().Value(SignupCtxKey).(*domain.SignupDetail)

	if err := h.store.DeleteSignup(signup.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "signup rejected", nil)
}

// ApproveRelease grants a release request by deleting the signup, which frees
// the capacity slot in the same stroke.
func (h *Handler) ApproveRelease(w http.ResponseWriter, r *http.Request) {
	signup := r.Context().Value(SignupCtxKey).(*domain.SignupDetail)

	if signup.Status != domain.StatusReleaseRequested {
		h.errorResponse(w, r, "this signup has no open release request")
		return
	}

	if err := h.store.DeleteSignup(signup.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "release approved, the spot is free again", nil)
}

// DenyRelease puts a release-requested signup back to APPROVED. The
// freelancer stays on the shift.
func (h *Handler) DenyRelease(w http.ResponseWriter, r *http.Request) {
	signup := r.Context().Value(SignupCtxKey).(*domain.SignupDetail)

	if err := h.store.DenyRelease(signup.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotReleaseRequest):
			h.errorResponse(w, r, "this signup has no open release request")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "release denied, the signup stays approved", nil)
}

func (h *Handler) SetMeetTime(w http.ResponseWriter, r *http.Request) {
	signup := r.Context().Value(SignupCtxKey).(*domain.SignupDetail)

	var req struct {
		MeetTime string `json:"meetTime"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	var meetTime *string
	if req.MeetTime != "" {
		if _, err := staffing.ParseClock(req.MeetTime); err != nil {
			h.errorResponse(w, r, "meet time must look like HH:MM")
			return
		}
		meetTime = &req.MeetTime
	}

	if err := h.store.SetMeetTime(signup.ID, meetTime); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "meet time updated", nil)
}

// AddSignupForPerson lets an admin put a known person directly on a shift.
// The signup still starts as REQUESTED so the normal approval path applies.
func (h *Handler) AddSignupForPerson(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtxKey).(*domain.ShiftWithCounts)

	var req struct {
		PersonID int64 `json:"personID" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	person, err := h.store.GetPerson(req.PersonID)
	if err != nil {
		h.errorResponse(w, r, "person not found")
		return
	}

	signup := &domain.Signup{
		PersonID: person.ID,
		ShiftID:  shift.ID,
		Status:   domain.StatusRequested,
	}

	if err := h.store.CreateSignup(signup); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "signups_person_id_shift_id_key":
			h.errorResponse(w, r, "this person is already signed up for the shift")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "signup added", signup)
}

package handler

import (
	"net/http"

	"github.com/myggens/vagtplan/backend/internal/domain"
)

func (h *Handler) ListPersons(w http.ResponseWriter, r *http.Request) {
	persons, err := h.store.GetAllPersons()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "", persons)
}

// PersonDetail shows one person with their full signup history, admin-cancelled
// rows filtered out.
func (h *Handler) PersonDetail(w http.ResponseWriter, r *http.Request) {
	person := r.Context().Value(PersonCtxKey).(*domain.Person)

	signups, err := h.store.GetSignupsForPerson(person.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	visible := []*domain.SignupWithShift{}
	for _, signup := range signups {
		if signup.Status != domain.StatusCancelledByAdmin {
			visible = append(visible, signup)
		}
	}

	h.successResponse(w, r, "", map[string]any{
		"person":  person,
		"signups": visible,
	})
}

// DeletePerson removes a person together with all their signups and extra
// shifts. There is no undo.
func (h *Handler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	person := r.Context().Value(PersonCtxKey).(*domain.Person)

	if err := h.store.DeletePerson(person.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "person deleted", nil)
}

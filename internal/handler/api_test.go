package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myggens/vagtplan/backend/internal/config"
	"github.com/myggens/vagtplan/backend/internal/domain"
)

const testAdminPassword = "kodeord123"

func newTestHandler(t *testing.T) (*Handler, *fakeStore) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Environment = "test"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Expiration = 3600
	cfg.Admin.Password = testAdminPassword
	cfg.LoginThrottle.MaxAttempts = 10

	store := newFakeStore()
	h, err := NewHandler(cfg, store, nil, nil)
	require.NoError(t, err)
	h.RegisterRoutes()

	return h, store
}

func doRequest(t *testing.T, h *Handler, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()

	resp := Response{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func loginFreelancer(t *testing.T, h *Handler, name, phone string) *http.Cookie {
	t.Helper()

	rec := doRequest(t, h, http.MethodPost, "/freelancer/login", map[string]string{
		"name":  name,
		"phone": phone,
	})
	resp := decodeResponse(t, rec)
	require.True(t, resp.Success, resp.Message)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0]
}

func loginAdmin(t *testing.T, h *Handler) *http.Cookie {
	t.Helper()

	rec := doRequest(t, h, http.MethodPost, "/admin/login", map[string]string{
		"password": testAdminPassword,
	})
	resp := decodeResponse(t, rec)
	require.True(t, resp.Success, resp.Message)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0]
}

func seedShift(t *testing.T, store *fakeStore, date string, requiredStaff int32) *domain.Shift {
	t.Helper()

	shift := &domain.Shift{
		Date:          date,
		StartTime:     "17:00",
		Location:      "Munken",
		Description:   "Julefrokost",
		RequiredStaff: requiredStaff,
		State:         domain.ShiftActive,
	}
	require.NoError(t, store.CreateShift(shift))
	return shift
}

func signUp(t *testing.T, h *Handler, shiftID int64, cookie *http.Cookie, name, phone string) Response {
	t.Helper()

	rec := doRequest(t, h, http.MethodPost, fmt.Sprintf("/tilmeld/%d", shiftID), map[string]string{
		"name":  name,
		"phone": phone,
	}, cookie)
	return decodeResponse(t, rec)
}

func signupID(t *testing.T, resp Response) int64 {
	t.Helper()

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok, "signup response should carry the signup")
	id, ok := data["id"].(float64)
	require.True(t, ok)
	return int64(id)
}

func TestFreelancerLoginValidatesPhone(t *testing.T) {
	h, store := newTestHandler(t)

	rec := doRequest(t, h, http.MethodPost, "/freelancer/login", map[string]string{
		"name":  "Mikkel Jensen",
		"phone": "not-a-number",
	})
	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "phone")
	assert.Empty(t, store.persons)

	// spaces are fine, they get stripped
	cookie := loginFreelancer(t, h, "Mikkel Jensen", "12 34 56 78")
	assert.NotEmpty(t, cookie.Value)
	assert.Len(t, store.persons, 1)
}

func TestAuthRequired(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/vagter", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// a freelancer cookie does not open admin routes
	cookie := loginFreelancer(t, h, "Sofie Nielsen", "22334455")
	rec = doRequest(t, h, http.MethodGet, "/admin", nil, cookie)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/admin/login", map[string]string{"password": "forkert"})
	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "wrong password", resp.Message)
}

func TestSignupCapacity(t *testing.T) {
	h, store := newTestHandler(t)
	admin := loginAdmin(t, h)
	shift := seedShift(t, store, "2099-01-10", 1)

	first := loginFreelancer(t, h, "Emma Hansen", "20304050")
	second := loginFreelancer(t, h, "Oscar Madsen", "60708090")

	firstResp := signUp(t, h, shift.ID, first, "Emma Hansen", "20304050")
	require.True(t, firstResp.Success, firstResp.Message)
	secondResp := signUp(t, h, shift.ID, second, "Oscar Madsen", "60708090")
	require.True(t, secondResp.Success, secondResp.Message)

	rec := doRequest(t, h, http.MethodPost, fmt.Sprintf("/admin/signups/%d/approve", signupID(t, firstResp)), nil, admin)
	resp := decodeResponse(t, rec)
	require.True(t, resp.Success, resp.Message)

	// the shift only needs one person, so the second approval must bounce
	rec = doRequest(t, h, http.MethodPost, fmt.Sprintf("/admin/signups/%d/approve", signupID(t, secondResp)), nil, admin)
	resp = decodeResponse(t, rec)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "fully staffed")

	sc, err := store.GetShift(shift.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, sc.ApprovedCount)
	assert.Equal(t, 1, sc.RequestedCount)
}

func TestDuplicateSignup(t *testing.T) {
	h, store := newTestHandler(t)
	shift := seedShift(t, store, "2099-01-10", 3)

	cookie := loginFreelancer(t, h, "Ida Larsen", "33445566")

	resp := signUp(t, h, shift.ID, cookie, "Ida Larsen", "33445566")
	require.True(t, resp.Success, resp.Message)

	resp = signUp(t, h, shift.ID, cookie, "Ida Larsen", "33445566")
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "already signed up")
	assert.Len(t, store.signups, 1)
}

func TestCancelOwnSignup(t *testing.T) {
	h, store := newTestHandler(t)
	admin := loginAdmin(t, h)
	shift := seedShift(t, store, "2099-01-10", 2)

	owner := loginFreelancer(t, h, "Magnus Olsen", "44556677")
	other := loginFreelancer(t, h, "Clara Thomsen", "55667788")

	resp := signUp(t, h, shift.ID, owner, "Magnus Olsen", "44556677")
	require.True(t, resp.Success, resp.Message)
	id := signupID(t, resp)

	// someone else cannot touch it
	rec := doRequest(t, h, http.MethodPost, fmt.Sprintf("/annuller-tilmelding/%d", id), nil, other)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// while REQUESTED the owner can withdraw
	rec = doRequest(t, h, http.MethodPost, fmt.Sprintf("/annuller-tilmelding/%d", id), nil, owner)
	cancelResp := decodeResponse(t, rec)
	assert.True(t, cancelResp.Success, cancelResp.Message)
	assert.Empty(t, store.signups)

	// once approved, self-cancel is off the table
	resp = signUp(t, h, shift.ID, owner, "Magnus Olsen", "44556677")
	require.True(t, resp.Success, resp.Message)
	id = signupID(t, resp)

	rec = doRequest(t, h, http.MethodPost, fmt.Sprintf("/admin/signups/%d/approve", id), nil, admin)
	require.True(t, decodeResponse(t, rec).Success)

	rec = doRequest(t, h, http.MethodPost, fmt.Sprintf("/annuller-tilmelding/%d", id), nil, owner)
	cancelResp = decodeResponse(t, rec)
	assert.False(t, cancelResp.Success)
	assert.Contains(t, cancelResp.Message, "already been processed")
	assert.Len(t, store.signups, 1)
}

func TestReleaseFlow(t *testing.T) {
	h, store := newTestHandler(t)
	admin := loginAdmin(t, h)
	shift := seedShift(t, store, "2099-01-10", 1)

	owner := loginFreelancer(t, h, "Freja Petersen", "66778899")
	resp := signUp(t, h, shift.ID, owner, "Freja Petersen", "66778899")
	require.True(t, resp.Success, resp.Message)
	id := signupID(t, resp)

	rec := doRequest(t, h, http.MethodPost, fmt.Sprintf("/admin/signups/%d/approve", id), nil, admin)
	require.True(t, decodeResponse(t, rec).Success)

	rec = doRequest(t, h, http.MethodPost, fmt.Sprintf("/anmod-fri/%d", id), nil, owner)
	require.True(t, decodeResponse(t, rec).Success)
	assert.Equal(t, domain.StatusReleaseRequested, store.signups[id].Status)

	// denying puts the signup back to approved
	rec = doRequest(t, h, http.MethodPost, fmt.Sprintf("/admin/signups/%d/release-deny", id), nil, admin)
	require.True(t, decodeResponse(t, rec).Success)
	assert.Equal(t, domain.StatusApproved, store.signups[id].Status)

	// denying twice has nothing to deny
	rec = doRequest(t, h, http.MethodPost, fmt.Sprintf("/admin/signups/%d/release-deny", id), nil, admin)
	denyResp := decodeResponse(t, rec)
	assert.False(t, denyResp.Success)

	// granting the release deletes the signup and frees the spot
	rec = doRequest(t, h, http.MethodPost, fmt.Sprintf("/anmod-fri/%d", id), nil, owner)
	require.True(t, decodeResponse(t, rec).Success)
	rec = doRequest(t, h, http.MethodPost, fmt.Sprintf("/admin/signups/%d/release-approve", id), nil, admin)
	require.True(t, decodeResponse(t, rec).Success)
	assert.Empty(t, store.signups)

	sc, err := store.GetShift(shift.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, sc.ApprovedCount)
}

func TestLogWorkedHours(t *testing.T) {
	h, store := newTestHandler(t)
	admin := loginAdmin(t, h)
	shift := seedShift(t, store, "2020-01-10", 1)

	owner := loginFreelancer(t, h, "Victor Jensen", "77889900")
	other := loginFreelancer(t, h, "Laura Holm", "88990011")

	resp := signUp(t, h, shift.ID, owner, "Victor Jensen", "77889900")
	require.True(t, resp.Success, resp.Message)
	id := signupID(t, resp)

	body := map[string]string{"workStart": "23:00", "workEnd": "01:00"}

	// hours need an approved signup
	rec := doRequest(t, h, http.MethodPost, fmt.Sprintf("/mine-vagter/timer/%d", id), body, owner)
	hoursResp := decodeResponse(t, rec)
	assert.False(t, hoursResp.Success)

	rec = doRequest(t, h, http.MethodPost, fmt.Sprintf("/admin/signups/%d/approve", id), nil, admin)
	require.True(t, decodeResponse(t, rec).Success)

	// and the right owner
	rec = doRequest(t, h, http.MethodPost, fmt.Sprintf("/mine-vagter/timer/%d", id), body, other)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// 23:00 to 01:00 crosses midnight and counts as two hours
	rec = doRequest(t, h, http.MethodPost, fmt.Sprintf("/mine-vagter/timer/%d", id), body, owner)
	hoursResp = decodeResponse(t, rec)
	require.True(t, hoursResp.Success, hoursResp.Message)

	require.NotNil(t, store.signups[id].WorkHours)
	assert.Equal(t, 2.0, *store.signups[id].WorkHours)
}

func TestPayrollPaidGuard(t *testing.T) {
	h, store := newTestHandler(t)
	admin := loginAdmin(t, h)
	shift := seedShift(t, store, "2020-01-10", 1)

	owner := loginFreelancer(t, h, "Emil Sørensen", "99001122")
	resp := signUp(t, h, shift.ID, owner, "Emil Sørensen", "99001122")
	require.True(t, resp.Success, resp.Message)
	id := signupID(t, resp)

	rec := doRequest(t, h, http.MethodPost, fmt.Sprintf("/admin/signups/%d/approve", id), nil, admin)
	require.True(t, decodeResponse(t, rec).Success)

	rec = doRequest(t, h, http.MethodPost, fmt.Sprintf("/mine-vagter/timer/%d", id), map[string]string{
		"workStart": "17:00", "workEnd": "22:00",
	}, owner)
	require.True(t, decodeResponse(t, rec).Success)

	// paying out before the hours are approved must fail
	rec = doRequest(t, h, http.MethodPost, fmt.Sprintf("/admin/timer/mark-paid/%d", id), map[string]any{}, admin)
	paidResp := decodeResponse(t, rec)
	assert.False(t, paidResp.Success)
	assert.Contains(t, paidResp.Message, "approve")
	assert.False(t, store.signups[id].PayrollPaid)

	rec = doRequest(t, h, http.MethodPost, fmt.Sprintf("/admin/timer/approve/%d", id), map[string]float64{
		"approvedWorkHours": 6.5,
	}, admin)
	require.True(t, decodeResponse(t, rec).Success)

	rec = doRequest(t, h, http.MethodPost, fmt.Sprintf("/admin/timer/mark-paid/%d", id), map[string]any{}, admin)
	require.True(t, decodeResponse(t, rec).Success)
	assert.True(t, store.signups[id].PayrollPaid)
	require.NotNil(t, store.signups[id].PayrollPaidAt)

	// unmarking clears the timestamp again
	rec = doRequest(t, h, http.MethodPost, fmt.Sprintf("/admin/timer/mark-paid/%d", id), map[string]any{
		"paid": false,
	}, admin)
	require.True(t, decodeResponse(t, rec).Success)
	assert.False(t, store.signups[id].PayrollPaid)
	assert.Nil(t, store.signups[id].PayrollPaidAt)
}

func TestApproveWorkedHoursBounds(t *testing.T) {
	h, store := newTestHandler(t)
	admin := loginAdmin(t, h)
	shift := seedShift(t, store, "2020-01-10", 1)

	owner := loginFreelancer(t, h, "Anna Kristensen", "10203040")
	resp := signUp(t, h, shift.ID, owner, "Anna Kristensen", "10203040")
	require.True(t, resp.Success, resp.Message)
	id := signupID(t, resp)

	rec := doRequest(t, h, http.MethodPost, fmt.Sprintf("/admin/timer/approve/%d", id), map[string]float64{
		"approvedWorkHours": 25,
	}, admin)
	boundsResp := decodeResponse(t, rec)
	assert.False(t, boundsResp.Success)
	assert.False(t, store.signups[id].HoursApprovedByAdmin)
}

func TestExtraShiftFlow(t *testing.T) {
	h, store := newTestHandler(t)
	admin := loginAdmin(t, h)

	cookie := loginFreelancer(t, h, "Jonas Rasmussen", "11223344")

	// no midnight rollover for extra shifts
	rec := doRequest(t, h, http.MethodPost, "/ekstravagt", map[string]string{
		"name": "Jonas Rasmussen", "phone": "11223344",
		"date": "2026-08-20", "workStart": "22:00", "workEnd": "01:00",
	}, cookie)
	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)

	rec = doRequest(t, h, http.MethodPost, "/ekstravagt", map[string]string{
		"name": "Jonas Rasmussen", "phone": "11223344",
		"date": "2026-08-20", "workStart": "10:00", "workEnd": "14:30",
	}, cookie)
	resp = decodeResponse(t, rec)
	require.True(t, resp.Success, resp.Message)
	require.Len(t, store.extras, 1)

	var extraID int64
	for id := range store.extras {
		extraID = id
	}
	assert.Equal(t, 4.5, store.extras[extraID].WorkHours)

	// paying out before approval must fail, same guard as signups
	rec = doRequest(t, h, http.MethodPost, fmt.Sprintf("/admin/extra/mark-paid/%d", extraID), map[string]any{}, admin)
	assert.False(t, decodeResponse(t, rec).Success)

	rec = doRequest(t, h, http.MethodPost, fmt.Sprintf("/admin/extra/approve/%d", extraID), map[string]float64{
		"approvedWorkHours": 5,
	}, admin)
	require.True(t, decodeResponse(t, rec).Success)
	assert.Equal(t, domain.ExtraApproved, store.extras[extraID].Status)

	rec = doRequest(t, h, http.MethodPost, fmt.Sprintf("/admin/extra/mark-paid/%d", extraID), map[string]any{}, admin)
	require.True(t, decodeResponse(t, rec).Success)
	assert.True(t, store.extras[extraID].PayrollPaid)
}

func TestSignupsForPhone(t *testing.T) {
	h, store := newTestHandler(t)
	shift := seedShift(t, store, "2099-01-10", 2)

	cookie := loginFreelancer(t, h, "Cecilie Andersen", "20406080")
	resp := signUp(t, h, shift.ID, cookie, "Cecilie Andersen", "20406080")
	require.True(t, resp.Success, resp.Message)

	rec := doRequest(t, h, http.MethodGet, "/api/signups-for-phone?phone=20+40+60+80", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Signups []map[string]any `json:"signups"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Signups, 1)
	assert.Equal(t, float64(shift.ID), body.Signups[0]["shift_id"])
	assert.Equal(t, string(domain.StatusRequested), body.Signups[0]["status"])

	// an unknown number is an empty list, not an error
	rec = doRequest(t, h, http.MethodGet, "/api/signups-for-phone?phone=00000000", nil)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Empty(t, body.Signups)
}

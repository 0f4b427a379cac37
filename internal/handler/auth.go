package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/myggens/vagtplan/backend/internal/utils"
)

const tokenCookieName = "__vagtplan_token"

const (
	RoleAdmin      = "admin"
	RoleFreelancer = "freelancer"
)

type AuthClaims struct {
	Role  string `json:"role"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	jwt.RegisteredClaims
}

func (h *Handler) setAuthCookie(w http.ResponseWriter, claims AuthClaims) error {
	expiration := time.Now().Add(time.Duration(h.config.JWT.Expiration) * time.Second)
	claims.RegisteredClaims.ExpiresAt = jwt.NewNumericDate(expiration)
	claims.RegisteredClaims.IssuedAt = jwt.NewNumericDate(time.Now())
	claims.RegisteredClaims.NotBefore = jwt.NewNumericDate(time.Now())

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(h.config.JWT.Secret))
	if err != nil {
		return err
	}

	cookie := &http.Cookie{
		Name:     tokenCookieName,
		Value:    ss,
		Expires:  expiration,
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
	}

	if h.config.Environment == "production" {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteStrictMode
	}

	http.SetCookie(w, cookie)
	return nil
}

func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:    tokenCookieName,
		Value:   "",
		Expires: time.Now().Add(-time.Hour),
		Path:    "/",
	})
}

// Landing reports who the caller is so the client can route them to the
// right start page.
func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	role := ""

	if cookie, err := r.Cookie(tokenCookieName); err == nil {
		claims := &AuthClaims{}
		if _, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(h.config.JWT.Secret), nil
		}); err == nil {
			role = claims.Role
		}
	}

	h.successResponse(w, r, "", map[string]string{"role": role})
}

// FreelancerLogin is a phone-based login with no credential verification:
// the phone number is the identity, and logging in creates the person on
// first contact.
func (h *Handler) FreelancerLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name" validate:"required"`
		Phone string `json:"phone" validate:"required"`
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

	person, err := h.store.GetOrCreatePerson(req.Name, phone)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	claims := AuthClaims{
		Role:  RoleFreelancer,
		Name:  person.Name,
		Phone: person.Phone,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: strconv.FormatInt(person.ID, 10),
		},
	}
	if err := h.setAuthCookie(w, claims); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "logged in", person)
}

func (h *Handler) FreelancerLogout(w http.ResponseWriter, r *http.Request) {
	clearAuthCookie(w)
	h.successResponse(w, r, "logged out", nil)
}

// AdminLogin verifies the shared admin password. Attempts are throttled per
// client IP through redis so the single password cannot be brute-forced.
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	throttleKey := fmt.Sprintf("admin_login_attempts_%s", r.RemoteAddr)

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	if h.redisClient != nil {
		attempts, err := h.redisClient.Get(ctx, throttleKey).Int()
		if err == nil && attempts >= h.config.LoginThrottle.MaxAttempts {
			h.errorResponse(w, r, "too many login attempts, try again later")
			return
		}
	}

	if err := bcrypt.CompareHashAndPassword(h.adminPasswordHash, []byte(req.Password)); err != nil {
		if h.redisClient != nil {
			pipe := h.redisClient.Pipeline()
			pipe.Incr(ctx, throttleKey)
			pipe.Expire(ctx, throttleKey, time.Duration(h.config.LoginThrottle.Window)*time.Second)
			if _, err := pipe.Exec(ctx); err != nil {
				h.logInternalServerError(r, err)
			}
		}
		h.errorResponse(w, r, "wrong password")
		return
	}

	if h.redisClient != nil {
		if err := h.redisClient.Del(ctx, throttleKey).Err(); err != nil {
			h.logInternalServerError(r, err)
		}
	}

	claims := AuthClaims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: RoleAdmin,
		},
	}
	if err := h.setAuthCookie(w, claims); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "logged in", nil)
}

func (h *Handler) AdminLogout(w http.ResponseWriter, r *http.Request) {
	clearAuthCookie(w)
	h.successResponse(w, r, "logged out", nil)
}

package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("request handled", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				stackTrace := string(debug.Stack())
				fmt.Print(stackTrace) // slog mangles multi-line stack traces
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// auth parses the token cookie and puts the caller's role and identity on the
// request context. Every handler downstream reads authentication from here,
// never from any ambient state.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(tokenCookieName)
		if err != nil {
			switch {
			case errors.Is(err, http.ErrNoCookie):
				h.forbidden(w, r, "not logged in")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		tokenString := cookie.Value
		claims := &AuthClaims{}
		_, err = jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(h.config.JWT.Secret), nil
		})
		if err != nil {
			h.forbidden(w, r, "invalid token")
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, RoleCtxKey, claims.Role)
		ctx = context.WithValue(ctx, PersonIDCtxKey, claims.Subject)
		ctx = context.WithValue(ctx, PhoneCtxKey, claims.Phone)
		ctx = context.WithValue(ctx, NameCtxKey, claims.Name)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := r.Context().Value(RoleCtxKey).(string)
		if role != RoleAdmin {
			h.forbidden(w, r, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) requireFreelancer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := r.Context().Value(RoleCtxKey).(string)
		if role != RoleFreelancer {
			h.forbidden(w, r, "freelancer access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// sessionPersonID returns the freelancer's person ID from the auth context.
func sessionPersonID(r *http.Request) (int64, error) {
	sub, _ := r.Context().Value(PersonIDCtxKey).(string)
	return strconv.ParseInt(sub, 10, 64)
}

func sessionPhone(r *http.Request) string {
	phone, _ := r.Context().Value(PhoneCtxKey).(string)
	return phone
}

func (h *Handler) shiftCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		shiftIDParam := chi.URLParam(r, "shiftID")
		shiftID, err := strconv.ParseInt(shiftIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "invalid shift ID")
			return
		}

		shift, err := h.store.GetShift(shiftID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.notFound(w, r, "shift not found")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), ShiftCtxKey, shift)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) signupCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		signupIDParam := chi.URLParam(r, "signupID")
		signupID, err := strconv.ParseInt(signupIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "invalid signup ID")
			return
		}

		signup, err := h.store.GetSignupByID(signupID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.notFound(w, r, "signup not found")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), SignupCtxKey, signup)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) personCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		personIDParam := chi.URLParam(r, "personID")
		personID, err := strconv.ParseInt(personIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "invalid person ID")
			return
		}

		person, err := h.store.GetPerson(personID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.notFound(w, r, "person not found")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), PersonCtxKey, person)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) extraShiftCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		extraIDParam := chi.URLParam(r, "extraID")
		extraID, err := strconv.ParseInt(extraIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "invalid extra shift ID")
			return
		}

		extra, err := h.store.GetExtraShiftByID(extraID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.notFound(w, r, "extra shift not found")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), ExtraShiftCtxKey, extra)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/myggens/vagtplan/backend/internal/config"
)

type Handler struct {
	validate          *validator.Validate
	config            *config.Config
	store             Store
	translator        ut.Translator
	notifyChannel     *amqp.Channel
	redisClient       *redis.Client
	adminPasswordHash []byte

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, store Store, notifyCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	// The shared admin password only ever lives in memory as a hash.
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &Handler{
		validate:          validate,
		config:            cfg,
		store:             store,
		translator:        trans,
		notifyChannel:     notifyCh,
		redisClient:       rdb,
		adminPasswordHash: passwordHash,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Get("/", h.Landing)
	h.Mux.Get("/api/signups-for-phone", h.SignupsForPhone)

	h.Mux.Post("/freelancer/login", h.FreelancerLogin)
	h.Mux.Get("/freelancer/logout", h.FreelancerLogout)
	h.Mux.Post("/admin/login", h.AdminLogin)
	h.Mux.Get("/admin/logout", h.AdminLogout)

	// freelancer-facing routes
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Use(h.requireFreelancer)

		r.Get("/vagter", h.GetOpenShifts)
		r.Route("/tilmeld/{shiftID}", func(r chi.Router) {
			r.Use(h.shiftCtx)
			r.Get("/", h.GetShiftForSignup)
			r.Post("/", h.CreateSignup)
		})

		r.With(h.signupCtx).Post("/freelancer/frameld/{signupID}", h.CancelOwnSignup)
		r.With(h.signupCtx).Post("/annuller-tilmelding/{signupID}", h.CancelOwnSignup)
		r.With(h.signupCtx).Post("/anmod-fri/{signupID}", h.RequestRelease)

		r.Get("/mine-vagter", h.GetMyShifts)
		r.Post("/mine-vagter", h.GetMyShifts)
		r.Get("/mine-vagter/historik", h.GetMyHistory)
		r.With(h.signupCtx).Post("/mine-vagter/timer/{signupID}", h.LogWorkedHours)

		r.Post("/ekstravagt", h.CreateExtraShift)
	})

	// admin routes
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Use(h.requireAdmin)

		r.Get("/admin", h.AdminDashboard)
		r.Get("/admin/actions", h.AdminActions)
		r.Get("/admin/overblik", h.AdminOverview)
		r.Get("/admin/timer", h.AdminPayroll)
		r.Get("/admin/historik", h.AdminHistory)
		r.With(h.shiftCtx).Post("/admin/historik/revive/{shiftID}", h.ReviveShift)
		r.With(h.shiftCtx).Post("/admin/historik/delete/{shiftID}", h.DeleteShift)

		r.Post("/admin/shifts/new", h.CreateShift)
		r.Post("/admin/shifts/sink-archived", h.SinkArchivedShifts)
		r.Route("/admin/shifts/{shiftID}", func(r chi.Router) {
			r.Use(h.shiftCtx)
			r.Get("/edit", h.GetShiftForEdit)
			r.Post("/edit", h.UpdateShift)
			r.Post("/set-active", h.SetShiftState)
		})
		r.Route("/admin/shift/{shiftID}", func(r chi.Router) {
			r.Use(h.shiftCtx)
			r.Get("/", h.AdminShiftDetail)
			r.Post("/note", h.SetShiftNote)
			r.Post("/add-signup", h.AddSignupForPerson)
		})

		r.Route("/admin/signups/{signupID}", func(r chi.Router) {
			r.Use(h.signupCtx)
			r.Post("/approve", h.ApproveSignup)
			r.Post("/reject", h.RejectSignup)
			r.Post("/release-approve", h.ApproveRelease)
			r.Post("/release-deny", h.DenyRelease)
			r.Post("/meet-time", h.SetMeetTime)
		})

		r.With(h.signupCtx).Post("/admin/timer/approve/{signupID}", h.ApproveWorkedHours)
		r.With(h.signupCtx).Post("/admin/timer/mark-paid/{signupID}", h.MarkSignupPaid)

		r.With(h.extraShiftCtx).Post("/admin/extra/approve/{extraID}", h.ApproveExtraShift)
		r.With(h.extraShiftCtx).Post("/admin/extra/reject/{extraID}", h.RejectExtraShift)
		r.With(h.extraShiftCtx).Post("/admin/extra/mark-paid/{extraID}", h.MarkExtraShiftPaid)

		r.Get("/admin/personer", h.ListPersons)
		r.Route("/admin/personer/{personID}", func(r chi.Router) {
			r.Use(h.personCtx)
			r.Get("/", h.PersonDetail)
			r.Post("/delete", h.DeletePerson)
		})
	})
}

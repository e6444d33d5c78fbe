package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"family-dues-go/internal/config"
	"family-dues-go/internal/domain/access"
	"family-dues-go/internal/transport/httpserver/handler"
	mw "family-dues-go/internal/transport/httpserver/middleware"
	"family-dues-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const requestTimeout = 30 * time.Second

func NewRouter(cfg config.Config, h *handler.Handlers, tokens mw.TokenParser, log logger.Logger) http.Handler {
	master := mw.RequireRoles(access.RoleMaster)
	staff := mw.RequireRoles(access.RoleMaster, access.RoleDirigente)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(mw.LogContext)
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestLogger(&chimw.DefaultLogFormatter{Logger: log.StdLogger(slog.LevelInfo), NoColor: true}))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(requestTimeout))
	r.Use(mw.NewSecureHeaders(cfg.Env == "production"))
	r.Use(mw.NewCORS(cfg.CORSOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.With(mw.NewRateLimit(cfg.Auth.LoginRateLimit, time.Minute)).Post("/auth/login", h.Login)

		auth := mw.NewBearerAuth(tokens, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", h.Me)

			r.Route("/ramas", func(r chi.Router) {
				r.Get("/", h.ListRamas)
				r.Get("/{id}", h.GetRama)
				r.With(master).Post("/", h.CreateRama)
				r.With(master).Put("/{id}", h.UpdateRama)
				r.With(master).Delete("/{id}", h.DeleteRama)
			})

			r.Route("/families", func(r chi.Router) {
				r.Get("/", h.ListFamilies)
				r.Get("/{id}", h.GetFamily)
				r.With(staff).Post("/", h.CreateFamily)
				r.With(staff).Put("/{id}", h.UpdateFamily)
				r.With(staff).Delete("/{id}", h.DeleteFamily)
			})

			r.Route("/balance", func(r chi.Router) {
				r.Get("/family/{familyID}", h.GetFamilyBalance)
				r.With(staff).Get("/{id}", h.GetBalance)
				r.With(staff).Put("/{id}", h.UpdateBalance)
			})

			r.Route("/cuota", func(r chi.Router) {
				r.Get("/", h.ListCuotas)
				r.Get("/active", h.GetActiveCuota)
				r.Route("/hermanos", func(r chi.Router) {
					r.Get("/", h.ListOverrides)
					r.Get("/{id}", h.GetOverride)
					r.With(master).Post("/", h.CreateOverride)
					r.With(master).Put("/{id}", h.UpdateOverride)
					r.With(master).Delete("/{id}", h.DeleteOverride)
				})
				r.Get("/{id}", h.GetCuota)
				r.With(master).Post("/", h.CreateCuota)
				r.With(master).Put("/{id}", h.UpdateCuota)
				r.With(master).Patch("/{id}/activate", h.ActivateCuota)
				r.With(master).Delete("/{id}", h.DeleteCuota)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.ListUsers)
				r.Get("/{id}", h.GetUser)
				r.With(staff).Post("/", h.CreateUser)
				r.With(staff).Put("/{id}", h.UpdateUser)
				r.With(staff).Delete("/{id}", h.DeleteUser)
			})

			r.Route("/persons", func(r chi.Router) {
				r.Get("/", h.ListPersons)
				r.Get("/{id}", h.GetPerson)
				r.With(staff).Post("/", h.CreatePerson)
				r.With(staff).Put("/{id}", h.UpdatePerson)
				r.With(staff).Delete("/{id}", h.DeletePerson)
			})

			r.Route("/folders", func(r chi.Router) {
				r.Get("/", h.ListFolders)
				r.Get("/{id}", h.GetFolder)
				r.Post("/{id}/files", h.UploadFile)
				r.With(staff).Post("/", h.CreateFolder)
				r.With(staff).Delete("/{id}/files/{fileID}", h.DeleteFile)
				r.With(staff).Delete("/{id}", h.DeleteFolder)
			})

			r.Route("/payments", func(r chi.Router) {
				r.With(mw.RequireRoles(access.RoleMaster, access.RoleDirigente, access.RoleFamily)).Get("/", h.ListPayments)
				r.With(staff).Get("/{id}", h.GetPayment)
				r.With(staff).Post("/", h.CreatePayment)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.With(staff).Get("/", h.ListTransactions)
				r.With(staff).Get("/{id}", h.GetTransaction)
				r.With(master).Post("/", h.CreateTransaction)
			})

			r.Route("/action-logs", func(r chi.Router) {
				r.Post("/", h.CreateActionLog)
				r.With(staff).Get("/", h.ListActionLogs)
				r.With(staff).Get("/{id}", h.GetActionLog)
			})

			r.Route("/cron-jobs", func(r chi.Router) {
				r.With(staff).Post("/run-monthly-update", h.RunMonthlyUpdate)
				r.With(staff).Get("/status", h.MonthlyStatus)
				r.With(master).Post("/stop", h.StopMonthly)
				r.With(master).Post("/start", h.StartMonthly)
			})

			r.With(staff).Get("/stats/cobrabilidad/{mes}/{anio}", h.Cobrabilidad)
		})
	})

	return r
}

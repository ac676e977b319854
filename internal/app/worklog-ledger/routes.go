// Package worklogledger собирает зависимости и маршруты основного приложения.
package worklogledger

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/worklog-ledger/internal/http/handlers/access/assignrole"
	"github.com/magabrotheeeer/worklog-ledger/internal/http/handlers/access/getrole"
	"github.com/magabrotheeeer/worklog-ledger/internal/http/handlers/access/initialize"
	"github.com/magabrotheeeer/worklog-ledger/internal/http/handlers/access/isadmin"
	"github.com/magabrotheeeer/worklog-ledger/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/worklog-ledger/internal/http/handlers/auth/register"
	paymentadd "github.com/magabrotheeeer/worklog-ledger/internal/http/handlers/payment/add"
	paymentexists "github.com/magabrotheeeer/worklog-ledger/internal/http/handlers/payment/exists"
	paymentlist "github.com/magabrotheeeer/worklog-ledger/internal/http/handlers/payment/list"
	paymentremove "github.com/magabrotheeeer/worklog-ledger/internal/http/handlers/payment/remove"
	profileget "github.com/magabrotheeeer/worklog-ledger/internal/http/handlers/profile/get"
	profilegetbyuser "github.com/magabrotheeeer/worklog-ledger/internal/http/handlers/profile/getbyuser"
	profilesave "github.com/magabrotheeeer/worklog-ledger/internal/http/handlers/profile/save"
	recordlist "github.com/magabrotheeeer/worklog-ledger/internal/http/handlers/record/list"
	recordread "github.com/magabrotheeeer/worklog-ledger/internal/http/handlers/record/read"
	recordremove "github.com/magabrotheeeer/worklog-ledger/internal/http/handlers/record/remove"
	recordupsert "github.com/magabrotheeeer/worklog-ledger/internal/http/handlers/record/upsert"
	summarylist "github.com/magabrotheeeer/worklog-ledger/internal/http/handlers/summary/list"
	summaryread "github.com/magabrotheeeer/worklog-ledger/internal/http/handlers/summary/read"
	"github.com/magabrotheeeer/worklog-ledger/internal/http/middlewarectx"
	accessservice "github.com/magabrotheeeer/worklog-ledger/internal/services/access"
	authservice "github.com/magabrotheeeer/worklog-ledger/internal/services/auth"
	ledgerservice "github.com/magabrotheeeer/worklog-ledger/internal/services/ledger"
	profileservice "github.com/magabrotheeeer/worklog-ledger/internal/services/profile"
	queryservice "github.com/magabrotheeeer/worklog-ledger/internal/services/query"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.Service,
	accessService *accessservice.Service,
	profileService *profileservice.Service,
	ledgerService *ledgerservice.Service,
	queryService *queryservice.Service,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией: доступна любой роли, включая гостей
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/access/initialize", initialize.New(logger, accessService).ServeHTTP)
			r.Post("/access/roles", assignrole.New(logger, accessService).ServeHTTP)
			r.Get("/access/role", getrole.New(logger, accessService).ServeHTTP)
			r.Get("/access/admin", isadmin.New(logger, accessService).ServeHTTP)
		})

		// Группа для ролей admin и user: профили, записи, платежи, сводки
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RequireUserMiddleware(accessService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Put("/profile", profilesave.New(logger, profileService).ServeHTTP)
			r.Get("/profile", profileget.New(logger, profileService).ServeHTTP)
			r.Get("/profiles/{username}", profilegetbyuser.New(logger, profileService).ServeHTTP)

			r.Post("/records", recordupsert.New(logger, ledgerService).ServeHTTP)
			r.Get("/records", recordlist.New(logger, ledgerService).ServeHTTP)
			r.Get("/records/{year}/{month}", recordread.New(logger, ledgerService).ServeHTTP)
			r.Delete("/records/{year}/{month}", recordremove.New(logger, ledgerService).ServeHTTP)

			r.Get("/summaries", summarylist.New(logger, queryService).ServeHTTP)
			r.Get("/summaries/{year}/{month}", summaryread.New(logger, queryService).ServeHTTP)

			r.Post("/records/{year}/{month}/payments", paymentadd.New(logger, ledgerService).ServeHTTP)
			r.Get("/records/{year}/{month}/payments", paymentlist.New(logger, ledgerService).ServeHTTP)
			r.Get("/records/{year}/{month}/payments/exists", paymentexists.New(logger, ledgerService).ServeHTTP)
			r.Delete("/records/{year}/{month}/payments/{paidAt}", paymentremove.New(logger, ledgerService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

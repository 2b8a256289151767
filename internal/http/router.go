package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/expensely/internal/http/auth"
	"github.com/MrJamesThe3rd/expensely/internal/http/expense"
	"github.com/MrJamesThe3rd/expensely/internal/http/respond"
	"github.com/MrJamesThe3rd/expensely/internal/metrics"
)

const (
	serviceName    = "Employee Expense Management API"
	serviceVersion = "1.0.0"
)

type Options struct {
	// CORSOrigins enables credentialed CORS for the listed origins.
	// Empty disables CORS handling.
	CORSOrigins []string
}

func New(
	authV1 *auth.Handler,
	expensesV1 *expense.Handler,
	opts Options,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(metrics.InstrumentHandler)

	if len(opts.CORSOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Get("/health", health)
	router.Handle("/metrics", metrics.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Get("/", info)

		r.Route("/auth", authV1.Routes)

		r.Route("/expenses", func(r chi.Router) {
			r.Use(authV1.RequireEmployee)
			expensesV1.Routes(r)
		})
	})

	return router
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func health(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, healthResponse{
		Status:  "healthy",
		Message: serviceName + " is running",
	})
}

type infoResponse struct {
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

func info(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, infoResponse{
		Service: serviceName,
		Version: serviceVersion,
		Endpoints: map[string]string{
			"authentication": "/api/auth",
			"expenses":       "/api/expenses",
			"health":         "/health",
		},
	})
}

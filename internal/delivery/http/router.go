package http //nolint:revive // directory-based package name, imported with alias

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const requestTimeout = 30 * time.Second

func NewRouter(h *Handler, metrics http.Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", h.HandleHealth)
	r.Handle("/metrics", metrics)

	r.Get("/api/qr", h.HandleQR)
	r.Post("/api/spd", h.HandleDescriptor)

	if h.issueUC != nil {
		r.Post("/api/payments", h.HandleIssue)
		r.Get("/api/payments/{id}", h.HandleGetPayment)
		r.Get("/api/payments/{id}/qr", h.HandlePaymentQR)
	}

	return r
}

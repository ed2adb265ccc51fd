// Package httptransport exposes the workflows over a local JSON API. It is a
// thin layer: handlers decode input, delegate to the services and translate
// coded errors, never embedding business logic.
package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"auracare/internal/admin"
	"auracare/internal/auth"
	"auracare/internal/contact"
	"auracare/internal/directory"
	"auracare/internal/platform/middleware"
	"auracare/internal/premium"
	"auracare/internal/profile"
	"auracare/internal/registration"
	"auracare/pkg/derrors"
	"auracare/pkg/sentinel"
)

// Handler aggregates the feature services behind the HTTP surface.
type Handler struct {
	logger    *slog.Logger
	auth      *auth.Service
	manager   *auth.Manager
	donor     *registration.Workflow
	receiver  *registration.Workflow
	admin     *admin.Service
	directory *directory.Service
	premium   *premium.Service
	profile   *profile.Service
	contact   *contact.Service
	health    func(ctx context.Context) error
}

// Options carries the handler dependencies. Health may be nil when no
// backing store needs probing.
type Options struct {
	Logger    *slog.Logger
	Auth      *auth.Service
	Manager   *auth.Manager
	Donor     *registration.Workflow
	Receiver  *registration.Workflow
	Admin     *admin.Service
	Directory *directory.Service
	Premium   *premium.Service
	Profile   *profile.Service
	Contact   *contact.Service
	Health    func(ctx context.Context) error
}

func NewHandler(opts Options) *Handler {
	return &Handler{
		logger:    opts.Logger,
		auth:      opts.Auth,
		manager:   opts.Manager,
		donor:     opts.Donor,
		receiver:  opts.Receiver,
		admin:     opts.Admin,
		directory: opts.Directory,
		premium:   opts.Premium,
		profile:   opts.Profile,
		contact:   opts.Contact,
		health:    opts.Health,
	}
}

// NewRouter wires all endpoints with the shared middleware chain.
func NewRouter(h *Handler, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(h.logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientDevice)
	r.Use(middleware.Logger(h.logger))

	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Post("/auth/login", h.handleLogin)
	r.Post("/auth/register", h.handleRegister)
	r.Post("/auth/google", h.handleGoogleLogin)
	r.Post("/auth/logout", h.handleLogout)
	r.Get("/me", h.handleMe)

	r.Get("/nav", h.handleNav)
	r.Get("/nav/{route}", h.handleNavAccess)

	r.Route("/registration/{variant}", func(r chi.Router) {
		r.Get("/", h.handleRegistrationState)
		r.Post("/", h.handleRegistrationSubmit)
		r.Delete("/", h.handleRegistrationReset)
	})

	r.Get("/donors", h.handleApprovedDonors)
	r.Get("/receivers", h.handleApprovedReceivers)
	r.Post("/donors/{donorId}/contact", h.handleContactDonor)
	r.Get("/donor/requests", h.handleDonorRequests)

	r.Route("/admin", func(r chi.Router) {
		r.Get("/queue", h.handleAdminQueue)
		r.Patch("/{variant}/{id}/status", h.handleAdminStatus)
		r.Delete("/{variant}/{id}", h.handleAdminRemove)
		r.Get("/messages", h.handleAdminMessages)
	})

	r.Post("/premium/checkout", h.handleCheckout)
	r.Post("/premium/verify", h.handleVerifyPayment)
	r.Post("/premium/book", h.handleBookConsultation)

	r.Patch("/profile", h.handleProfile)
	r.Post("/contact", h.handleContact)

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError translates a coded domain error into the JSON error envelope.
// Message is always the user-safe text, never raw error output.
func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, sentinel.ErrNotConfirmed) {
		writeJSON(w, http.StatusPreconditionRequired, map[string]string{
			"error":   "not_confirmed",
			"message": "The action was not confirmed.",
		})
		return
	}
	code := derrors.CodeOf(err)
	writeJSON(w, derrors.ToHTTPStatus(code), map[string]string{
		"error":   string(code),
		"message": derrors.MessageOf(err),
	})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return derrors.New(derrors.CodeValidation, "invalid request body")
	}
	return nil
}

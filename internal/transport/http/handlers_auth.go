package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"auracare/internal/auth"
	"auracare/internal/domain"
	"auracare/internal/nav"
	"auracare/pkg/derrors"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	identity, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":    identity,
		"landing": nav.LandingRoute(&identity),
	})
}

type registerRequest struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Role            string `json:"role"`
	AdminCode       string `json:"adminCode"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	err := h.auth.Register(r.Context(), auth.RegisterInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Role:            domain.Role(req.Role),
		AdminCode:       req.AdminCode,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Registration successful. Please log in."})
}

type googleLoginRequest struct {
	Credential string `json:"credential"`
	Role       string `json:"role"`
}

func (h *Handler) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req googleLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	identity, created, err := h.auth.GoogleLogin(r.Context(), req.Credential, domain.Role(req.Role))
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{"user": identity, "created": created})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.manager.Identity()
	if !ok {
		writeError(w, derrors.New(derrors.CodeUnauthenticated, "not logged in"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": identity})
}

func (h *Handler) currentIdentity() *domain.Identity {
	identity, ok := h.manager.Identity()
	if !ok {
		return nil
	}
	return &identity
}

func (h *Handler) handleNav(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"routes": nav.VisibleRoutes(h.currentIdentity()),
	})
}

func (h *Handler) handleNavAccess(w http.ResponseWriter, r *http.Request) {
	route := nav.RouteID(chi.URLParam(r, "route"))
	identity := h.currentIdentity()

	response := map[string]any{"allowed": nav.CanAccess(identity, route)}
	if redirect, ok := nav.RedirectTarget(identity, route); ok {
		response["redirect"] = redirect
	}
	writeJSON(w, http.StatusOK, response)
}

package premium

import (
	"context"
	"log/slog"
	"net/http"

	"auracare/internal/auth"
	"auracare/internal/domain"
	"auracare/internal/gateway"
	"auracare/pkg/derrors"
)

// Service handles the premium upsell: hand off to the external payment
// provider's hosted page, verify the session id the provider sends back, and
// gate consultation booking on premium. No payment logic lives here; the
// provider owns it end to end.
type Service struct {
	gw      *gateway.Client
	manager *auth.Manager
	logger  *slog.Logger
}

func NewService(gw *gateway.Client, manager *auth.Manager, logger *slog.Logger) *Service {
	return &Service{gw: gw, manager: manager, logger: logger}
}

// Checkout creates a provider checkout session and returns the hosted URL
// the user is redirected to.
func (s *Service) Checkout(ctx context.Context) (string, error) {
	if !s.manager.IsAuthorized() {
		return "", derrors.New(derrors.CodeUnauthenticated, "Please login to upgrade to Premium")
	}

	res := s.gw.Do(ctx, gateway.Request{
		Method:       http.MethodPost,
		Path:         "/create-checkout-session",
		JSON:         map[string]string{},
		AuthRequired: true,
	})
	if !res.OK {
		return "", gateway.ResultError(res)
	}

	var payload struct {
		URL string `json:"url"`
	}
	if err := res.Decode(&payload); err != nil || payload.URL == "" {
		return "", derrors.New(derrors.CodeUnavailable, "Failed to initiate payment.")
	}
	return payload.URL, nil
}

// Verify confirms the payment session the provider redirected back with and
// flips the cached identity to premium on success.
func (s *Service) Verify(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return derrors.New(derrors.CodeValidation, "missing payment session id")
	}

	res := s.gw.Do(ctx, gateway.Request{
		Method:       http.MethodPost,
		Path:         "/verify-payment",
		JSON:         map[string]string{"sessionId": sessionID},
		AuthRequired: true,
	})
	if !res.OK {
		return gateway.ResultError(res)
	}

	premium := true
	s.manager.UpdateIdentity(ctx, domain.IdentityPatch{IsPremium: &premium})
	return nil
}

// CanBook reports whether the consultation flow is open to the current user.
func (s *Service) CanBook() bool {
	identity, ok := s.manager.Identity()
	return ok && identity.IsPremium
}

// BookConsultation confirms an appointment with one of the partner doctors.
// Booking is client-side only today; the confirmation email is the
// backend's concern once a booking endpoint exists.
func (s *Service) BookConsultation(ctx context.Context, doctorName string) error {
	if !s.manager.IsAuthorized() {
		return derrors.New(derrors.CodeUnauthenticated, gateway.MsgNotAuthenticated)
	}
	if !s.CanBook() {
		return derrors.New(derrors.CodeForbidden, "Please upgrade to Premium to book a consultation")
	}
	if doctorName == "" {
		return derrors.New(derrors.CodeValidation, "Please select a doctor")
	}
	s.logger.InfoContext(ctx, "consultation booked", "doctor", doctorName)
	return nil
}

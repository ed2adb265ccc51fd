package profile

import (
	"context"
	"log/slog"
	"net/http"

	"auracare/internal/auth"
	"auracare/internal/domain"
	"auracare/internal/gateway"
	"auracare/pkg/derrors"
)

// Update carries the editable profile fields. Zero-value fields are omitted
// from the PATCH, matching the partial-update contract.
type Update struct {
	FullName   string
	Password   string
	ProfilePic *gateway.File
}

func (u Update) empty() bool {
	return u.FullName == "" && u.Password == "" && u.ProfilePic.Empty()
}

// Service applies profile edits and keeps the cached identity in sync with
// whatever user record the backend returns.
type Service struct {
	gw      *gateway.Client
	manager *auth.Manager
	logger  *slog.Logger
}

func NewService(gw *gateway.Client, manager *auth.Manager, logger *slog.Logger) *Service {
	return &Service{gw: gw, manager: manager, logger: logger}
}

// Apply PATCHes the profile with the provided fields.
func (s *Service) Apply(ctx context.Context, update Update) error {
	identity, ok := s.manager.Identity()
	if !ok {
		return derrors.New(derrors.CodeUnauthenticated, gateway.MsgNotAuthenticated)
	}
	if update.empty() {
		return derrors.New(derrors.CodeValidation, "Nothing to update")
	}

	form := gateway.NewForm()
	if update.FullName != "" {
		form.Set("fullName", update.FullName)
	}
	if update.Password != "" {
		form.Set("password", update.Password)
	}
	form.Attach("profilePic", update.ProfilePic)

	res := s.gw.Do(ctx, gateway.Request{
		Method:       http.MethodPatch,
		Path:         "/profile/" + identity.ID,
		PathTemplate: "/profile/{id}",
		Form:         form,
		AuthRequired: true,
	})
	if !res.OK {
		return gateway.ResultError(res)
	}

	var payload struct {
		User *domain.Identity `json:"user"`
	}
	if err := res.Decode(&payload); err == nil && payload.User != nil {
		s.manager.ReplaceIdentity(ctx, *payload.User)
	}
	return nil
}

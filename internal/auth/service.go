package auth

import (
	"context"
	"log/slog"
	"net/http"

	"auracare/internal/domain"
	"auracare/internal/gateway"
	"auracare/pkg/derrors"
)

// Service drives the identity lifecycle against the backend: login,
// registration, Google login. Successful logins hand the identity and token
// to the Manager; registration does not log in (the user is sent to the
// login screen, matching the backend's 201 contract).
type Service struct {
	gw      *gateway.Client
	manager *Manager
	logger  *slog.Logger
}

func NewService(gw *gateway.Client, manager *Manager, logger *slog.Logger) *Service {
	return &Service{gw: gw, manager: manager, logger: logger}
}

// sessionResponse is the shape of login/google-login responses.
type sessionResponse struct {
	Token string          `json:"token"`
	User  domain.Identity `json:"user"`
}

// RegisterInput is the registration form. AdminCode is required only when
// registering the admin role.
type RegisterInput struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
	Role            domain.Role
	AdminCode       string
}

// Login authenticates with email/password and transitions the manager to
// authenticated on success.
func (s *Service) Login(ctx context.Context, email, password string) (domain.Identity, error) {
	if email == "" || password == "" {
		return domain.Identity{}, derrors.New(derrors.CodeValidation, "Please fill all fields")
	}

	res := s.gw.Do(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   "/login",
		JSON:   map[string]string{"email": email, "password": password},
	})
	if !res.OK {
		return domain.Identity{}, gateway.ResultError(res)
	}

	var session sessionResponse
	if err := res.Decode(&session); err != nil {
		return domain.Identity{}, derrors.Wrap(derrors.CodeInternal, "unexpected login response", err)
	}

	s.manager.Login(ctx, session.User, session.Token)
	return session.User, nil
}

// Register creates an account. The caller logs in afterwards.
func (s *Service) Register(ctx context.Context, input RegisterInput) error {
	if input.FullName == "" || input.Email == "" || input.Password == "" || input.ConfirmPassword == "" {
		return derrors.New(derrors.CodeValidation, "Please fill all fields")
	}
	if input.Password != input.ConfirmPassword {
		return derrors.New(derrors.CodeValidation, "Passwords do not match!")
	}

	body := map[string]string{
		"fullName": input.FullName,
		"email":    input.Email,
		"password": input.Password,
		"role":     string(input.Role),
	}
	if input.Role == domain.RoleAdmin {
		body["adminCode"] = input.AdminCode
	}

	res := s.gw.Do(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   "/register",
		JSON:   body,
	})
	return gateway.ResultError(res)
}

// GoogleLogin forwards a Google credential. The backend either signs in an
// existing account (200) or creates one with the requested role (201);
// created reports which happened so the UI can phrase its notification.
func (s *Service) GoogleLogin(ctx context.Context, credential string, role domain.Role) (identity domain.Identity, created bool, err error) {
	if credential == "" {
		return domain.Identity{}, false, derrors.New(derrors.CodeValidation, "Google Login Failed")
	}

	res := s.gw.Do(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   "/google-login",
		JSON:   map[string]string{"token": credential, "role": string(role)},
	})
	if !res.OK {
		return domain.Identity{}, false, gateway.ResultError(res)
	}

	var session sessionResponse
	if err := res.Decode(&session); err != nil {
		return domain.Identity{}, false, derrors.Wrap(derrors.CodeInternal, "unexpected login response", err)
	}

	s.manager.Login(ctx, session.User, session.Token)
	return session.User, res.StatusCode == http.StatusCreated, nil
}

// Logout ends the session.
func (s *Service) Logout(ctx context.Context) {
	s.manager.Logout(ctx)
}

package contact

import (
	"context"
	"log/slog"
	"net/http"

	"auracare/internal/gateway"
	"auracare/pkg/derrors"
)

// Message is the contact-page form.
type Message struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"message"`
}

// Service sends contact-page messages; admins read them through the admin
// workflow's inbox.
type Service struct {
	gw     *gateway.Client
	logger *slog.Logger
}

func NewService(gw *gateway.Client, logger *slog.Logger) *Service {
	return &Service{gw: gw, logger: logger}
}

// Send validates and posts the message.
func (s *Service) Send(ctx context.Context, msg Message) error {
	if msg.Name == "" || msg.Email == "" || msg.Body == "" {
		return derrors.New(derrors.CodeValidation, "Please fill all fields")
	}

	res := s.gw.Do(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   "/contact",
		JSON:   msg,
	})
	return gateway.ResultError(res)
}

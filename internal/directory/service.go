package directory

import (
	"context"
	"log/slog"
	"net/http"

	"auracare/internal/auth"
	"auracare/internal/domain"
	"auracare/internal/gateway"
	"auracare/pkg/derrors"
)

// Service serves the public discovery feeds (approved donors and receivers)
// and the directional contact-request flow between them.
type Service struct {
	gw      *gateway.Client
	manager *auth.Manager
	logger  *slog.Logger
}

func NewService(gw *gateway.Client, manager *auth.Manager, logger *slog.Logger) *Service {
	return &Service{gw: gw, manager: manager, logger: logger}
}

// ApprovedDonors returns the public donor feed.
func (s *Service) ApprovedDonors(ctx context.Context) ([]domain.RegistrationRecord, error) {
	return s.feed(ctx, "/approved-donors")
}

// ApprovedReceivers returns the public receiver feed.
func (s *Service) ApprovedReceivers(ctx context.Context) ([]domain.RegistrationRecord, error) {
	return s.feed(ctx, "/approved-receivers")
}

func (s *Service) feed(ctx context.Context, path string) ([]domain.RegistrationRecord, error) {
	res := s.gw.Do(ctx, gateway.Request{Method: http.MethodGet, Path: path})
	if !res.OK {
		return nil, gateway.ResultError(res)
	}
	var records []domain.RegistrationRecord
	if err := res.Decode(&records); err != nil {
		return nil, derrors.Wrap(derrors.CodeInternal, "unexpected feed response", err)
	}
	return records, nil
}

// ContactDonor creates the directional contact request from the current
// (approved) receiver to a donor. Eligibility is checked client-side first,
// mirroring the backend rules: receiver role, approved receiver record.
func (s *Service) ContactDonor(ctx context.Context, donorUserID string) error {
	identity, ok := s.manager.Identity()
	if !ok || identity.Role != domain.RoleReceiver {
		return derrors.New(derrors.CodeForbidden, "Only registered and approved receivers can contact donors.")
	}

	profile, err := s.myReceiverRecord(ctx, identity.ID)
	if err != nil {
		return err
	}
	if profile == nil || profile.Status != domain.StatusApproved {
		return derrors.New(derrors.CodeForbidden, "Your profile must be approved by the admin before you can contact donors.")
	}

	res := s.gw.Do(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   "/contact-donor",
		JSON: map[string]string{
			"donorUserId":    donorUserID,
			"receiverUserId": identity.ID,
		},
		AuthRequired: true,
	})
	return gateway.ResultError(res)
}

// DonorRequests returns the contact requests visible to a donor.
func (s *Service) DonorRequests(ctx context.Context, donorUserID string) ([]domain.ContactRequest, error) {
	res := s.gw.Do(ctx, gateway.Request{
		Method:       http.MethodGet,
		Path:         "/donor/requests/" + donorUserID,
		PathTemplate: "/donor/requests/{donorId}",
		AuthRequired: true,
	})
	if !res.OK {
		return nil, gateway.ResultError(res)
	}
	var requests []domain.ContactRequest
	if err := res.Decode(&requests); err != nil {
		return nil, derrors.Wrap(derrors.CodeInternal, "unexpected requests response", err)
	}
	return requests, nil
}

func (s *Service) myReceiverRecord(ctx context.Context, userID string) (*domain.RegistrationRecord, error) {
	res := s.gw.Do(ctx, gateway.Request{
		Method:       http.MethodGet,
		Path:         "/receivers/me/" + userID,
		PathTemplate: "/receivers/me/{userId}",
		AuthRequired: true,
	})
	if res.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if !res.OK {
		return nil, gateway.ResultError(res)
	}
	var record *domain.RegistrationRecord
	if err := res.Decode(&record); err != nil {
		return nil, derrors.Wrap(derrors.CodeInternal, "unexpected profile response", err)
	}
	return record, nil
}

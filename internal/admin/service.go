package admin

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"auracare/internal/auth"
	"auracare/internal/domain"
	"auracare/internal/gateway"
	"auracare/internal/platform/audit"
	"auracare/internal/platform/metrics"
	"auracare/pkg/derrors"
	"auracare/pkg/sentinel"
)

// Confirmer asks a human before a destructive call goes out. Remove refuses
// to issue the DELETE unless Confirm answers yes.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(prompt string) bool

func (f ConfirmerFunc) Confirm(prompt string) bool { return f(prompt) }

// Entry is one reviewable registration, tagged with its variant so the
// merged list can route status changes to the right endpoint.
type Entry struct {
	domain.RegistrationRecord
	Variant domain.Variant `json:"type"`
}

// Queue is the derived review view: the merged record list plus the stats
// tiles. It is recomputed on every load, never mutated in place.
type Queue struct {
	Entries []Entry
	Stats   domain.Stats
}

// Filter returns entries matching the status tab; the literal "all" (or
// empty) returns everything. Pure function over the merged list; tabs are
// not separate fetches.
func (q *Queue) Filter(status string) []Entry {
	if status == "" || status == "all" {
		return q.Entries
	}
	var out []Entry
	for _, e := range q.Entries {
		if string(e.Status) == status {
			out = append(out, e)
		}
	}
	return out
}

// Summary aggregates the dashboard tiles.
type Summary struct {
	TotalRequests int
	Pending       int
}

// Counts derives the header tiles from the stats payload.
func (q *Queue) Counts() Summary {
	return Summary{
		TotalRequests: q.Stats.TotalDonors + q.Stats.TotalReceivers,
		Pending:       q.Stats.PendingDonors + q.Stats.PendingReceivers,
	}
}

// Service is the admin review workflow: load everything, apply status
// transitions, delete records. Mutations never touch local state; they
// succeed remotely and then the caller reloads, trading latency for
// correctness.
type Service struct {
	gw      *gateway.Client
	manager *auth.Manager
	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   audit.Publisher
	confirm Confirmer
}

func NewService(gw *gateway.Client, manager *auth.Manager, logger *slog.Logger, m *metrics.Metrics, pub audit.Publisher, confirm Confirmer) *Service {
	if pub == nil {
		pub = audit.Nop{}
	}
	return &Service{gw: gw, manager: manager, logger: logger, metrics: m, audit: pub, confirm: confirm}
}

func (s *Service) requireAdmin() error {
	identity, ok := s.manager.Identity()
	if !ok {
		return derrors.New(derrors.CodeUnauthenticated, gateway.MsgNotAuthenticated)
	}
	if identity.Role != domain.RoleAdmin {
		return derrors.New(derrors.CodeForbidden, "Unauthorized Access")
	}
	return nil
}

// LoadAll fetches stats, donors and receivers in parallel and merges the
// record lists. The merge is order-insensitive: donors first, then
// receivers, each in backend insertion order.
func (s *Service) LoadAll(ctx context.Context) (*Queue, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}

	var (
		stats     domain.Stats
		donors    []domain.RegistrationRecord
		receivers []domain.RegistrationRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res := s.gw.Do(gctx, gateway.Request{
			Method: http.MethodGet, Path: "/admin/stats", AuthRequired: true,
		})
		if !res.OK {
			return gateway.ResultError(res)
		}
		return res.Decode(&stats)
	})
	g.Go(func() error {
		res := s.gw.Do(gctx, gateway.Request{
			Method: http.MethodGet, Path: "/donors", AuthRequired: true,
		})
		if !res.OK {
			return gateway.ResultError(res)
		}
		return res.Decode(&donors)
	})
	g.Go(func() error {
		res := s.gw.Do(gctx, gateway.Request{
			Method: http.MethodGet, Path: "/receivers", AuthRequired: true,
		})
		if !res.OK {
			return gateway.ResultError(res)
		}
		return res.Decode(&receivers)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	queue := &Queue{Stats: stats, Entries: make([]Entry, 0, len(donors)+len(receivers))}
	for _, r := range donors {
		queue.Entries = append(queue.Entries, Entry{RegistrationRecord: r, Variant: domain.VariantDonor})
	}
	for _, r := range receivers {
		queue.Entries = append(queue.Entries, Entry{RegistrationRecord: r, Variant: domain.VariantReceiver})
	}
	return queue, nil
}

// SetStatus approves or rejects a record via the variant-specific endpoint.
// No optimistic mutation: the caller reloads the queue after success.
func (s *Service) SetStatus(ctx context.Context, recordID string, variant domain.Variant, status domain.Status) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	if status != domain.StatusApproved && status != domain.StatusRejected {
		return derrors.New(derrors.CodeValidation, "status must be approved or rejected")
	}

	res := s.gw.Do(ctx, gateway.Request{
		Method:       http.MethodPatch,
		Path:         fmt.Sprintf("/admin/%s/%s/status", variant, recordID),
		PathTemplate: fmt.Sprintf("/admin/%s/{id}/status", variant),
		JSON:         map[string]string{"status": string(status)},
		AuthRequired: true,
	})
	if !res.OK {
		return gateway.ResultError(res)
	}

	s.record(ctx, string(status), variant, recordID)
	return nil
}

// Remove deletes a record after an explicit human confirmation. Declining
// the prompt means no DELETE is ever issued.
func (s *Service) Remove(ctx context.Context, recordID string, variant domain.Variant) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}

	prompt := fmt.Sprintf("Are you sure you want to remove this %s? This action cannot be undone.", variant)
	if s.confirm == nil || !s.confirm.Confirm(prompt) {
		return sentinel.ErrNotConfirmed
	}

	res := s.gw.Do(ctx, gateway.Request{
		Method:       http.MethodDelete,
		Path:         fmt.Sprintf("/admin/%s/%s", variant, recordID),
		PathTemplate: fmt.Sprintf("/admin/%s/{id}", variant),
		AuthRequired: true,
	})
	if !res.OK {
		return gateway.ResultError(res)
	}

	s.record(ctx, "delete", variant, recordID)
	return nil
}

// Messages lists contact-page messages for the admin inbox.
func (s *Service) Messages(ctx context.Context) ([]domain.Message, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}

	res := s.gw.Do(ctx, gateway.Request{
		Method: http.MethodGet, Path: "/admin/messages", AuthRequired: true,
	})
	if !res.OK {
		return nil, gateway.ResultError(res)
	}
	var messages []domain.Message
	if err := res.Decode(&messages); err != nil {
		return nil, derrors.Wrap(derrors.CodeInternal, "unexpected messages response", err)
	}
	return messages, nil
}

func (s *Service) record(ctx context.Context, action string, variant domain.Variant, recordID string) {
	if s.metrics != nil {
		s.metrics.AdminActions.WithLabelValues(action, string(variant)).Inc()
	}
	identity, _ := s.manager.Identity()
	event := audit.Event{
		Action:    action,
		Variant:   variant,
		RecordID:  recordID,
		ActorID:   identity.ID,
		Timestamp: time.Now().UTC(),
	}
	if err := s.audit.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit event not published", "action", action, "record_id", recordID, "error", err)
	}
}

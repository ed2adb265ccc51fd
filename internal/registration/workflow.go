package registration

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"auracare/internal/auth"
	"auracare/internal/domain"
	"auracare/internal/gateway"
	"auracare/internal/platform/metrics"
	"auracare/pkg/derrors"
	"auracare/pkg/sentinel"
)

// State is the local view of the user's registration. NoRecord renders the
// form; the rest render the read-only status view. Approved and Rejected are
// terminal for the owner; only the admin workflow moves records after that.
type State string

const (
	StateNoRecord State = "no_record"
	StatePending  State = "pending"
	StateApproved State = "approved"
	StateRejected State = "rejected"
)

func stateForStatus(status domain.Status) State {
	switch status {
	case domain.StatusApproved:
		return StateApproved
	case domain.StatusRejected:
		return StateRejected
	default:
		return StatePending
	}
}

// Workflow drives one registration variant for the current user: checking
// for an existing record, submitting the form, and holding the resulting
// view state. A generation token guards against stale responses: leaving the
// view resets the generation, and any response that started under an older
// generation is dropped instead of applied.
type Workflow struct {
	variant domain.Variant
	gw      *gateway.Client
	manager *auth.Manager
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu         sync.Mutex
	state      State
	record     *domain.RegistrationRecord
	generation uuid.UUID
}

func NewWorkflow(variant domain.Variant, gw *gateway.Client, manager *auth.Manager, logger *slog.Logger, m *metrics.Metrics) *Workflow {
	return &Workflow{
		variant:    variant,
		gw:         gw,
		manager:    manager,
		logger:     logger,
		metrics:    m,
		state:      StateNoRecord,
		generation: uuid.New(),
	}
}

// State returns the current local state and record, if loaded.
func (w *Workflow) State() (State, *domain.RegistrationRecord) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state, w.record
}

// Reset is called when the originating view goes away. In-flight responses
// from before the reset will be ignored.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = StateNoRecord
	w.record = nil
	w.generation = uuid.New()
}

// CheckRecord queries the backend for the user's existing record. A 404
// keeps the state at NoRecord; any found record flips the state to match its
// review status.
func (w *Workflow) CheckRecord(ctx context.Context) (State, error) {
	identity, ok := w.manager.Identity()
	if !ok {
		return StateNoRecord, derrors.New(derrors.CodeUnauthenticated, gateway.MsgNotAuthenticated)
	}

	gen := w.currentGeneration()

	res := w.gw.Do(ctx, gateway.Request{
		Method:       http.MethodGet,
		Path:         fmt.Sprintf("/%ss/me/%s", w.variant, identity.ID),
		PathTemplate: fmt.Sprintf("/%ss/me/{userId}", w.variant),
		AuthRequired: true,
	})

	if res.StatusCode == http.StatusNotFound {
		if err := w.apply(gen, StateNoRecord, nil); err != nil {
			return StateNoRecord, err
		}
		return StateNoRecord, nil
	}
	if !res.OK {
		state, _ := w.State()
		return state, gateway.ResultError(res)
	}

	var record *domain.RegistrationRecord
	if err := res.Decode(&record); err != nil || record == nil || record.ID == "" {
		if err := w.apply(gen, StateNoRecord, nil); err != nil {
			return StateNoRecord, err
		}
		return StateNoRecord, nil
	}

	state := stateForStatus(record.Status)
	if err := w.apply(gen, state, record); err != nil {
		return state, err
	}
	return state, nil
}

// submitResponse is the 201 payload; the backend returns the updated user so
// the cached identity (e.g. a newly stamped role) stays fresh.
type submitResponse struct {
	User   *domain.Identity           `json:"user"`
	Record *domain.RegistrationRecord `json:"record"`
}

// Submit validates locally, then posts the multipart payload. A form that
// fails validation never touches the network and leaves the state unchanged.
// On success the state becomes Pending and any returned user record replaces
// the cached identity.
func (w *Workflow) Submit(ctx context.Context, form Form) error {
	if form.Variant() != w.variant {
		return derrors.New(derrors.CodeInternal, "form variant does not match workflow")
	}
	if err := form.Validate(); err != nil {
		return err
	}
	if _, ok := w.manager.Identity(); !ok {
		return derrors.New(derrors.CodeUnauthenticated, gateway.MsgNotAuthenticated)
	}

	gen := w.currentGeneration()

	if w.metrics != nil {
		w.metrics.RegistrationsSub.WithLabelValues(string(w.variant)).Inc()
	}

	res := w.gw.Do(ctx, gateway.Request{
		Method:       http.MethodPost,
		Path:         fmt.Sprintf("/%ss/register", w.variant),
		Form:         form.multipart(),
		AuthRequired: true,
	})
	if !res.OK {
		return gateway.ResultError(res)
	}

	var payload submitResponse
	if err := res.Decode(&payload); err == nil && payload.User != nil {
		w.manager.ReplaceIdentity(ctx, *payload.User)
	}

	return w.apply(gen, StatePending, payload.Record)
}

func (w *Workflow) currentGeneration() uuid.UUID {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.generation
}

// apply commits a state transition only if the view generation is unchanged
// since the request started.
func (w *Workflow) apply(gen uuid.UUID, state State, record *domain.RegistrationRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.generation != gen {
		w.logger.Debug("dropping stale registration response", "variant", string(w.variant))
		return sentinel.ErrStale
	}
	w.state = state
	w.record = record
	return nil
}

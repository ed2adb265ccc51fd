package auth

import (
	"context"
	"log/slog"
	"sync"

	"auracare/internal/domain"
	"auracare/internal/platform/metrics"
	"auracare/internal/session"
)

// Snapshot is what subscribers observe: either an authorized state with an
// identity, or nothing. Token and identity move together; there is no state
// with one but not the other.
type Snapshot struct {
	Authorized bool
	Identity   domain.Identity
}

// Manager owns the process-wide auth state. There are exactly two states,
// unauthenticated and authenticated; transitions are synchronous from the
// caller's perspective and every transition notifies subscribers so gated
// views recompute.
type Manager struct {
	store   session.Store
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu         sync.RWMutex
	authorized bool
	identity   domain.Identity
	token      string

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

// NewManager bootstraps from the session store so an authenticated state
// survives a process reload. A stored token that is JWT-shaped and already
// expired is discarded up front; anything else is treated as opaque.
func NewManager(ctx context.Context, store session.Store, logger *slog.Logger, m *metrics.Metrics) *Manager {
	mgr := &Manager{
		store:   store,
		logger:  logger,
		metrics: m,
		subs:    make(map[int]func(Snapshot)),
	}

	identity, token, ok := store.Load(ctx)
	if ok && TokenExpired(token) {
		logger.InfoContext(ctx, "discarding expired session token at startup")
		if err := store.Clear(ctx); err != nil {
			logger.WarnContext(ctx, "failed to clear expired session", "error", err)
		}
		ok = false
	}
	if ok {
		mgr.authorized = true
		mgr.identity = identity
		mgr.token = token
	}
	return mgr
}

// IsAuthorized reports the current state.
func (m *Manager) IsAuthorized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.authorized
}

// Identity returns the cached identity when authenticated.
func (m *Manager) Identity() (domain.Identity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identity, m.authorized
}

// Token implements gateway.TokenSource.
func (m *Manager) Token() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.authorized
}

// Snapshot returns the current observable state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{Authorized: m.authorized, Identity: m.identity}
}

// Login persists the session and transitions to authenticated. A store
// failure is logged but does not block the in-memory transition: the user is
// logged in for this tab either way, they just will not survive a reload.
func (m *Manager) Login(ctx context.Context, identity domain.Identity, token string) {
	if err := m.store.Save(ctx, identity, token); err != nil {
		m.logger.WarnContext(ctx, "session persist failed", "error", err)
	}

	m.mu.Lock()
	m.authorized = true
	m.identity = identity
	m.token = token
	snapshot := Snapshot{Authorized: true, Identity: identity}
	m.mu.Unlock()

	m.notify(snapshot)
}

// Logout clears the store and transitions to unauthenticated.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.logger.WarnContext(ctx, "session clear failed", "error", err)
	}

	m.mu.Lock()
	m.authorized = false
	m.identity = domain.Identity{}
	m.token = ""
	m.mu.Unlock()

	m.notify(Snapshot{})
}

// UpdateIdentity merges the patch into the current identity and re-persists.
// Silently a no-op when unauthenticated.
func (m *Manager) UpdateIdentity(ctx context.Context, patch domain.IdentityPatch) {
	m.mu.Lock()
	if !m.authorized {
		m.mu.Unlock()
		return
	}
	m.identity = patch.Merge(m.identity)
	identity, token := m.identity, m.token
	m.mu.Unlock()

	if err := m.store.Save(ctx, identity, token); err != nil {
		m.logger.WarnContext(ctx, "session persist failed", "error", err)
	}
	m.notify(Snapshot{Authorized: true, Identity: identity})
}

// ReplaceIdentity swaps in the full user record the backend returned (after
// a registration or profile update). No-op when unauthenticated.
func (m *Manager) ReplaceIdentity(ctx context.Context, identity domain.Identity) {
	m.mu.Lock()
	if !m.authorized {
		m.mu.Unlock()
		return
	}
	m.identity = identity
	token := m.token
	m.mu.Unlock()

	if err := m.store.Save(ctx, identity, token); err != nil {
		m.logger.WarnContext(ctx, "session persist failed", "error", err)
	}
	m.notify(Snapshot{Authorized: true, Identity: identity})
}

// InvalidateToken implements gateway.Invalidator: the backend rejected this
// bearer token, so the session it belongs to is over. Comparing against the
// current token makes the transition happen exactly once even when several
// in-flight calls all come back 401 with the same stale token.
func (m *Manager) InvalidateToken(ctx context.Context, token string) {
	m.mu.Lock()
	if !m.authorized || m.token != token {
		m.mu.Unlock()
		return
	}
	m.authorized = false
	m.identity = domain.Identity{}
	m.token = ""
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		m.logger.WarnContext(ctx, "session clear failed", "error", err)
	}
	if m.metrics != nil {
		m.metrics.ForcedLogouts.Inc()
	}
	m.logger.InfoContext(ctx, "forced logout: backend rejected bearer token")
	m.notify(Snapshot{})
}

// Subscribe registers an observer called on every state transition. The
// returned function unsubscribes.
func (m *Manager) Subscribe(fn func(Snapshot)) func() {
	m.subMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subMu.Unlock()

	return func() {
		m.subMu.Lock()
		delete(m.subs, id)
		m.subMu.Unlock()
	}
}

func (m *Manager) notify(snapshot Snapshot) {
	m.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}

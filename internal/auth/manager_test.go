package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"

	"auracare/internal/domain"
	"auracare/internal/session"
	"auracare/pkg/testutil"
)

type ManagerSuite struct {
	suite.Suite
	store   *session.InMemoryStore
	manager *Manager
}

func (s *ManagerSuite) SetupTest() {
	s.store = session.NewInMemoryStore()
	s.manager = NewManager(context.Background(), s.store, testutil.Logger(), nil)
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) TestLoginLogout() {
	identity := domain.Identity{ID: "u-1", FullName: "Asha Varma", Role: domain.RoleDonor}

	s.Run("login transitions to authenticated and persists", func() {
		s.manager.Login(context.Background(), identity, "tok-abc")

		s.True(s.manager.IsAuthorized())
		got, ok := s.manager.Identity()
		s.Require().True(ok)
		s.Equal(identity, got)
		token, ok := s.manager.Token()
		s.Require().True(ok)
		s.Equal("tok-abc", token)

		stored, storedToken, ok := s.store.Load(context.Background())
		s.Require().True(ok)
		s.Equal(identity, stored)
		s.Equal("tok-abc", storedToken)
	})

	s.Run("logout clears state and store together", func() {
		s.manager.Logout(context.Background())

		s.False(s.manager.IsAuthorized())
		_, ok := s.manager.Identity()
		s.False(ok)
		_, _, ok = s.store.Load(context.Background())
		s.False(ok)
	})
}

func (s *ManagerSuite) TestBootstrapFromStore() {
	s.Run("a persisted session survives a new manager", func() {
		identity := domain.Identity{ID: "u-1", Role: domain.RoleReceiver}
		s.Require().NoError(s.store.Save(context.Background(), identity, "tok-abc"))

		mgr := NewManager(context.Background(), s.store, testutil.Logger(), nil)

		s.True(mgr.IsAuthorized())
		got, _ := mgr.Identity()
		s.Equal("u-1", got.ID)
	})

	s.Run("an expired JWT is discarded at bootstrap", func() {
		expired := signedToken(s.T(), time.Now().Add(-time.Hour))
		s.Require().NoError(s.store.Save(context.Background(), domain.Identity{ID: "u-1"}, expired))

		mgr := NewManager(context.Background(), s.store, testutil.Logger(), nil)

		s.False(mgr.IsAuthorized())
		_, _, ok := s.store.Load(context.Background())
		s.False(ok, "expired session should be cleared from the store")
	})

	s.Run("a live JWT is kept", func() {
		live := signedToken(s.T(), time.Now().Add(time.Hour))
		s.Require().NoError(s.store.Save(context.Background(), domain.Identity{ID: "u-1"}, live))

		mgr := NewManager(context.Background(), s.store, testutil.Logger(), nil)
		s.True(mgr.IsAuthorized())
	})

	s.Run("an opaque token is trusted", func() {
		s.Require().NoError(s.store.Save(context.Background(), domain.Identity{ID: "u-1"}, "opaque-token"))

		mgr := NewManager(context.Background(), s.store, testutil.Logger(), nil)
		s.True(mgr.IsAuthorized())
	})
}

func (s *ManagerSuite) TestUpdateIdentity() {
	s.Run("patch merges into the current identity", func() {
		s.manager.Login(context.Background(), domain.Identity{ID: "u-1", FullName: "Asha"}, "tok")

		premium := true
		s.manager.UpdateIdentity(context.Background(), domain.IdentityPatch{IsPremium: &premium})

		got, _ := s.manager.Identity()
		s.True(got.IsPremium)
		s.Equal("Asha", got.FullName, "unpatched fields are preserved")
	})

	s.Run("no-op when unauthenticated", func() {
		s.manager.Logout(context.Background())

		premium := true
		s.manager.UpdateIdentity(context.Background(), domain.IdentityPatch{IsPremium: &premium})

		s.False(s.manager.IsAuthorized())
		_, _, ok := s.store.Load(context.Background())
		s.False(ok, "nothing should be written to the store")
	})
}

func (s *ManagerSuite) TestSubscribe() {
	s.Run("subscribers observe every transition", func() {
		var mu sync.Mutex
		var seen []Snapshot
		unsubscribe := s.manager.Subscribe(func(snap Snapshot) {
			mu.Lock()
			seen = append(seen, snap)
			mu.Unlock()
		})
		defer unsubscribe()

		s.manager.Login(context.Background(), domain.Identity{ID: "u-1"}, "tok")
		s.manager.Logout(context.Background())

		mu.Lock()
		defer mu.Unlock()
		s.Require().Len(seen, 2)
		s.True(seen[0].Authorized)
		s.Equal("u-1", seen[0].Identity.ID)
		s.False(seen[1].Authorized)
	})

	s.Run("unsubscribed observers stop receiving", func() {
		calls := 0
		unsubscribe := s.manager.Subscribe(func(Snapshot) { calls++ })
		unsubscribe()

		s.manager.Login(context.Background(), domain.Identity{ID: "u-1"}, "tok")
		s.Zero(calls)
	})
}

func (s *ManagerSuite) TestInvalidateToken() {
	s.Run("matching token forces logout exactly once", func() {
		s.manager.Login(context.Background(), domain.Identity{ID: "u-1"}, "tok-abc")

		transitions := 0
		unsubscribe := s.manager.Subscribe(func(snap Snapshot) {
			if !snap.Authorized {
				transitions++
			}
		})
		defer unsubscribe()

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.manager.InvalidateToken(context.Background(), "tok-abc")
			}()
		}
		wg.Wait()

		s.False(s.manager.IsAuthorized())
		s.Equal(1, transitions, "concurrent 401s collapse to one logout")
	})

	s.Run("a stale token from a previous session is ignored", func() {
		s.manager.Login(context.Background(), domain.Identity{ID: "u-2"}, "tok-new")

		s.manager.InvalidateToken(context.Background(), "tok-old")

		s.True(s.manager.IsAuthorized(), "current session is untouched")
	})
}

func (s *ManagerSuite) TestTokenExpired() {
	s.False(TokenExpired("not-a-jwt"))
	s.False(TokenExpired(signedToken(s.T(), time.Now().Add(time.Hour))))
	s.True(TokenExpired(signedToken(s.T(), time.Now().Add(-time.Minute))))
}

func signedToken(t *testing.T, expiry time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u-1",
		ExpiresAt: jwt.NewNumericDate(expiry),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

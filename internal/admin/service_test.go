package admin

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/suite"

	"auracare/internal/auth"
	"auracare/internal/domain"
	"auracare/internal/gateway"
	"auracare/internal/session"
	"auracare/pkg/derrors"
	"auracare/pkg/sentinel"
	"auracare/pkg/testutil"
)

type ServiceSuite struct {
	suite.Suite
	manager *auth.Manager
}

func (s *ServiceSuite) SetupTest() {
	s.manager = auth.NewManager(context.Background(), session.NewInMemoryStore(), testutil.Logger(), nil)
	s.manager.Login(context.Background(), domain.Identity{ID: "adm-1", Role: domain.RoleAdmin}, "tok")
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) newService(backend http.Handler, confirm Confirmer) (*Service, *httptest.Server) {
	server := httptest.NewServer(backend)
	gw := gateway.NewClient(gateway.Options{
		BaseURL:     server.URL,
		Tokens:      s.manager,
		Invalidator: s.manager,
		Logger:      testutil.Logger(),
	})
	return NewService(gw, s.manager, testutil.Logger(), nil, nil, confirm), server
}

func reviewBackend() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalUsers": 10, "totalDonors": 3, "totalReceivers": 2, "pendingDonors": 1, "pendingReceivers": 1}`))
	})
	mux.HandleFunc("/donors", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"_id": "d-1", "firstName": "Asha", "status": "pending"},
			{"_id": "d-2", "firstName": "Ravi", "status": "approved"}
		]`))
	})
	mux.HandleFunc("/receivers", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"_id": "r-1", "firstName": "Meera", "status": "pending"}]`))
	})
	return mux
}

func (s *ServiceSuite) TestLoadAll() {
	service, server := s.newService(reviewBackend(), nil)
	defer server.Close()

	queue, err := service.LoadAll(context.Background())
	s.Require().NoError(err)

	s.Run("donors and receivers merge with their variant tag", func() {
		s.Require().Len(queue.Entries, 3)
		s.Equal(domain.VariantDonor, queue.Entries[0].Variant)
		s.Equal("d-1", queue.Entries[0].ID)
		s.Equal(domain.VariantReceiver, queue.Entries[2].Variant)
		s.Equal("r-1", queue.Entries[2].ID)
	})

	s.Run("counts come from the stats payload", func() {
		counts := queue.Counts()
		s.Equal(5, counts.TotalRequests)
		s.Equal(2, counts.Pending)
	})

	s.Run("filter is pure", func() {
		pending := queue.Filter("pending")
		s.Len(pending, 2)
		s.Len(queue.Entries, 3, "filtering must not mutate the queue")
		s.Len(queue.Filter("all"), 3)
		s.Len(queue.Filter(""), 3)
		s.Empty(queue.Filter("rejected"))
	})
}

func (s *ServiceSuite) TestRequireAdmin() {
	service, server := s.newService(reviewBackend(), nil)
	defer server.Close()

	s.Run("non-admin is refused", func() {
		s.manager.Login(context.Background(), domain.Identity{ID: "u-1", Role: domain.RoleDonor}, "tok")

		_, err := service.LoadAll(context.Background())
		s.True(derrors.Is(err, derrors.CodeForbidden))
		s.Equal("Unauthorized Access", derrors.MessageOf(err))
	})

	s.Run("unauthenticated is refused", func() {
		s.manager.Logout(context.Background())

		_, err := service.LoadAll(context.Background())
		s.True(derrors.Is(err, derrors.CodeUnauthenticated))
	})
}

func (s *ServiceSuite) TestSetStatus() {
	s.Run("patches the variant endpoint", func() {
		var gotPath, gotBody string
		service, server := s.newService(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			body, _ := io.ReadAll(r.Body)
			gotBody = string(body)
			w.Write([]byte(`{}`))
		}), nil)
		defer server.Close()

		err := service.SetStatus(context.Background(), "d-1", domain.VariantDonor, domain.StatusApproved)
		s.Require().NoError(err)
		s.Equal("/admin/donor/d-1/status", gotPath)
		s.JSONEq(`{"status": "approved"}`, gotBody)
	})

	s.Run("only approved and rejected are allowed", func() {
		var hits int32
		service, server := s.newService(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
		}), nil)
		defer server.Close()

		err := service.SetStatus(context.Background(), "d-1", domain.VariantDonor, domain.StatusPending)
		s.True(derrors.Is(err, derrors.CodeValidation))
		s.Zero(atomic.LoadInt32(&hits))
	})
}

func (s *ServiceSuite) TestRemove() {
	s.Run("a declined prompt never issues the delete", func() {
		var hits int32
		declined := ConfirmerFunc(func(string) bool { return false })
		service, server := s.newService(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
		}), declined)
		defer server.Close()

		err := service.Remove(context.Background(), "d-1", domain.VariantDonor)
		s.ErrorIs(err, sentinel.ErrNotConfirmed)
		s.Zero(atomic.LoadInt32(&hits))
	})

	s.Run("a confirmed prompt deletes the variant endpoint", func() {
		var gotMethod, gotPath string
		confirmed := ConfirmerFunc(func(string) bool { return true })
		service, server := s.newService(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod, gotPath = r.Method, r.URL.Path
			w.Write([]byte(`{}`))
		}), confirmed)
		defer server.Close()

		s.Require().NoError(service.Remove(context.Background(), "r-1", domain.VariantReceiver))
		s.Equal(http.MethodDelete, gotMethod)
		s.Equal("/admin/receiver/r-1", gotPath)
	})
}

func (s *ServiceSuite) TestMessages() {
	service, server := s.newService(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"_id": "m-1", "name": "Kiran", "email": "k@example.com", "message": "Hello"}]`))
	}), nil)
	defer server.Close()

	messages, err := service.Messages(context.Background())
	s.Require().NoError(err)
	s.Require().Len(messages, 1)
	s.Equal("Hello", messages[0].Body)
}

package directory

import (
	"context"
	"encoding/json"
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
	"auracare/pkg/testutil"
)

type DirectorySuite struct {
	suite.Suite
	manager *auth.Manager
}

func (s *DirectorySuite) SetupTest() {
	s.manager = auth.NewManager(context.Background(), session.NewInMemoryStore(), testutil.Logger(), nil)
}

func TestDirectorySuite(t *testing.T) {
	suite.Run(t, new(DirectorySuite))
}

func (s *DirectorySuite) newService(backend http.Handler) (*Service, *httptest.Server) {
	server := httptest.NewServer(backend)
	gw := gateway.NewClient(gateway.Options{
		BaseURL:     server.URL,
		Tokens:      s.manager,
		Invalidator: s.manager,
		Logger:      testutil.Logger(),
	})
	return NewService(gw, s.manager, testutil.Logger()), server
}

func (s *DirectorySuite) loginReceiver() {
	s.manager.Login(context.Background(), domain.Identity{ID: "u-1", Role: domain.RoleReceiver}, "tok")
}

func (s *DirectorySuite) TestFeedsArePublic() {
	service, server := s.newService(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Empty(r.Header.Get("Authorization"), "the approved feeds need no session")
		w.Write([]byte(`[{"_id": "d-1", "status": "approved"}]`))
	}))
	defer server.Close()

	donors, err := service.ApprovedDonors(context.Background())
	s.Require().NoError(err)
	s.Len(donors, 1)

	receivers, err := service.ApprovedReceivers(context.Background())
	s.Require().NoError(err)
	s.Len(receivers, 1)
}

func (s *DirectorySuite) TestContactDonor() {
	s.Run("non-receivers are refused without a network call", func() {
		var hits int32
		service, server := s.newService(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
		}))
		defer server.Close()

		s.manager.Login(context.Background(), domain.Identity{ID: "u-1", Role: domain.RoleDonor}, "tok")

		err := service.ContactDonor(context.Background(), "d-9")
		s.True(derrors.Is(err, derrors.CodeForbidden))
		s.Zero(atomic.LoadInt32(&hits))
	})

	s.Run("an unapproved receiver profile is refused", func() {
		mux := http.NewServeMux()
		var contacted int32
		mux.HandleFunc("/receivers/me/u-1", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"_id": "r-1", "status": "pending"}`))
		})
		mux.HandleFunc("/contact-donor", func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&contacted, 1)
		})
		service, server := s.newService(mux)
		defer server.Close()

		s.loginReceiver()

		err := service.ContactDonor(context.Background(), "d-9")
		s.True(derrors.Is(err, derrors.CodeForbidden))
		s.Zero(atomic.LoadInt32(&contacted))
	})

	s.Run("a missing receiver record is refused", func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/receivers/me/u-1", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		service, server := s.newService(mux)
		defer server.Close()

		s.loginReceiver()

		err := service.ContactDonor(context.Background(), "d-9")
		s.True(derrors.Is(err, derrors.CodeForbidden))
	})

	s.Run("an approved receiver sends the directional request", func() {
		mux := http.NewServeMux()
		var gotBody map[string]string
		mux.HandleFunc("/receivers/me/u-1", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"_id": "r-1", "status": "approved"}`))
		})
		mux.HandleFunc("/contact-donor", func(w http.ResponseWriter, r *http.Request) {
			s.Require().NoError(json.NewDecoder(r.Body).Decode(&gotBody))
			w.Write([]byte(`{}`))
		})
		service, server := s.newService(mux)
		defer server.Close()

		s.loginReceiver()

		s.Require().NoError(service.ContactDonor(context.Background(), "d-9"))
		s.Equal("d-9", gotBody["donorUserId"])
		s.Equal("u-1", gotBody["receiverUserId"])
	})
}

func (s *DirectorySuite) TestDonorRequests() {
	service, server := s.newService(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/donor/requests/u-1", r.URL.Path)
		w.Write([]byte(`[{"_id": "c-1", "donorId": "u-1", "receiverId": "u-2"}]`))
	}))
	defer server.Close()

	s.manager.Login(context.Background(), domain.Identity{ID: "u-1", Role: domain.RoleDonor}, "tok")

	requests, err := service.DonorRequests(context.Background(), "u-1")
	s.Require().NoError(err)
	s.Require().Len(requests, 1)
	s.Equal("u-2", requests[0].ReceiverID)
}

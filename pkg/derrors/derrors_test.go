package derrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
)

type DerrorsSuite struct {
	suite.Suite
}

func TestDerrorsSuite(t *testing.T) {
	suite.Run(t, new(DerrorsSuite))
}

func (s *DerrorsSuite) TestCodeExtraction() {
	err := New(CodeForbidden, "Unauthorized Access")

	s.True(Is(err, CodeForbidden))
	s.False(Is(err, CodeNotFound))
	s.Equal(CodeForbidden, CodeOf(err))
	s.Equal("Unauthorized Access", MessageOf(err))
}

func (s *DerrorsSuite) TestWrappedErrors() {
	cause := errors.New("connection refused")
	err := Wrap(CodeUnavailable, "Something went wrong. Please try again later.", cause)

	s.ErrorIs(err, cause)
	s.True(Is(fmt.Errorf("loading queue: %w", err), CodeUnavailable), "codes survive further wrapping")
}

func (s *DerrorsSuite) TestUncodedErrorDefaults() {
	err := errors.New("raw internal detail")

	s.Equal(CodeInternal, CodeOf(err))
	s.Equal("Something went wrong. Please try again later.", MessageOf(err), "raw error text never leaks to the UI")
}

func (s *DerrorsSuite) TestToHTTPStatus() {
	cases := map[Code]int{
		CodeValidation:      http.StatusBadRequest,
		CodeUnauthenticated: http.StatusUnauthorized,
		CodeForbidden:       http.StatusForbidden,
		CodeNotFound:        http.StatusNotFound,
		CodeConflict:        http.StatusConflict,
		CodeUnavailable:     http.StatusServiceUnavailable,
		CodeInternal:        http.StatusInternalServerError,
	}
	for code, status := range cases {
		s.Equal(status, ToHTTPStatus(code))
	}
}

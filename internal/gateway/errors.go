package gateway

import (
	"net/http"

	"auracare/pkg/derrors"
)

// ResultError translates a failed Result into a coded domain error so
// workflow callers can branch on the taxonomy without looking at raw status
// codes. Returns nil for successful results.
func ResultError(res Result) error {
	if res.OK {
		return nil
	}
	message := res.ErrorMessage
	switch {
	case res.StatusCode == http.StatusUnauthorized:
		return derrors.New(derrors.CodeUnauthenticated, message)
	case res.StatusCode == http.StatusForbidden:
		return derrors.New(derrors.CodeForbidden, message)
	case res.StatusCode == http.StatusNotFound:
		return derrors.New(derrors.CodeNotFound, message)
	case res.StatusCode == http.StatusConflict:
		return derrors.New(derrors.CodeConflict, message)
	case res.StatusCode == http.StatusBadRequest:
		return derrors.New(derrors.CodeValidation, message)
	case res.StatusCode == 0 || res.StatusCode >= 500:
		return derrors.New(derrors.CodeUnavailable, message)
	default:
		return derrors.New(derrors.CodeInternal, message)
	}
}

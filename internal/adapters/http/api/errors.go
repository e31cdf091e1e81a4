package api

import (
	"errors"
	"net/http"

	"github.com/okian/gamemash/internal/errs"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrLimitExceeded = errors.New("limit exceeded")
)

// classify maps a domain error to an HTTP status and a stable error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrInvalidInput):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, errs.ErrInsufficientCatalog):
		return http.StatusConflict, "insufficient_catalog"
	case errors.Is(err, errs.ErrPersistence):
		return http.StatusServiceUnavailable, "persistence_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// writeDomainError writes err with the status classify picks for it.
func writeDomainError(w http.ResponseWriter, op string, err error) {
	status, code := classify(err)
	writeError(w, status, code, errs.Wrap(op, err))
}

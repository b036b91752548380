// Package apierror maps the domain's apperrors.Kind onto HTTP status codes
// and a JSON error body, grounded on the teacher's src/errors.APIError
// shape (Code/Message/Status) but driven off the typed Kind spec §7 defines
// instead of a fixed set of banking-specific constructors.
package apierror

import (
	"net/http"

	"core-banking-ledger/internal/pkg/apperrors"
)

type Body struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FromError maps err to the (status, body) pair the handler writes. Errors
// that aren't a *apperrors.LedgerError are treated as KindInternal and never
// leak their message to the client.
func FromError(err error) (int, Body) {
	kind := apperrors.KindOf(err)
	status := statusFor(kind)
	if kind == apperrors.KindInternal {
		return status, Body{Code: kind.String(), Message: "internal error"}
	}
	return status, Body{Code: kind.String(), Message: err.Error()}
}

func statusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindInvalidInput:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindPreconditionFailed:
		return http.StatusPreconditionFailed
	case apperrors.KindDuplicate:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

package apierror_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"core-banking-ledger/internal/api/apierror"
	"core-banking-ledger/internal/pkg/apperrors"
)

func TestFromError_MapsKindToStatus(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid input", apperrors.InvalidInput(apperrors.ErrInvalidAmount, "bad amount"), http.StatusBadRequest},
		{"not found", apperrors.NotFound(apperrors.ErrAccountNotFound, "no such account"), http.StatusNotFound},
		{"conflict", apperrors.Conflict(apperrors.ErrSerializationFailure, "retry"), http.StatusConflict},
		{"forbidden", apperrors.Forbidden("not an employee"), http.StatusForbidden},
		{"precondition failed", apperrors.PreconditionFailed(apperrors.ErrInsufficientFunds, "low funds"), http.StatusPreconditionFailed},
		{"duplicate", apperrors.Duplicate("already used"), http.StatusConflict},
		{"internal", apperrors.Internal("boom"), http.StatusInternalServerError},
		{"unclassified error", errors.New("raw error"), http.StatusInternalServerError},
	}

	for _, c := range cases {
		status, body := apierror.FromError(c.err)
		assert.Equal(t, c.status, status, c.name)
		assert.NotEmpty(t, body.Code, c.name)
	}
}

func TestFromError_InternalNeverLeaksMessage(t *testing.T) {
	_, body := apierror.FromError(apperrors.Internal("sensitive detail: password=hunter2"))
	assert.Equal(t, "internal error", body.Message)
}

func TestFromError_BusinessErrorsKeepMessage(t *testing.T) {
	_, body := apierror.FromError(apperrors.NotFound(apperrors.ErrAccountNotFound, "account 42 not found"))
	assert.Equal(t, "account 42 not found", body.Message)
}

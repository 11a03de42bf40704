package api

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/onusone/stakeledger/internal/api/respond"
	"github.com/onusone/stakeledger/internal/auth"
	"github.com/onusone/stakeledger/internal/model"
)

// writeServiceError maps service-layer sentinel errors onto HTTP statuses.
// Unknown errors are reported as 500 without leaking internals beyond the
// error text.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrAlreadyInitialized):
		respond.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrMissingCaller), errors.Is(err, auth.ErrInvalidCaller):
		respond.WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, model.ErrUnauthorized):
		respond.WriteError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, model.ErrValidation),
		errors.Is(err, model.ErrInvalidPolicy),
		errors.Is(err, model.ErrClockSkew):
		respond.WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrEmergencyHalt),
		errors.Is(err, model.ErrBelowMinimum),
		errors.Is(err, model.ErrAboveMaximum),
		errors.Is(err, model.ErrDailyLimitExceeded),
		errors.Is(err, model.ErrTotalLimitExceeded):
		respond.WriteError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, err.Error())
	default:
		respond.WriteInternalError(w, err.Error())
	}
}

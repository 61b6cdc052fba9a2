package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/scmexpert/internal/common"
	"github.com/dmitrijs2005/scmexpert/internal/server/webutil"
)

const msgNotAuthenticated = "Not authenticated"

// toHTTPError maps service sentinels to status codes and client messages.
// Unknown errors become a 500 whose cause is only logged.
func toHTTPError(err error) *webutil.HTTPError {
	var httpErr *webutil.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	switch {
	case errors.Is(err, common.ErrMissingToken), errors.Is(err, common.ErrInvalidToken):
		return webutil.NewHTTPErrorWrap(http.StatusUnauthorized, msgNotAuthenticated, err)
	case errors.Is(err, common.ErrorUnauthorized):
		return webutil.NewHTTPErrorWrap(http.StatusUnauthorized, "Incorrect email or password", err)
	case errors.Is(err, common.ErrInactiveUser):
		return webutil.NewHTTPErrorWrap(http.StatusBadRequest, "Inactive user", err)
	case errors.Is(err, common.ErrForbidden):
		return webutil.NewHTTPErrorWrap(http.StatusForbidden, "Not enough permissions", err)
	case errors.Is(err, common.ErrDuplicateEmail):
		return webutil.NewHTTPErrorWrap(http.StatusConflict, "Email already registered", err)
	case errors.Is(err, common.ErrDuplicateShipmentID):
		return webutil.NewHTTPErrorWrap(http.StatusConflict, "Shipment ID already exists", err)
	case errors.Is(err, common.ErrPasswordMismatch):
		return webutil.NewHTTPErrorWrap(http.StatusBadRequest, "Passwords do not match", err)
	case errors.Is(err, common.ErrInvalidOrExpiredResetToken):
		return webutil.NewHTTPErrorWrap(http.StatusBadRequest, "Invalid or expired token", err)
	case errors.Is(err, common.ErrSelfModification):
		return webutil.NewHTTPErrorWrap(http.StatusBadRequest, "You cannot modify your own account", err)
	case errors.Is(err, common.ErrValidation):
		return webutil.ErrBadRequestWrap(err.Error(), err)
	case errors.Is(err, common.ErrorNotFound):
		return webutil.NewHTTPErrorWrap(http.StatusNotFound, "Resource not found", err)
	default:
		return webutil.ErrInternalServerWrap("request failed", err)
	}
}

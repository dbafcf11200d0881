package http

import (
	"errors"
	"net/http"

	"backoffice/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusFor maps an error returned by a handler to a status code and a
// message safe to show to the caller.
func statusFor(err error) (int, string) {
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		if msg, ok := httpErr.Message.(string); ok {
			return httpErr.Code, msg
		}
		return httpErr.Code, http.StatusText(httpErr.Code)
	case errors.Is(err, errs.ErrTransientStore):
		return http.StatusServiceUnavailable, "Temporarily unavailable, retry the request"
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, errs.ErrLimitExceeded):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, errs.ErrPermissionDenied):
		return http.StatusForbidden, err.Error()
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// ErrorHandler writes every error as an Error body. RequestLogger records
// the outcome.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, msg := statusFor(err)
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	body := Error{Code: code, Message: msg}
	var conflict *errs.ConflictError
	if errors.As(err, &conflict) {
		body.Observed = conflict.Observed
	}
	_ = c.JSON(code, body)
}

package webutil

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/scmexpert/internal/logging"
)

// AppHandler is a handler that reports failure by returning an error.
type AppHandler func(w http.ResponseWriter, r *http.Request) error

// MakeHandler adapts an AppHandler to http.HandlerFunc. A returned
// *HTTPError is sent with its code and message; any other error becomes a
// 500 and is logged with its cause.
func MakeHandler(logger logging.Logger, handler AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := handler(w, r)
		if err == nil {
			return
		}

		ctx := r.Context()
		var httpErr *HTTPError
		var publicMessage string
		var statusCode int

		switch {
		case errors.As(err, &httpErr):
			statusCode = httpErr.Code
			publicMessage = httpErr.Message
			args := []any{"code", httpErr.Code, "msg", httpErr.Message, "path", r.URL.Path, "method", r.Method}
			if cause := errors.Unwrap(httpErr); cause != nil && cause.Error() != publicMessage {
				args = append(args, "cause", cause)
			}
			if statusCode >= 500 {
				logger.Error(ctx, "server error response", args...)
			} else {
				logger.Warn(ctx, "client error response", args...)
			}

		default:
			statusCode = http.StatusInternalServerError
			publicMessage = msgInternalServer
			logger.Error(ctx, "unhandled internal error", "path", r.URL.Path, "method", r.Method, "error", err)
		}

		if HasResponseWriterSentHeader(w) {
			logger.Warn(ctx, "handler returned error after writing response",
				"path", r.URL.Path,
				"method", r.Method,
				"error", err,
			)
			return
		}

		RespondWithError(w, statusCode, publicMessage)
	}
}

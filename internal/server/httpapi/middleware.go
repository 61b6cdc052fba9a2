package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/scmexpert/internal/common"
	"github.com/dmitrijs2005/scmexpert/internal/logging"
	"github.com/dmitrijs2005/scmexpert/internal/server/auth"
	"github.com/dmitrijs2005/scmexpert/internal/server/webutil"
)

// CookieName is the cookie carrying the access token for browser sessions.
const CookieName = common.AccessTokenCookieName

// Gate checks a resolved principal.
type Gate func(p *auth.Principal) (*auth.Principal, error)

type ctxKey struct{}

func withPrincipal(ctx context.Context, p *auth.Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// PrincipalFromContext returns the principal stored by the auth middleware,
// or nil outside protected routes.
func PrincipalFromContext(ctx context.Context) *auth.Principal {
	p, _ := ctx.Value(ctxKey{}).(*auth.Principal)
	return p
}

// authenticate resolves the caller from the access_token cookie or the
// Authorization header, requires an active user and then applies gates.
func (a *API) authenticate(gates ...Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return a.wrap(func(w http.ResponseWriter, r *http.Request) error {
			var cookieToken string
			if c, err := r.Cookie(CookieName); err == nil {
				cookieToken = c.Value
			}
			headerToken := auth.ExtractBearer(r.Header.Get(webutil.HeaderAuthorization))

			p, err := a.resolver.Resolve(r.Context(), cookieToken, headerToken)
			if err != nil {
				return err
			}
			if p, err = auth.RequireActive(p); err != nil {
				return err
			}
			for _, gate := range gates {
				gated, err := gate(p)
				if err != nil {
					a.logger.Warn(r.Context(), "access denied", "email", p.Email(), "path", r.URL.Path)
					return err
				}
				p = gated
			}

			next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), p)))
			return nil
		})
	}
}

// requestLogger logs one line per request after it completes.
func requestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				logger.Info(r.Context(), "request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

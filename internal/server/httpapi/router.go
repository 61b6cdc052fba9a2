package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/scmexpert/internal/server/auth"
	"github.com/dmitrijs2005/scmexpert/internal/server/webutil"
)

const RequestTimeout = 60 * time.Second

const (
	paramEmail      = "email"
	paramShipmentID = "shipmentID"
)

// NewRouter wires every route of the API.
func NewRouter(d Deps) http.Handler {
	a := newAPI(d)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(a.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(RequestTimeout))

	r.Get("/healthz", a.handleHealthCheck)

	// Public routes.
	r.Get("/", a.handleRoot)
	r.Post("/signup", a.wrap(a.handleSignup))
	r.Post("/login", a.wrap(a.handleLogin))
	r.Post("/token", a.wrap(a.handleToken))
	r.Get("/logout", a.wrap(a.handleLogout))
	r.Post("/forgot-password", a.wrap(a.handleForgotPassword))
	r.Get("/reset-password", a.wrap(a.handleResetPasswordForm))
	r.Post("/reset-password", a.wrap(a.handleResetPassword))

	// Any active user.
	r.Group(func(r chi.Router) {
		r.Use(a.authenticate())
		r.Get("/dashboard", a.wrap(a.handleDashboard))
		r.Get("/account", a.wrap(a.handleAccount))
		r.Get("/shipments", a.wrap(a.handleListShipments))
		r.Post("/shipments", a.wrap(a.handleCreateShipment))
		r.Get("/device-data", a.wrap(a.handleDeviceData))
	})

	// Administrators.
	r.Group(func(r chi.Router) {
		r.Use(a.authenticate(auth.RequireAdmin))
		r.Get("/admin-dashboard", a.wrap(a.handleAdminDashboard))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", a.wrap(a.handleListUsers))
			r.Route(pathWithParam("", paramEmail), func(r chi.Router) {
				r.Get("/", a.wrap(a.handleGetUser))
				r.Put("/", a.wrap(a.handleUpdateUser))
				r.Delete("/", a.wrap(a.handleDeleteUser))
				r.Post("/assign-admin", a.wrap(a.handleAssignAdmin))
			})
		})

		r.Post("/shipments/export", a.wrap(a.handleExportShipments))
		r.Put(pathWithParam("/shipments", paramShipmentID), a.wrap(a.handleUpdateShipment))
		r.Delete(pathWithParam("/shipments", paramShipmentID), a.wrap(a.handleDeleteShipment))
	})

	return r
}

func pathWithParam(basePath string, paramName string) string {
	return basePath + "/{" + paramName + "}"
}

// wrap turns an error-returning handler into an http.HandlerFunc, mapping
// service errors to HTTP responses.
func (a *API) wrap(h webutil.AppHandler) http.HandlerFunc {
	return webutil.MakeHandler(a.logger, func(w http.ResponseWriter, r *http.Request) error {
		err := h(w, r)
		if err == nil {
			return nil
		}
		httpErr := toHTTPError(err)
		if httpErr.Code == http.StatusUnauthorized {
			w.Header().Set(webutil.HeaderWWWAuthenticate, "Bearer")
		}
		return httpErr
	})
}

func (a *API) handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (a *API) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(webutil.HeaderContentType, webutil.ContentTypeTextPlainUTF8)
	if a.health != nil {
		if err := a.health(r.Context()); err != nil {
			a.logger.Warn(r.Context(), "health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("UNAVAILABLE"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/scmexpert/internal/server/models"
	"github.com/dmitrijs2005/scmexpert/internal/server/services"
	"github.com/dmitrijs2005/scmexpert/internal/server/webutil"
)

type dashboardResponse struct {
	User  *models.User   `json:"user"`
	Role  models.Role    `json:"role"`
	Users []*models.User `json:"users,omitempty"`
}

func (a *API) handleDashboard(w http.ResponseWriter, r *http.Request) error {
	p := PrincipalFromContext(r.Context())
	webutil.RespondWithJSON(w, http.StatusOK, dashboardResponse{User: p.User, Role: p.Role})
	return nil
}

func (a *API) handleAdminDashboard(w http.ResponseWriter, r *http.Request) error {
	p := PrincipalFromContext(r.Context())
	users, err := a.users.ListUsers(r.Context())
	if err != nil {
		return err
	}
	webutil.RespondWithJSON(w, http.StatusOK, dashboardResponse{User: p.User, Role: p.Role, Users: users})
	return nil
}

func (a *API) handleAccount(w http.ResponseWriter, r *http.Request) error {
	p := PrincipalFromContext(r.Context())
	user, err := a.users.Account(r.Context(), p.Email())
	if err != nil {
		return err
	}
	webutil.RespondWithJSON(w, http.StatusOK, user)
	return nil
}

func (a *API) handleListUsers(w http.ResponseWriter, r *http.Request) error {
	users, err := a.users.ListUsers(r.Context())
	if err != nil {
		return err
	}
	if users == nil {
		users = []*models.User{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, users)
	return nil
}

func (a *API) handleGetUser(w http.ResponseWriter, r *http.Request) error {
	user, err := a.users.GetUser(r.Context(), chi.URLParam(r, paramEmail))
	if err != nil {
		return err
	}
	webutil.RespondWithJSON(w, http.StatusOK, user)
	return nil
}

func (a *API) handleUpdateUser(w http.ResponseWriter, r *http.Request) error {
	var upd services.UserUpdate
	if err := webutil.DecodeJSON(r, &upd); err != nil {
		return err
	}

	actor := PrincipalFromContext(r.Context()).Email()
	if err := a.users.UpdateUser(r.Context(), actor, chi.URLParam(r, paramEmail), upd); err != nil {
		return err
	}
	webutil.RespondWithMessage(w, http.StatusOK, "User updated successfully")
	return nil
}

func (a *API) handleAssignAdmin(w http.ResponseWriter, r *http.Request) error {
	actor := PrincipalFromContext(r.Context()).Email()
	if err := a.users.AssignAdmin(r.Context(), actor, chi.URLParam(r, paramEmail)); err != nil {
		return err
	}
	webutil.RespondWithMessage(w, http.StatusOK, "Admin role assigned successfully")
	return nil
}

func (a *API) handleDeleteUser(w http.ResponseWriter, r *http.Request) error {
	actor := PrincipalFromContext(r.Context()).Email()
	if err := a.users.DeleteUser(r.Context(), actor, chi.URLParam(r, paramEmail)); err != nil {
		return err
	}
	webutil.RespondWithMessage(w, http.StatusOK, "User deleted successfully")
	return nil
}

package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/scmexpert/internal/server/models"
	"github.com/dmitrijs2005/scmexpert/internal/server/services"
	"github.com/dmitrijs2005/scmexpert/internal/server/webutil"
)

func (a *API) handleListShipments(w http.ResponseWriter, r *http.Request) error {
	list, err := a.shipments.List(r.Context())
	if err != nil {
		return err
	}
	if list == nil {
		list = []*models.Shipment{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, list)
	return nil
}

func (a *API) handleCreateShipment(w http.ResponseWriter, r *http.Request) error {
	var in models.ShipmentInput
	if err := webutil.DecodeJSON(r, &in); err != nil {
		return err
	}

	actor := PrincipalFromContext(r.Context()).Email()
	s, err := a.shipments.Create(r.Context(), actor, in)
	if err != nil {
		return err
	}
	webutil.RespondWithJSON(w, http.StatusCreated, s)
	return nil
}

func (a *API) handleUpdateShipment(w http.ResponseWriter, r *http.Request) error {
	var upd services.ShipmentUpdate
	if err := webutil.DecodeJSON(r, &upd); err != nil {
		return err
	}

	actor := PrincipalFromContext(r.Context()).Email()
	if err := a.shipments.Update(r.Context(), actor, chi.URLParam(r, paramShipmentID), upd); err != nil {
		return err
	}
	webutil.RespondWithMessage(w, http.StatusOK, "Shipment updated successfully")
	return nil
}

func (a *API) handleDeleteShipment(w http.ResponseWriter, r *http.Request) error {
	actor := PrincipalFromContext(r.Context()).Email()
	if err := a.shipments.Delete(r.Context(), actor, chi.URLParam(r, paramShipmentID)); err != nil {
		return err
	}
	webutil.RespondWithMessage(w, http.StatusOK, "Shipment deleted successfully")
	return nil
}

func (a *API) handleExportShipments(w http.ResponseWriter, r *http.Request) error {
	actor := PrincipalFromContext(r.Context()).Email()
	exp, err := a.shipments.Export(r.Context(), actor)
	if err != nil {
		return err
	}
	webutil.RespondWithJSON(w, http.StatusOK, exp)
	return nil
}

func (a *API) handleDeviceData(w http.ResponseWriter, r *http.Request) error {
	data, err := a.devices.List(r.Context(), r.URL.Query().Get("device_id"))
	if err != nil {
		return err
	}
	webutil.RespondWithJSON(w, http.StatusOK, data)
	return nil
}

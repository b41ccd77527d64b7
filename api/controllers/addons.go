package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/orcalabs/orcamentos-backend/api/responses"
	"github.com/orcalabs/orcamentos-backend/api/validators"
	"github.com/orcalabs/orcamentos-backend/internal/catalog"
	"github.com/orcalabs/orcamentos-backend/pkg/logger"
)

// AddonList returns add-ons, optionally filtered by a search term.
func AddonList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addons, err := svc.ListAddons(r.Context(), validators.QueryString(r, "search"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, addons)
	}
}

// AddonDetail returns one add-on.
func AddonDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addonID, err := validators.ParseUUIDParam(r, "addonId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addon, err := svc.GetAddon(r.Context(), addonID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, addon)
	}
}

type addonRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Enabled     *bool           `json:"enabled,omitempty"`
}

func (a addonRequest) toInput() catalog.AddonInput {
	return catalog.AddonInput{
		Name:        a.Name,
		Description: a.Description,
		Price:       a.Price,
		Enabled:     a.Enabled,
	}
}

// AddonCreate registers a new add-on.
func AddonCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addonRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addon, err := svc.CreateAddon(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, addon)
	}
}

// AddonUpdate updates an add-on.
func AddonUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addonID, err := validators.ParseUUIDParam(r, "addonId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addonRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addon, err := svc.UpdateAddon(r.Context(), addonID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, addon)
	}
}

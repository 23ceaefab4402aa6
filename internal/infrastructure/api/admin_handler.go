package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"store-locator-shopify-layer/internal/application"
	"store-locator-shopify-layer/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// AdminHandler serves the embedded admin UI. Routes expect the shop in the
// request context, set by the session middleware.
type AdminHandler struct {
	settings *application.SettingsService
	stores   *application.StoreService
	logger   zerolog.Logger
}

// NewAdminHandler creates the admin REST handler
func NewAdminHandler(settings *application.SettingsService, stores *application.StoreService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{settings: settings, stores: stores, logger: logger}
}

// RegisterRoutes mounts the admin routes on a router already guarded by session auth
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Get("/settings", h.getSettings)
	r.Put("/settings", h.updateSettings)
	r.Delete("/settings/google-maps-api-key", h.deleteGoogleMapsAPIKey)

	r.Get("/stores", h.listStores)
	r.Post("/stores", h.createStore)
	r.Put("/stores/{id}", h.updateStore)
	r.Delete("/stores/{id}", h.deleteStore)
}

type adminSettingsResponse struct {
	Shop             string  `json:"shop"`
	GoogleMapsAPIKey *string `json:"googleMapsApiKey"`
	StoreLocatorURL  *string `json:"storeLocatorUrl"`
}

type updateSettingsRequest struct {
	StoreLocatorURL  *string `json:"storeLocatorUrl"`
	GoogleMapsAPIKey *string `json:"googleMapsApiKey"`
}

type storeResponse struct {
	Success bool                  `json:"success"`
	Store   *domain.StoreLocation `json:"store"`
}

type storesResponse struct {
	Stores []*domain.StoreLocation `json:"stores"`
}

func (h *AdminHandler) getSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shop := domain.GetShopFromContext(ctx)

	settings := h.settings.GetSettings(ctx, shop)

	// Loading the page republishes the embed config; the page renders either way.
	if err := h.settings.SyncEmbedConfig(ctx, shop, settings); err != nil {
		h.logger.Warn().Err(err).Str("shop", shop).Msg("Embed config sync failed")
	}

	respond(w, http.StatusOK, adminSettingsResponse{
		Shop:             domain.ShopDomain(shop),
		GoogleMapsAPIKey: settings.GoogleMapsAPIKey,
		StoreLocatorURL:  settings.StoreLocatorURL,
	})
}

func (h *AdminHandler) updateSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shop := domain.GetShopFromContext(ctx)

	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, resultResponse{Success: false, Error: "Invalid request body"})
		return
	}

	err := h.settings.UpdateSettings(ctx, shop, domain.UpdateSettingsInput{
		StoreLocatorURL:  req.StoreLocatorURL,
		GoogleMapsAPIKey: req.GoogleMapsAPIKey,
	})
	if err != nil {
		respond(w, http.StatusInternalServerError, resultResponse{Success: false, Error: "Failed to save settings"})
		return
	}
	respond(w, http.StatusOK, resultResponse{Success: true})
}

func (h *AdminHandler) deleteGoogleMapsAPIKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shop := domain.GetShopFromContext(ctx)

	if err := h.settings.DeleteGoogleMapsAPIKey(ctx, shop); err != nil {
		h.logger.Error().Err(err).Str("shop", shop).Msg("Failed to delete Google Maps API key")
		respond(w, http.StatusInternalServerError, resultResponse{Success: false, Error: "Failed to delete API key"})
		return
	}
	respond(w, http.StatusOK, resultResponse{Success: true})
}

func (h *AdminHandler) listStores(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shop := domain.GetShopFromContext(ctx)

	stores, err := h.stores.ListForAdmin(ctx, shop)
	if err != nil {
		h.writeStoreError(w, shop, err)
		return
	}
	respond(w, http.StatusOK, storesResponse{Stores: stores})
}

func (h *AdminHandler) createStore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shop := domain.GetShopFromContext(ctx)

	input, err := decodeStoreRequest(r)
	if err != nil {
		respond(w, http.StatusBadRequest, resultResponse{Success: false, Error: err.Error()})
		return
	}

	store, err := h.stores.Create(ctx, shop, input)
	if err != nil {
		h.writeStoreError(w, shop, err)
		return
	}
	respond(w, http.StatusCreated, storeResponse{Success: true, Store: store})
}

func (h *AdminHandler) updateStore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shop := domain.GetShopFromContext(ctx)
	id := chi.URLParam(r, "id")

	input, err := decodeStoreRequest(r)
	if err != nil {
		respond(w, http.StatusBadRequest, resultResponse{Success: false, Error: err.Error()})
		return
	}

	store, err := h.stores.Update(ctx, shop, id, input)
	if err != nil {
		h.writeStoreError(w, shop, err)
		return
	}
	respond(w, http.StatusOK, storeResponse{Success: true, Store: store})
}

func (h *AdminHandler) deleteStore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shop := domain.GetShopFromContext(ctx)

	if err := h.stores.Delete(ctx, shop, chi.URLParam(r, "id")); err != nil {
		h.writeStoreError(w, shop, err)
		return
	}
	respond(w, http.StatusOK, resultResponse{Success: true})
}

func (h *AdminHandler) writeStoreError(w http.ResponseWriter, shop string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respond(w, http.StatusNotFound, resultResponse{Success: false, Error: "Store not found"})
	case errors.Is(err, domain.ErrMissingShop):
		respond(w, http.StatusUnauthorized, resultResponse{Success: false, Error: "Unauthorized"})
	default:
		h.logger.Error().Err(err).Str("shop", shop).Msg("Store operation failed")
		respond(w, http.StatusInternalServerError, resultResponse{Success: false, Error: "Internal server error"})
	}
}

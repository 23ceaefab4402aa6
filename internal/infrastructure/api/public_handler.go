package api

import (
	"errors"
	"net/http"

	"store-locator-shopify-layer/internal/application"
	"store-locator-shopify-layer/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// PublicHandler serves the storefront feed polled by the theme embed block.
// Every response carries an open CORS policy so the widget can read error bodies.
type PublicHandler struct {
	settings *application.SettingsService
	stores   *application.StoreService
	logger   zerolog.Logger
}

// NewPublicHandler creates the storefront feed handler
func NewPublicHandler(settings *application.SettingsService, stores *application.StoreService, logger zerolog.Logger) *PublicHandler {
	return &PublicHandler{settings: settings, stores: stores, logger: logger}
}

// RegisterRoutes mounts GET and OPTIONS for /api/settings and /api/stores
func (h *PublicHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(feedCORS)
		r.Get("/settings", h.getSettings)
		r.Options("/settings", preflight)
		r.Get("/stores", h.listStores)
		r.Options("/stores", preflight)
	})
}

func feedCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		next.ServeHTTP(w, r)
	})
}

func preflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// feedStore is the storefront view of a store location
type feedStore struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	ProductID    *string  `json:"productId"`
	CollectionID *string  `json:"collectionId"`
}

func (h *PublicHandler) getSettings(w http.ResponseWriter, r *http.Request) {
	shop := domain.NormalizeShop(r.URL.Query().Get("shop"))
	if shop == "" {
		respond(w, http.StatusBadRequest, errorResponse{Error: "Shop parameter is required"})
		return
	}

	settings, found, err := h.settings.PublicSettings(r.Context(), shop)
	if err != nil {
		h.logger.Error().Err(err).Str("shop", shop).Msg("Failed to resolve public settings")
		respond(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		return
	}
	if !found {
		respond(w, http.StatusNotFound, errorResponse{Error: "Settings not found for this shop"})
		return
	}

	respond(w, http.StatusOK, settings)
}

func (h *PublicHandler) listStores(w http.ResponseWriter, r *http.Request) {
	shop := domain.NormalizeShop(r.URL.Query().Get("shop"))
	stores, err := h.stores.ListForFeed(r.Context(), shop)
	if errors.Is(err, domain.ErrMissingShop) {
		respond(w, http.StatusBadRequest, errorResponse{Error: "Shop parameter is required"})
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("shop", shop).Msg("Failed to list stores for feed")
		respond(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		return
	}

	out := make([]feedStore, 0, len(stores))
	for _, s := range stores {
		out = append(out, feedStore{
			ID:           s.ID,
			Name:         s.Name,
			Address:      s.Address,
			Latitude:     s.Latitude,
			Longitude:    s.Longitude,
			ProductID:    s.ProductID,
			CollectionID: s.CollectionID,
		})
	}
	respond(w, http.StatusOK, out)
}

package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"store-locator-shopify-layer/internal/domain"
	"store-locator-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// Metafield coordinates used by the app
const (
	MetafieldNamespace    = "store_locator"
	GoogleMapsAPIKeyKey   = "google_maps_api_key"
	LegacyLocatorURLKey   = "store_locator_url"
	SingleLineTextType    = "single_line_text_field"
	embedNamespace        = "app"
	availabilityNamespace = "availability"
)

// SettingsService resolves and updates the settings of a shop.
// The Google Maps key lives in a shop metafield; the locator URL lives in the local record.
type SettingsService struct {
	settingsRepo ports.SettingsRepository
	metafields   ports.MetafieldStoreProvider
	defaults     domain.Defaults
	logger       zerolog.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(
	settingsRepo ports.SettingsRepository,
	metafields ports.MetafieldStoreProvider,
	defaults domain.Defaults,
	logger zerolog.Logger,
) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		metafields:   metafields,
		defaults:     defaults,
		logger:       logger,
	}
}

// GetSettings returns the effective settings for the admin view.
// The local record is created when missing. It never fails: lookup errors are logged
// and the affected field falls back.
func (s *SettingsService) GetSettings(ctx context.Context, shop string) domain.EffectiveSettings {
	shop = domain.NormalizeShop(shop)
	settings, err := s.resolve(ctx, shop, s.settingsRepo.Ensure)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to load local settings, using defaults")
	}
	return settings
}

// PublicSettings resolves settings for the storefront feed without creating a record.
// A local store error is returned; found is false when neither field resolved.
func (s *SettingsService) PublicSettings(ctx context.Context, shop string) (domain.EffectiveSettings, bool, error) {
	shop = domain.NormalizeShop(shop)
	if shop == "" {
		return domain.EffectiveSettings{}, false, domain.ErrMissingShop
	}
	settings, err := s.resolve(ctx, shop, s.settingsRepo.GetByShop)
	if err != nil {
		return domain.EffectiveSettings{}, false, err
	}
	return settings, !settings.IsEmpty(), nil
}

// resolve runs the local lookup and the remote key lookup concurrently, then applies
// the locator URL fallback chain: local record, legacy metafield, configured default.
// The returned settings are usable even when err is set.
func (s *SettingsService) resolve(
	ctx context.Context,
	shop string,
	load func(context.Context, string) (*domain.ShopSettings, error),
) (domain.EffectiveSettings, error) {
	var (
		wg       sync.WaitGroup
		local    *domain.ShopSettings
		localErr error
		apiKey   *string
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		local, localErr = load(ctx, shop)
	}()
	go func() {
		defer wg.Done()
		apiKey = s.remoteValue(ctx, shop, GoogleMapsAPIKeyKey)
	}()
	wg.Wait()

	settings := domain.EffectiveSettings{GoogleMapsAPIKey: apiKey}
	if localErr == nil && local != nil && local.StoreLocatorURL != nil && *local.StoreLocatorURL != "" {
		settings.StoreLocatorURL = local.StoreLocatorURL
		return settings, nil
	}

	settings.StoreLocatorURL = s.remoteValue(ctx, shop, LegacyLocatorURLKey)
	if settings.StoreLocatorURL == nil {
		settings.StoreLocatorURL = s.defaults.LocatorURLFor(shop)
	}
	if localErr != nil {
		return settings, fmt.Errorf("failed to load settings for %s: %w", shop, localErr)
	}
	return settings, nil
}

// remoteValue reads a shop metafield value, nil on absence or any error
func (s *SettingsService) remoteValue(ctx context.Context, shop string, key string) *string {
	store, err := s.metafields.ForShop(ctx, shop)
	if err != nil {
		if errors.Is(err, domain.ErrNoSession) {
			s.logger.Debug().Str("shop", shop).Str("key", key).Msg("No session, skipping metafield lookup")
		} else {
			s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to get metafield store")
		}
		return nil
	}

	mf, err := store.GetShopMetafield(ctx, MetafieldNamespace, key)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Str("key", key).Msg("Failed to read metafield")
		return nil
	}
	if mf == nil || mf.Value == "" {
		return nil
	}
	return &mf.Value
}

// UpdateSettings applies a partial update. Every requested sub-write is attempted;
// failures are joined into the returned error and applied writes are not rolled back.
func (s *SettingsService) UpdateSettings(ctx context.Context, shop string, input domain.UpdateSettingsInput) error {
	shop = domain.NormalizeShop(shop)
	if shop == "" {
		return domain.ErrMissingShop
	}

	var errs []error

	if input.StoreLocatorURL != nil {
		url := domain.OptionalString(strings.TrimSpace(*input.StoreLocatorURL))
		if err := s.settingsRepo.SetStoreLocatorURL(ctx, shop, url); err != nil {
			errs = append(errs, fmt.Errorf("failed to save store locator url: %w", err))
		}
	}

	if input.GoogleMapsAPIKey != nil {
		var err error
		if key := strings.TrimSpace(*input.GoogleMapsAPIKey); key == "" {
			err = s.DeleteGoogleMapsAPIKey(ctx, shop)
		} else {
			err = s.setGoogleMapsAPIKey(ctx, shop, key)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}

	if err := s.SyncEmbedConfig(ctx, shop, s.GetSettings(ctx, shop)); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		err := errors.Join(errs...)
		s.logger.Error().Err(err).Str("shop", shop).Msg("Settings update failed")
		return err
	}

	s.logger.Info().
		Str("shop", shop).
		Bool("storeLocatorUrl", input.StoreLocatorURL != nil).
		Bool("googleMapsApiKey", input.GoogleMapsAPIKey != nil).
		Msg("Settings updated")
	return nil
}

func (s *SettingsService) setGoogleMapsAPIKey(ctx context.Context, shop string, key string) error {
	store, err := s.metafields.ForShop(ctx, shop)
	if err != nil {
		return fmt.Errorf("failed to get metafield store: %w", err)
	}

	userErrors, err := store.SetShopMetafields(ctx, []ports.MetafieldInput{{
		Namespace: MetafieldNamespace,
		Key:       GoogleMapsAPIKeyKey,
		Type:      SingleLineTextType,
		Value:     key,
	}})
	if err != nil {
		return fmt.Errorf("failed to set google maps api key: %w", err)
	}
	return userErrorsToError("set google maps api key", userErrors)
}

// DeleteGoogleMapsAPIKey removes the key metafield. A missing metafield counts as deleted.
func (s *SettingsService) DeleteGoogleMapsAPIKey(ctx context.Context, shop string) error {
	shop = domain.NormalizeShop(shop)
	store, err := s.metafields.ForShop(ctx, shop)
	if err != nil {
		return fmt.Errorf("failed to get metafield store: %w", err)
	}

	mf, err := store.GetShopMetafield(ctx, MetafieldNamespace, GoogleMapsAPIKeyKey)
	if err != nil {
		return fmt.Errorf("failed to look up google maps api key: %w", err)
	}
	if mf == nil || mf.ID == "" {
		return nil
	}

	userErrors, err := store.DeleteMetafield(ctx, mf.ID)
	if err != nil {
		return fmt.Errorf("failed to delete google maps api key: %w", err)
	}
	if err := userErrorsToError("delete google maps api key", userErrors); err != nil {
		return err
	}

	s.logger.Info().Str("shop", shop).Msg("Google Maps API key deleted")
	return nil
}

// SyncEmbedConfig publishes the effective settings to the app-installation metafields
// read by the theme embed block. An embed field whose setting resolved to nil is deleted
// so the block never serves a stale value.
func (s *SettingsService) SyncEmbedConfig(ctx context.Context, shop string, settings domain.EffectiveSettings) error {
	store, err := s.metafields.ForShop(ctx, shop)
	if err != nil {
		return fmt.Errorf("failed to get metafield store: %w", err)
	}

	inputs := []ports.MetafieldInput{{
		Namespace: availabilityNamespace,
		Key:       "store_locator",
		Type:      "boolean",
		Value:     "true",
	}}
	var stale []string
	if settings.GoogleMapsAPIKey == nil {
		stale = append(stale, GoogleMapsAPIKeyKey)
	} else {
		inputs = append(inputs, ports.MetafieldInput{
			Namespace: embedNamespace,
			Key:       GoogleMapsAPIKeyKey,
			Type:      SingleLineTextType,
			Value:     *settings.GoogleMapsAPIKey,
		})
	}
	if settings.StoreLocatorURL == nil {
		stale = append(stale, LegacyLocatorURLKey)
	} else {
		inputs = append(inputs, ports.MetafieldInput{
			Namespace: embedNamespace,
			Key:       LegacyLocatorURLKey,
			Type:      "url",
			Value:     *settings.StoreLocatorURL,
		})
	}
	if s.defaults.AppURL != "" {
		inputs = append(inputs, ports.MetafieldInput{
			Namespace: embedNamespace,
			Key:       "app_url",
			Type:      SingleLineTextType,
			Value:     s.defaults.AppURL,
		})
	}

	var errs []error
	userErrors, err := store.SetAppInstallationMetafields(ctx, inputs)
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to sync embed config: %w", err))
	} else if err := userErrorsToError("sync embed config", userErrors); err != nil {
		errs = append(errs, err)
	}

	for _, key := range stale {
		if err := s.deleteEmbedField(ctx, store, key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// deleteEmbedField removes an app-installation embed metafield. A missing metafield counts as deleted.
func (s *SettingsService) deleteEmbedField(ctx context.Context, store ports.MetafieldStore, key string) error {
	mf, err := store.GetAppInstallationMetafield(ctx, embedNamespace, key)
	if err != nil {
		return fmt.Errorf("failed to look up embed %s: %w", key, err)
	}
	if mf == nil || mf.ID == "" {
		return nil
	}

	userErrors, err := store.DeleteMetafield(ctx, mf.ID)
	if err != nil {
		return fmt.Errorf("failed to delete embed %s: %w", key, err)
	}
	return userErrorsToError("delete embed "+key, userErrors)
}

func userErrorsToError(op string, userErrors []ports.UserError) error {
	if len(userErrors) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(userErrors))
	for _, ue := range userErrors {
		msgs = append(msgs, ue.Message)
	}
	return fmt.Errorf("failed to %s: %s", op, strings.Join(msgs, "; "))
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"store-locator-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
)

// Authenticator resolves a session token to the shop's session
type Authenticator interface {
	Authenticate(ctx context.Context, sessionToken string) (*domain.Session, error)
}

// SessionAuthMiddleware requires an App Bridge session token and puts the shop in the context
func SessionAuthMiddleware(auth Authenticator, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := strings.TrimSpace(r.Header.Get("Authorization"))
			if !strings.HasPrefix(authz, "Bearer ") {
				unauthorized(w, "missing bearer token")
				return
			}
			token := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
			if token == "" {
				unauthorized(w, "empty bearer token")
				return
			}

			session, err := auth.Authenticate(r.Context(), token)
			if errors.Is(err, domain.ErrUnauthorized) {
				logger.Debug().Err(err).Msg("Rejected session token")
				unauthorized(w, "invalid session token")
				return
			}
			if err != nil {
				logger.Error().Err(err).Msg("Failed to authenticate session")
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"success":false,"error":"Internal server error"}`))
				return
			}

			ctx := domain.WithShop(r.Context(), session.Shop)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	// App Bridge fetches a fresh token and retries when it sees this header
	w.Header().Set("X-Shopify-Retry-Invalid-Session-Request", "1")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"success":false,"error":"unauthorized","message":"` + message + `"}`))
}

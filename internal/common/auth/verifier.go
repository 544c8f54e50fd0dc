// internal/common/auth/verifier.go
package auth

import (
	"context"
	"fmt"
	"time"

	"sahachari/internal/common/config"
	"sahachari/internal/models"

	firebase "firebase.google.com/go/v4"
)

// Verifier checks a bearer token with an identity provider. Any failure,
// whatever its cause, is reported as an Unauthorized StandardError.
type Verifier interface {
	Verify(ctx context.Context, token string) (*models.Session, error)
}

// NewFromConfig builds the verifier selected by cfg.Provider. app is required
// for the firebase provider only.
func NewFromConfig(ctx context.Context, cfg config.AuthConfig, app *firebase.App) (Verifier, error) {
	switch models.AuthProvider(cfg.Provider) {
	case models.ProviderFirebase:
		if app == nil {
			return nil, fmt.Errorf("firebase app is required for the firebase auth provider")
		}
		client, err := app.Auth(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create firebase auth client: %w", err)
		}
		return NewFirebaseVerifier(client), nil
	case models.ProviderKeycloak:
		return NewKeycloakVerifier(
			cfg.Keycloak.URL,
			cfg.Keycloak.Realm,
			cfg.Keycloak.ClientID,
			cfg.Keycloak.ClientSecret,
			config.GetDuration(cfg.Keycloak.Timeout),
		), nil
	default:
		return nil, fmt.Errorf("unsupported auth provider %q", cfg.Provider)
	}
}

// now is swapped in tests.
var now = func() time.Time { return time.Now().UTC() }

// internal/common/auth/keycloak.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sahachari/internal/common/errors"
	commonhttp "sahachari/internal/common/http"
	"sahachari/internal/models"
)

// KeycloakVerifier validates access tokens through the realm's OIDC
// introspection endpoint.
type KeycloakVerifier struct {
	baseURL      string
	realm        string
	clientID     string
	clientSecret string
	httpClient   *commonhttp.Client
}

// NewKeycloakVerifier creates a new instance of KeycloakVerifier.
func NewKeycloakVerifier(baseURL, realm, clientID, clientSecret string, timeout time.Duration) *KeycloakVerifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &KeycloakVerifier{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		realm:        realm,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   commonhttp.NewClient(timeout),
	}
}

// Verify introspects token once. Inactive, unreachable and malformed
// responses are all Unauthorized.
func (k *KeycloakVerifier) Verify(ctx context.Context, token string) (*models.Session, error) {
	info, err := k.introspect(ctx, token)
	if err != nil {
		return nil, errors.NewUnauthorizedError(err.Error())
	}

	if !info.Active {
		return nil, errors.NewUnauthorizedError("token is not active")
	}
	if info.Sub == "" {
		return nil, errors.NewUnauthorizedError("token has no subject")
	}

	return &models.Session{
		UserID:     info.Sub,
		Email:      info.Email,
		Provider:   models.ProviderKeycloak,
		VerifiedAt: now(),
	}, nil
}

func (k *KeycloakVerifier) introspect(ctx context.Context, token string) (*TokenInfo, error) {
	introspectURL := fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token/introspect", k.baseURL, k.realm)

	data := url.Values{}
	data.Set("token", token)
	data.Set("token_type_hint", "access_token")
	data.Set("client_id", k.clientID)
	data.Set("client_secret", k.clientSecret)

	resp, err := k.httpClient.PostForm(ctx, introspectURL, data)
	if err != nil {
		return nil, fmt.Errorf("introspection request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("introspection failed with status %d: %s", resp.StatusCode, string(body))
	}

	var info TokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode introspection response: %w", err)
	}
	return &info, nil
}

// TokenInfo holds the information returned by the token introspection endpoint.
type TokenInfo struct {
	Active    bool   `json:"active"`
	Scope     string `json:"scope,omitempty"`
	ClientID  string `json:"client_id,omitempty"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	TokenType string `json:"token_type,omitempty"`
	Exp       int64  `json:"exp,omitempty"`
	Sub       string `json:"sub,omitempty"`
	Iss       string `json:"iss,omitempty"`
}

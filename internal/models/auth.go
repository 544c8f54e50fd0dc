package models

// AuthProvider names the identity provider that verified a bearer token.
type AuthProvider string

const (
	ProviderFirebase AuthProvider = "firebase"
	ProviderKeycloak AuthProvider = "keycloak"
)

// Valid reports whether p is a supported provider.
func (p AuthProvider) Valid() bool {
	return p == ProviderFirebase || p == ProviderKeycloak
}

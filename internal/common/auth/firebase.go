// internal/common/auth/firebase.go
package auth

import (
	"context"

	"sahachari/internal/common/errors"
	"sahachari/internal/models"

	fbauth "firebase.google.com/go/v4/auth"
)

// idTokenVerifier is the part of the Firebase Admin auth client we use.
type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// FirebaseVerifier verifies Firebase ID tokens with the Admin SDK.
type FirebaseVerifier struct {
	client idTokenVerifier
}

func NewFirebaseVerifier(client idTokenVerifier) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

func (f *FirebaseVerifier) Verify(ctx context.Context, token string) (*models.Session, error) {
	decoded, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, errors.NewUnauthorizedError(err.Error())
	}
	if decoded.UID == "" {
		return nil, errors.NewUnauthorizedError("token has no subject")
	}

	email, _ := decoded.Claims["email"].(string)

	return &models.Session{
		UserID:     decoded.UID,
		Email:      email,
		Provider:   models.ProviderFirebase,
		VerifiedAt: now(),
	}, nil
}

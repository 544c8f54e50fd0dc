// internal/common/auth/middleware.go
package auth

import (
	"net/http"
	"strings"

	"sahachari/internal/common/errors"
	"sahachari/internal/common/logger"
	"sahachari/internal/models"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Middleware rejects requests without a verified bearer token and places the
// resulting session on the request context. The wrapped handler never runs
// for a rejected request.
func Middleware(verifier Verifier, errHandler *errors.HTTPErrorHandler, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r.Header.Get("Authorization"))
			if !ok {
				errHandler.Handle(w, r, errors.NewUnauthorizedError("missing or malformed bearer token"))
				return
			}

			session, err := verifier.Verify(r.Context(), token)
			if err != nil {
				if !errors.HasCode(err, errors.ErrCodeUnauthorized) {
					err = errors.NewUnauthorizedError(err.Error())
				}
				errHandler.Handle(w, r, err)
				return
			}
			session.RequestID = chiMiddleware.GetReqID(r.Context())

			log.Debug("request authenticated", map[string]interface{}{
				"userId":    session.UserID,
				"provider":  string(session.Provider),
				"requestId": session.RequestID,
			})

			next.ServeHTTP(w, r.WithContext(models.WithSession(r.Context(), session)))
		})
	}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

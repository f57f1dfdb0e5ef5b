package middleware

import (
	"context"
	"net/http"
	"strings"

	"rtbf-service/pkg/jwtutil"
	"rtbf-service/pkg/response"
)

type AuthMiddleware struct {
	verifier *jwtutil.Verifier
}

func NewAuthMiddleware(verifier *jwtutil.Verifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

func extractToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}

// Require rejects the request before any handler runs when the bearer token
// is missing or invalid. RTBF endpoints must never execute unauthenticated.
func (am *AuthMiddleware) Require() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				response.Error(w, http.StatusUnauthorized, "No token provided")
				return
			}

			claims, err := am.verifier.ParseAndValidate(token)
			if err != nil {
				response.Error(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			if claims.UserID == "" {
				response.Error(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), ContextUserID, claims.UserID)
			ctx = context.WithValue(ctx, ContextToken, token)
			ctx = context.WithValue(ctx, ContextDeviceID, claims.Device)
			ctx = context.WithValue(ctx, ContextRole, claims.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

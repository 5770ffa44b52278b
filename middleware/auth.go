package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storefront-service/helper"
)

var (
	errMissingHeader = errors.New("missing Authorization header")
	errBadFormat     = errors.New("invalid Authorization format (use Bearer token)")
	errBadToken      = errors.New("invalid or expired token")
	errBadPayload    = errors.New("invalid token payload")
)

// bearer validates the Authorization header and returns the user id and raw token.
func bearer(r *http.Request) (int, string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return 0, "", errMissingHeader
	}

	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenStr == authHeader {
		return 0, "", errBadFormat
	}

	claims, err := helper.ValidateJWT(tokenStr)
	if err != nil {
		return 0, "", errBadToken
	}

	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return 0, "", errBadPayload
	}
	return int(userID), tokenStr, nil
}

func withUser(ctx context.Context, userID int, token string) context.Context {
	ctx = context.WithValue(ctx, helper.UserIDKey, userID)
	return context.WithValue(ctx, helper.TokenKey, token)
}

// AuthMiddleware rejects requests without a valid bearer token. The token itself is kept
// in the context so it can be forwarded to the backend.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, token, err := bearer(r)
		if err != nil {
			helper.WriteErrorJSON(w, http.StatusUnauthorized, err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), userID, token)))
	})
}

// OptionalAuth attaches the user when a valid bearer is present and lets the request
// through either way. Used by the payment return pages, which browsers reach by redirect.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID, token, err := bearer(r); err == nil {
			r = r.WithContext(withUser(r.Context(), userID, token))
		}
		next.ServeHTTP(w, r)
	})
}

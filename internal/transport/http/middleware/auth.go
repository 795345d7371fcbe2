package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"pulsegram/internal/httputil"
	"pulsegram/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// UserIDKey is the context key for the authenticated user's ID
	UserIDKey contextKey = "user_id"
)

// AuthMiddleware validates the JWT access token and rejects requests
// without one. Checks the Authorization header first, then falls back
// to the access_token cookie.
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractToken(r)
			if tokenString == "" {
				httputil.WriteUnauthorized(w, "Missing authentication token")
				return
			}

			userID, code, ok := parseUserID(tokenString, jwtSecret)
			if !ok {
				if code == model.CodeTokenExpired {
					httputil.WriteUnauthorizedWithCode(w, code, "Access token has expired")
					return
				}
				httputil.WriteUnauthorizedWithCode(w, code, "Invalid authentication token")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware resolves the user ID when a valid token is
// present but lets anonymous requests through untouched.
func OptionalAuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractToken(r)
			if tokenString != "" {
				if userID, _, ok := parseUserID(tokenString, jwtSecret); ok {
					ctx := context.WithValue(r.Context(), UserIDKey, userID)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	cookie, err := r.Cookie("access_token")
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return ""
}

// parseUserID validates the token and extracts the user_id claim. The
// returned code discriminates expired from otherwise invalid tokens.
func parseUserID(tokenString, jwtSecret string) (int64, string, bool) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})

	if err != nil {
		if strings.Contains(err.Error(), "expired") {
			return 0, model.CodeTokenExpired, false
		}
		return 0, model.CodeTokenInvalid, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, model.CodeTokenInvalid, false
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, model.CodeTokenInvalid, false
	}

	return int64(userIDFloat), "", true
}

// GetUserIDFromContext extracts the user ID from the request context.
// Returns the user ID and true if found, or 0 and false if not found.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

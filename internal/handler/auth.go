package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"pulsegram/internal/config"
	"pulsegram/internal/httputil"
	"pulsegram/internal/model"
	"pulsegram/internal/service"
	"pulsegram/internal/transport/http/middleware"
)

// AuthHandler groups auth-related HTTP endpoints and their dependencies.
type AuthHandler struct {
	userService *service.UserService
	authService *service.AuthService
	config      *config.Config
}

// NewAuthHandler wires dependencies for authentication endpoints.
func NewAuthHandler(userService *service.UserService, authService *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		authService: authService,
		config:      cfg,
	}
}

// Register handles user sign-up
// POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.Username == "" {
		httputil.WriteBadRequest(w, "Username is required")
		return
	}
	if req.Password == "" {
		httputil.WriteBadRequest(w, "Password is required")
		return
	}

	user, err := h.userService.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUsernameExists):
			httputil.WriteConflict(w, "Username already exists")
		case errors.Is(err, model.ErrInvalidCredentials):
			httputil.WriteBadRequest(w, "Username or password does not meet requirements")
		default:
			log.Printf("[ERROR] Register handler: %v", err)
			httputil.WriteInternalError(w, "Failed to register")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, user)
}

// Login authenticates and issues a token pair
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		httputil.WriteBadRequest(w, "Username and password are required")
		return
	}

	user, err := h.userService.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			httputil.WriteUnauthorized(w, "Invalid username or password")
			return
		}
		log.Printf("[ERROR] Login handler: %v", err)
		httputil.WriteInternalError(w, "Failed to login")
		return
	}

	pair, err := h.authService.GenerateTokenPair(r.Context(), user.ID)
	if err != nil {
		log.Printf("[ERROR] Login token generation: %v", err)
		httputil.WriteInternalError(w, "Failed to login")
		return
	}

	h.setAccessCookie(w, pair.AccessToken)

	httputil.WriteJSON(w, http.StatusOK, model.LoginResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	})
}

// Refresh rotates the refresh token and issues a new pair
// POST /auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req model.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	if req.RefreshToken == "" {
		httputil.WriteBadRequest(w, "Refresh token is required")
		return
	}

	pair, _, err := h.authService.RefreshTokens(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrRefreshTokenExpired):
			httputil.WriteUnauthorizedWithCode(w, model.CodeTokenExpired, "Refresh token has expired")
		case errors.Is(err, model.ErrRefreshTokenReused), errors.Is(err, model.ErrRefreshTokenNotFound):
			httputil.WriteUnauthorizedWithCode(w, model.CodeTokenInvalid, "Invalid refresh token")
		default:
			log.Printf("[ERROR] Refresh handler: %v", err)
			httputil.WriteInternalError(w, "Failed to refresh tokens")
		}
		return
	}

	h.setAccessCookie(w, pair.AccessToken)

	httputil.WriteJSON(w, http.StatusOK, pair)
}

// Logout revokes the presented refresh token
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req model.LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.RefreshToken != "" {
		if err := h.authService.RevokeRefreshToken(r.Context(), req.RefreshToken); err != nil &&
			!errors.Is(err, model.ErrRefreshTokenNotFound) {
			log.Printf("[ERROR] Logout handler: %v", err)
		}
	}

	h.clearAccessCookie(w)
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// LogoutAll revokes every refresh token of the caller
// POST /auth/logout-all
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	if err := h.authService.RevokeAllUserTokens(r.Context(), userID); err != nil {
		log.Printf("[ERROR] LogoutAll handler: %v", err)
		httputil.WriteInternalError(w, "Failed to log out")
		return
	}

	h.clearAccessCookie(w)
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out everywhere"})
}

// Me returns the authenticated user's own profile
// GET /me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	profile, err := h.userService.GetProfile(r.Context(), userID, 0)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[ERROR] Me handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile.User)
}

func (h *AuthHandler) setAccessCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		MaxAge:   h.config.AccessTokenMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearAccessCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// file: handler/auth_handler.go

package handler

import (
	"encoding/json"
	"errors"
	"go-shop-api/common"
	"go-shop-api/model"
	"go-shop-api/service"
	"net/http"
)

type AuthHandler struct {
	AuthService  *service.AuthService
	TokenService *service.TokenService
}

func NewAuthHandler(authService *service.AuthService, tokenService *service.TokenService) *AuthHandler {
	return &AuthHandler{
		AuthService:  authService,
		TokenService: tokenService,
	}
}

// Login godoc
// @Summary      Authenticate and receive a token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.LoginRequest true "Credentials"
// @Success      200 {object} service.TokenPair
// @Failure      401 {object} common.AppError
// @Router       /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	user, err := h.AuthService.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return common.NewAppError(http.StatusUnauthorized, "Invalid credentials", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Login failed", err)
	}

	pair, err := h.TokenService.IssueTokenPair(user)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not issue tokens", err)
	}

	writeJSON(w, http.StatusOK, pair)
	return nil
}

// Refresh godoc
// @Summary      Exchange a refresh token for a new token pair
// @Description  The presented refresh token is single-use: it is rotated out and can never be used again.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.RefreshRequest true "Refresh token"
// @Success      200 {object} service.TokenPair
// @Failure      401 {object} common.AppError
// @Router       /token/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RefreshRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	pair, err := h.TokenService.RotateOnRefresh(req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			return common.NewAppError(http.StatusUnauthorized, "Invalid or expired refresh token", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not refresh tokens", err)
	}

	writeJSON(w, http.StatusOK, pair)
	return nil
}

// Logout godoc
// @Summary      Revoke a refresh token
// @Description  Idempotent: revoking an unknown or already revoked token is not an error.
// @Tags         auth
// @Accept       json
// @Param        request body model.LogoutRequest true "Refresh token"
// @Success      204
// @Router       /logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LogoutRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	if _, err := h.TokenService.RevokeToken(req.RefreshToken); err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not revoke token", err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// LogoutAll godoc
// @Summary      Revoke every refresh token of the authenticated user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]int64
// @Failure      401 {object} common.AppError
// @Router       /api/logout/all [post]
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid or expired token", nil)
	}

	count, err := h.TokenService.RevokeAllForUser(userID)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not revoke tokens", err)
	}

	writeJSON(w, http.StatusOK, map[string]int64{"revoked": count})
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

package handler

import (
	"encoding/json"
	"net/http"
	"shop-api/common"
	"shop-api/logger"
	"shop-api/model"
	"shop-api/service"
)

// AuthHandler exposes registration, login, refresh and logout.
type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

// Register godoc
// @Summary      Register a new account
// @Description  Creates a storefront account. The role is always "user"; admin accounts are created through the admin user API.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        registration body model.RegisterRequest true "Account details"
// @Success      201  {object}  model.User
// @Failure      400  {object}  common.AppError "Validation failure or duplicate email"
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	user, err := h.userService.CreateUser(r.Context(), req.Username, req.Email, req.Password, string(model.RoleUser))
	if err != nil {
		if err == service.ErrDuplicateEmail {
			return common.NewAppError(http.StatusBadRequest, common.KindDuplicateEmail, err.Error(), err)
		}
		return common.Unexpected("Could not create user", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
	return nil
}

// Login godoc
// @Summary      Authenticate with email and password
// @Description  Returns a short-lived access token and a single-use refresh token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials body model.LoginRequest true "Login credentials"
// @Success      200  {object}  service.TokenPair
// @Failure      401  {object}  common.AppError "Invalid credentials"
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	pair, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			return common.NewAppError(http.StatusUnauthorized, common.KindInvalidCredentials, err.Error(), nil)
		}
		return common.Unexpected("Could not log in", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(pair)
	return nil
}

// Refresh godoc
// @Summary      Exchange a refresh token for a new token pair
// @Description  Rotates the refresh token: the presented token is invalidated and a replacement is issued with the new access token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token body model.RefreshRequest true "Refresh token"
// @Success      200  {object}  service.TokenPair
// @Failure      401  {object}  common.AppError "Invalid or expired refresh token"
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RefreshRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	pair, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if err == service.ErrInvalidRefreshToken {
			return common.NewAppError(http.StatusUnauthorized, common.KindInvalidRefreshToken, err.Error(), nil)
		}
		return common.Unexpected("Could not refresh token", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(pair)
	return nil
}

// Logout godoc
// @Summary      Log out of all sessions
// @Description  Deletes every refresh token owned by the authenticated user.
// @Tags         auth
// @Security     BearerAuth
// @Success      204  "No Content"
// @Failure      401  {object}  common.AppError
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, common.KindUnauthenticated, "Invalid user ID in token", nil)
	}

	if err := h.authService.Logout(r.Context(), userID); err != nil {
		return common.Unexpected("Could not log out", err)
	}

	logger.Log.WithField("user_id", userID).Info("User logged out")
	w.WriteHeader(http.StatusNoContent)
	return nil
}

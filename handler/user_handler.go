package handler

import (
	"encoding/json"
	"net/http"
	"shop-api/common"
	"shop-api/model"
	"shop-api/service"
	"strconv"
)

// UserHandler exposes the admin user management API. Every route is behind
// AuthMiddleware + AdminMiddleware.
type UserHandler struct {
	service *service.UserService
}

func NewUserHandler(service *service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// ListUsers godoc
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.User
// @Failure      401  {object}  common.AppError
// @Failure      403  {object}  common.AppError
// @Router       /api/users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) *common.AppError {
	users, err := h.service.GetAllUsers(r.Context())
	if err != nil {
		return common.Unexpected("Could not retrieve users", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(users)
	return nil
}

// GetUser godoc
// @Summary      Get a user by ID
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Success      200  {object}  model.User
// @Failure      404  {object}  common.AppError
// @Router       /api/users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}

	user, err := h.service.GetUserByID(r.Context(), id)
	if err != nil {
		if err == service.ErrUserNotFound {
			return common.NewAppError(http.StatusNotFound, common.KindNotFound, err.Error(), nil)
		}
		return common.Unexpected("Could not retrieve user", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(user)
	return nil
}

// CreateUser godoc
// @Summary      Create a user with an explicit role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user body model.CreateUserRequest true "User details"
// @Success      201  {object}  model.User
// @Failure      400  {object}  common.AppError "Validation failure or duplicate email"
// @Router       /api/users [post]
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateUserRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	user, err := h.service.CreateUser(r.Context(), req.Username, req.Email, req.Password, req.Role)
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

// UpdateUser godoc
// @Summary      Update a user
// @Description  Partial update; absent fields are left untouched. A new password is re-hashed before persisting.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Param        user body model.UpdateUserRequest true "Fields to update"
// @Success      200  {object}  model.User
// @Failure      404  {object}  common.AppError
// @Router       /api/users/{id} [put]
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}

	var req model.UpdateUserRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	user, err := h.service.UpdateUser(r.Context(), id, req)
	if err != nil {
		switch err {
		case service.ErrUserNotFound:
			return common.NewAppError(http.StatusNotFound, common.KindNotFound, err.Error(), nil)
		case service.ErrDuplicateEmail:
			return common.NewAppError(http.StatusBadRequest, common.KindDuplicateEmail, err.Error(), err)
		case service.ErrInvalidRole:
			return common.NewAppError(http.StatusBadRequest, common.KindValidation, err.Error(), nil)
		default:
			return common.Unexpected("Could not update user", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(user)
	return nil
}

// DeleteUser godoc
// @Summary      Delete a user
// @Description  A caller may not delete the account behind its own session, regardless of role.
// @Tags         users
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Success      200  "OK"
// @Failure      400  {object}  common.AppError "Self deletion"
// @Failure      404  {object}  common.AppError
// @Router       /api/users/{id} [delete]
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}

	callerID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, common.KindUnauthenticated, "Invalid user ID in token", nil)
	}

	if err := h.service.DeleteUser(r.Context(), callerID, id); err != nil {
		switch err {
		case service.ErrSelfDeletion:
			return common.NewAppError(http.StatusBadRequest, common.KindSelfDeletion, err.Error(), nil)
		case service.ErrUserNotFound:
			return common.NewAppError(http.StatusNotFound, common.KindNotFound, err.Error(), nil)
		default:
			return common.Unexpected("Could not delete user", err)
		}
	}

	w.WriteHeader(http.StatusOK)
	return nil
}

func pathID(r *http.Request, name string) (int, *common.AppError) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		return 0, common.NewAppError(http.StatusBadRequest, common.KindValidation, "Invalid ID in URL path", err)
	}
	return id, nil
}

package handler

import (
	"encoding/json"
	"net/http"
	"shop-api/common"
	"shop-api/service"
)

// OrderHandler holds dependencies for order-related handlers.
type OrderHandler struct {
	service *service.OrderService
}

func NewOrderHandler(s *service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

// CreateOrder godoc
// @Summary      Place an order
// @Description  Places an order for the authenticated user. Stock is checked and decremented atomically; totals are computed from current catalog prices.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        order body service.CreateOrderRequest true "Order lines"
// @Success      201  {object}  model.Order
// @Failure      400  {object}  common.AppError "Empty order, invalid quantity or insufficient stock"
// @Failure      401  {object}  common.AppError
// @Failure      404  {object}  common.AppError "Unknown product"
// @Router       /api/orders [post]
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req service.CreateOrderRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, common.KindUnauthenticated, "Invalid user ID in token", nil)
	}

	order, err := h.service.CreateOrder(r.Context(), userID, req)
	if err != nil {
		switch err {
		case service.ErrProductNotFound:
			return common.NewAppError(http.StatusNotFound, common.KindNotFound, err.Error(), nil)
		case service.ErrEmptyOrder, service.ErrInvalidQuantity, service.ErrInsufficientStock:
			return common.NewAppError(http.StatusBadRequest, common.KindValidation, err.Error(), nil)
		default:
			return common.Unexpected("Could not place order", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(order)
	return nil
}

// ListOrders godoc
// @Summary      List the caller's orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.Order
// @Failure      401  {object}  common.AppError
// @Router       /api/orders [get]
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, common.KindUnauthenticated, "Invalid user ID in token", nil)
	}

	orders, err := h.service.ListOrdersForUser(r.Context(), userID)
	if err != nil {
		return common.Unexpected("Could not retrieve orders", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(orders)
	return nil
}

// GetOrder godoc
// @Summary      Get an order by ID
// @Description  Regular users can only fetch their own orders; admins can fetch any.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Order ID"
// @Success      200  {object}  model.Order
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}

	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, common.KindUnauthenticated, "Invalid user ID in token", nil)
	}
	userRole, ok := r.Context().Value(UserRoleKey).(string)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, common.KindUnauthenticated, "Invalid user role in token", nil)
	}

	order, err := h.service.GetOrderByID(r.Context(), userID, userRole, id)
	if err != nil {
		switch err {
		case service.ErrOrderNotFound:
			return common.NewAppError(http.StatusNotFound, common.KindNotFound, err.Error(), nil)
		case service.ErrPermissionDenied:
			return common.NewAppError(http.StatusForbidden, common.KindForbidden, err.Error(), nil)
		default:
			return common.Unexpected("Could not retrieve order", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(order)
	return nil
}

// ListAllOrders godoc
// @Summary      List every order (admin)
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.Order
// @Failure      403  {object}  common.AppError
// @Router       /api/admin/orders [get]
func (h *OrderHandler) ListAllOrders(w http.ResponseWriter, r *http.Request) *common.AppError {
	orders, err := h.service.GetAllOrders(r.Context())
	if err != nil {
		return common.Unexpected("Could not retrieve orders", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(orders)
	return nil
}

// UpdateOrderStatus godoc
// @Summary      Update an order's status (admin)
// @Tags         orders
// @Accept       json
// @Security     BearerAuth
// @Param        id path int true "Order ID"
// @Param        status body object true "New status"
// @Success      200  "OK"
// @Failure      400  {object}  common.AppError "Unknown status"
// @Failure      404  {object}  common.AppError
// @Router       /api/admin/orders/{id}/status [put]
func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}

	var req struct {
		Status string `json:"status" validate:"required,oneof=pending shipped cancelled"`
	}
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	if err := h.service.UpdateOrderStatus(r.Context(), id, req.Status); err != nil {
		switch err {
		case service.ErrOrderNotFound:
			return common.NewAppError(http.StatusNotFound, common.KindNotFound, err.Error(), nil)
		case service.ErrInvalidStatus:
			return common.NewAppError(http.StatusBadRequest, common.KindValidation, err.Error(), nil)
		default:
			return common.Unexpected("Could not update order status", err)
		}
	}

	w.WriteHeader(http.StatusOK)
	return nil
}

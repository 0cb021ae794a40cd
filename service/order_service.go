package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"shop-api/logger"
	"shop-api/model"
	"shop-api/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrEmptyOrder        = errors.New("order must contain at least one item")
	ErrInvalidQuantity   = errors.New("item quantity must be greater than zero")
	ErrInsufficientStock = errors.New("insufficient stock for product")
	ErrPermissionDenied  = errors.New("you can only view your own orders")
	ErrInvalidStatus     = errors.New("invalid order status")
)

// OrderItemRequest is one line of a new order.
type OrderItemRequest struct {
	ProductID int `json:"product_id" validate:"required"`
	Quantity  int `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderRequest defines the structure for placing an order. Prices come
// from the catalog at placement time, never from the client.
type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type OrderService struct {
	db          *sql.DB
	orderRepo   repository.IOrderRepository
	productRepo repository.IProductRepository
	cache       ICacheClient
}

func NewOrderService(db *sql.DB, orderRepo repository.IOrderRepository, productRepo repository.IProductRepository, cache ICacheClient) *OrderService {
	return &OrderService{
		db:          db,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cache:       cache,
	}
}

// CreateOrder places an order in a single transaction: each product row is
// locked, stock is checked and decremented, and the total is computed from
// current catalog prices.
func (s *OrderService) CreateOrder(ctx context.Context, userID int, req CreateOrderRequest) (*model.Order, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":    userID,
		"item_count": len(req.Items),
	})
	log.Info("Starting order placement")

	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	order := &model.Order{
		Reference: uuid.NewString(),
		UserID:    userID,
		Status:    model.OrderStatusPending,
	}

	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}

		product, err := s.productRepo.GetProductForUpdate(tx, item.ProductID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, ErrProductNotFound
			}
			return nil, err
		}

		if product.Stock < item.Quantity {
			return nil, ErrInsufficientStock
		}

		if err := s.productRepo.DecrementStock(tx, product.ID, item.Quantity); err != nil {
			return nil, fmt.Errorf("could not decrement stock: %w", err)
		}

		order.Items = append(order.Items, model.OrderItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
		})
		order.Total += product.Price * float64(item.Quantity)
	}

	if err := s.orderRepo.CreateOrder(tx, order); err != nil {
		return nil, fmt.Errorf("could not create order record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	// Stock changed, so the cached catalog listing is stale.
	s.cache.Del(ctx, productListCacheKey)

	log.WithField("order_reference", order.Reference).Info("Order placed successfully")
	return order, nil
}

// GetOrderByID returns an order. Regular users may only fetch their own
// orders; admins may fetch any.
func (s *OrderService) GetOrderByID(ctx context.Context, callerID int, callerRole string, orderID int) (*model.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.UserID != callerID && callerRole != string(model.RoleAdmin) {
		return nil, ErrPermissionDenied
	}
	return order, nil
}

func (s *OrderService) ListOrdersForUser(ctx context.Context, userID int) ([]*model.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	return s.orderRepo.GetOrdersByUserID(ctx, userID)
}

func (s *OrderService) GetAllOrders(ctx context.Context) ([]*model.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	return s.orderRepo.GetAllOrders(ctx)
}

func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID int, status string) error {
	switch status {
	case model.OrderStatusPending, model.OrderStatusShipped, model.OrderStatusCancelled:
	default:
		return ErrInvalidStatus
	}

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if err := s.orderRepo.UpdateOrderStatus(ctx, orderID, status); err != nil {
		if err == sql.ErrNoRows {
			return ErrOrderNotFound
		}
		return err
	}
	return nil
}

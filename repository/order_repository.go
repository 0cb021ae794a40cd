package repository

import (
	"context"
	"database/sql"
	"shop-api/model"
)

// IOrderRepository defines the contract for order database operations.
type IOrderRepository interface {
	CreateOrder(tx *sql.Tx, order *model.Order) error
	GetOrderByID(ctx context.Context, id int) (*model.Order, error)
	GetOrdersByUserID(ctx context.Context, userID int) ([]*model.Order, error)
	GetAllOrders(ctx context.Context) ([]*model.Order, error)
	UpdateOrderStatus(ctx context.Context, id int, status string) error
}

type OrderRepository struct {
	DB *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// CreateOrder inserts the order header and its items inside the caller's
// transaction, alongside the stock decrements done by the order service.
func (r *OrderRepository) CreateOrder(tx *sql.Tx, order *model.Order) error {
	query := `INSERT INTO orders (reference, user_id, status, total) VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	if err := tx.QueryRow(query, order.Reference, order.UserID, order.Status, order.Total).
		Scan(&order.ID, &order.CreatedAt); err != nil {
		return err
	}

	itemQuery := `INSERT INTO order_items (order_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4) RETURNING id`
	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		if err := tx.QueryRow(itemQuery, order.ID, item.ProductID, item.Quantity, item.UnitPrice).
			Scan(&item.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *OrderRepository) GetOrderByID(ctx context.Context, id int) (*model.Order, error) {
	order := &model.Order{}
	query := `SELECT id, reference, user_id, status, total, created_at FROM orders WHERE id = $1`
	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&order.ID, &order.Reference, &order.UserID, &order.Status, &order.Total, &order.CreatedAt)
	if err != nil {
		return nil, err
	}

	items, err := r.getItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (r *OrderRepository) GetOrdersByUserID(ctx context.Context, userID int) ([]*model.Order, error) {
	query := `SELECT id, reference, user_id, status, total, created_at
		FROM orders WHERE user_id = $1 ORDER BY id DESC`
	return r.queryOrders(ctx, query, userID)
}

func (r *OrderRepository) GetAllOrders(ctx context.Context) ([]*model.Order, error) {
	query := `SELECT id, reference, user_id, status, total, created_at FROM orders ORDER BY id DESC`
	return r.queryOrders(ctx, query)
}

func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, id int, status string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *OrderRepository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*model.Order, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*model.Order{}
	for rows.Next() {
		order := &model.Order{}
		if err := rows.Scan(&order.ID, &order.Reference, &order.UserID, &order.Status,
			&order.Total, &order.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) getItems(ctx context.Context, orderID int) ([]model.OrderItem, error) {
	query := `SELECT id, order_id, product_id, quantity, unit_price
		FROM order_items WHERE order_id = $1 ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.OrderItem{}
	for rows.Next() {
		item := model.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

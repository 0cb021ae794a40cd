// file: service/order_service_test.go

package service

import (
	"context"
	"database/sql"
	"shop-api/model"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// mockOrderRepo is a mock implementation of IOrderRepository.
type mockOrderRepo struct{ mock.Mock }

func (m *mockOrderRepo) CreateOrder(tx *sql.Tx, order *model.Order) error {
	args := m.Called(tx, order)
	return args.Error(0)
}
func (m *mockOrderRepo) GetOrderByID(ctx context.Context, id int) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}
func (m *mockOrderRepo) GetOrdersByUserID(ctx context.Context, userID int) ([]*model.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*model.Order), args.Error(1)
}
func (m *mockOrderRepo) GetAllOrders(ctx context.Context) ([]*model.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*model.Order), args.Error(1)
}
func (m *mockOrderRepo) UpdateOrderStatus(ctx context.Context, id int, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func TestOrderService_CreateOrder_Success(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	dbMock.ExpectBegin()
	dbMock.ExpectCommit()

	mockOrders := new(mockOrderRepo)
	mockProducts := new(mockProductRepo)
	cache := newFakeCache()
	cache.store[productListCacheKey] = `[]`
	orderService := NewOrderService(db, mockOrders, mockProducts, cache)

	keyboard := &model.Product{ID: 1, Name: "Keyboard", Price: 50.00, Stock: 10}
	mouse := &model.Product{ID: 2, Name: "Mouse", Price: 20.00, Stock: 3}

	mockProducts.On("GetProductForUpdate", mock.Anything, 1).Return(keyboard, nil)
	mockProducts.On("GetProductForUpdate", mock.Anything, 2).Return(mouse, nil)
	mockProducts.On("DecrementStock", mock.Anything, 1, 2).Return(nil)
	mockProducts.On("DecrementStock", mock.Anything, 2, 1).Return(nil)
	mockOrders.On("CreateOrder", mock.Anything, mock.MatchedBy(func(order *model.Order) bool {
		return order.UserID == 7 &&
			order.Status == model.OrderStatusPending &&
			order.Reference != "" &&
			len(order.Items) == 2
	})).Return(nil)

	order, err := orderService.CreateOrder(context.Background(), 7, CreateOrderRequest{
		Items: []OrderItemRequest{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	})

	assert.NoError(t, err)
	// Totals come from catalog prices at placement time: 2*50 + 1*20.
	assert.Equal(t, 120.00, order.Total)
	assert.Equal(t, 50.00, order.Items[0].UnitPrice)
	assert.NotContains(t, cache.store, productListCacheKey, "placing an order invalidates the catalog cache")
	assert.NoError(t, dbMock.ExpectationsWereMet())
	mockOrders.AssertExpectations(t)
	mockProducts.AssertExpectations(t)
}

func TestOrderService_CreateOrder_InsufficientStock(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	dbMock.ExpectBegin()
	dbMock.ExpectRollback()

	mockOrders := new(mockOrderRepo)
	mockProducts := new(mockProductRepo)
	orderService := NewOrderService(db, mockOrders, mockProducts, newFakeCache())

	mockProducts.On("GetProductForUpdate", mock.Anything, 1).
		Return(&model.Product{ID: 1, Price: 50.00, Stock: 1}, nil)

	_, err = orderService.CreateOrder(context.Background(), 7, CreateOrderRequest{
		Items: []OrderItemRequest{{ProductID: 1, Quantity: 5}},
	})

	assert.ErrorIs(t, err, ErrInsufficientStock)
	mockOrders.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	mockProducts.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestOrderService_CreateOrder_UnknownProduct(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	dbMock.ExpectBegin()
	dbMock.ExpectRollback()

	mockOrders := new(mockOrderRepo)
	mockProducts := new(mockProductRepo)
	orderService := NewOrderService(db, mockOrders, mockProducts, newFakeCache())

	mockProducts.On("GetProductForUpdate", mock.Anything, 99).Return(nil, sql.ErrNoRows)

	_, err = orderService.CreateOrder(context.Background(), 7, CreateOrderRequest{
		Items: []OrderItemRequest{{ProductID: 99, Quantity: 1}},
	})

	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestOrderService_CreateOrder_EmptyOrder(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	orderService := NewOrderService(db, new(mockOrderRepo), new(mockProductRepo), newFakeCache())

	_, err = orderService.CreateOrder(context.Background(), 7, CreateOrderRequest{})

	assert.ErrorIs(t, err, ErrEmptyOrder)
	// No transaction is opened for an order with no items.
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestOrderService_GetOrderByID_Ownership(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mockOrders := new(mockOrderRepo)
	orderService := NewOrderService(db, mockOrders, new(mockProductRepo), newFakeCache())

	order := &model.Order{ID: 3, UserID: 7, Status: model.OrderStatusPending}
	mockOrders.On("GetOrderByID", mock.Anything, 3).Return(order, nil)

	// The owner can read it.
	got, err := orderService.GetOrderByID(context.Background(), 7, string(model.RoleUser), 3)
	assert.NoError(t, err)
	assert.Equal(t, 3, got.ID)

	// Another regular user cannot.
	_, err = orderService.GetOrderByID(context.Background(), 8, string(model.RoleUser), 3)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// An admin can read anyone's order.
	got, err = orderService.GetOrderByID(context.Background(), 8, string(model.RoleAdmin), 3)
	assert.NoError(t, err)
	assert.Equal(t, 7, got.UserID)
}

func TestOrderService_UpdateOrderStatus_RejectsUnknownStatus(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mockOrders := new(mockOrderRepo)
	orderService := NewOrderService(db, mockOrders, new(mockProductRepo), newFakeCache())

	err = orderService.UpdateOrderStatus(context.Background(), 3, "teleported")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	mockOrders.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything)

	mockOrders.On("UpdateOrderStatus", mock.Anything, 3, model.OrderStatusShipped).Return(nil)
	err = orderService.UpdateOrderStatus(context.Background(), 3, model.OrderStatusShipped)
	assert.NoError(t, err)
	mockOrders.AssertExpectations(t)
}

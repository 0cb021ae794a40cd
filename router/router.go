package router

import (
	"net/http"
	"shop-api/common"
	"shop-api/handler"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// NewRouter wires every endpoint to its handler chain. Public routes carry
// only the error middleware; authenticated routes add the token gate; admin
// routes stack the role guard on top of it.
func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	productHandler *handler.ProductHandler,
	orderHandler *handler.OrderHandler,
	newsletterHandler *handler.NewsletterHandler,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Auth
	mux.Handle("POST /api/auth/register", handler.ErrorHandlingMiddleware(authHandler.Register))
	mux.Handle("POST /api/auth/login", handler.ErrorHandlingMiddleware(authHandler.Login))
	mux.Handle("POST /api/auth/refresh", handler.ErrorHandlingMiddleware(authHandler.Refresh))
	mux.Handle("POST /api/auth/logout", authenticated(authHandler.Logout))

	// User management (admin only)
	mux.Handle("GET /api/users", adminOnly(userHandler.ListUsers))
	mux.Handle("GET /api/users/{id}", adminOnly(userHandler.GetUser))
	mux.Handle("POST /api/users", adminOnly(userHandler.CreateUser))
	mux.Handle("PUT /api/users/{id}", adminOnly(userHandler.UpdateUser))
	mux.Handle("DELETE /api/users/{id}", adminOnly(userHandler.DeleteUser))

	// Catalog: public reads, admin writes
	mux.Handle("GET /api/products", handler.ErrorHandlingMiddleware(productHandler.ListProducts))
	mux.Handle("GET /api/products/{id}", handler.ErrorHandlingMiddleware(productHandler.GetProduct))
	mux.Handle("POST /api/products", adminOnly(productHandler.CreateProduct))
	mux.Handle("PUT /api/products/{id}", adminOnly(productHandler.UpdateProduct))
	mux.Handle("DELETE /api/products/{id}", adminOnly(productHandler.DeleteProduct))

	// Orders
	mux.Handle("POST /api/orders", authenticated(orderHandler.CreateOrder))
	mux.Handle("GET /api/orders", authenticated(orderHandler.ListOrders))
	mux.Handle("GET /api/orders/{id}", authenticated(orderHandler.GetOrder))
	mux.Handle("GET /api/admin/orders", adminOnly(orderHandler.ListAllOrders))
	mux.Handle("PUT /api/admin/orders/{id}/status", adminOnly(orderHandler.UpdateOrderStatus))

	// Newsletter
	mux.Handle("POST /api/newsletter", handler.ErrorHandlingMiddleware(newsletterHandler.Subscribe))

	return mux
}

func authenticated(h func(http.ResponseWriter, *http.Request) *common.AppError) http.Handler {
	return handler.AuthMiddleware(handler.ErrorHandlingMiddleware(h))
}

func adminOnly(h func(http.ResponseWriter, *http.Request) *common.AppError) http.Handler {
	return handler.AuthMiddleware(handler.AdminMiddleware(handler.ErrorHandlingMiddleware(h)))
}

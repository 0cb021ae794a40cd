// file: app/test_app.go

package app

import (
	"database/sql"
	"net/http"
	"shop-api/handler"
	"shop-api/repository"
	"shop-api/router"
	"shop-api/service"

	"github.com/redis/go-redis/v9"
)

// buildRouter wires every layer together. This is the single place where
// dependency injection happens, shared by the real server and the test app.
func buildRouter(database *sql.DB, redisClient *redis.Client) http.Handler {
	userRepo := repository.NewUserRepository(database)
	tokenRepo := repository.NewTokenRepository(database)
	productRepo := repository.NewProductRepository(database)
	orderRepo := repository.NewOrderRepository(database)
	newsletterRepo := repository.NewNewsletterRepository(database)

	userService := service.NewUserService(userRepo)
	authService := service.NewAuthService(database, userRepo, tokenRepo)
	productService := service.NewProductService(productRepo, redisClient)
	orderService := service.NewOrderService(database, orderRepo, productRepo, redisClient)
	newsletterService := service.NewNewsletterService(newsletterRepo)

	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService)
	productHandler := handler.NewProductHandler(productService)
	orderHandler := handler.NewOrderHandler(orderService)
	newsletterHandler := handler.NewNewsletterHandler(newsletterService)

	return router.NewRouter(authHandler, userHandler, productHandler, orderHandler, newsletterHandler)
}

// TestApp exposes the wired router plus its backing connections for
// integration tests.
type TestApp struct {
	DB     *sql.DB
	Redis  *redis.Client
	Router http.Handler
}

func NewTestApp(database *sql.DB, redisClient *redis.Client) *TestApp {
	return &TestApp{
		DB:     database,
		Redis:  redisClient,
		Router: buildRouter(database, redisClient),
	}
}

// cmd/main.go
package main

import (
	"shop-api/app"

	_ "shop-api/docs"
)

// @title           Shop API
// @version         1.0
// @description     REST backend for an e-commerce storefront: users, products, orders and newsletter signups.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}

package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	middleware "github.com/Skotchmaster/jsonshop/internal/middleware/auth"
)

type Deps struct {
	ProductHandler *ProductHTTP
	CartHandler    *CartHTTP
	HealthHandler  *HealthHTTP
	Admin          *middleware.AdminGuard
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, "API OK") })
	e.GET("/health/live", d.HealthHandler.Live)
	e.GET("/health/ready", d.HealthHandler.Ready)

	api := e.Group("/api")

	products := api.Group("/products")
	products.GET("", d.ProductHandler.ListProducts)
	products.GET("/:pid", d.ProductHandler.GetProduct)
	products.POST("", d.ProductHandler.CreateProduct, d.Admin.RequireAdmin)
	products.PUT("/:pid", d.ProductHandler.UpdateProduct, d.Admin.RequireAdmin)
	products.DELETE("/:pid", d.ProductHandler.DeleteProduct, d.Admin.RequireAdmin)

	carts := api.Group("/carts")
	carts.POST("", d.CartHandler.CreateCart)
	carts.GET("/:cid", d.CartHandler.GetCart)
	carts.POST("/:cid/product/:pid", d.CartHandler.AddProduct)
}

package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/jsonshop/internal/logging"
	"github.com/Skotchmaster/jsonshop/internal/repo"
	"github.com/Skotchmaster/jsonshop/internal/service"
	"github.com/Skotchmaster/jsonshop/internal/transport"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) CreateCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.create_cart")

	cart, err := h.Svc.CreateCart(ctx)
	if err != nil {
		l.Error("create_cart_error", "status", 500, "reason", "cannot save cart", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot save cart")
	}

	l.Info("create_cart_success", "cart_id", cart.ID)
	return c.JSON(http.StatusCreated, transport.Success(cart))
}

// GetCart answers with the cart's line items only.
func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")

	id, ok := pathID(c, "cid")
	if !ok {
		l.Warn("get_cart_error", "status", 404, "reason", "id is not a cart id", "cid", c.Param("cid"))
		return echo.NewHTTPError(http.StatusNotFound, "cart not found")
	}

	cart, err := h.Svc.GetCart(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("get_cart_error", "status", 404, "reason", "cart not found", "cart_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "cart not found")
		}
		l.Error("get_cart_error", "status", 500, "reason", "cannot read carts", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read carts")
	}

	return c.JSON(http.StatusOK, transport.Success(cart.Products))
}

func (h *CartHTTP) AddProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_product")

	productID, ok := pathID(c, "pid")
	if !ok {
		l.Warn("add_to_cart_error", "status", 404, "reason", "id is not a product id", "pid", c.Param("pid"))
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	cartID, ok := pathID(c, "cid")
	if !ok {
		l.Warn("add_to_cart_error", "status", 404, "reason", "id is not a cart id", "cid", c.Param("cid"))
		return echo.NewHTTPError(http.StatusNotFound, "cart not found")
	}

	cart, err := h.Svc.AddProduct(ctx, cartID, productID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			l.Warn("add_to_cart_error", "status", 404, "reason", "product not found", "product_id", productID)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		case errors.Is(err, repo.ErrNotFound):
			l.Warn("add_to_cart_error", "status", 404, "reason", "cart not found", "cart_id", cartID)
			return echo.NewHTTPError(http.StatusNotFound, "cart not found")
		default:
			l.Error("add_to_cart_error", "status", 500, "reason", "cannot save cart", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot save cart")
		}
	}

	l.Info("add_to_cart_success", "cart_id", cart.ID, "product_id", productID)
	return c.JSON(http.StatusOK, transport.Success(cart))
}

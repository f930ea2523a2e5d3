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

type ProductHTTP struct {
	Svc *service.CatalogService
}

func (h *ProductHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list_products")

	products, err := h.Svc.ListProducts(ctx)
	if err != nil {
		l.Error("list_products_error", "status", 500, "reason", "cannot read products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read products")
	}

	return c.JSON(http.StatusOK, transport.Success(products))
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, ok := pathID(c, "pid")
	if !ok {
		l.Warn("get_product_error", "status", 404, "reason", "id is not a product id", "pid", c.Param("pid"))
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("get_product_error", "status", 404, "reason", "product not found", "product_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("get_product_error", "status", 500, "reason", "cannot read products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read products")
	}

	return c.JSON(http.StatusOK, transport.Success(product))
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	draft, err := decodeObject(c)
	if err != nil {
		l.Warn("create_product_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Svc.CreateProduct(ctx, draft)
	if err != nil {
		if errors.Is(err, repo.ErrValidation) || errors.Is(err, repo.ErrConflict) {
			l.Warn("create_product_error", "status", 400, "reason", err.Error())
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("create_product_error", "status", 500, "reason", "cannot save product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot save product")
	}

	l.Info("create_product_success", "product_id", product.ID)
	return c.JSON(http.StatusCreated, transport.Success(product))
}

func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_product")

	id, ok := pathID(c, "pid")
	if !ok {
		l.Warn("update_product_error", "status", 404, "reason", "id is not a product id", "pid", c.Param("pid"))
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	fields, err := decodeObject(c)
	if err != nil {
		l.Warn("update_product_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Svc.UpdateProduct(ctx, id, fields)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			l.Warn("update_product_error", "status", 404, "reason", "product not found", "product_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		case errors.Is(err, repo.ErrValidation), errors.Is(err, repo.ErrConflict):
			l.Warn("update_product_error", "status", 400, "reason", err.Error(), "product_id", id)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			l.Error("update_product_error", "status", 500, "reason", "cannot save product", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot save product")
		}
	}

	l.Info("update_product_success", "product_id", product.ID)
	return c.JSON(http.StatusOK, transport.Success(product))
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id, ok := pathID(c, "pid")
	if !ok {
		l.Warn("delete_product_error", "status", 404, "reason", "id is not a product id", "pid", c.Param("pid"))
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("delete_product_error", "status", 404, "reason", "product not found", "product_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("delete_product_error", "status", 500, "reason", "cannot delete product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete product")
	}

	l.Info("delete_product_success", "product_id", id)
	return c.JSON(http.StatusOK, transport.Success("deleted"))
}

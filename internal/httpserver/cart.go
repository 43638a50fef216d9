package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/qr_cart/internal/service"
	"github.com/Skotchmaster/qr_cart/internal/transport"
	"github.com/Skotchmaster/qr_cart/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.cart")

	lines, err := h.Svc.ListCartItems(ctx)
	if err != nil {
		l.Error("get_cart_error", "status", 500, "error", err)
		return failure(c, http.StatusInternalServerError, "Something went wrong while fetching cart items")
	}

	l.Info("cart successfully got", "items", len(lines))
	return success(c, http.StatusOK, "Products fetched from Cart successfully", lines)
}

func (h *CartHTTP) GetCartCount(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.cart.count")

	total, err := h.Svc.CountCartItems(ctx)
	if err != nil {
		l.Error("get_cart_count_error", "status", 500, "error", err)
		return failure(c, http.StatusInternalServerError, "Something went wrong while getting cart count")
	}

	return success(c, http.StatusOK, "Products count fetched from Cart Successfully", total)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add.cart")

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return failure(c, http.StatusBadRequest, "invalid product id")
	}

	res, err := h.Svc.AddToCart(ctx, productID)
	switch {
	case errors.Is(err, service.ErrNotFound):
		l.Warn("add_to_cart_not_found", "status", 404, "error", err)
		return failure(c, http.StatusNotFound, "Product not found")
	case errors.Is(err, service.ErrOutOfStock):
		l.Warn("add_to_cart_out_of_stock", "status", 400, "error", err)
		return failure(c, http.StatusBadRequest, "We don't have enough stock remaining")
	case err != nil:
		l.Error("add_to_cart_error", "status", 500, "error", err)
		return failure(c, http.StatusInternalServerError, "Something went wrong while adding the product to cart")
	}

	if res.Created {
		l.Info("item added successfully to cart", "cart_item_id", res.Item.ID)
		return success(c, http.StatusCreated, "Product added to Cart successfully", transport.AddToCartCreated{
			AddedToCart:    res.Item,
			UpdatedProduct: res.Product,
		})
	}

	l.Info("cart item count updated", "cart_item_id", res.Item.ID, "count", res.Item.Count)
	return success(c, http.StatusOK, "Product count updated in Cart successfully", res.Item)
}

func (h *CartHTTP) DeleteFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delete.from.cart")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("delete_from_cart_error", "status", 400, "error", err)
		return failure(c, http.StatusBadRequest, "invalid cart item id")
	}

	deleted, err := h.Svc.DeleteFromCart(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("delete_from_cart_not_found", "status", 404, "error", err)
			return failure(c, http.StatusNotFound, "Product not found in the cart")
		}
		l.Error("delete_from_cart_error", "status", 500, "error", err)
		return failure(c, http.StatusInternalServerError, "Something went wrong while deleting the product from the cart")
	}

	l.Info("item deleted successfully from cart", "cart_item_id", deleted.ID)
	return success(c, http.StatusOK, "Product deleted from Cart Successfully", deleted)
}

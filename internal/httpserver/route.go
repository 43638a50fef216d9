package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/qr_cart/internal/metrics"
	"github.com/Skotchmaster/qr_cart/pkg/logging"
)

type Deps struct {
	CartHandler    *CartHTTP
	PaymentHandler *PaymentHTTP
	Metrics        *metrics.Metrics

	// Ready reports whether the service can take traffic. Nil means always.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				logging.FromContext(c.Request().Context()).Error("readiness_check_failed", "status", 503, "error", err)
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	cart := e.Group("/cart")

	cart.GET("", d.CartHandler.GetCart)
	cart.GET("/count", d.CartHandler.GetCartCount)

	cart.POST("/payment/initiate", d.PaymentHandler.InitiatePayment)
	cart.POST("/payment/listen", d.PaymentHandler.ListenForPayment)
	cart.POST("/payment/stream", d.PaymentHandler.StreamPayment)

	cart.POST("/:id", d.CartHandler.AddToCart)
	cart.DELETE("/:id", d.CartHandler.DeleteFromCart)
}

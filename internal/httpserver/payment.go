package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/qr_cart/internal/payment"
	"github.com/Skotchmaster/qr_cart/internal/transport"
	"github.com/Skotchmaster/qr_cart/pkg/logging"
)

// writeGrace is added on top of the listen timeout so the timeout response
// can still be written.
const writeGrace = 10 * time.Second

type PaymentHTTP struct {
	Svc           *payment.Service
	ListenTimeout time.Duration
}

func (h *PaymentHTTP) InitiatePayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "initiate.payment")

	var req transport.InitiatePaymentRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("initiate_payment_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.InitiatePayment(ctx, req.Amount, req.Remarks1, req.Remarks2)
	if err != nil {
		if errors.Is(err, payment.ErrValidation) {
			l.Warn("initiate_payment_error", "status", 400, "error", err)
			return c.JSON(http.StatusBadRequest, "amount must be a positive number")
		}
		l.Error("initiate_payment_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "Error initiating payment.")
	}

	l.Info("payment initiated", "prn", res.PRN)
	return c.JSON(http.StatusOK, transport.InitiatePaymentResponse{
		QRMessage: res.QRMessage,
		WSURL:     res.WSURL,
		PRN:       res.PRN,
	})
}

func (h *PaymentHTTP) ListenForPayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "listen.payment")

	var req transport.ListenRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("listen_payment_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}

	h.extendWriteDeadline(c)
	msg, err := h.Svc.AwaitPayment(ctx, req.WSURL)
	if err != nil {
		return h.listenError(c, l, "listen_payment_error", err)
	}

	l.Info("payment message received")
	return c.JSONBlob(http.StatusOK, msg)
}

// StreamPayment relays every payment message as a server-sent event. Headers
// are sent with the first message so failures before it still get a status
// code.
func (h *PaymentHTTP) StreamPayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "stream.payment")

	var req transport.ListenRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("stream_payment_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}

	h.extendWriteDeadline(c)
	w := c.Response()
	started := false
	sent := 0

	err := h.Svc.StreamPayment(ctx, req.WSURL, func(m json.RawMessage) error {
		if !started {
			w.Header().Set(echo.HeaderContentType, "text/event-stream")
			w.Header().Set("Cache-Control", "no-cache")
			w.Header().Set("Connection", "keep-alive")
			w.WriteHeader(http.StatusOK)
			started = true
		}
		if err := writeEvent(w, "payment", m); err != nil {
			return err
		}
		sent++
		return nil
	})

	if !started {
		if err == nil {
			return c.NoContent(http.StatusNoContent)
		}
		return h.listenError(c, l, "stream_payment_error", err)
	}

	reason := "closed"
	switch {
	case errors.Is(err, context.Canceled):
		l.Info("payment stream client gone", "messages", sent)
		return nil
	case errors.Is(err, payment.ErrListenTimeout):
		reason = "timeout"
	case err != nil:
		l.Warn("stream_payment_error", "messages", sent, "error", err)
		reason = "error"
	}

	l.Info("payment stream finished", "messages", sent, "reason", reason)
	end, _ := json.Marshal(map[string]string{"reason": reason})
	_ = writeEvent(w, "end", end)
	return nil
}

func (h *PaymentHTTP) listenError(c echo.Context, l *slog.Logger, event string, err error) error {
	switch {
	case errors.Is(err, payment.ErrValidation):
		l.Warn(event, "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "wsUrl is required")
	case errors.Is(err, payment.ErrListenTimeout):
		l.Warn(event, "status", 504, "error", err)
		return c.JSON(http.StatusGatewayTimeout, "timed out waiting for payment")
	case errors.Is(err, context.Canceled):
		l.Info(event, "error", err)
		return nil
	default:
		l.Error(event, "status", 502, "error", err)
		return c.JSON(http.StatusBadGateway, "payment socket closed before a message arrived")
	}
}

func (h *PaymentHTTP) extendWriteDeadline(c echo.Context) {
	timeout := h.ListenTimeout
	if timeout <= 0 {
		timeout = payment.DefaultListenTimeout
	}
	// Not every writer supports deadlines (httptest does not).
	_ = http.NewResponseController(c.Response()).SetWriteDeadline(time.Now().Add(timeout + writeGrace))
}

func writeEvent(w *echo.Response, event string, data []byte) error {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return fmt.Errorf("compact event: %w", err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, buf.Bytes()); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	w.Flush()
	return nil
}

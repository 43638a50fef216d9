package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Skotchmaster/qr_cart/internal/events"
	"github.com/Skotchmaster/qr_cart/internal/metrics"
	"github.com/Skotchmaster/qr_cart/pkg/logging"
)

var ErrValidation = errors.New("validation failed") // 400

const (
	DefaultRemarks1 = "test 1"
	DefaultRemarks2 = "test 2"
)

var tracer = otel.Tracer("github.com/Skotchmaster/qr_cart/internal/payment")

type Gateway interface {
	RequestQR(ctx context.Context, qr QRRequest) (*QRResponse, error)
}

type Socket interface {
	Listen(ctx context.Context, wsURL string, fn func(json.RawMessage) bool) error
}

// Merchant is the account QR requests are signed and sent as.
type Merchant struct {
	Code     string
	Secret   string
	Username string
	Password string
}

type Service struct {
	Gateway  Gateway
	Socket   Socket
	Merchant Merchant
	Events   events.Publisher
	Metrics  *metrics.Metrics

	// Now defaults to time.Now.
	Now func() time.Time
}

type Initiated struct {
	QRMessage string
	WSURL     string
	PRN       int64
}

// InitiatePayment asks the merchant API for a dynamic QR. Empty remarks fall
// back to the defaults. The reference number is the current Unix time in
// milliseconds.
func (s *Service) InitiatePayment(ctx context.Context, amount decimal.Decimal, remarks1, remarks2 string) (*Initiated, error) {
	if !amount.IsPositive() {
		s.Metrics.Payment("initiate", "invalid")
		return nil, fmt.Errorf("amount must be positive: %w", ErrValidation)
	}
	if remarks1 == "" {
		remarks1 = DefaultRemarks1
	}
	if remarks2 == "" {
		remarks2 = DefaultRemarks2
	}

	prn := s.now().UnixMilli()
	amountStr := amount.String()

	ctx, span := tracer.Start(ctx, "payment.initiate", trace.WithAttributes(
		attribute.Int64("payment.prn", prn),
		attribute.String("payment.amount", amountStr),
	))
	defer span.End()

	resp, err := s.Gateway.RequestQR(ctx, QRRequest{
		Amount:         json.Number(amountStr),
		Remarks1:       remarks1,
		Remarks2:       remarks2,
		PRN:            prn,
		MerchantCode:   s.Merchant.Code,
		DataValidation: Sign(s.Merchant.Secret, validationData(amountStr, s.Merchant.Code, prn, remarks1, remarks2)),
		Username:       s.Merchant.Username,
		Password:       s.Merchant.Password,
	})
	if err == nil && (resp.QRMessage == "" || resp.MerchantWebSocketURL == "") {
		err = fmt.Errorf("incomplete qr response: %q", resp.Message)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "initiate")
		s.Metrics.Payment("initiate", "error")
		return nil, fmt.Errorf("%w: %w", ErrExternal, err)
	}
	s.Metrics.Payment("initiate", "ok")

	out := &Initiated{QRMessage: resp.QRMessage, WSURL: resp.MerchantWebSocketURL, PRN: prn}
	s.publish(ctx, fmt.Sprint(prn), map[string]any{
		"type":   "payment_initiated",
		"prn":    prn,
		"amount": amountStr,
		"wsUrl":  out.WSURL,
	})
	return out, nil
}

// AwaitPayment returns the first JSON message received on wsURL.
func (s *Service) AwaitPayment(ctx context.Context, wsURL string) (json.RawMessage, error) {
	if wsURL == "" {
		return nil, fmt.Errorf("wsUrl is required: %w", ErrValidation)
	}

	ctx, span := tracer.Start(ctx, "payment.listen")
	defer span.End()

	var msg json.RawMessage
	err := s.Socket.Listen(ctx, wsURL, func(m json.RawMessage) bool {
		msg = m
		return false
	})
	if err != nil {
		s.listenFailed(span, err)
		return nil, err
	}
	s.delivered(ctx, wsURL, msg)
	return msg, nil
}

// StreamPayment passes every JSON message received on wsURL to send. It
// returns nil when the socket closes after at least one message, and stops
// early with send's error if send fails.
func (s *Service) StreamPayment(ctx context.Context, wsURL string, send func(json.RawMessage) error) error {
	if wsURL == "" {
		return fmt.Errorf("wsUrl is required: %w", ErrValidation)
	}

	ctx, span := tracer.Start(ctx, "payment.stream")
	defer span.End()

	var (
		sent    int
		sendErr error
	)
	err := s.Socket.Listen(ctx, wsURL, func(m json.RawMessage) bool {
		if sendErr = send(m); sendErr != nil {
			return false
		}
		sent++
		s.delivered(ctx, wsURL, m)
		return true
	})
	span.SetAttributes(attribute.Int("payment.messages", sent))

	switch {
	case sendErr != nil:
		return sendErr
	case err == nil, sent > 0 && errors.Is(err, ErrSocketClosed):
		return nil
	default:
		s.listenFailed(span, err)
		return err
	}
}

func (s *Service) listenFailed(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, "listen")

	switch {
	case errors.Is(err, ErrListenTimeout):
		s.Metrics.Payment("listen", "timeout")
	case errors.Is(err, context.Canceled):
		s.Metrics.Payment("listen", "canceled")
	default:
		s.Metrics.Payment("listen", "closed")
	}
}

func (s *Service) delivered(ctx context.Context, wsURL string, msg json.RawMessage) {
	s.Metrics.Payment("listen", "delivered")
	s.publish(ctx, wsURL, map[string]any{
		"type":    "payment_message",
		"wsUrl":   wsURL,
		"message": msg,
	})
}

func (s *Service) publish(ctx context.Context, key string, event map[string]any) {
	if s.Events == nil {
		return
	}
	if err := s.Events.PublishEvent(ctx, events.TopicPayment, key, event); err != nil {
		logging.FromContext(ctx).Error("payment_event_publish_error", "type", event["type"], "error", err)
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

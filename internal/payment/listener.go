package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"

	"github.com/Skotchmaster/qr_cart/pkg/logging"
)

var (
	ErrListenTimeout = errors.New("timed out waiting for payment message")
	ErrSocketClosed  = errors.New("payment socket closed")
	ErrExternal      = errors.New("payment gateway failure")
)

const DefaultListenTimeout = 5 * time.Minute

// Listener reads JSON messages from the merchant's payment socket.
type Listener struct {
	Dialer  *websocket.Dialer
	Timeout time.Duration
}

func NewListener(timeout time.Duration) *Listener {
	return &Listener{
		Dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 10 * time.Second,
		},
		Timeout: timeout,
	}
}

// Listen dials wsURL and passes every frame that decodes as JSON to fn until
// fn returns false. Frames that are not JSON are skipped.
//
// The socket is closed before Listen returns, and as soon as ctx is done or
// the listen timeout expires. A timeout yields ErrListenTimeout, a
// cancelled ctx yields its cause, and a socket that fails or closes first
// yields ErrSocketClosed.
func (l *Listener) Listen(ctx context.Context, wsURL string, fn func(json.RawMessage) bool) error {
	timeout := l.Timeout
	if timeout <= 0 {
		timeout = DefaultListenTimeout
	}
	ctx, cancel := context.WithTimeoutCause(ctx, timeout, ErrListenTimeout)
	defer cancel()

	dialer := l.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}

	conn, resp, err := dialer.DialContext(ctx, wsURL, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		if ctx.Err() != nil {
			return context.Cause(ctx)
		}
		return fmt.Errorf("dial payment socket: %w: %w", ErrExternal, err)
	}

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()
	defer conn.Close()

	log := logging.FromContext(ctx)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return context.Cause(ctx)
			}
			return fmt.Errorf("%w: %w", ErrSocketClosed, err)
		}

		if !utf8.Valid(data) || !json.Valid(data) {
			log.Warn("payment_frame_skipped", "bytes", len(data), "error", "frame is not valid JSON")
			continue
		}

		if !fn(json.RawMessage(data)) {
			return nil
		}
	}
}

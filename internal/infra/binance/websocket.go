package binance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"sync/atomic"
	"time"

	"kline_feed/internal/domain"
	"kline_feed/internal/infra"

	"github.com/gorilla/websocket"
)

const (
	defaultHandshakeTimeout = 10 * time.Second
	closeWriteTimeout       = time.Second
)

// Handler consumes one decoded event. A returned error stops the event loop.
type Handler func(domain.WebsocketEvent) error

// Option configures WebSockets
type Option func(*WebSockets)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(w *WebSockets) { w.logger = logger }
}

// WithMetrics sets the metrics sink
func WithMetrics(m *infra.Metrics) Option {
	return func(w *WebSockets) { w.metrics = m }
}

// WithReadTimeout sets a deadline for every frame read. Zero disables it.
func WithReadTimeout(d time.Duration) Option {
	return func(w *WebSockets) { w.readTimeout = d }
}

// WithHandshakeTimeout bounds the TLS + WebSocket handshake.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(w *WebSockets) { w.handshakeTimeout = d }
}

// WebSockets is a single-connection Binance market stream client.
//
// The event loop runs on the caller's goroutine and invokes the handler
// inline, in frame order. Only the running flag passed to EventLoop may be
// touched from other goroutines.
type WebSockets struct {
	conn    *websocket.Conn
	handler Handler
	failure error // set when the loop failed; cleared by Disconnect

	readTimeout      time.Duration
	handshakeTimeout time.Duration

	logger  *slog.Logger
	metrics *infra.Metrics
}

// NewWebSockets creates an unconnected client bound to handler.
func NewWebSockets(handler Handler, opts ...Option) *WebSockets {
	w := &WebSockets{
		handler:          handler,
		handshakeTimeout: defaultHandshakeTimeout,
		logger:           slog.Default().With("module", "binance_ws"),
		metrics:          infra.GlobalMetrics,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// IsConnected reports whether a socket is held.
func (w *WebSockets) IsConnected() bool {
	return w.conn != nil
}

// Connect performs the blocking handshake to rawURL and keeps the socket.
// A socket already held is closed first.
func (w *WebSockets) Connect(ctx context.Context, rawURL string) error {
	u, err := parseStreamURL(rawURL)
	if err != nil {
		return domain.NewStreamError("connect", domain.ErrURLInvalid, err)
	}

	if w.conn != nil {
		w.logger.Warn("Replacing open stream connection")
		if err := w.Disconnect(); err != nil {
			w.logger.Warn("Closing previous connection failed", slog.Any("error", err))
		}
	}

	dialer := websocket.Dialer{
		Proxy:            websocket.DefaultDialer.Proxy,
		HandshakeTimeout: w.handshakeTimeout,
	}
	conn, resp, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		w.metrics.RecordError()
		if resp != nil {
			err = fmt.Errorf("%w (status %s)", err, resp.Status)
		}
		return domain.NewStreamError("connect", domain.ErrHandshakeFailed, err)
	}

	w.conn = conn
	w.metrics.IncrementConnections()
	w.logger.Info("Binance stream connected", slog.String("url", u.String()))
	return nil
}

func parseStreamURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.New("missing host")
	}
	return u, nil
}

// EventLoop reads frames while running is true and a socket is held.
//
// It returns nil once running is observed false, and an error of kind
// ErrHandlerFailed, ErrDecodeFailed, ErrRemoteClosed or ErrTransportFailed
// otherwise. After a failure only Disconnect is useful: further calls
// return the same error. Pings are answered by the connection's default
// ping handler. Clearing running takes effect at the next frame boundary.
func (w *WebSockets) EventLoop(running *atomic.Bool) error {
	if w.failure != nil {
		return w.failure
	}
	err := w.eventLoop(running)
	if err != nil {
		w.failure = err
	}
	return err
}

func (w *WebSockets) eventLoop(running *atomic.Bool) error {
	for running.Load() {
		if w.conn == nil {
			return nil
		}

		if w.readTimeout > 0 {
			w.conn.SetReadDeadline(time.Now().Add(w.readTimeout))
		}

		msgType, msg, err := w.conn.ReadMessage()
		if err != nil {
			return w.readError(err, running)
		}
		w.metrics.RecordFrame()

		// Ping, pong and close never reach here: the connection's control
		// handlers consume them inside ReadMessage.
		if msgType != websocket.TextMessage {
			continue
		}

		if err := w.handleMsg(msg); err != nil {
			w.metrics.RecordError()
			return err
		}
	}
	return nil
}

func (w *WebSockets) readError(err error, running *atomic.Bool) error {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		w.logger.Info("Binance stream closed by peer",
			slog.Int("code", closeErr.Code), slog.String("reason", closeErr.Text))
		return domain.NewStreamError("read", domain.ErrRemoteClosed, closeErr)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() && !running.Load() {
		// Deadline hit after a stop request: treat as the cooperative stop.
		return nil
	}

	w.metrics.RecordError()
	return domain.NewStreamError("read", domain.ErrTransportFailed, err)
}

// handleMsg decodes one text frame and hands the event to the handler.
func (w *WebSockets) handleMsg(msg []byte) error {
	ev, err := Decode(msg)
	if err != nil {
		return err
	}
	if ev == nil {
		w.metrics.RecordSkipped()
		w.logger.Debug("Skipping unknown stream payload", slog.Int("bytes", len(msg)))
		return nil
	}

	start := time.Now()
	if err := w.handler(ev); err != nil {
		return domain.NewStreamError("handle", domain.ErrHandlerFailed, err)
	}
	w.metrics.RecordEvent(time.Since(start).Nanoseconds())
	return nil
}

// Disconnect sends a close frame and releases the socket.
// It fails with ErrNotConnected when no socket is held.
func (w *WebSockets) Disconnect() error {
	if w.conn == nil {
		return domain.NewStreamError("close", domain.ErrNotConnected, nil)
	}

	conn := w.conn
	w.conn = nil
	w.failure = nil
	w.metrics.DecrementConnections()

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	writeErr := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWriteTimeout))
	closeErr := conn.Close()

	// The peer may already have closed; a close frame echo is then refused.
	if writeErr != nil && !errors.Is(writeErr, websocket.ErrCloseSent) {
		return domain.NewStreamError("close", domain.ErrTransportFailed, writeErr)
	}
	if closeErr != nil {
		return domain.NewStreamError("close", domain.ErrTransportFailed, closeErr)
	}
	w.logger.Info("Binance stream disconnected")
	return nil
}

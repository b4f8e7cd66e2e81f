// Package client performs one-shot notification round trips against the bridge.
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/rbright/notifyctl/internal/protocol"
)

// Client dials a fresh connection for every call. The zero value targets
// nothing useful; set Endpoint or use New.
type Client struct {
	Endpoint Endpoint
	// Timeout bounds dial, write and read together. Zero blocks indefinitely.
	Timeout time.Duration
	Logger  *slog.Logger
}

// New builds a client for endpoint with no timeout and a discarding logger.
func New(endpoint Endpoint) Client {
	return Client{Endpoint: endpoint}
}

// SendNotification sends {title, message} to endpoint and returns the outcome.
func SendNotification(ctx context.Context, title, message string, endpoint Endpoint) Result {
	return New(endpoint).Notify(ctx, protocol.Request{Title: title, Message: message})
}

// Notify writes req as one JSON line and reads the bridge reply.
func (c Client) Notify(ctx context.Context, req protocol.Request) Result {
	payload, err := protocol.Encode(req)
	if err != nil {
		return failed(err)
	}
	return c.roundTrip(ctx, "notify", payload)
}

// SendRaw writes payload verbatim and reads the bridge reply. The client does
// not validate payload.
func (c Client) SendRaw(ctx context.Context, payload []byte) Result {
	return c.roundTrip(ctx, "raw", payload)
}

// Probe reports whether something is accepting connections at the endpoint.
func (c Client) Probe(ctx context.Context) (bool, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		if errors.Is(err, ErrConnectionRefused) {
			return false, nil
		}
		return false, fmt.Errorf("probe %s: %w", c.Endpoint, err)
	}
	_ = conn.Close()
	return true, nil
}

func (c Client) roundTrip(ctx context.Context, op string, payload []byte) Result {
	requestID := uuid.NewString()
	started := time.Now()
	logger := c.logger().With("request_id", requestID, "op", op, "endpoint", c.Endpoint.Address())

	reply, err := c.exchange(ctx, payload)

	if err != nil {
		result := failed(err)
		logger.Warn("bridge round trip failed",
			"kind", result.Kind.String(),
			"error", err.Error(),
			"duration_ms", time.Since(started).Milliseconds(),
		)
		return result
	}

	result := delivered(reply)
	logger.Info("bridge round trip",
		"kind", result.Kind.String(),
		"reply", reply.String(),
		"bytes_sent", len(payload),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return result
}

// exchange owns the connection for exactly one write and one reply.
func (c Client) exchange(ctx context.Context, payload []byte) (protocol.Reply, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if c.Timeout > 0 {
		if err := conn.SetDeadline(time.Now().Add(c.Timeout)); err != nil {
			return "", fmt.Errorf("set deadline: %w", err)
		}
	}

	if _, err := conn.Write(payload); err != nil {
		return "", contextual(ctx, fmt.Errorf("write request: %w", err))
	}

	reader := bufio.NewReader(io.LimitReader(conn, protocol.MaxReplyBytes))
	line, err := reader.ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", contextual(ctx, fmt.Errorf("read reply: %w", err))
	}
	if !utf8.Valid(line) {
		return "", errors.New("decode reply: invalid UTF-8")
	}

	return protocol.NewReply(line), nil
}

func (c Client) dial(ctx context.Context) (net.Conn, error) {
	dialer := net.Dialer{Timeout: c.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.Endpoint.Address())
	if err != nil {
		if isConnectionRefused(err) {
			return nil, fmt.Errorf("dial %s: %w: %w", c.Endpoint, ErrConnectionRefused, err)
		}
		return nil, fmt.Errorf("dial %s: %w", c.Endpoint, err)
	}
	return conn, nil
}

func (c Client) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// contextual prefers the cancellation cause over the closed-connection error it produced.
func contextual(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w (%w)", ctxErr, err)
	}
	return err
}

// isConnectionRefused reports no-listener failures.
func isConnectionRefused(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, syscall.ECONNREFUSED)
}

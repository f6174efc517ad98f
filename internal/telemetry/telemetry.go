// Package telemetry publishes simulation events to a socket.io server.
//
// A Client is stored as a host resource; jobs that want to report progress
// look it up and call Emit. Without a configured server no Client exists and
// those jobs stay silent.
package telemetry

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/specialistvlad/tickgrid/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultTimeout bounds the wait for the initial connection.
const DefaultTimeout = 15 * time.Second

// ErrClosed is returned by Emit after Close.
var ErrClosed = errors.New("telemetry client is closed")

// Options configures Connect.
type Options struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
	// Timeout defaults to DefaultTimeout.
	Timeout time.Duration
}

// SendFunc delivers one event. It is the seam between Client and its
// transport.
type SendFunc func(event string, payload any)

// Client is a connected event sink. It is safe for concurrent use.
type Client struct {
	mu     sync.Mutex
	id     string
	send   SendFunc
	close  func()
	closed bool
}

// NewClient wraps send as a Client with no transport behind it.
func NewClient(id string, send SendFunc) *Client {
	return &Client{id: id, send: send, close: func() {}}
}

// Connect dials the socket.io server and waits for the namespace to connect.
func Connect(ctx context.Context, opts Options) (*Client, error) {
	logger := ctxlog.FromContext(ctx).With("url", opts.URL, "namespace", opts.Namespace)
	logger.Info("Connecting telemetry client.")

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse telemetry URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("telemetry URL %q must be absolute", opts.URL)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	namespace := opts.Namespace
	if namespace == "" {
		namespace = "/"
	}

	sopts := socket.DefaultOptions()
	sopts.SetPath(parsedURL.Path)
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification.")
		sopts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sopts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sopts)
	io := manager.Socket(namespace, sopts)

	connected := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		connected <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connected <- err
	})
	io.Connect()

	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", timeout)
	}

	logger.Info("Telemetry client connected.", "sid", string(io.Id()))
	return &Client{
		id:    string(io.Id()),
		send:  func(event string, payload any) { io.Emit(event, payload) },
		close: func() { io.Disconnect() },
	}, nil
}

// ID returns the session id assigned by the server.
func (c *Client) ID() string { return c.id }

// Emit sends event with payload.
func (c *Client) Emit(event string, payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.send(event, payload)
	return nil
}

// Close disconnects the client. It is safe to call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.close()
}

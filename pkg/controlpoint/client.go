package controlpoint

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/renderctl/renderctl-go/pkg/log"
	"github.com/renderctl/renderctl-go/pkg/version"
	"github.com/renderctl/renderctl-go/pkg/wire"
)

// Client errors.
var (
	ErrClientClosed = errors.New("client is closed")
	ErrNoService    = errors.New("action has no service")
	ErrNoControlURL = errors.New("service has no control URL")
	ErrHTTPStatus   = errors.New("unexpected HTTP status")
)

// maxResponseSize bounds the body read from a renderer.
const maxResponseSize = 1 << 20

// Config configures a Client.
type Config struct {
	// HTTPClient sends the requests. If nil, a client with RequestTimeout is used.
	HTTPClient *http.Client

	// RequestTimeout bounds each action from request to reply.
	RequestTimeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// ProtocolLogger receives request, response and fault events.
	// If nil, protocol logging is disabled.
	ProtocolLogger log.Logger

	// SessionID is stamped on protocol log events.
	SessionID string
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() Config {
	return Config{
		RequestTimeout: 10 * time.Second,
		UserAgent:      version.UserAgent(),
	}
}

// Client sends control actions asynchronously.
type Client struct {
	mu     sync.Mutex
	closed bool

	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	logger     *slog.Logger
	protoLog   log.Logger
	sessionID  string

	nextID   uint32
	inflight sync.WaitGroup
}

// NewClient creates a new control point client.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout}
	}
	return &Client{
		httpClient: httpClient,
		timeout:    cfg.RequestTimeout,
		userAgent:  cfg.UserAgent,
		logger:     cfg.Logger,
		protoLog:   cfg.ProtocolLogger,
		sessionID:  cfg.SessionID,
	}
}

// Execute dispatches the action and returns immediately. Exactly one of
// onSuccess or onFailure is called, exactly once, on another goroutine.
// Either callback may be nil.
//
// After Close, onFailure is called synchronously with ErrClientClosed.
func (c *Client) Execute(action *Action, onSuccess func(*wire.Response), onFailure func(*ActionFailure)) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		if onFailure != nil {
			onFailure(newFailure(action, ErrClientClosed))
		}
		return
	}
	c.inflight.Add(1)
	c.mu.Unlock()

	id := atomic.AddUint32(&c.nextID, 1)
	go func() {
		// Callbacks run before Done so that actions they chain are
		// covered by Wait.
		defer c.inflight.Done()

		resp, err := c.invoke(id, action)
		if err != nil {
			failure := newFailure(action, err)
			c.debug("action failed", "invocation", id, "action", action.String(), "error", failure)
			if onFailure != nil {
				onFailure(failure)
			}
			return
		}
		if onSuccess != nil {
			onSuccess(resp)
		}
	}()
}

// Wait blocks until every dispatched action, including actions dispatched
// from callbacks, has completed.
func (c *Client) Wait() {
	c.inflight.Wait()
}

// Close rejects new actions and waits for in-flight ones to complete.
func (c *Client) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.inflight.Wait()
	return nil
}

// invoke performs one request/reply exchange.
func (c *Client) invoke(id uint32, action *Action) (*wire.Response, error) {
	if action.Service == nil {
		return nil, ErrNoService
	}
	if action.Service.ControlURL == "" {
		return nil, ErrNoControlURL
	}

	req := action.Request()
	body, err := wire.EncodeRequest(req)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, action.Service.ControlURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", wire.ContentType)
	httpReq.Header.Set("SOAPACTION", req.SOAPAction())
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	c.logRequest(id, action)
	c.debug("sending action", "invocation", id, "action", action.String(), "url", action.Service.ControlURL)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logError(id, action, err)
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		c.logError(id, action, err)
		return nil, err
	}
	elapsed := time.Since(start)

	// Renderers report faults with status 500; some also send them with 200.
	resp, err := wire.DecodeResponse(data, action.Name)
	if err != nil {
		var fault *wire.Fault
		if errors.As(err, &fault) {
			c.logFault(id, action, fault, elapsed)
			return nil, fault
		}
		if httpResp.StatusCode >= http.StatusMultipleChoices {
			err = fmt.Errorf("%w: %d %s", ErrHTTPStatus, httpResp.StatusCode, http.StatusText(httpResp.StatusCode))
		}
		c.logError(id, action, err)
		return nil, err
	}
	if httpResp.StatusCode >= http.StatusMultipleChoices {
		err = fmt.Errorf("%w: %d %s", ErrHTTPStatus, httpResp.StatusCode, http.StatusText(httpResp.StatusCode))
		c.logError(id, action, err)
		return nil, err
	}

	c.logResponse(id, action, resp, elapsed)
	return resp, nil
}

func newFailure(action *Action, err error) *ActionFailure {
	f := &ActionFailure{
		Action:  action.Name,
		Message: err.Error(),
		Err:     err,
	}
	if action.Service != nil {
		f.Service = action.Service.ServiceType
	}

	var fault *wire.Fault
	if errors.As(err, &fault) {
		f.Code = fault.Code
		if fault.Description != "" {
			f.Message = fault.Description
		}
	}
	return f
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

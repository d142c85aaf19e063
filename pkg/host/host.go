package host

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/renderctl/renderctl-go/pkg/controlpoint"
	"github.com/renderctl/renderctl-go/pkg/log"
	"github.com/renderctl/renderctl-go/pkg/model"
	"github.com/renderctl/renderctl-go/pkg/session"
)

// Config configures a Host.
type Config struct {
	// Loader configures description fetching.
	Loader model.LoaderConfig

	// Client configures action dispatch. An empty SessionID is replaced
	// with a generated one.
	Client controlpoint.Config

	// Logger is the optional logger passed to the loader and client.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// ProtocolLogger receives action events.
	// If nil, protocol logging is disabled.
	ProtocolLogger log.Logger
}

// DefaultConfig returns the default host configuration.
func DefaultConfig() Config {
	return Config{
		Loader: model.DefaultLoaderConfig(),
		Client: controlpoint.DefaultConfig(),
	}
}

// Host owns a control point client for the lifetime of a session.
type Host struct {
	mu       sync.Mutex
	released bool

	sessionID string
	loader    *model.Loader
	client    *controlpoint.Client
	directory model.Directory
	logger    *slog.Logger
}

// New creates a Host.
func New(cfg Config) *Host {
	if cfg.Client.SessionID == "" {
		cfg.Client.SessionID = uuid.NewString()
	}
	if cfg.Client.Logger == nil {
		cfg.Client.Logger = cfg.Logger
	}
	if cfg.Client.ProtocolLogger == nil {
		cfg.Client.ProtocolLogger = cfg.ProtocolLogger
	}
	if cfg.Loader.Logger == nil {
		cfg.Loader.Logger = cfg.Logger
	}

	return &Host{
		sessionID: cfg.Client.SessionID,
		loader:    model.NewLoader(cfg.Loader),
		client:    controlpoint.NewClient(cfg.Client),
		logger:    cfg.Logger,
	}
}

// SessionID returns the ID stamped on protocol log events.
func (h *Host) SessionID() string {
	return h.sessionID
}

// ControlPoint returns the action dispatcher.
func (h *Host) ControlPoint() session.ControlPoint {
	return h.client
}

// Directory returns the service directory.
func (h *Host) Directory() session.Directory {
	return h.directory
}

// Load fetches the renderer described at location.
func (h *Host) Load(ctx context.Context, location string) (*model.Device, error) {
	d, err := h.loader.Load(ctx, location)
	if err != nil {
		return nil, err
	}
	if h.logger != nil {
		h.logger.Info("renderer loaded", "device", d.String(), "location", location)
	}
	return d, nil
}

// Wait blocks until every dispatched action has completed.
func (h *Host) Wait() {
	h.client.Wait()
}

// Release waits for in-flight actions and closes the client. Further calls
// do nothing.
func (h *Host) Release() error {
	h.mu.Lock()
	if h.released {
		h.mu.Unlock()
		return nil
	}
	h.released = true
	h.mu.Unlock()

	return h.client.Close()
}

var _ session.Binding = (*Host)(nil)

package model

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/renderctl/renderctl-go/pkg/version"
)

// maxDocumentSize bounds description and SCPD downloads.
const maxDocumentSize = 1 << 20

// LoaderConfig configures a Loader.
type LoaderConfig struct {
	// HTTPClient fetches documents. If nil, a client with Timeout is used.
	HTTPClient *http.Client

	// Timeout is the per-request timeout for the default client.
	Timeout time.Duration

	// Services lists the short names whose SCPD documents are fetched.
	Services []string

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger
}

// DefaultLoaderConfig returns a LoaderConfig for the control session's
// services.
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		Timeout:  5 * time.Second,
		Services: []string{ServiceRenderingControl, ServiceAVTransport},
	}
}

// Loader fetches device and service descriptions over HTTP.
type Loader struct {
	client   *http.Client
	services []string
	logger   *slog.Logger
}

// NewLoader creates a Loader.
func NewLoader(cfg LoaderConfig) *Loader {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Loader{
		client:   client,
		services: cfg.Services,
		logger:   cfg.Logger,
	}
}

// Load fetches the description at location and the SCPD documents of the
// configured services. A failed SCPD fetch leaves that service without
// state variables and is only logged.
func (l *Loader) Load(ctx context.Context, location string) (*Device, error) {
	body, err := l.fetch(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("fetch description: %w", err)
	}
	defer body.Close()

	device, err := ParseDescription(body, location)
	if err != nil {
		return nil, err
	}
	if !version.UPnPCompatible(device.SpecVersion) && l.logger != nil {
		l.logger.Warn("unsupported architecture version",
			"device", device.UDN,
			"spec_version", device.SpecVersion,
			"supported", version.UPnP)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range l.services {
		svc, ok := device.Service(name)
		if !ok || svc.SCPDURL == "" {
			l.debug("service not described", "device", device.UDN, "service", name)
			continue
		}
		g.Go(func() error {
			if err := l.loadSCPD(gctx, svc); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if l.logger != nil {
					l.logger.Warn("SCPD fetch failed",
						"device", device.UDN,
						"service", svc.ServiceType,
						"url", svc.SCPDURL,
						"error", err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return device, nil
}

func (l *Loader) loadSCPD(ctx context.Context, svc *Service) error {
	body, err := l.fetch(ctx, svc.SCPDURL)
	if err != nil {
		return err
	}
	defer body.Close()

	vars, err := ParseSCPD(body)
	if err != nil {
		return err
	}
	for _, v := range vars {
		svc.AddStateVariable(v)
	}
	l.debug("SCPD loaded", "service", svc.ServiceType, "variables", len(vars))
	return nil
}

func (l *Loader) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(b))
	}
	return struct {
		io.Reader
		io.Closer
	}{io.LimitReader(resp.Body, maxDocumentSize), resp.Body}, nil
}

func (l *Loader) debug(msg string, args ...any) {
	if l.logger != nil {
		l.logger.Debug(msg, args...)
	}
}

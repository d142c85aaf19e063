package session

import (
	"log/slog"

	"github.com/renderctl/renderctl-go/pkg/log"
)

// Config configures a Session.
type Config struct {
	// VolumeStep is the amount IncreaseVolume and DecreaseVolume change the
	// volume by. It replaces the step the renderer declares. New replaces a
	// non-positive value with the default.
	VolumeStep int64

	// Logger is the optional logger for debug output and failures.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// ProtocolLogger receives binding and selection state changes.
	// If nil, protocol logging is disabled.
	ProtocolLogger log.Logger

	// SessionID is stamped on protocol log events.
	SessionID string
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		VolumeStep: 4,
	}
}

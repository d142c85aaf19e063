package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes protocol events to an slog.Logger at debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a SlogAdapter.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event as a single "protocol" record.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session_id", event.SessionID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}
	if event.DeviceUDN != "" {
		attrs = append(attrs, slog.String("device", event.DeviceUDN))
	}

	switch {
	case event.Action != nil:
		act := event.Action
		attrs = append(attrs,
			slog.Uint64("invocation", uint64(act.InvocationID)),
			slog.String("msg_type", act.Type.String()),
			slog.String("action", act.Action),
		)
		if len(act.Arguments) > 0 {
			attrs = append(attrs, slog.Any("args", act.Arguments))
		}
		if act.FaultCode != nil {
			attrs = append(attrs, slog.Int("fault_code", *act.FaultCode))
		}
		if act.Duration != nil {
			attrs = append(attrs, slog.Duration("duration", *act.Duration))
		}
	case event.StateChange != nil:
		sc := event.StateChange
		attrs = append(attrs,
			slog.String("entity", sc.Entity.String()),
			slog.String("old_state", sc.OldState),
			slog.String("new_state", sc.NewState),
		)
		if sc.Reason != "" {
			attrs = append(attrs, slog.String("reason", sc.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
		)
		if event.Error.Action != "" {
			attrs = append(attrs, slog.String("error_action", event.Error.Action))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "protocol", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)

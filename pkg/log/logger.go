package log

// Logger receives protocol log events.
// Pass nil or NoopLogger to disable protocol logging.
type Logger interface {
	// Log records an event. Implementations must be safe for concurrent use
	// because action completions arrive on dispatch goroutines.
	Log(event Event)
}

// NoopLogger discards all events. The zero value is ready to use.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

var _ Logger = NoopLogger{}

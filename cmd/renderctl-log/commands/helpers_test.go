package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/renderctl/renderctl-go/pkg/log"
)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.rlog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("failed to close logger: %v", err)
	}
	return path
}

// exchange returns a request and its response for one action.
func exchange(ts time.Time, session string, id uint32, action string, elapsed time.Duration) []log.Event {
	return []log.Event{
		{
			Timestamp: ts, SessionID: session, Direction: log.DirectionOut,
			Layer: log.LayerWire, Category: log.CategoryAction, DeviceUDN: "uuid:r1",
			Action: &log.ActionEvent{Type: log.MessageTypeRequest, InvocationID: id, Action: action},
		},
		{
			Timestamp: ts.Add(elapsed), SessionID: session, Direction: log.DirectionIn,
			Layer: log.LayerWire, Category: log.CategoryAction, DeviceUDN: "uuid:r1",
			Action: &log.ActionEvent{Type: log.MessageTypeResponse, InvocationID: id, Action: action, Duration: &elapsed},
		},
	}
}

package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/renderctl/renderctl-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	Created           time.Time
	FormatVersion     uint8
	TotalEvents       int
	EventsByLayer     map[log.Layer]int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	Actions           map[string]*ActionStats
	Sessions          map[string]*SessionStats
	Errors            int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// ActionStats holds statistics for one action name.
type ActionStats struct {
	Requests  int
	Responses int
	Faults    int
	Total     time.Duration
	Max       time.Duration
}

// Average returns the mean round trip of completed actions.
func (a *ActionStats) Average() time.Duration {
	n := a.Responses + a.Faults
	if n == 0 {
		return 0
	}
	return a.Total / time.Duration(n)
}

// SessionStats holds statistics for a single session.
type SessionStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Devices   map[string]struct{}
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := collectStats(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func collectStats(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		Created:           reader.Header().Created,
		FormatVersion:     reader.Header().Version,
		EventsByLayer:     make(map[log.Layer]int),
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		Actions:           make(map[string]*ActionStats),
		Sessions:          make(map[string]*SessionStats),
	}

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByLayer[event.Layer]++
		stats.EventsByCategory[event.Category]++
		stats.EventsByDirection[event.Direction]++

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		sess, ok := stats.Sessions[event.SessionID]
		if !ok {
			sess = &SessionStats{
				FirstSeen: event.Timestamp,
				LastSeen:  event.Timestamp,
				Devices:   make(map[string]struct{}),
			}
			stats.Sessions[event.SessionID] = sess
		}
		sess.Events++
		if event.Timestamp.After(sess.LastSeen) {
			sess.LastSeen = event.Timestamp
		}
		if event.DeviceUDN != "" {
			sess.Devices[event.DeviceUDN] = struct{}{}
		}

		if act := event.Action; act != nil {
			as, ok := stats.Actions[act.Action]
			if !ok {
				as = &ActionStats{}
				stats.Actions[act.Action] = as
			}
			switch act.Type {
			case log.MessageTypeRequest:
				as.Requests++
			case log.MessageTypeResponse:
				as.Responses++
			case log.MessageTypeFault:
				as.Faults++
			}
			if act.Duration != nil {
				as.Total += *act.Duration
				if *act.Duration > as.Max {
					as.Max = *act.Duration
				}
			}
		}

		if event.Error != nil {
			stats.Errors++
		}
	}

	return stats, nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Renderer Control Log Statistics ===")
	fmt.Fprintln(w)

	if !stats.Created.IsZero() {
		fmt.Fprintf(w, "Log Created: %s (format v%d)\n", stats.Created.Format(time.RFC3339), stats.FormatVersion)
	}

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerWire, log.LayerSession} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryAction, log.CategoryState, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Direction:")
	for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut} {
		if count := stats.EventsByDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", dir.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if len(stats.Actions) > 0 {
		names := make([]string, 0, len(stats.Actions))
		for name := range stats.Actions {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Fprintln(w, "Actions:")
		for _, name := range names {
			as := stats.Actions[name]
			fmt.Fprintf(w, "  %-16s sent %d, ok %d, fault %d, avg %s, max %s\n",
				name, as.Requests, as.Responses, as.Faults,
				formatDuration(as.Average()), formatDuration(as.Max))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Sessions: %d\n", len(stats.Sessions))
	if len(stats.Sessions) > 0 {
		type sessionInfo struct {
			id    string
			stats *SessionStats
		}
		sessions := make([]sessionInfo, 0, len(stats.Sessions))
		for id, ss := range stats.Sessions {
			sessions = append(sessions, sessionInfo{id, ss})
		}
		sort.Slice(sessions, func(i, j int) bool {
			return sessions[i].stats.FirstSeen.Before(sessions[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, s := range sessions {
			duration := s.stats.LastSeen.Sub(s.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", shortenID(s.id), s.stats.Events, duration)

			devices := make([]string, 0, len(s.stats.Devices))
			for udn := range s.stats.Devices {
				devices = append(devices, udn)
			}
			sort.Strings(devices)
			for _, udn := range devices {
				fmt.Fprintf(w, "           Device: %s\n", udn)
			}
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}

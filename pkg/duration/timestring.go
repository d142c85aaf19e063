package duration

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Time string errors.
var (
	ErrInvalidTime     = errors.New("invalid time string")
	ErrNotImplemented  = errors.New("time value not implemented by renderer")
	ErrFractionalValue = errors.New("time string has a fractional second")
)

// NotImplemented is the value renderers report for positions they cannot
// provide.
const NotImplemented = "NOT_IMPLEMENTED"

// Format renders d as a canonical H+:MM:SS[.F+] time string.
func Format(d time.Duration) string {
	var b strings.Builder
	if d < 0 {
		b.WriteByte('-')
		d = -d
	}

	d = d.Round(time.Millisecond)
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second
	d -= seconds * time.Second
	millis := d / time.Millisecond

	fmt.Fprintf(&b, "%d:%02d:%02d", hours, minutes, seconds)
	if millis > 0 {
		frac := strings.TrimRight(fmt.Sprintf("%03d", millis), "0")
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// FormatSeconds renders a whole number of seconds as a time string.
func FormatSeconds(seconds int) string {
	return Format(time.Duration(seconds) * time.Second)
}

// Parse decodes a time string into a duration.
func Parse(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == NotImplemented {
		return 0, ErrNotImplemented
	}
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidTime)
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	clock, frac, hasFrac := strings.Cut(s, ".")
	parts := strings.Split(clock, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}

	hours, err := parseField(parts[0], -1)
	if err != nil {
		return 0, err
	}
	minutes, err := parseField(parts[1], 59)
	if err != nil {
		return 0, err
	}
	seconds, err := parseField(parts[2], 59)
	if err != nil {
		return 0, err
	}
	if len(parts[1]) != 2 || len(parts[2]) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}

	d := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second

	if hasFrac {
		f, err := parseFraction(frac)
		if err != nil {
			return 0, err
		}
		d += f
	}

	if neg {
		d = -d
	}
	return d, nil
}

// ParseSeconds decodes a time string that must hold a whole number of
// seconds.
func ParseSeconds(s string) (int, error) {
	d, err := Parse(s)
	if err != nil {
		return 0, err
	}
	if d%time.Second != 0 {
		return 0, ErrFractionalValue
	}
	return int(d / time.Second), nil
}

// parseField parses a non-negative decimal field. max < 0 means unbounded.
func parseField(s string, max int) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty field", ErrInvalidTime)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: field %q", ErrInvalidTime, s)
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidTime, err)
	}
	if max >= 0 && v > max {
		return 0, fmt.Errorf("%w: field %q out of range", ErrInvalidTime, s)
	}
	return v, nil
}

// parseFraction handles both ".F+" and ".F0/F1".
func parseFraction(s string) (time.Duration, error) {
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := parseField(num, -1)
		if err != nil {
			return 0, err
		}
		dd, err := parseField(den, -1)
		if err != nil {
			return 0, err
		}
		if dd == 0 || n >= dd {
			return 0, fmt.Errorf("%w: fraction %q", ErrInvalidTime, s)
		}
		return time.Duration(n) * time.Second / time.Duration(dd), nil
	}

	if _, err := parseField(s, -1); err != nil {
		return 0, err
	}
	// Only nanosecond precision is representable.
	if len(s) > 9 {
		s = s[:9]
	}
	v, _ := strconv.Atoi(s + strings.Repeat("0", 9-len(s)))
	return time.Duration(v), nil
}

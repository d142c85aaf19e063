// Package inspect provides renderer description inspection utilities.
//
// The inspect package offers:
//   - Parsing path expressions (e.g., "RenderingControl/Volume")
//   - Resolving paths against a loaded device description
//   - Formatting output for display
package inspect

import (
	"errors"
	"strings"
)

// Path errors.
var (
	ErrEmptyPath   = errors.New("empty path")
	ErrInvalidPath = errors.New("invalid path format")
)

// Path represents a parsed inspection path.
// Format: service[/variable]
type Path struct {
	// Service is a short service name or a full service type URN.
	Service string

	// Variable is the state variable name. Empty for a partial path.
	Variable string

	// Raw stores the original input string.
	Raw string
}

// IsPartial reports whether the path names a service only.
func (p *Path) IsPartial() bool {
	return p.Variable == ""
}

// ParsePath parses a path string into a Path struct.
//
// Supported formats:
//   - "RenderingControl" - all state variables of a service
//   - "RenderingControl/Volume" - a single state variable
//   - "urn:schemas-upnp-org:service:RenderingControl:1/Volume" - full type
func ParsePath(input string) (*Path, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyPath
	}
	if strings.HasPrefix(input, "/") || strings.HasSuffix(input, "/") {
		return nil, ErrInvalidPath
	}

	parts := strings.Split(input, "/")
	if len(parts) > 2 {
		return nil, ErrInvalidPath
	}

	p := &Path{Service: parts[0], Raw: input}
	if len(parts) == 2 {
		p.Variable = parts[1]
	}
	return p, nil
}

// String returns the canonical path.
func (p *Path) String() string {
	if p.IsPartial() {
		return p.Service
	}
	return p.Service + "/" + p.Variable
}

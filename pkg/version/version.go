// Package version provides renderctl and UPnP architecture version helpers.
package version

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

// Current is the renderctl release.
const Current = "1.0"

// UPnP is the UPnP Device Architecture version this control point speaks.
const UPnP = "1.0"

// SpecVersion represents a parsed "major.minor" version.
type SpecVersion struct {
	Major uint16
	Minor uint16
}

// Parse parses a "major.minor" version string.
func Parse(s string) (SpecVersion, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return SpecVersion{}, fmt.Errorf("invalid version %q: expected major.minor", s)
	}

	major, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil || parts[0] == "" {
		return SpecVersion{}, fmt.Errorf("invalid version %q: bad major component", s)
	}

	minor, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil || parts[1] == "" {
		return SpecVersion{}, fmt.Errorf("invalid version %q: bad minor component", s)
	}

	return SpecVersion{Major: uint16(major), Minor: uint16(minor)}, nil
}

// String returns the version as "major.minor".
func (v SpecVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compatible returns true if the other version has the same major version.
func (v SpecVersion) Compatible(other SpecVersion) bool {
	return v.Major == other.Major
}

// UPnPCompatible reports whether a device's declared architecture version
// can be controlled. An empty version is accepted since many renderers
// omit specVersion.
func UPnPCompatible(declared string) bool {
	if declared == "" {
		return true
	}
	v, err := Parse(declared)
	if err != nil {
		return false
	}
	ours, _ := Parse(UPnP)
	// UDA 2.0 devices must still accept 1.0 control points.
	return v.Major >= ours.Major
}

// UserAgent returns the USER-AGENT header value in the
// "OS/version UPnP/1.0 product/version" form.
func UserAgent() string {
	return fmt.Sprintf("%s/%s UPnP/%s renderctl/%s", runtime.GOOS, runtime.GOARCH, UPnP, Current)
}

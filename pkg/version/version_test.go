package version

import (
	"strings"
	"testing"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		input string
		major uint16
		minor uint16
	}{
		{"1.0", 1, 0},
		{"1.1", 1, 1},
		{"2.0", 2, 0},
		{"10.23", 10, 23},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.input, err)
			}
			if v.Major != tt.major {
				t.Errorf("Major = %d, want %d", v.Major, tt.major)
			}
			if v.Minor != tt.minor {
				t.Errorf("Minor = %d, want %d", v.Minor, tt.minor)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []string{
		"",
		"1",
		"abc",
		"1.0.0",
		"1.x",
		"-1.0",
		".1",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			if err == nil {
				t.Errorf("Parse(%q) should return error", input)
			}
		})
	}
}

func TestSpecVersion_String(t *testing.T) {
	v := SpecVersion{Major: 1, Minor: 1}
	if got := v.String(); got != "1.1" {
		t.Errorf("String() = %q, want %q", got, "1.1")
	}
}

func TestSpecVersion_Compatible(t *testing.T) {
	v10 := SpecVersion{Major: 1, Minor: 0}
	v11 := SpecVersion{Major: 1, Minor: 1}
	v20 := SpecVersion{Major: 2, Minor: 0}

	if !v10.Compatible(v11) {
		t.Error("1.0 should be compatible with 1.1")
	}
	if v10.Compatible(v20) {
		t.Error("1.0 should not be compatible with 2.0")
	}
}

func TestUPnPCompatible(t *testing.T) {
	tests := []struct {
		declared string
		want     bool
	}{
		{"", true},
		{"1.0", true},
		{"1.1", true},
		{"2.0", true},
		{"0.9", false},
		{"one", false},
	}

	for _, tt := range tests {
		if got := UPnPCompatible(tt.declared); got != tt.want {
			t.Errorf("UPnPCompatible(%q) = %v, want %v", tt.declared, got, tt.want)
		}
	}
}

func TestUserAgent(t *testing.T) {
	ua := UserAgent()
	if !strings.Contains(ua, " UPnP/"+UPnP+" ") {
		t.Errorf("UserAgent() = %q, missing UPnP token", ua)
	}
	if !strings.HasSuffix(ua, "renderctl/"+Current) {
		t.Errorf("UserAgent() = %q, missing product token", ua)
	}
}

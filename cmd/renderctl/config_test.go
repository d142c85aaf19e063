package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	flag "github.com/spf13/pflag"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "renderctl.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestParseFlagsDefaults(t *testing.T) {
	cfg, rest, err := parseFlags(nil, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
	if len(rest) != 0 {
		t.Errorf("rest = %v", rest)
	}
}

func TestParseFlagsConfigFile(t *testing.T) {
	path := writeConfig(t, `
location: http://10.0.0.5:49152/description.xml
log_level: debug
protocol_log: /tmp/renderctl.log
protocol_log_max_bytes: 1048576
state_file: /tmp/renderctl.json
volume_step: 5
request_timeout: 3s
interactive: true
`)

	cfg, _, err := parseFlags([]string{"--config", path}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	want := Config{
		Location:       "http://10.0.0.5:49152/description.xml",
		LogLevel:       "debug",
		ProtocolLog:    "/tmp/renderctl.log",
		ProtocolLogMax: 1 << 20,
		StateFile:      "/tmp/renderctl.json",
		VolumeStep:     5,
		RequestTimeout: 3 * time.Second,
		Interactive:    true,
	}
	if cfg != want {
		t.Errorf("cfg = %+v, want %+v", cfg, want)
	}
}

func TestParseFlagsPartialConfigFile(t *testing.T) {
	path := writeConfig(t, "volume_step: 2\n")

	cfg, _, err := parseFlags([]string{"-c", path}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.VolumeStep != 2 {
		t.Errorf("VolumeStep = %d, want 2", cfg.VolumeStep)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %s, want default", cfg.RequestTimeout)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default", cfg.LogLevel)
	}
}

func TestParseFlagsOverrideConfigFile(t *testing.T) {
	path := writeConfig(t, "volume_step: 2\nlocation: http://a/\nlog_level: warn\n")

	cfg, _, err := parseFlags([]string{
		"-c", path,
		"--volume-step", "8",
		"-l", "http://b/",
	}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.VolumeStep != 8 {
		t.Errorf("VolumeStep = %d, want 8", cfg.VolumeStep)
	}
	if cfg.Location != "http://b/" {
		t.Errorf("Location = %q", cfg.Location)
	}
	// Unset flags must not clobber file values with flag defaults.
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
}

func TestParseFlagsStopsAtCommand(t *testing.T) {
	cfg, rest, err := parseFlags([]string{"-l", "http://r/", "volume", "-5"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.Location != "http://r/" {
		t.Errorf("Location = %q", cfg.Location)
	}
	if len(rest) != 2 || rest[0] != "volume" || rest[1] != "-5" {
		t.Errorf("rest = %v, want [volume -5]", rest)
	}
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"zero step", []string{"--volume-step", "0"}, ErrInvalidVolumeStep},
		{"negative step", []string{"--volume-step=-1"}, ErrInvalidVolumeStep},
		{"zero timeout", []string{"--request-timeout", "0s"}, ErrInvalidTimeout},
		{"negative log size", []string{"--protocol-log-max-bytes=-1"}, ErrInvalidLogMax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseFlags(tt.args, &bytes.Buffer{})
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseFlagsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"log level", []string{"--log-level", "loud"}},
		{"unknown flag", []string{"--bogus"}},
		{"missing file", []string{"-c", filepath.Join(t.TempDir(), "none.yaml")}},
		{"bad yaml", []string{"-c", writeConfig(t, "volume_step: [1")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := parseFlags(tt.args, &bytes.Buffer{}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseFlagsHelp(t *testing.T) {
	var stderr bytes.Buffer
	_, _, err := parseFlags([]string{"--help"}, &stderr)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("error = %v, want ErrHelp", err)
	}
	if !bytes.Contains(stderr.Bytes(), []byte("renderctl - UPnP media renderer control")) {
		t.Errorf("usage not printed: %s", stderr.String())
	}
	if !bytes.Contains(stderr.Bytes(), []byte("--volume-step")) {
		t.Errorf("flag defaults not printed: %s", stderr.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	for _, s := range []string{"debug", "INFO", "", "warn", "warning", "error"} {
		if _, err := parseLogLevel(s); err != nil {
			t.Errorf("parseLogLevel(%q): %v", s, err)
		}
	}
	if _, err := parseLogLevel("trace"); err == nil {
		t.Error("parseLogLevel(trace): expected error")
	}
}

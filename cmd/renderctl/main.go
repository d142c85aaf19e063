// Command renderctl controls the volume and playback position of a UPnP
// media renderer.
//
// Usage:
//
//	renderctl [flags] [command [args...]]
//
// Flags:
//
//	-c, --config string          YAML configuration file
//	-l, --location string        Renderer description URL
//	    --log-level string       Log level: debug, info, warn, error (default "info")
//	    --protocol-log string    File path for protocol event logging (CBOR format)
//	    --protocol-log-max-bytes Rotate the protocol log at this size (0 disables)
//	    --state-file string      JSON file remembering selected renderers
//	    --volume-step int        Volume change for up/down (default 4)
//	    --request-timeout dur    Timeout for each control action (default 10s)
//	-i, --interactive            Enable interactive command mode
//
// Examples:
//
//	# Set the volume once
//	renderctl -l http://192.168.1.20:49152/description.xml volume 30
//
//	# Raise the volume by two steps
//	renderctl -l http://192.168.1.20:49152/description.xml up 2
//
//	# Interactive mode with a protocol log
//	renderctl -i --protocol-log renderctl.log
//
//	# Reuse the last selected renderer
//	renderctl --state-file ~/.renderctl.json down
//
// Commands:
//
//	select <location>        - Load and select a renderer
//	select [name|udn]        - Reselect a known renderer
//	renderers                - List known renderers
//	volume <n>               - Set volume
//	up [count]               - Raise volume by one step
//	down [count]             - Lower volume by one step
//	seek <seconds|H:MM:SS>   - Seek within the current track
//	status                   - Show session, volume and position
//	describe [service[/var]] - Show the renderer description
//	quit                     - Exit
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/renderctl/renderctl-go/cmd/renderctl/interactive"
	"github.com/renderctl/renderctl-go/pkg/controlpoint"
	"github.com/renderctl/renderctl-go/pkg/host"
	"github.com/renderctl/renderctl-go/pkg/log"
	"github.com/renderctl/renderctl-go/pkg/persistence"
	"github.com/renderctl/renderctl-go/pkg/session"
)

const usage = `renderctl - UPnP media renderer control

Usage:
  renderctl [flags] [command [args...]]

Commands:
  select <location>        Load and select a renderer
  renderers                List renderers remembered in --state-file
  volume <n>               Set volume
  up [count]               Raise volume by one step
  down [count]             Lower volume by one step
  seek <seconds|H:MM:SS>   Seek within the current track
  status                   Show session, volume and position
  describe [service[/var]] Show the renderer description

Flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, rest, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	level, _ := parseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	var protocolLogger log.Logger
	if cfg.ProtocolLog != "" {
		fileLogger, err := log.NewFileLogger(cfg.ProtocolLog, log.WithMaxSize(cfg.ProtocolLogMax))
		if err != nil {
			fmt.Fprintf(stderr, "Error: failed to create protocol logger: %v\n", err)
			return 1
		}
		defer fileLogger.Close()
		protocolLogger = fileLogger
		if level <= slog.LevelDebug {
			protocolLogger = log.NewMultiLogger(fileLogger, log.NewSlogAdapter(logger))
		}
		logger.Info("protocol logging enabled", "path", cfg.ProtocolLog)
	}

	hostCfg := host.DefaultConfig()
	hostCfg.Client.RequestTimeout = cfg.RequestTimeout
	hostCfg.Loader.Timeout = cfg.RequestTimeout
	hostCfg.Logger = logger
	hostCfg.ProtocolLogger = protocolLogger
	h := host.New(hostCfg)

	sessCfg := session.DefaultConfig()
	sessCfg.VolumeStep = cfg.VolumeStep
	sessCfg.Logger = logger
	sessCfg.ProtocolLogger = protocolLogger
	sessCfg.SessionID = h.SessionID()
	s := session.New(sessCfg)

	var failures atomic.Int32
	s.OnActionFailure(func(f *controlpoint.ActionFailure) {
		failures.Add(1)
		fmt.Fprintf(stderr, "Error: %v\n", f)
	})

	if err := s.Start(h); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer s.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmds := interactive.NewCommands(s, h, stdout)
	if cfg.StateFile != "" {
		cmds.SetStateStore(persistence.NewRendererStateStore(cfg.StateFile))
	}

	switch {
	case cfg.Location != "":
		if err := cmds.Select(ctx, cfg.Location); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	case cfg.StateFile != "":
		err := cmds.SelectLast(ctx)
		if err != nil && !errors.Is(err, interactive.ErrNoKnownRenderer) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	if cfg.Interactive {
		return runInteractive(ctx, cancel, cmds, h, logger, stderr)
	}

	if len(rest) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	if err := cmds.Exec(ctx, rest); err != nil && !errors.Is(err, interactive.ErrQuit) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	// Failure callbacks run before Wait returns.
	h.Wait()
	if failures.Load() > 0 {
		return 1
	}
	return 0
}

func runInteractive(ctx context.Context, cancel context.CancelFunc, cmds *interactive.Commands, h *host.Host, logger *slog.Logger, stderr io.Writer) int {
	shell, err := interactive.NewShell(cmds)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	logger.Info("interactive mode enabled", "session", h.SessionID())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	serveShell(ctx, cancel, shell, h, sigCh, logger)
	return 0
}

// lineShell is the part of interactive.Shell that serveShell drives.
type lineShell interface {
	Run(ctx context.Context, cancel context.CancelFunc)
	Close() error
}

type waiter interface {
	Wait()
}

// serveShell runs shell until it exits or a signal arrives. The shell is
// stopped and its goroutine has returned before pending actions are
// awaited, so no command can issue an action once Wait has begun.
func serveShell(ctx context.Context, cancel context.CancelFunc, shell lineShell, pending waiter, sigCh <-chan os.Signal, logger *slog.Logger) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		shell.Run(ctx, cancel)
	}()

	select {
	case sig := <-sigCh:
		logger.Info("received signal", "signal", sig)
	case <-ctx.Done():
	case <-done:
	}

	cancel()
	shell.Close()
	<-done

	pending.Wait()
}

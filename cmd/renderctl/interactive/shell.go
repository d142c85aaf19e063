package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/chzyer/readline"
)

// Shell is the interactive readline front end for Commands.
type Shell struct {
	cmds      *Commands
	rl        *readline.Instance
	closeOnce sync.Once
}

// NewShell creates a shell. Command output is redirected through readline.
func NewShell(cmds *Commands) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "renderctl> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("select"),
			readline.PcItem("volume"),
			readline.PcItem("up"),
			readline.PcItem("down"),
			readline.PcItem("seek"),
			readline.PcItem("status"),
			readline.PcItem("renderers"),
			readline.PcItem("describe",
				readline.PcItem("RenderingControl"),
				readline.PcItem("AVTransport"),
			),
			readline.PcItem("help"),
			readline.PcItem("quit"),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	cmds.SetOutput(rl.Stdout())
	return &Shell{cmds: cmds, rl: rl}, nil
}

// Stdout returns a writer that coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (s *Shell) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Stderr returns a writer that coordinates with the readline input.
func (s *Shell) Stderr() io.Writer {
	return s.rl.Stderr()
}

// Close stops a pending Readline so that Run returns. It is safe to call
// more than once and concurrently with Run.
func (s *Shell) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.rl.Close()
	})
	return err
}

// Run reads commands until quit, EOF, Close, or ctx is done. It calls cancel
// on exit.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.Close()
	defer cancel()

	s.cmds.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if err := s.cmds.Exec(ctx, strings.Fields(input)); err != nil {
			if errors.Is(err, ErrQuit) {
				fmt.Fprintln(s.rl.Stdout(), "Exiting...")
				return
			}
			fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		}
	}
}

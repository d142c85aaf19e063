// Package interactive provides the command set of renderctl, both for
// one-shot use and for the readline shell.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/renderctl/renderctl-go/pkg/av"
	"github.com/renderctl/renderctl-go/pkg/duration"
	"github.com/renderctl/renderctl-go/pkg/inspect"
	"github.com/renderctl/renderctl-go/pkg/model"
	"github.com/renderctl/renderctl-go/pkg/persistence"
	"github.com/renderctl/renderctl-go/pkg/session"
)

// Command errors.
var (
	ErrUnknownCommand  = errors.New("unknown command")
	ErrUsage           = errors.New("usage")
	ErrQuit            = errors.New("quit")
	ErrNoKnownRenderer = errors.New("no known renderer")
)

// Loader turns a description URL into a device.
type Loader interface {
	Load(ctx context.Context, location string) (*model.Device, error)
}

// Commands executes renderctl commands against a session.
type Commands struct {
	session     *session.Session
	loader      Loader
	loadTimeout time.Duration
	store       *persistence.RendererStateStore

	mu  sync.Mutex
	out io.Writer
}

// NewCommands creates a command set writing its output to out.
func NewCommands(s *session.Session, loader Loader, out io.Writer) *Commands {
	return &Commands{
		session:     s,
		loader:      loader,
		loadTimeout: 10 * time.Second,
		out:         out,
	}
}

// SetOutput redirects command output.
func (c *Commands) SetOutput(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.out = w
}

// SetStateStore enables remembering selected renderers. Without a store,
// select requires a description URL.
func (c *Commands) SetStateStore(store *persistence.RendererStateStore) {
	c.store = store
}

// printf writes to the output. Action callbacks call it from other
// goroutines.
func (c *Commands) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

// Exec runs one command. It returns ErrQuit for the quit command.
// Actions are dispatched asynchronously; their results are printed when
// they arrive.
func (c *Commands) Exec(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return nil
	}
	cmd := strings.ToLower(args[0])
	args = args[1:]

	switch cmd {
	case "help", "?":
		c.printHelp()
		return nil
	case "select", "sel":
		return c.cmdSelect(ctx, args)
	case "volume", "vol", "v":
		return c.cmdVolume(args)
	case "up", "+":
		return c.cmdStep(args, c.session.IncreaseVolume)
	case "down", "-":
		return c.cmdStep(args, c.session.DecreaseVolume)
	case "seek":
		return c.cmdSeek(args)
	case "status", "st":
		c.cmdStatus()
		return nil
	case "renderers", "ls":
		return c.cmdRenderers()
	case "describe", "desc":
		return c.cmdDescribe(args)
	case "quit", "exit", "q":
		return ErrQuit
	default:
		return fmt.Errorf("%w: %s (type 'help' for commands)", ErrUnknownCommand, cmd)
	}
}

// Select loads the renderer at location and selects it.
func (c *Commands) Select(ctx context.Context, location string) error {
	ctx, cancel := context.WithTimeout(ctx, c.loadTimeout)
	defer cancel()

	device, err := c.loader.Load(ctx, location)
	if err != nil {
		return fmt.Errorf("load renderer: %w", err)
	}
	c.session.SelectRenderer(device)

	b := c.session.Bounds()
	c.printf("Selected %s (volume %d..%d, step %d)\n",
		displayName(device), b.Minimum, b.Maximum, c.session.VolumeStep())

	if c.store != nil {
		err := c.store.Remember(persistence.KnownRenderer{
			UDN:          device.UDN,
			FriendlyName: device.FriendlyName,
			Location:     location,
		})
		if err != nil {
			c.printf("Warning: failed to save renderer state: %v\n", err)
		}
	}
	return nil
}

// SelectLast selects the most recently selected renderer from the state
// store.
func (c *Commands) SelectLast(ctx context.Context) error {
	state, err := c.loadState()
	if err != nil {
		return err
	}
	r, ok := state.Last()
	if !ok {
		return ErrNoKnownRenderer
	}
	return c.Select(ctx, r.Location)
}

func (c *Commands) loadState() (*persistence.RendererState, error) {
	if c.store == nil {
		return nil, nil
	}
	state, err := c.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load renderer state: %w", err)
	}
	return state, nil
}

func (c *Commands) printHelp() {
	c.printf(`
Renderer Control Commands:
  select <location>          - Load and select the renderer described at URL
  select [name|udn]          - Reselect a known renderer (default: last used)
  renderers                  - List known renderers
  volume <n>                 - Set volume (clamped to the renderer's range)
  up [count]                 - Raise volume by one step
  down [count]               - Lower volume by one step
  seek <seconds|H:MM:SS>     - Seek within the current track
  status                     - Show session, volume and position
  describe [service[/var]]   - Show the renderer's services and state variables
  help                       - Show this help
  quit                       - Exit
`)
}

func (c *Commands) cmdSelect(ctx context.Context, args []string) error {
	switch {
	case len(args) == 0 && c.store != nil:
		return c.SelectLast(ctx)
	case len(args) != 1:
		return fmt.Errorf("%w: select <location>", ErrUsage)
	case strings.Contains(args[0], "://") || c.store == nil:
		return c.Select(ctx, args[0])
	}

	state, err := c.loadState()
	if err != nil {
		return err
	}
	r, ok := state.Find(args[0])
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoKnownRenderer, args[0])
	}
	return c.Select(ctx, r.Location)
}

func (c *Commands) cmdRenderers() error {
	state, err := c.loadState()
	if err != nil {
		return err
	}
	if state == nil || len(state.Renderers) == 0 {
		c.printf("No known renderers\n")
		return nil
	}

	c.printf("Known renderers (%d):\n", len(state.Renderers))
	for _, r := range state.Renderers {
		marker := " "
		if r.UDN == state.LastUDN {
			marker = "*"
		}
		name := r.FriendlyName
		if name == "" {
			name = r.UDN
		}
		c.printf("  %s %-20s %s  %s\n", marker, name, r.Location, r.SelectedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func (c *Commands) cmdVolume(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: volume <n>", ErrUsage)
	}
	v, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: volume <n>: %q is not a number", ErrUsage, args[0])
	}
	if !c.requireRenderer() {
		return nil
	}
	c.session.SetVolume(v)
	return nil
}

func (c *Commands) cmdStep(args []string, step func()) error {
	count := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("%w: up|down [count]", ErrUsage)
		}
		count = n
	}
	if !c.requireRenderer() {
		return nil
	}
	for i := 0; i < count; i++ {
		step()
	}
	return nil
}

func (c *Commands) cmdSeek(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: seek <seconds|H:MM:SS>", ErrUsage)
	}
	seconds, err := parseSeekTarget(args[0])
	if err != nil {
		return fmt.Errorf("%w: seek <seconds|H:MM:SS>: %v", ErrUsage, err)
	}
	if !c.requireRenderer() {
		return nil
	}
	c.session.Seek(seconds)
	return nil
}

func (c *Commands) cmdStatus() {
	device := c.session.Renderer()
	c.printf("State:    %s\n", c.session.State())
	if device == nil {
		return
	}

	b := c.session.Bounds()
	c.printf("Renderer: %s\n", displayName(device))
	c.printf("UDN:      %s\n", device.UDN)
	c.printf("Range:    %d..%d (declared step %d, using %d)\n", b.Minimum, b.Maximum, b.Step, c.session.VolumeStep())

	c.session.QueryVolume(func(v int64) {
		c.printf("Volume:   %d\n", v)
	})
	c.session.QueryPosition(func(p av.PositionInfo) {
		c.printf("Position: %s / %s (track %s)\n", orDash(p.RelTime), orDash(p.TrackDuration), orDash(p.Track))
	})
}

func (c *Commands) cmdDescribe(args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("%w: describe [service[/variable]]", ErrUsage)
	}
	device := c.session.Renderer()
	if device == nil {
		c.printf("No renderer selected (use 'select <location>')\n")
		return nil
	}

	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	f := inspect.NewFormatter()
	f.ShowURLs = true
	out, err := inspect.NewInspector(device).Inspect(path, f)
	if err != nil {
		return err
	}
	c.printf("%s", out)
	return nil
}

func (c *Commands) requireRenderer() bool {
	if c.session.State() == session.StateNoRendererSelected {
		c.printf("No renderer selected (use 'select <location>')\n")
		return false
	}
	return true
}

// parseSeekTarget accepts whole seconds or a time string.
func parseSeekTarget(s string) (int, error) {
	if strings.Contains(s, ":") {
		return duration.ParseSeconds(s)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a time", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("%q is negative", s)
	}
	return n, nil
}

func displayName(d *model.Device) string {
	if d.FriendlyName != "" {
		return d.FriendlyName
	}
	return d.UDN
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

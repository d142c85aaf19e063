package session

import (
	"sync"
	"time"

	"github.com/renderctl/renderctl-go/pkg/av"
	"github.com/renderctl/renderctl-go/pkg/controlpoint"
	"github.com/renderctl/renderctl-go/pkg/log"
	"github.com/renderctl/renderctl-go/pkg/model"
)

// Session controls one selected renderer.
type Session struct {
	mu sync.Mutex

	config  Config
	binding Binding

	renderer *model.Device
	bounds   VolumeRange
	step     int64

	// generation changes on every selection and on Stop. Follow-up actions
	// compare it to detect that the selection they read has been replaced.
	generation uint64

	onFailure func(*controlpoint.ActionFailure)
}

// snapshot is the selection state an operation works against.
type snapshot struct {
	cp         ControlPoint
	dir        Directory
	renderer   *model.Device
	bounds     VolumeRange
	generation uint64
}

// New creates a session. It is inert until Start. A non-positive
// VolumeStep is replaced with the default.
func New(cfg Config) *Session {
	if cfg.VolumeStep <= 0 {
		cfg.VolumeStep = DefaultConfig().VolumeStep
	}
	return &Session{config: cfg}
}

// Start attaches the session to a binding.
func (s *Session) Start(b Binding) error {
	if b == nil {
		return ErrNoBinding
	}

	s.mu.Lock()
	if s.binding != nil {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.binding = b
	s.mu.Unlock()

	s.logState(log.StateEntityBinding, "UNBOUND", "BOUND", "")
	return nil
}

// Stop clears the selection and releases the binding. Calling Stop on a
// session that is not started does nothing.
func (s *Session) Stop() error {
	s.mu.Lock()
	b := s.binding
	if b == nil {
		s.mu.Unlock()
		return nil
	}
	hadRenderer := s.renderer != nil
	s.binding = nil
	s.clearLocked()
	s.mu.Unlock()

	if hadRenderer {
		s.logState(log.StateEntityRenderer, StateRendererSelected.String(), StateNoRendererSelected.String(), "stopped")
	}
	s.logState(log.StateEntityBinding, "BOUND", "UNBOUND", "")
	return b.Release()
}

// SelectRenderer makes device the target of subsequent operations and
// negotiates its volume range. A nil device clears the selection.
func (s *Session) SelectRenderer(device *model.Device) {
	s.mu.Lock()
	if s.binding == nil {
		s.mu.Unlock()
		s.debug("select ignored, session not started")
		return
	}
	dir := s.binding.Directory()
	oldState := s.stateLocked()

	if device == nil {
		s.clearLocked()
		s.mu.Unlock()
		s.logState(log.StateEntityRenderer, oldState.String(), StateNoRendererSelected.String(), "cleared")
		return
	}

	bounds := DefaultVolumeRange
	if rc, ok := dir.Lookup(device, model.ServiceRenderingControl); ok {
		// Volume is non-negative; a range reaching below zero is not trusted.
		if r, ok := dir.AllowedValueRange(rc, av.VariableVolume); ok && r.Minimum >= 0 && r.Minimum <= r.Maximum {
			bounds = VolumeRange{Minimum: r.Minimum, Maximum: r.Maximum, Step: r.Step}
		}
	}

	s.renderer = device
	s.bounds = bounds
	s.step = s.config.VolumeStep
	s.generation++
	s.mu.Unlock()

	s.debug("renderer selected",
		"device", device.String(),
		"min", bounds.Minimum,
		"max", bounds.Maximum,
		"declared_step", bounds.Step,
		"step", s.config.VolumeStep,
	)
	s.logState(log.StateEntityRenderer, oldState.String(), StateRendererSelected.String(), device.UDN)
}

func (s *Session) clearLocked() {
	s.renderer = nil
	s.bounds = VolumeRange{}
	s.step = 0
	s.generation++
}

// Renderer returns the selected renderer, or nil.
func (s *Session) Renderer() *model.Device {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderer
}

// Bounds returns the negotiated volume range. It is the zero range when no
// renderer is selected.
func (s *Session) Bounds() VolumeRange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bounds
}

// VolumeStep returns the step used for relative volume changes.
func (s *Session) VolumeStep() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// State returns the selection state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	if s.renderer == nil {
		return StateNoRendererSelected
	}
	return StateRendererSelected
}

// Service resolves a service of the selected renderer by name. The lookup
// is repeated on every call.
func (s *Session) Service(name string) (*model.Service, bool) {
	snap, ok := s.snapshot()
	if !ok {
		return nil, false
	}
	return snap.dir.Lookup(snap.renderer, name)
}

// OnActionFailure registers fn to receive every failed action. It replaces
// any previous hook; nil removes it.
func (s *Session) OnActionFailure(fn func(*controlpoint.ActionFailure)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFailure = fn
}

// snapshot captures the state an operation needs. It returns false when
// the session is not started or no renderer is selected.
func (s *Session) snapshot() (snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.binding == nil || s.renderer == nil {
		return snapshot{}, false
	}
	return snapshot{
		cp:         s.binding.ControlPoint(),
		dir:        s.binding.Directory(),
		renderer:   s.renderer,
		bounds:     s.bounds,
		generation: s.generation,
	}, true
}

// service resolves name against the snapshot, logging when it is absent.
func (s *Session) service(op string, name string) (snapshot, *model.Service, bool) {
	snap, ok := s.snapshot()
	if !ok {
		s.debug(op+" ignored, no renderer selected")
		return snapshot{}, nil, false
	}
	svc, ok := snap.dir.Lookup(snap.renderer, name)
	if !ok {
		s.debug(op+" ignored, service not found", "device", snap.renderer.UDN, "service", name)
		return snapshot{}, nil, false
	}
	return snap, svc, true
}

func (s *Session) current(generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.binding != nil && s.generation == generation
}

// failed logs f and passes it to the hook.
func (s *Session) failed(msg string, f *controlpoint.ActionFailure) {
	if s.config.Logger != nil {
		s.config.Logger.Warn(msg, "action", f.Action, "code", int(f.Code), "error", f.Message)
	}
	if s.config.ProtocolLogger != nil {
		s.config.ProtocolLogger.Log(log.Event{
			Timestamp: time.Now(),
			SessionID: s.config.SessionID,
			Direction: log.DirectionIn,
			Layer:     log.LayerSession,
			Category:  log.CategoryError,
			Error: &log.ErrorEventData{
				Layer:   log.LayerSession,
				Message: f.Error(),
				Action:  f.Action,
			},
		})
	}

	s.mu.Lock()
	hook := s.onFailure
	s.mu.Unlock()
	if hook != nil {
		hook(f)
	}
}

func (s *Session) onFailed(msg string) func(*controlpoint.ActionFailure) {
	return func(f *controlpoint.ActionFailure) {
		s.failed(msg, f)
	}
}

func (s *Session) logState(entity log.StateEntity, oldState, newState, reason string) {
	if s.config.ProtocolLogger == nil {
		return
	}
	s.config.ProtocolLogger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: s.config.SessionID,
		Layer:     log.LayerSession,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   entity,
			OldState: oldState,
			NewState: newState,
			Reason:   reason,
		},
	})
}

func (s *Session) debug(msg string, args ...any) {
	if s.config.Logger != nil {
		s.config.Logger.Debug(msg, args...)
	}
}

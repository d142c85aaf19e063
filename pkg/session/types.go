package session

import (
	"errors"

	"github.com/renderctl/renderctl-go/pkg/controlpoint"
	"github.com/renderctl/renderctl-go/pkg/model"
	"github.com/renderctl/renderctl-go/pkg/wire"
)

// Session errors.
var (
	ErrAlreadyStarted = errors.New("session already started")
	ErrNoBinding      = errors.New("binding is nil")
)

// ControlPoint dispatches control actions. Exactly one of onSuccess or
// onFailure must be called, exactly once, for each Execute.
type ControlPoint interface {
	Execute(action *controlpoint.Action, onSuccess func(*wire.Response), onFailure func(*controlpoint.ActionFailure))
}

// Directory resolves services and their declared capabilities.
type Directory interface {
	// Lookup finds a service on the device by short name or type URN.
	Lookup(device *model.Device, serviceName string) (*model.Service, bool)

	// AllowedValueRange returns the declared range of a state variable.
	AllowedValueRange(service *model.Service, variableName string) (model.AllowedValueRange, bool)
}

// Binding is a live attachment to a control point and directory.
type Binding interface {
	ControlPoint() ControlPoint
	Directory() Directory

	// Release detaches from the control point. It is called once, by Stop.
	Release() error
}

// VolumeRange is the negotiated volume range of the selected renderer.
type VolumeRange struct {
	Minimum int64
	Maximum int64
	Step    int64
}

// DefaultVolumeRange is used when a renderer declares no range for Volume.
var DefaultVolumeRange = VolumeRange{Minimum: 0, Maximum: 100, Step: 1}

// Clamp limits v to [Minimum, Maximum].
func (r VolumeRange) Clamp(v int64) int64 {
	if v < r.Minimum {
		return r.Minimum
	}
	if v > r.Maximum {
		return r.Maximum
	}
	return v
}

// State is the selection state of a session.
type State uint8

const (
	StateNoRendererSelected State = iota
	StateRendererSelected
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateNoRendererSelected:
		return "NO_RENDERER_SELECTED"
	case StateRendererSelected:
		return "RENDERER_SELECTED"
	default:
		return "UNKNOWN"
	}
}

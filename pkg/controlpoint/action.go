package controlpoint

import (
	"fmt"

	"github.com/renderctl/renderctl-go/pkg/model"
	"github.com/renderctl/renderctl-go/pkg/wire"
)

// Action is a control action addressed to one service.
type Action struct {
	// Service receives the action. Its ControlURL is the POST target.
	Service *model.Service

	// Name is the action name (e.g. "SetVolume").
	Name string

	// Arguments in the order declared by the service.
	Arguments []wire.Argument

	// DeviceUDN identifies the renderer in protocol log events. Optional.
	DeviceUDN string
}

// Request converts the action to its wire form.
func (a *Action) Request() *wire.Request {
	req := &wire.Request{
		Action:    a.Name,
		Arguments: a.Arguments,
	}
	if a.Service != nil {
		req.ServiceType = a.Service.ServiceType
	}
	return req
}

// Get returns the value of the named argument.
func (a *Action) Get(name string) (string, bool) {
	for _, arg := range a.Arguments {
		if arg.Name == name {
			return arg.Value, true
		}
	}
	return "", false
}

func (a *Action) String() string {
	if a.Service == nil {
		return a.Name
	}
	return a.Service.Name() + "." + a.Name
}

// ActionFailure describes an action that did not succeed.
type ActionFailure struct {
	// Service is the service type the action was sent to.
	Service string

	// Action is the action name.
	Action string

	// Code is the UPnP error code, or 0 if the device sent none.
	Code wire.ErrorCode

	// Message is a human-readable description.
	Message string

	// Err is the underlying error.
	Err error
}

func (f *ActionFailure) Error() string {
	if f.Code != 0 {
		return fmt.Sprintf("%s failed with code %d: %s", f.Action, int(f.Code), f.Message)
	}
	return fmt.Sprintf("%s failed: %s", f.Action, f.Message)
}

func (f *ActionFailure) Unwrap() error {
	return f.Err
}

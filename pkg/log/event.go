package log

import "time"

// Event is one protocol log record.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred.
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the control session (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Direction indicates message flow relative to the control point.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// DeviceUDN identifies the renderer, when one is selected.
	DeviceUDN string `cbor:"6,keyasint,omitempty"`

	// ControlURL is the URL the action was posted to.
	ControlURL string `cbor:"7,keyasint,omitempty"`

	// Exactly one of these is set.
	Action      *ActionEvent      `cbor:"10,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"11,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"12,keyasint,omitempty"`
}

// Direction indicates message flow.
type Direction uint8

const (
	// DirectionIn is a message received from a renderer.
	DirectionIn Direction = 0
	// DirectionOut is a message sent to a renderer.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates where an event was captured.
type Layer uint8

const (
	// LayerWire is the SOAP action layer.
	LayerWire Layer = 1
	// LayerSession is the renderer control session.
	LayerSession Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerWire:
		return "WIRE"
	case LayerSession:
		return "SESSION"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryAction is a control action request, response or fault.
	CategoryAction Category = 0
	// CategoryState is a session state change.
	CategoryState Category = 2
	// CategoryError is a dispatch or decoding error.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryAction:
		return "ACTION"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MessageType distinguishes the parts of an action exchange.
type MessageType uint8

const (
	MessageTypeRequest  MessageType = 0
	MessageTypeResponse MessageType = 1
	MessageTypeFault    MessageType = 2
)

// String returns the message type name.
func (m MessageType) String() string {
	switch m {
	case MessageTypeRequest:
		return "REQUEST"
	case MessageTypeResponse:
		return "RESPONSE"
	case MessageTypeFault:
		return "FAULT"
	default:
		return "UNKNOWN"
	}
}

// ActionEvent captures one control action message.
type ActionEvent struct {
	// Type is request, response or fault.
	Type MessageType `cbor:"1,keyasint"`

	// InvocationID correlates a request with its response or fault.
	InvocationID uint32 `cbor:"2,keyasint"`

	// ServiceType is the service type URN.
	ServiceType string `cbor:"3,keyasint"`

	// Action is the action name.
	Action string `cbor:"4,keyasint"`

	// Arguments are the in (request) or out (response) arguments.
	Arguments map[string]string `cbor:"5,keyasint,omitempty"`

	// FaultCode is the UPnP error code (faults only).
	FaultCode *int `cbor:"6,keyasint,omitempty"`

	// Duration from request to response or fault, as nanoseconds.
	Duration *time.Duration `cbor:"7,keyasint,omitempty"`
}

// StateEntity indicates what changed state.
type StateEntity uint8

const (
	// StateEntityBinding is the session's attachment to a control point.
	StateEntityBinding StateEntity = 0
	// StateEntityRenderer is the selected renderer.
	StateEntityRenderer StateEntity = 1
)

// String returns the entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityBinding:
		return "BINDING"
	case StateEntityRenderer:
		return "RENDERER"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent captures session lifecycle and selection changes.
type StateChangeEvent struct {
	Entity   StateEntity `cbor:"1,keyasint"`
	OldState string      `cbor:"2,keyasint,omitempty"`
	NewState string      `cbor:"3,keyasint"`
	Reason   string      `cbor:"4,keyasint,omitempty"`
}

// ErrorEventData captures an error that did not produce a fault message.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error text.
	Message string `cbor:"2,keyasint"`

	// Action is the action being dispatched, if any.
	Action string `cbor:"3,keyasint,omitempty"`

	// InvocationID correlates the error with its request.
	InvocationID uint32 `cbor:"4,keyasint,omitempty"`
}

package wire

import (
	"errors"
	"fmt"
)

// XML namespaces used in control messages.
const (
	EnvelopeNamespace = "http://schemas.xmlsoap.org/soap/envelope/"
	EncodingStyle     = "http://schemas.xmlsoap.org/soap/encoding/"
	ControlNamespace  = "urn:schemas-upnp-org:control-1-0"
)

// ContentType is the HTTP content type for control messages.
const ContentType = `text/xml; charset="utf-8"`

// Message errors.
var (
	ErrMissingServiceType = errors.New("missing service type")
	ErrMissingAction      = errors.New("missing action name")
	ErrMalformedEnvelope  = errors.New("malformed SOAP envelope")
	ErrNoResponse         = errors.New("no response element in body")
	ErrUnexpectedResponse = errors.New("unexpected response element")
)

// Argument is a single named action argument.
type Argument struct {
	Name  string
	Value string
}

// Request is a control action sent to a service.
type Request struct {
	// ServiceType is the service type URN, used as the action namespace.
	ServiceType string

	// Action is the action name (e.g. "SetVolume").
	Action string

	// Arguments in the order declared by the service.
	Arguments []Argument
}

// Validate checks if the request is valid.
func (r *Request) Validate() error {
	if r.ServiceType == "" {
		return ErrMissingServiceType
	}
	if r.Action == "" {
		return ErrMissingAction
	}
	return nil
}

// SOAPAction returns the value of the SOAPACTION HTTP header.
func (r *Request) SOAPAction() string {
	return fmt.Sprintf("%q", r.ServiceType+"#"+r.Action)
}

// Get returns the value of the named argument.
func (r *Request) Get(name string) (string, bool) {
	return lookup(r.Arguments, name)
}

// Response is the successful reply to a Request.
type Response struct {
	ServiceType string
	Action      string
	Arguments   []Argument
}

// Get returns the value of the named output argument.
func (r *Response) Get(name string) (string, bool) {
	return lookup(r.Arguments, name)
}

// Map returns the output arguments keyed by name.
func (r *Response) Map() map[string]string {
	m := make(map[string]string, len(r.Arguments))
	for _, a := range r.Arguments {
		m[a.Name] = a.Value
	}
	return m
}

func lookup(args []Argument, name string) (string, bool) {
	for _, a := range args {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

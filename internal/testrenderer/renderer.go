// Package testrenderer provides an in-process UPnP media renderer for tests.
//
// The renderer serves a device description, RenderingControl and
// AVTransport SCPDs, and answers GetVolume, SetVolume, Seek and
// GetPositionInfo actions over an httptest.Server.
package testrenderer

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/renderctl/renderctl-go/pkg/wire"
)

// Service type URNs served by the renderer.
const (
	RenderingControlType  = "urn:schemas-upnp-org:service:RenderingControl:1"
	AVTransportType       = "urn:schemas-upnp-org:service:AVTransport:1"
	ConnectionManagerType = "urn:schemas-upnp-org:service:ConnectionManager:1"
)

// Paths served by the renderer.
const (
	DescriptionPath = "/description.xml"
	RCControlPath   = "/rc/control"
	AVTControlPath  = "/avt/control"
	rcSCPDPath      = "/rc/scpd.xml"
	avtSCPDPath     = "/avt/scpd.xml"
)

// Range is a declared Volume allowed range.
type Range struct {
	Minimum, Maximum, Step int64
}

// Renderer is a fake media renderer.
type Renderer struct {
	mu sync.Mutex

	udn          string
	friendlyName string
	volumeRange  *Range
	noAVT        bool

	volume   int64
	target   string
	requests []*wire.Request
	faults   map[string]wire.Fault
	hold     map[string]chan struct{}

	server *httptest.Server
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithUDN sets the device UDN.
func WithUDN(udn string) Option {
	return func(r *Renderer) { r.udn = udn }
}

// WithVolumeRange declares an allowed range for Volume.
func WithVolumeRange(minimum, maximum, step int64) Option {
	return func(r *Renderer) { r.volumeRange = &Range{minimum, maximum, step} }
}

// WithoutVolumeRange omits the allowed range for Volume.
func WithoutVolumeRange() Option {
	return func(r *Renderer) { r.volumeRange = nil }
}

// WithVolume sets the initial volume.
func WithVolume(v int64) Option {
	return func(r *Renderer) { r.volume = v }
}

// WithoutAVTransport omits the AVTransport service.
func WithoutAVTransport() Option {
	return func(r *Renderer) { r.noAVT = true }
}

// New starts a renderer. Call Close when done.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		udn:          "uuid:00000000-0000-0000-0000-000000000001",
		friendlyName: "Test Renderer",
		volumeRange:  &Range{0, 100, 1},
		faults:       make(map[string]wire.Fault),
		hold:         make(map[string]chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}

	mux := http.NewServeMux()
	mux.HandleFunc(DescriptionPath, r.serveDescription)
	mux.HandleFunc(rcSCPDPath, r.serveRCSCPD)
	mux.HandleFunc(avtSCPDPath, r.serveAVTSCPD)
	mux.HandleFunc(RCControlPath, r.serveControl(RenderingControlType))
	mux.HandleFunc(AVTControlPath, r.serveControl(AVTransportType))
	r.server = httptest.NewServer(mux)
	return r
}

// Close shuts the server down. Held actions are released first.
func (r *Renderer) Close() {
	r.mu.Lock()
	for name, ch := range r.hold {
		close(ch)
		delete(r.hold, name)
	}
	r.mu.Unlock()
	r.server.Close()
}

// Location returns the description URL.
func (r *Renderer) Location() string {
	return r.server.URL + DescriptionPath
}

// URL returns the server base URL.
func (r *Renderer) URL() string {
	return r.server.URL
}

// UDN returns the device UDN.
func (r *Renderer) UDN() string {
	return r.udn
}

// Volume returns the current volume.
func (r *Renderer) Volume() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.volume
}

// SetVolume changes the current volume.
func (r *Renderer) SetVolume(v int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.volume = v
}

// SeekTarget returns the target of the last Seek.
func (r *Renderer) SeekTarget() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.target
}

// Requests returns every request received, in arrival order.
func (r *Renderer) Requests() []*wire.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*wire.Request, len(r.requests))
	copy(out, r.requests)
	return out
}

// Count returns how many requests named action were received.
func (r *Renderer) Count(action string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, req := range r.requests {
		if req.Action == action {
			n++
		}
	}
	return n
}

// Fail makes every subsequent action with the given name return a fault.
func (r *Renderer) Fail(action string, code wire.ErrorCode, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.faults[action] = wire.Fault{Code: code, Description: description}
}

// Hold blocks replies to the named action until the returned function is
// called. Requests are still recorded on arrival.
func (r *Renderer) Hold(action string) (release func()) {
	ch := make(chan struct{})
	r.mu.Lock()
	r.hold[action] = ch
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			if r.hold[action] == ch {
				delete(r.hold, action)
				close(ch)
			}
			r.mu.Unlock()
		})
	}
}

func (r *Renderer) serveControl(serviceType string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		data, err := io.ReadAll(req.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		action, err := wire.DecodeRequest(data)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Header.Get("SOAPACTION") != action.SOAPAction() {
			http.Error(w, "SOAPACTION mismatch", http.StatusBadRequest)
			return
		}

		r.mu.Lock()
		r.requests = append(r.requests, action)
		gate := r.hold[action.Action]
		r.mu.Unlock()

		if gate != nil {
			<-gate
		}

		out, fault := r.handle(serviceType, action)
		if fault != nil {
			writeFault(w, fault)
			return
		}
		body, err := wire.EncodeResponse(&wire.Response{
			ServiceType: serviceType,
			Action:      action.Action,
			Arguments:   out,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", wire.ContentType)
		w.Write(body)
	}
}

func (r *Renderer) handle(serviceType string, req *wire.Request) ([]wire.Argument, *wire.Fault) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.faults[req.Action]; ok {
		return nil, &f
	}
	if req.ServiceType != serviceType {
		return nil, &wire.Fault{Code: wire.ErrorInvalidAction, Description: "Invalid Action"}
	}
	if id, _ := req.Get("InstanceID"); id != "0" {
		return nil, &wire.Fault{Code: wire.ErrorInvalidInstanceID, Description: "Invalid InstanceID"}
	}

	switch req.Action {
	case "GetVolume":
		return []wire.Argument{{Name: "CurrentVolume", Value: strconv.FormatInt(r.volume, 10)}}, nil
	case "SetVolume":
		v, err := strconv.ParseInt(argOrEmpty(req, "DesiredVolume"), 10, 64)
		if err != nil {
			return nil, &wire.Fault{Code: wire.ErrorInvalidArgs, Description: "Invalid Args"}
		}
		if rg := r.volumeRange; rg != nil && (v < rg.Minimum || v > rg.Maximum) {
			return nil, &wire.Fault{Code: wire.ErrorArgumentOutOfRange, Description: "Argument Value Out of Range"}
		}
		r.volume = v
		return nil, nil
	case "Seek":
		r.target = argOrEmpty(req, "Target")
		return nil, nil
	case "GetPositionInfo":
		return []wire.Argument{
			{Name: "Track", Value: "1"},
			{Name: "TrackDuration", Value: "0:04:00"},
			{Name: "RelTime", Value: "0:00:00"},
		}, nil
	default:
		return nil, &wire.Fault{Code: wire.ErrorInvalidAction, Description: "Invalid Action"}
	}
}

func argOrEmpty(req *wire.Request, name string) string {
	v, _ := req.Get(name)
	return v
}

func writeFault(w http.ResponseWriter, f *wire.Fault) {
	body, err := wire.EncodeFault(f)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", wire.ContentType)
	w.WriteHeader(http.StatusInternalServerError)
	w.Write(body)
}

func (r *Renderer) serveDescription(w http.ResponseWriter, _ *http.Request) {
	avt := ""
	if !r.noAVT {
		avt = fmt.Sprintf(serviceTemplate, AVTransportType, "AVTransport", avtSCPDPath, AVTControlPath, "/avt/event")
	}
	w.Header().Set("Content-Type", "text/xml")
	fmt.Fprintf(w, descriptionTemplate, r.friendlyName, r.udn,
		fmt.Sprintf(serviceTemplate, RenderingControlType, "RenderingControl", rcSCPDPath, RCControlPath, "/rc/event")+
			avt+
			fmt.Sprintf(serviceTemplate, ConnectionManagerType, "ConnectionManager", "/cm/scpd.xml", "/cm/control", "/cm/event"))
}

func (r *Renderer) serveRCSCPD(w http.ResponseWriter, _ *http.Request) {
	r.mu.Lock()
	rg := r.volumeRange
	r.mu.Unlock()

	volumeRange := ""
	if rg != nil {
		volumeRange = fmt.Sprintf(rangeTemplate, rg.Minimum, rg.Maximum, rg.Step)
	}
	w.Header().Set("Content-Type", "text/xml")
	fmt.Fprintf(w, rcSCPDTemplate, volumeRange)
}

func (r *Renderer) serveAVTSCPD(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/xml")
	io.WriteString(w, avtSCPD)
}

const descriptionTemplate = `<?xml version="1.0" encoding="utf-8"?>
<root xmlns="urn:schemas-upnp-org:device-1-0">
  <specVersion><major>1</major><minor>0</minor></specVersion>
  <device>
    <deviceType>urn:schemas-upnp-org:device:MediaRenderer:1</deviceType>
    <friendlyName>%s</friendlyName>
    <manufacturer>renderctl</manufacturer>
    <modelName>testrenderer</modelName>
    <UDN>%s</UDN>
    <serviceList>%s
    </serviceList>
  </device>
</root>`

const serviceTemplate = `
      <service>
        <serviceType>%s</serviceType>
        <serviceId>urn:upnp-org:serviceId:%s</serviceId>
        <SCPDURL>%s</SCPDURL>
        <controlURL>%s</controlURL>
        <eventSubURL>%s</eventSubURL>
      </service>`

const rangeTemplate = `
        <allowedValueRange>
          <minimum>%d</minimum>
          <maximum>%d</maximum>
          <step>%d</step>
        </allowedValueRange>`

const rcSCPDTemplate = `<?xml version="1.0" encoding="utf-8"?>
<scpd xmlns="urn:schemas-upnp-org:service-1-0">
  <specVersion><major>1</major><minor>0</minor></specVersion>
  <serviceStateTable>
    <stateVariable sendEvents="no">
      <name>Volume</name>
      <dataType>ui2</dataType>%s
    </stateVariable>
    <stateVariable sendEvents="no">
      <name>A_ARG_TYPE_Channel</name>
      <dataType>string</dataType>
      <allowedValueList><allowedValue>Master</allowedValue></allowedValueList>
    </stateVariable>
    <stateVariable sendEvents="no">
      <name>A_ARG_TYPE_InstanceID</name>
      <dataType>ui4</dataType>
    </stateVariable>
  </serviceStateTable>
</scpd>`

const avtSCPD = `<?xml version="1.0" encoding="utf-8"?>
<scpd xmlns="urn:schemas-upnp-org:service-1-0">
  <specVersion><major>1</major><minor>0</minor></specVersion>
  <serviceStateTable>
    <stateVariable sendEvents="no">
      <name>A_ARG_TYPE_SeekMode</name>
      <dataType>string</dataType>
      <allowedValueList>
        <allowedValue>REL_TIME</allowedValue>
        <allowedValue>TRACK_NR</allowedValue>
      </allowedValueList>
    </stateVariable>
    <stateVariable sendEvents="no">
      <name>A_ARG_TYPE_SeekTarget</name>
      <dataType>string</dataType>
    </stateVariable>
  </serviceStateTable>
</scpd>`

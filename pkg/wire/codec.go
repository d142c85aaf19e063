package wire

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

// NewDecoder creates an XML decoder that accepts documents in any charset
// declared by their XML header. Many renderers still serve ISO-8859-1.
func NewDecoder(r io.Reader) *xml.Decoder {
	d := xml.NewDecoder(r)
	d.CharsetReader = charset.NewReaderLabel
	return d
}

// node is a generic XML element tree.
type node struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Content string     `xml:",chardata"`
	Nodes   []node     `xml:",any"`
}

func (n *node) child(local string) *node {
	for i := range n.Nodes {
		if n.Nodes[i].XMLName.Local == local {
			return &n.Nodes[i]
		}
	}
	return nil
}

func (n *node) arguments() []Argument {
	args := make([]Argument, 0, len(n.Nodes))
	for _, c := range n.Nodes {
		args = append(args, Argument{Name: c.XMLName.Local, Value: c.Content})
	}
	return args
}

// EncodeRequest encodes a request into a SOAP envelope.
func EncodeRequest(req *Request) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	return encodeEnvelope(func(enc *xml.Encoder) error {
		return encodeAction(enc, req.ServiceType, req.Action, req.Arguments)
	})
}

// EncodeResponse encodes a successful response into a SOAP envelope.
func EncodeResponse(resp *Response) ([]byte, error) {
	if resp.ServiceType == "" {
		return nil, ErrMissingServiceType
	}
	if resp.Action == "" {
		return nil, ErrMissingAction
	}
	return encodeEnvelope(func(enc *xml.Encoder) error {
		return encodeAction(enc, resp.ServiceType, resp.Action+"Response", resp.Arguments)
	})
}

// EncodeFault encodes a fault into a SOAP envelope.
func EncodeFault(f *Fault) ([]byte, error) {
	faultCode := f.FaultCode
	if faultCode == "" {
		faultCode = "s:Client"
	}
	faultString := f.FaultString
	if faultString == "" {
		faultString = "UPnPError"
	}

	return encodeEnvelope(func(enc *xml.Encoder) error {
		fault := xml.StartElement{Name: xml.Name{Local: "s:Fault"}}
		if err := enc.EncodeToken(fault); err != nil {
			return err
		}
		if err := encodeText(enc, "faultcode", faultCode); err != nil {
			return err
		}
		if err := encodeText(enc, "faultstring", faultString); err != nil {
			return err
		}

		detail := xml.StartElement{Name: xml.Name{Local: "detail"}}
		upnpErr := xml.StartElement{
			Name: xml.Name{Local: "UPnPError"},
			Attr: []xml.Attr{{Name: xml.Name{Local: "xmlns"}, Value: ControlNamespace}},
		}
		if err := enc.EncodeToken(detail); err != nil {
			return err
		}
		if err := enc.EncodeToken(upnpErr); err != nil {
			return err
		}
		if err := encodeText(enc, "errorCode", strconv.Itoa(int(f.Code))); err != nil {
			return err
		}
		if f.Description != "" {
			if err := encodeText(enc, "errorDescription", f.Description); err != nil {
				return err
			}
		}
		if err := enc.EncodeToken(upnpErr.End()); err != nil {
			return err
		}
		if err := enc.EncodeToken(detail.End()); err != nil {
			return err
		}
		return enc.EncodeToken(fault.End())
	})
}

// DecodeRequest decodes a SOAP envelope into a request.
func DecodeRequest(data []byte) (*Request, error) {
	body, err := decodeBody(data)
	if err != nil {
		return nil, err
	}
	if len(body.Nodes) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedEnvelope)
	}

	action := &body.Nodes[0]
	req := &Request{
		ServiceType: action.XMLName.Space,
		Action:      action.XMLName.Local,
		Arguments:   action.arguments(),
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	return req, nil
}

// DecodeResponse decodes the reply to the named action. A device fault is
// returned as a *Fault error.
func DecodeResponse(data []byte, action string) (*Response, error) {
	body, err := decodeBody(data)
	if err != nil {
		return nil, err
	}
	if fault := body.child("Fault"); fault != nil {
		return nil, decodeFault(fault)
	}
	if len(body.Nodes) == 0 {
		return nil, ErrNoResponse
	}

	el := &body.Nodes[0]
	name, ok := strings.CutSuffix(el.XMLName.Local, "Response")
	if !ok || (action != "" && name != action) {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedResponse, el.XMLName.Local)
	}

	return &Response{
		ServiceType: el.XMLName.Space,
		Action:      name,
		Arguments:   el.arguments(),
	}, nil
}

// DecodeFault extracts a fault from a SOAP envelope. It returns nil if the
// body holds no fault.
func DecodeFault(data []byte) *Fault {
	body, err := decodeBody(data)
	if err != nil {
		return nil
	}
	fault := body.child("Fault")
	if fault == nil {
		return nil
	}
	return decodeFault(fault)
}

func decodeFault(n *node) *Fault {
	f := &Fault{}
	if c := n.child("faultcode"); c != nil {
		f.FaultCode = strings.TrimSpace(c.Content)
	}
	if c := n.child("faultstring"); c != nil {
		f.FaultString = strings.TrimSpace(c.Content)
	}
	if detail := n.child("detail"); detail != nil {
		if upnpErr := detail.child("UPnPError"); upnpErr != nil {
			if c := upnpErr.child("errorCode"); c != nil {
				if code, err := strconv.Atoi(strings.TrimSpace(c.Content)); err == nil {
					f.Code = ErrorCode(code)
				}
			}
			if c := upnpErr.child("errorDescription"); c != nil {
				f.Description = strings.TrimSpace(c.Content)
			}
		}
	}
	return f
}

func decodeBody(data []byte) (*node, error) {
	var env node
	if err := NewDecoder(bytes.NewReader(data)).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if env.XMLName.Local != "Envelope" {
		return nil, fmt.Errorf("%w: root element %q", ErrMalformedEnvelope, env.XMLName.Local)
	}
	body := env.child("Body")
	if body == nil {
		return nil, fmt.Errorf("%w: missing Body", ErrMalformedEnvelope)
	}
	return body, nil
}

func encodeEnvelope(body func(*xml.Encoder) error) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	env := xml.StartElement{
		Name: xml.Name{Local: "s:Envelope"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmlns:s"}, Value: EnvelopeNamespace},
			{Name: xml.Name{Local: "s:encodingStyle"}, Value: EncodingStyle},
		},
	}
	bodyEl := xml.StartElement{Name: xml.Name{Local: "s:Body"}}

	if err := enc.EncodeToken(env); err != nil {
		return nil, err
	}
	if err := enc.EncodeToken(bodyEl); err != nil {
		return nil, err
	}
	if err := body(enc); err != nil {
		return nil, err
	}
	if err := enc.EncodeToken(bodyEl.End()); err != nil {
		return nil, err
	}
	if err := enc.EncodeToken(env.End()); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeAction(enc *xml.Encoder, serviceType, name string, args []Argument) error {
	el := xml.StartElement{
		Name: xml.Name{Local: "u:" + name},
		Attr: []xml.Attr{{Name: xml.Name{Local: "xmlns:u"}, Value: serviceType}},
	}
	if err := enc.EncodeToken(el); err != nil {
		return err
	}
	for _, a := range args {
		if err := encodeText(enc, a.Name, a.Value); err != nil {
			return err
		}
	}
	return enc.EncodeToken(el.End())
}

func encodeText(enc *xml.Encoder, name, value string) error {
	el := xml.StartElement{Name: xml.Name{Local: name}}
	if err := enc.EncodeToken(el); err != nil {
		return err
	}
	if value != "" {
		if err := enc.EncodeToken(xml.CharData(value)); err != nil {
			return err
		}
	}
	return enc.EncodeToken(el.End())
}

package model

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/renderctl/renderctl-go/pkg/wire"
)

// xmlRoot is the device description document.
type xmlRoot struct {
	SpecVersion struct {
		Major string `xml:"major"`
		Minor string `xml:"minor"`
	} `xml:"specVersion"`
	URLBase string    `xml:"URLBase"`
	Device  xmlDevice `xml:"device"`
}

type xmlDevice struct {
	DeviceType   string       `xml:"deviceType"`
	FriendlyName string       `xml:"friendlyName"`
	Manufacturer string       `xml:"manufacturer"`
	ModelName    string       `xml:"modelName"`
	UDN          string       `xml:"UDN"`
	Services     []xmlService `xml:"serviceList>service"`
	Devices      []xmlDevice  `xml:"deviceList>device"`
}

type xmlService struct {
	ServiceType string `xml:"serviceType"`
	ServiceID   string `xml:"serviceId"`
	SCPDURL     string `xml:"SCPDURL"`
	ControlURL  string `xml:"controlURL"`
	EventSubURL string `xml:"eventSubURL"`
}

// xmlSCPD is the service description document.
type xmlSCPD struct {
	StateVariables []xmlStateVariable `xml:"serviceStateTable>stateVariable"`
}

type xmlStateVariable struct {
	SendEvents    string   `xml:"sendEvents,attr"`
	Name          string   `xml:"name"`
	DataType      string   `xml:"dataType"`
	DefaultValue  string   `xml:"defaultValue"`
	AllowedValues []string `xml:"allowedValueList>allowedValue"`
	Range         *struct {
		Minimum string `xml:"minimum"`
		Maximum string `xml:"maximum"`
		Step    string `xml:"step"`
	} `xml:"allowedValueRange"`
}

// ParseDescription parses a device description. Service URLs are resolved
// against URLBase when present, otherwise against location.
func ParseDescription(r io.Reader, location string) (*Device, error) {
	var root xmlRoot
	if err := wire.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("decode description: %w", err)
	}
	if root.Device.UDN == "" && root.Device.DeviceType == "" {
		return nil, ErrNoDevice
	}

	baseStr := location
	if root.URLBase != "" {
		baseStr = strings.TrimSpace(root.URLBase)
	}
	base, err := url.Parse(baseStr)
	if err != nil {
		return nil, fmt.Errorf("parse base URL %q: %w", baseStr, err)
	}

	d, err := buildDevice(&root.Device, base)
	if err != nil {
		return nil, err
	}
	d.Location = location
	if sv := root.SpecVersion; sv.Major != "" {
		d.SpecVersion = strings.TrimSpace(sv.Major) + "." + strings.TrimSpace(sv.Minor)
	}
	return d, nil
}

func buildDevice(x *xmlDevice, base *url.URL) (*Device, error) {
	d := &Device{
		UDN:          strings.TrimSpace(x.UDN),
		DeviceType:   strings.TrimSpace(x.DeviceType),
		FriendlyName: strings.TrimSpace(x.FriendlyName),
		Manufacturer: strings.TrimSpace(x.Manufacturer),
		ModelName:    strings.TrimSpace(x.ModelName),
	}

	for _, xs := range x.Services {
		s := NewService(strings.TrimSpace(xs.ServiceType), resolveURL(base, xs.ControlURL))
		s.ServiceID = strings.TrimSpace(xs.ServiceID)
		s.SCPDURL = resolveURL(base, xs.SCPDURL)
		s.EventSubURL = resolveURL(base, xs.EventSubURL)
		if err := d.AddService(s); err != nil {
			return nil, fmt.Errorf("device %s: %w: %s", d.UDN, err, s.ServiceType)
		}
	}

	for i := range x.Devices {
		child, err := buildDevice(&x.Devices[i], base)
		if err != nil {
			return nil, err
		}
		d.AddDevice(child)
	}
	return d, nil
}

// resolveURL resolves ref against base. Empty refs stay empty.
func resolveURL(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

// ParseSCPD parses a service description and returns its state variables.
func ParseSCPD(r io.Reader) ([]*StateVariable, error) {
	var doc xmlSCPD
	if err := wire.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode SCPD: %w", err)
	}

	vars := make([]*StateVariable, 0, len(doc.StateVariables))
	for _, xv := range doc.StateVariables {
		v := &StateVariable{
			Name:          strings.TrimSpace(xv.Name),
			DataType:      strings.TrimSpace(xv.DataType),
			DefaultValue:  strings.TrimSpace(xv.DefaultValue),
			SendEvents:    !strings.EqualFold(strings.TrimSpace(xv.SendEvents), "no"),
			AllowedValues: xv.AllowedValues,
		}
		if xv.Range != nil {
			v.AllowedValueRange = parseRange(xv.Range.Minimum, xv.Range.Maximum, xv.Range.Step)
		}
		vars = append(vars, v)
	}
	return vars, nil
}

// parseRange returns nil if minimum or maximum is missing or not an
// integer. A missing step defaults to 1.
func parseRange(minStr, maxStr, stepStr string) *AllowedValueRange {
	minimum, err := strconv.ParseInt(strings.TrimSpace(minStr), 10, 64)
	if err != nil {
		return nil
	}
	maximum, err := strconv.ParseInt(strings.TrimSpace(maxStr), 10, 64)
	if err != nil {
		return nil
	}
	step := int64(1)
	if s := strings.TrimSpace(stepStr); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			step = v
		}
	}
	return &AllowedValueRange{Minimum: minimum, Maximum: maximum, Step: step}
}

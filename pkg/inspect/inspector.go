package inspect

import (
	"errors"
	"fmt"

	"github.com/renderctl/renderctl-go/pkg/model"
)

// Inspector errors.
var (
	ErrServiceNotFound  = errors.New("service not found")
	ErrVariableNotFound = errors.New("state variable not found")
)

// Inspector resolves paths against a loaded device description.
type Inspector struct {
	device *model.Device
}

// NewInspector creates a new Inspector for the given device.
func NewInspector(device *model.Device) *Inspector {
	return &Inspector{device: device}
}

// Device returns the underlying device model.
func (i *Inspector) Device() *model.Device {
	return i.device
}

// DeviceTree represents the complete device structure for display.
type DeviceTree struct {
	UDN          string
	DeviceType   string
	FriendlyName string
	Manufacturer string
	ModelName    string
	Location     string
	Services     []ServiceInfo
	Devices      []DeviceTree
}

// ServiceInfo represents service information for display.
type ServiceInfo struct {
	Name        string
	Version     int
	ServiceType string
	ControlURL  string
	Variables   []VariableInfo
}

// VariableInfo represents state variable information for display.
type VariableInfo struct {
	Name          string
	DataType      string
	DefaultValue  string
	SendEvents    bool
	AllowedValues []string
	Range         *model.AllowedValueRange
}

// InspectDevice returns a complete tree of the device structure.
func (i *Inspector) InspectDevice() *DeviceTree {
	tree := inspectDevice(i.device)
	return &tree
}

func inspectDevice(d *model.Device) DeviceTree {
	tree := DeviceTree{
		UDN:          d.UDN,
		DeviceType:   d.DeviceType,
		FriendlyName: d.FriendlyName,
		Manufacturer: d.Manufacturer,
		ModelName:    d.ModelName,
		Location:     d.Location,
	}
	for _, svc := range d.Services() {
		tree.Services = append(tree.Services, inspectService(svc))
	}
	for _, child := range d.Devices() {
		tree.Devices = append(tree.Devices, inspectDevice(child))
	}
	return tree
}

// InspectService returns information about the named service.
func (i *Inspector) InspectService(name string) (*ServiceInfo, error) {
	svc, ok := i.device.Service(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, name)
	}
	info := inspectService(svc)
	return &info, nil
}

func inspectService(svc *model.Service) ServiceInfo {
	info := ServiceInfo{
		Name:        svc.Name(),
		Version:     svc.Version(),
		ServiceType: svc.ServiceType,
		ControlURL:  svc.ControlURL,
	}
	for _, v := range svc.StateVariables() {
		info.Variables = append(info.Variables, inspectVariable(v))
	}
	return info
}

// InspectVariable returns information about a state variable.
func (i *Inspector) InspectVariable(service, variable string) (*VariableInfo, error) {
	svc, ok := i.device.Service(service)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, service)
	}
	v, ok := svc.StateVariable(variable)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrVariableNotFound, svc.Name(), variable)
	}
	info := inspectVariable(v)
	return &info, nil
}

func inspectVariable(v *model.StateVariable) VariableInfo {
	info := VariableInfo{
		Name:          v.Name,
		DataType:      v.DataType,
		DefaultValue:  v.DefaultValue,
		SendEvents:    v.SendEvents,
		AllowedValues: v.AllowedValues,
	}
	if v.AllowedValueRange != nil {
		r := *v.AllowedValueRange
		info.Range = &r
	}
	return info
}

// Inspect resolves path and returns the formatted result. An empty path
// formats the whole device.
func (i *Inspector) Inspect(path string, f *Formatter) (string, error) {
	if path == "" {
		return f.FormatDevice(i.InspectDevice()), nil
	}

	p, err := ParsePath(path)
	if err != nil {
		return "", err
	}
	if p.IsPartial() {
		info, err := i.InspectService(p.Service)
		if err != nil {
			return "", err
		}
		return f.FormatService(0, info), nil
	}

	info, err := i.InspectVariable(p.Service, p.Variable)
	if err != nil {
		return "", err
	}
	return f.FormatVariable(0, info), nil
}

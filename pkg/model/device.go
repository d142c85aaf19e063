package model

import (
	"errors"
	"sync"
)

// Device errors.
var (
	ErrNoDevice         = errors.New("description has no device element")
	ErrDuplicateService = errors.New("duplicate service type")
)

// Device is a root or embedded device from a description document.
type Device struct {
	mu sync.RWMutex

	// UDN is the unique device name (e.g. "uuid:...").
	UDN string

	// DeviceType is the device type URN.
	DeviceType string

	// FriendlyName is the user-facing name.
	FriendlyName string

	// Manufacturer is the vendor name.
	Manufacturer string

	// ModelName is the product model.
	ModelName string

	// Location is the URL the description was fetched from.
	Location string

	// SpecVersion is the declared architecture version (e.g. "1.0").
	// Empty when the description omits it.
	SpecVersion string

	services []*Service
	devices  []*Device
}

// NewDevice creates a device with the given UDN and friendly name.
func NewDevice(udn, friendlyName string) *Device {
	return &Device{
		UDN:          udn,
		FriendlyName: friendlyName,
	}
}

// AddService adds a service. A second service of the same type is rejected.
func (d *Device) AddService(s *Service) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.services {
		if existing.ServiceType == s.ServiceType {
			return ErrDuplicateService
		}
	}
	d.services = append(d.services, s)
	return nil
}

// AddDevice adds an embedded device.
func (d *Device) AddDevice(child *Device) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.devices = append(d.devices, child)
}

// Services returns the device's own services in declaration order.
func (d *Device) Services() []*Service {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Service, len(d.services))
	copy(out, d.services)
	return out
}

// Devices returns the embedded devices.
func (d *Device) Devices() []*Device {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Device, len(d.devices))
	copy(out, d.devices)
	return out
}

// Service finds a service by short name or type URN, searching embedded
// devices depth-first after the device's own services.
func (d *Device) Service(name string) (*Service, bool) {
	for _, s := range d.Services() {
		if s.Matches(name) {
			return s, true
		}
	}
	for _, child := range d.Devices() {
		if s, ok := child.Service(name); ok {
			return s, true
		}
	}
	return nil, false
}

// String returns the friendly name, or the UDN if there is none.
func (d *Device) String() string {
	if d.FriendlyName != "" {
		return d.FriendlyName
	}
	return d.UDN
}

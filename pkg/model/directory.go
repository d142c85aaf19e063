package model

// Directory resolves services and state variable ranges on devices.
// The zero value is ready to use.
type Directory struct{}

// Lookup returns the named service of device. It reports false for a nil
// device or an unknown service.
func (Directory) Lookup(device *Device, serviceName string) (*Service, bool) {
	if device == nil {
		return nil, false
	}
	return device.Service(serviceName)
}

// AllowedValueRange returns the allowed range declared for a state variable.
// It reports false when the service or variable is unknown, the variable has
// no range, or the declared range is inverted.
func (Directory) AllowedValueRange(service *Service, variableName string) (AllowedValueRange, bool) {
	if service == nil {
		return AllowedValueRange{}, false
	}
	v, ok := service.StateVariable(variableName)
	if !ok || v.AllowedValueRange == nil {
		return AllowedValueRange{}, false
	}
	if !v.AllowedValueRange.Valid() {
		return AllowedValueRange{}, false
	}
	return *v.AllowedValueRange, true
}

package model

import "fmt"

// Common state variable data types.
const (
	DataTypeUI1     = "ui1"
	DataTypeUI2     = "ui2"
	DataTypeUI4     = "ui4"
	DataTypeI1      = "i1"
	DataTypeI2      = "i2"
	DataTypeI4      = "i4"
	DataTypeString  = "string"
	DataTypeBoolean = "boolean"
)

// AllowedValueRange is the numeric range a state variable declares.
type AllowedValueRange struct {
	Minimum int64
	Maximum int64
	Step    int64
}

// Valid returns true if Minimum <= Maximum and Step is non-negative.
func (r AllowedValueRange) Valid() bool {
	return r.Minimum <= r.Maximum && r.Step >= 0
}

// Clamp returns v limited to [Minimum, Maximum].
func (r AllowedValueRange) Clamp(v int64) int64 {
	if v > r.Maximum {
		return r.Maximum
	}
	if v < r.Minimum {
		return r.Minimum
	}
	return v
}

// String returns the range as "[min..max step n]".
func (r AllowedValueRange) String() string {
	return fmt.Sprintf("[%d..%d step %d]", r.Minimum, r.Maximum, r.Step)
}

// StateVariable describes one state variable of a service.
type StateVariable struct {
	// Name is the variable name (e.g. "Volume").
	Name string

	// DataType is the UPnP data type (e.g. "ui2").
	DataType string

	// DefaultValue is the declared default, if any.
	DefaultValue string

	// SendEvents is true if changes are evented.
	SendEvents bool

	// AllowedValues lists the permitted values of a string variable.
	AllowedValues []string

	// AllowedValueRange is the permitted range of a numeric variable.
	// Nil when the variable declares no range.
	AllowedValueRange *AllowedValueRange
}

// IsNumeric returns true for integer data types.
func (v *StateVariable) IsNumeric() bool {
	switch v.DataType {
	case DataTypeUI1, DataTypeUI2, DataTypeUI4, DataTypeI1, DataTypeI2, DataTypeI4, "int":
		return true
	}
	return false
}

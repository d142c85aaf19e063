package wire

import "fmt"

// ErrorCode is a UPnP control error code carried in a fault.
type ErrorCode int

// Standard and AV-specific error codes.
const (
	ErrorInvalidAction          ErrorCode = 401
	ErrorInvalidArgs            ErrorCode = 402
	ErrorActionFailed           ErrorCode = 501
	ErrorArgumentValueInvalid   ErrorCode = 600
	ErrorArgumentOutOfRange     ErrorCode = 601
	ErrorOptionalNotImplemented ErrorCode = 602
	ErrorOutOfMemory            ErrorCode = 603
	ErrorHumanIntervention      ErrorCode = 604
	ErrorStringTooLong          ErrorCode = 605
	ErrorTransitionNotAvailable ErrorCode = 701
	ErrorNoContents             ErrorCode = 702
	ErrorSeekModeNotSupported   ErrorCode = 710
	ErrorIllegalSeekTarget      ErrorCode = 711
	ErrorInvalidInstanceID      ErrorCode = 718
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrorInvalidAction:
		return "INVALID_ACTION"
	case ErrorInvalidArgs:
		return "INVALID_ARGS"
	case ErrorActionFailed:
		return "ACTION_FAILED"
	case ErrorArgumentValueInvalid:
		return "ARGUMENT_VALUE_INVALID"
	case ErrorArgumentOutOfRange:
		return "ARGUMENT_VALUE_OUT_OF_RANGE"
	case ErrorOptionalNotImplemented:
		return "OPTIONAL_ACTION_NOT_IMPLEMENTED"
	case ErrorOutOfMemory:
		return "OUT_OF_MEMORY"
	case ErrorHumanIntervention:
		return "HUMAN_INTERVENTION_REQUIRED"
	case ErrorStringTooLong:
		return "STRING_ARGUMENT_TOO_LONG"
	case ErrorTransitionNotAvailable:
		return "TRANSITION_NOT_AVAILABLE"
	case ErrorNoContents:
		return "NO_CONTENTS"
	case ErrorSeekModeNotSupported:
		return "SEEK_MODE_NOT_SUPPORTED"
	case ErrorIllegalSeekTarget:
		return "ILLEGAL_SEEK_TARGET"
	case ErrorInvalidInstanceID:
		return "INVALID_INSTANCE_ID"
	default:
		return "UNKNOWN"
	}
}

// Fault is a SOAP fault returned by a device.
type Fault struct {
	// FaultCode is the SOAP fault code, usually "s:Client".
	FaultCode string

	// FaultString is the SOAP fault string, usually "UPnPError".
	FaultString string

	// Code is the UPnP error code from the fault detail (0 if absent).
	Code ErrorCode

	// Description is the UPnP error description from the fault detail.
	Description string
}

func (f *Fault) Error() string {
	if f.Code != 0 {
		if f.Description != "" {
			return fmt.Sprintf("upnp error %d: %s", int(f.Code), f.Description)
		}
		return fmt.Sprintf("upnp error %d (%s)", int(f.Code), f.Code)
	}
	if f.FaultString != "" {
		return "soap fault: " + f.FaultString
	}
	return "soap fault"
}

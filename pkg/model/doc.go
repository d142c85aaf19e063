// Package model implements the device model a renderer exposes through its
// description documents.
//
// # Model Hierarchy
//
//	Device > Service > StateVariable
//
// A Device is a root or embedded UPnP device identified by its UDN. Each
// Device lists the Services it implements; a MediaRenderer usually carries
// RenderingControl, AVTransport and ConnectionManager. Each Service declares
// StateVariables in its SCPD document. Numeric variables may declare an
// AllowedValueRange (minimum, maximum, step).
//
//	Device (uuid:5f9ec1b3-...)
//	├── RenderingControl:1
//	│   ├── Volume        ui2  [0..100 step 1]
//	│   └── Mute          boolean
//	└── AVTransport:1
//	    ├── TransportState string
//	    └── A_ARG_TYPE_SeekMode string
//
// # Service Names
//
// Services are looked up by short name ("RenderingControl") or by the full
// service type URN. Short names match any domain and version.
//
// # Loading
//
// A Loader fetches the device description at a LOCATION URL and the SCPD
// documents of the services the control session uses. Other services are
// listed but their SCPD is not fetched.
package model

// Package host provides the live Binding a session controls renderers
// through: an HTTP control point client, the service directory, and the
// description loader that turns a renderer's location into a device model.
package host

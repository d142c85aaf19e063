// Package av builds the RenderingControl and AVTransport actions used to
// control a media renderer, and parses their results.
package av

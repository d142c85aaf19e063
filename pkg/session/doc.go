// Package session implements a renderer control session.
//
// A Session holds at most one selected media renderer. Selecting a renderer
// negotiates its volume range from the RenderingControl service's Volume
// state variable, falling back to DefaultVolumeRange when the device
// declares none. Volume and seek operations then build control actions and
// hand them to a ControlPoint, which reports the outcome asynchronously.
//
// No operation blocks and none returns an error. Failures are logged and
// dropped; callers that want to observe them register a hook with
// OnActionFailure.
//
// # Lifecycle
//
//	s := session.New(session.DefaultConfig())
//	if err := s.Start(binding); err != nil {
//	    return err
//	}
//	defer s.Stop()
//
//	s.SelectRenderer(device)
//	s.IncreaseVolume()
//	s.Seek(90)
//
// Operations issued before Start, after Stop, or while no renderer is
// selected do nothing.
//
// # Volume step
//
// Relative volume changes use Config.VolumeStep rather than the step the
// renderer declares. Many renderers declare a step of 1, which makes a
// single button press inaudible.
//
// # Relative volume changes
//
// IncreaseVolume and DecreaseVolume read the current volume and then write
// the adjusted value. The two requests are not atomic: two changes issued
// before either read completes both read the same value, and the net
// change is a single step.
package session

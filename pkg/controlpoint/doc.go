// Package controlpoint dispatches UPnP control actions to renderers.
//
// A Client posts each action as a SOAP request on its own goroutine and
// reports the outcome through exactly one of two callbacks:
//
//	client := controlpoint.NewClient(controlpoint.DefaultConfig())
//	defer client.Close()
//
//	client.Execute(action,
//	    func(resp *wire.Response) { ... },
//	    func(f *controlpoint.ActionFailure) { ... },
//	)
//
// Transport errors, HTTP errors, SOAP faults and malformed replies are all
// reported as an *ActionFailure.
package controlpoint

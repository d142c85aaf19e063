// Package wire defines the SOAP wire format for UPnP control actions.
//
// A control action is an HTTP POST whose body is a SOAP 1.1 envelope:
//
//	<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/"
//	            s:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/">
//	  <s:Body>
//	    <u:SetVolume xmlns:u="urn:schemas-upnp-org:service:RenderingControl:1">
//	      <InstanceID>0</InstanceID>
//	      <Channel>Master</Channel>
//	      <DesiredVolume>30</DesiredVolume>
//	    </u:SetVolume>
//	  </s:Body>
//	</s:Envelope>
//
// The HTTP request carries a SOAPACTION header of the form
// "<serviceType>#<actionName>" (quoted).
//
// # Message Types
//
//   - Request: control point to device, one element named after the action
//   - Response: device to control point, "<action>Response" element
//   - Fault: device to control point, s:Fault with a UPnPError detail
//
// # Arguments
//
// Arguments are ordered; devices are allowed to reject requests whose
// arguments are out of the order declared in the service description.
// All argument values travel as strings.
package wire

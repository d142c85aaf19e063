package controlpoint

import (
	"time"

	"github.com/renderctl/renderctl-go/pkg/log"
	"github.com/renderctl/renderctl-go/pkg/wire"
)

func (c *Client) event(action *Action, dir log.Direction, cat log.Category) log.Event {
	e := log.Event{
		Timestamp: time.Now(),
		SessionID: c.sessionID,
		Direction: dir,
		Layer:     log.LayerWire,
		Category:  cat,
		DeviceUDN: action.DeviceUDN,
	}
	if action.Service != nil {
		e.ControlURL = action.Service.ControlURL
	}
	return e
}

func (c *Client) actionEvent(id uint32, action *Action, typ log.MessageType) *log.ActionEvent {
	return &log.ActionEvent{
		Type:         typ,
		InvocationID: id,
		ServiceType:  action.Request().ServiceType,
		Action:       action.Name,
	}
}

func (c *Client) logRequest(id uint32, action *Action) {
	if c.protoLog == nil {
		return
	}
	e := c.event(action, log.DirectionOut, log.CategoryAction)
	e.Action = c.actionEvent(id, action, log.MessageTypeRequest)
	e.Action.Arguments = argumentMap(action.Arguments)
	c.protoLog.Log(e)
}

func (c *Client) logResponse(id uint32, action *Action, resp *wire.Response, elapsed time.Duration) {
	if c.protoLog == nil {
		return
	}
	e := c.event(action, log.DirectionIn, log.CategoryAction)
	e.Action = c.actionEvent(id, action, log.MessageTypeResponse)
	e.Action.Arguments = resp.Map()
	e.Action.Duration = &elapsed
	c.protoLog.Log(e)
}

func (c *Client) logFault(id uint32, action *Action, fault *wire.Fault, elapsed time.Duration) {
	if c.protoLog == nil {
		return
	}
	code := int(fault.Code)
	e := c.event(action, log.DirectionIn, log.CategoryAction)
	e.Action = c.actionEvent(id, action, log.MessageTypeFault)
	e.Action.FaultCode = &code
	e.Action.Duration = &elapsed
	c.protoLog.Log(e)
}

func (c *Client) logError(id uint32, action *Action, err error) {
	if c.protoLog == nil {
		return
	}
	e := c.event(action, log.DirectionIn, log.CategoryError)
	e.Error = &log.ErrorEventData{
		Layer:        log.LayerWire,
		Message:      err.Error(),
		Action:       action.Name,
		InvocationID: id,
	}
	c.protoLog.Log(e)
}

func argumentMap(args []wire.Argument) map[string]string {
	if len(args) == 0 {
		return nil
	}
	m := make(map[string]string, len(args))
	for _, a := range args {
		m[a.Name] = a.Value
	}
	return m
}

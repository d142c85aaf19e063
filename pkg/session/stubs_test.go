package session

import (
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/renderctl/renderctl-go/pkg/controlpoint"
	"github.com/renderctl/renderctl-go/pkg/model"
	"github.com/renderctl/renderctl-go/pkg/wire"
)

// ---------------------------------------------------------------------------
// stubControlPoint
// ---------------------------------------------------------------------------

// call is one captured Execute.
type call struct {
	action    *controlpoint.Action
	onSuccess func(*wire.Response)
	onFailure func(*controlpoint.ActionFailure)
}

func (c *call) succeed(args ...wire.Argument) {
	c.onSuccess(&wire.Response{
		ServiceType: c.action.Service.ServiceType,
		Action:      c.action.Name,
		Arguments:   args,
	})
}

func (c *call) fail(code wire.ErrorCode, msg string) {
	c.onFailure(&controlpoint.ActionFailure{
		Service: c.action.Service.ServiceType,
		Action:  c.action.Name,
		Code:    code,
		Message: msg,
	})
}

func (c *call) arg(name string) string {
	v, _ := c.action.Get(name)
	return v
}

// stubControlPoint records every Execute and leaves completion to the test.
type stubControlPoint struct {
	mock.Mock

	mu    sync.Mutex
	calls []*call
}

func (p *stubControlPoint) Execute(a *controlpoint.Action, onSuccess func(*wire.Response), onFailure func(*controlpoint.ActionFailure)) {
	p.mu.Lock()
	p.calls = append(p.calls, &call{action: a, onSuccess: onSuccess, onFailure: onFailure})
	p.mu.Unlock()
	p.Called(a.Name)
}

// pending returns captured calls and forgets them.
func (p *stubControlPoint) pending() []*call {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.calls
	p.calls = nil
	return out
}

// ---------------------------------------------------------------------------
// stubDirectory
// ---------------------------------------------------------------------------

type stubDirectory struct{ mock.Mock }

func (d *stubDirectory) Lookup(device *model.Device, name string) (*model.Service, bool) {
	ret := d.Called(device, name)
	if ret.Get(0) == nil {
		return nil, ret.Bool(1)
	}
	return ret.Get(0).(*model.Service), ret.Bool(1)
}

func (d *stubDirectory) AllowedValueRange(svc *model.Service, name string) (model.AllowedValueRange, bool) {
	ret := d.Called(svc, name)
	return ret.Get(0).(model.AllowedValueRange), ret.Bool(1)
}

// ---------------------------------------------------------------------------
// stubBinding
// ---------------------------------------------------------------------------

type stubBinding struct {
	mock.Mock
	cp  *stubControlPoint
	dir *stubDirectory
}

func (b *stubBinding) ControlPoint() ControlPoint { return b.cp }
func (b *stubBinding) Directory() Directory       { return b.dir }
func (b *stubBinding) Release() error             { return b.Called().Error(0) }

package controlpoint

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renderctl/renderctl-go/internal/testrenderer"
	"github.com/renderctl/renderctl-go/pkg/log"
	"github.com/renderctl/renderctl-go/pkg/model"
	"github.com/renderctl/renderctl-go/pkg/wire"
)

type outcome struct {
	resp    *wire.Response
	failure *ActionFailure
}

// execute runs the action and waits for its single outcome.
func execute(t *testing.T, c *Client, a *Action) outcome {
	t.Helper()
	ch := make(chan outcome, 2)
	c.Execute(a,
		func(r *wire.Response) { ch <- outcome{resp: r} },
		func(f *ActionFailure) { ch <- outcome{failure: f} },
	)

	var out outcome
	select {
	case out = <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("no callback")
	}
	c.Wait()
	require.Len(t, ch, 0, "callback invoked more than once")
	return out
}

func renderingControl(r *testrenderer.Renderer) *model.Service {
	return model.NewService(testrenderer.RenderingControlType, r.URL()+testrenderer.RCControlPath)
}

func getVolume(svc *model.Service) *Action {
	return &Action{
		Service: svc,
		Name:    "GetVolume",
		Arguments: []wire.Argument{
			{Name: "InstanceID", Value: "0"},
			{Name: "Channel", Value: "Master"},
		},
	}
}

func setVolume(svc *model.Service, v string) *Action {
	return &Action{
		Service: svc,
		Name:    "SetVolume",
		Arguments: []wire.Argument{
			{Name: "InstanceID", Value: "0"},
			{Name: "Channel", Value: "Master"},
			{Name: "DesiredVolume", Value: v},
		},
	}
}

func TestExecuteSuccess(t *testing.T) {
	r := testrenderer.New(testrenderer.WithVolume(37))
	defer r.Close()

	c := NewClient(DefaultConfig())
	defer c.Close()

	out := execute(t, c, getVolume(renderingControl(r)))
	require.Nil(t, out.failure)
	require.NotNil(t, out.resp)

	v, ok := out.resp.Get("CurrentVolume")
	assert.True(t, ok)
	assert.Equal(t, "37", v)
	assert.Equal(t, "GetVolume", out.resp.Action)
}

func TestExecuteSetVolume(t *testing.T) {
	r := testrenderer.New()
	defer r.Close()

	c := NewClient(DefaultConfig())
	defer c.Close()

	out := execute(t, c, setVolume(renderingControl(r), "64"))
	require.Nil(t, out.failure)
	assert.Equal(t, int64(64), r.Volume())

	reqs := r.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, []wire.Argument{
		{Name: "InstanceID", Value: "0"},
		{Name: "Channel", Value: "Master"},
		{Name: "DesiredVolume", Value: "64"},
	}, reqs[0].Arguments)
}

func TestExecuteFault(t *testing.T) {
	r := testrenderer.New(testrenderer.WithVolumeRange(0, 50, 1))
	defer r.Close()

	c := NewClient(DefaultConfig())
	defer c.Close()

	out := execute(t, c, setVolume(renderingControl(r), "80"))
	require.Nil(t, out.resp)
	require.NotNil(t, out.failure)

	f := out.failure
	assert.Equal(t, "SetVolume", f.Action)
	assert.Equal(t, testrenderer.RenderingControlType, f.Service)
	assert.Equal(t, wire.ErrorArgumentOutOfRange, f.Code)
	assert.Equal(t, "Argument Value Out of Range", f.Message)
	assert.Contains(t, f.Error(), "code 601")

	var fault *wire.Fault
	assert.True(t, errors.As(f, &fault))
}

func TestExecuteHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := NewClient(DefaultConfig())
	defer c.Close()

	out := execute(t, c, getVolume(model.NewService(testrenderer.RenderingControlType, srv.URL+"/control")))
	require.NotNil(t, out.failure)
	assert.ErrorIs(t, out.failure, ErrHTTPStatus)
	assert.Equal(t, wire.ErrorCode(0), out.failure.Code)
}

func TestExecuteTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(DefaultConfig())
	defer c.Close()

	out := execute(t, c, getVolume(model.NewService(testrenderer.RenderingControlType, url+"/control")))
	require.NotNil(t, out.failure)
	assert.Equal(t, "GetVolume", out.failure.Action)
}

func TestExecuteMalformedReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not xml"))
	}))
	defer srv.Close()

	c := NewClient(DefaultConfig())
	defer c.Close()

	out := execute(t, c, getVolume(model.NewService(testrenderer.RenderingControlType, srv.URL)))
	require.NotNil(t, out.failure)
	assert.Nil(t, out.resp)
}

func TestExecuteTimeout(t *testing.T) {
	r := testrenderer.New()
	defer r.Close()
	release := r.Hold("GetVolume")
	defer release()

	cfg := DefaultConfig()
	cfg.RequestTimeout = 50 * time.Millisecond
	c := NewClient(cfg)
	defer c.Close()

	out := execute(t, c, getVolume(renderingControl(r)))
	require.NotNil(t, out.failure)
}

func TestExecuteWithoutService(t *testing.T) {
	c := NewClient(DefaultConfig())
	defer c.Close()

	out := execute(t, c, &Action{Name: "GetVolume"})
	require.NotNil(t, out.failure)
	assert.ErrorIs(t, out.failure, ErrNoService)

	out = execute(t, c, &Action{Name: "GetVolume", Service: model.NewService(testrenderer.RenderingControlType, "")})
	require.NotNil(t, out.failure)
	assert.ErrorIs(t, out.failure, ErrNoControlURL)
}

func TestExecuteNilCallbacks(t *testing.T) {
	r := testrenderer.New()
	defer r.Close()

	c := NewClient(DefaultConfig())
	c.Execute(setVolume(renderingControl(r), "12"), nil, nil)
	c.Execute(setVolume(renderingControl(r), "999"), nil, nil)
	c.Close()

	assert.Equal(t, 2, r.Count("SetVolume"))
}

func TestExecuteAfterClose(t *testing.T) {
	c := NewClient(DefaultConfig())
	require.NoError(t, c.Close())

	var failure *ActionFailure
	c.Execute(getVolume(model.NewService(testrenderer.RenderingControlType, "http://127.0.0.1:1/")),
		func(*wire.Response) { t.Error("unexpected success") },
		func(f *ActionFailure) { failure = f },
	)
	require.NotNil(t, failure)
	assert.ErrorIs(t, failure, ErrClientClosed)
}

func TestCloseWaitsForInflight(t *testing.T) {
	r := testrenderer.New()
	defer r.Close()
	release := r.Hold("GetVolume")

	c := NewClient(DefaultConfig())

	var done atomic.Bool
	c.Execute(getVolume(renderingControl(r)), func(*wire.Response) { done.Store(true) }, nil)

	require.Eventually(t, func() bool { return r.Count("GetVolume") == 1 }, 5*time.Second, 5*time.Millisecond)

	closed := make(chan struct{})
	go func() {
		c.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close returned with an action in flight")
	case <-time.After(50 * time.Millisecond):
	}

	release()
	<-closed
	assert.True(t, done.Load())
}

func TestWaitCoversChainedActions(t *testing.T) {
	r := testrenderer.New(testrenderer.WithVolume(2))
	defer r.Close()

	c := NewClient(DefaultConfig())
	defer c.Close()

	svc := renderingControl(r)
	c.Execute(getVolume(svc), func(resp *wire.Response) {
		v, _ := resp.Get("CurrentVolume")
		c.Execute(setVolume(svc, v+"1"), nil, nil)
	}, nil)

	c.Wait()
	assert.Equal(t, int64(21), r.Volume())
}

type recordingLogger struct {
	mu     sync.Mutex
	events []log.Event
}

func (l *recordingLogger) Log(e log.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *recordingLogger) all() []log.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]log.Event(nil), l.events...)
}

func TestProtocolLogging(t *testing.T) {
	r := testrenderer.New(testrenderer.WithVolume(5), testrenderer.WithVolumeRange(0, 10, 1))
	defer r.Close()

	rec := &recordingLogger{}
	cfg := DefaultConfig()
	cfg.ProtocolLogger = rec
	cfg.SessionID = "sess-1"
	c := NewClient(cfg)
	defer c.Close()

	a := getVolume(renderingControl(r))
	a.DeviceUDN = r.UDN()
	execute(t, c, a)
	execute(t, c, setVolume(renderingControl(r), "11"))

	events := rec.all()
	require.Len(t, events, 4)

	req, resp := events[0], events[1]
	assert.Equal(t, log.DirectionOut, req.Direction)
	assert.Equal(t, log.MessageTypeRequest, req.Action.Type)
	assert.Equal(t, "Master", req.Action.Arguments["Channel"])
	assert.Equal(t, r.UDN(), req.DeviceUDN)
	assert.Equal(t, "sess-1", req.SessionID)

	assert.Equal(t, log.DirectionIn, resp.Direction)
	assert.Equal(t, log.MessageTypeResponse, resp.Action.Type)
	assert.Equal(t, req.Action.InvocationID, resp.Action.InvocationID)
	assert.Equal(t, "5", resp.Action.Arguments["CurrentVolume"])
	assert.NotNil(t, resp.Action.Duration)

	fault := events[3]
	assert.Equal(t, log.MessageTypeFault, fault.Action.Type)
	require.NotNil(t, fault.Action.FaultCode)
	assert.Equal(t, 601, *fault.Action.FaultCode)
	assert.NotEqual(t, req.Action.InvocationID, fault.Action.InvocationID)
}

func TestActionFailureError(t *testing.T) {
	f := &ActionFailure{Action: "Seek", Message: "boom", Err: errors.New("boom")}
	assert.Equal(t, "Seek failed: boom", f.Error())

	f.Code = wire.ErrorIllegalSeekTarget
	f.Message = "Illegal seek target"
	assert.Equal(t, "Seek failed with code 711: Illegal seek target", f.Error())
}

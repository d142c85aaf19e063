package session

import (
	"github.com/renderctl/renderctl-go/pkg/av"
	"github.com/renderctl/renderctl-go/pkg/duration"
	"github.com/renderctl/renderctl-go/pkg/model"
	"github.com/renderctl/renderctl-go/pkg/wire"
)

// Seek moves playback to the given time in seconds.
//
// The target is sent in REL_TIME mode, which renderers interpret relative
// to the start of the current track.
func (s *Session) Seek(seconds int) {
	snap, avt, ok := s.service("seek", model.ServiceAVTransport)
	if !ok {
		return
	}

	target := duration.FormatSeconds(seconds)
	action := av.Seek(avt, av.SeekModeRelTime, target)
	action.DeviceUDN = snap.renderer.UDN

	snap.cp.Execute(action, func(*wire.Response) {
		s.debug("seek done", "device", snap.renderer.UDN, "target", target)
	}, s.onFailed("failed to seek"))
}

// QueryPosition reads the playback position and passes it to fn.
func (s *Session) QueryPosition(fn func(av.PositionInfo)) {
	snap, avt, ok := s.service("query position", model.ServiceAVTransport)
	if !ok {
		return
	}

	action := av.GetPositionInfo(avt)
	action.DeviceUDN = snap.renderer.UDN

	snap.cp.Execute(action, func(resp *wire.Response) {
		if fn != nil {
			fn(av.ParsePositionInfo(resp))
		}
	}, s.onFailed("failed to read position"))
}

package session

import (
	"github.com/renderctl/renderctl-go/pkg/av"
	"github.com/renderctl/renderctl-go/pkg/controlpoint"
	"github.com/renderctl/renderctl-go/pkg/model"
	"github.com/renderctl/renderctl-go/pkg/wire"
)

// SetVolume sets the renderer volume, clamped to the negotiated range.
func (s *Session) SetVolume(volume int64) {
	snap, rc, ok := s.service("set volume", model.ServiceRenderingControl)
	if !ok {
		return
	}
	s.setVolume(snap, rc, volume)
}

// IncreaseVolume raises the volume by VolumeStep.
func (s *Session) IncreaseVolume() {
	s.changeVolume(s.VolumeStep())
}

// DecreaseVolume lowers the volume by VolumeStep.
func (s *Session) DecreaseVolume() {
	s.changeVolume(-s.VolumeStep())
}

func (s *Session) setVolume(snap snapshot, rc *model.Service, volume int64) {
	clamped := snap.bounds.Clamp(volume)
	action := av.SetVolume(rc, clamped)
	action.DeviceUDN = snap.renderer.UDN

	snap.cp.Execute(action, func(*wire.Response) {
		s.debug("volume set", "device", snap.renderer.UDN, "volume", clamped)
	}, s.onFailed("failed to set volume"))
}

// changeVolume reads the current volume and writes it back adjusted by
// delta. The write is dropped if the selection changed in between.
func (s *Session) changeVolume(delta int64) {
	snap, rc, ok := s.service("change volume", model.ServiceRenderingControl)
	if !ok {
		return
	}

	action := av.GetVolume(rc)
	action.DeviceUDN = snap.renderer.UDN

	snap.cp.Execute(action, func(resp *wire.Response) {
		current, err := av.CurrentVolume(resp)
		if err != nil {
			s.failed("failed to read current volume", &controlpoint.ActionFailure{
				Service: rc.ServiceType,
				Action:  av.ActionGetVolume,
				Message: err.Error(),
				Err:     err,
			})
			return
		}
		if !s.current(snap.generation) {
			s.debug("volume change dropped, selection changed", "device", snap.renderer.UDN)
			return
		}
		s.setVolume(snap, rc, current+delta)
	}, s.onFailed("failed to read current volume"))
}

// QueryVolume reads the current volume and passes it to fn.
func (s *Session) QueryVolume(fn func(volume int64)) {
	snap, rc, ok := s.service("query volume", model.ServiceRenderingControl)
	if !ok {
		return
	}

	action := av.GetVolume(rc)
	action.DeviceUDN = snap.renderer.UDN

	snap.cp.Execute(action, func(resp *wire.Response) {
		v, err := av.CurrentVolume(resp)
		if err != nil {
			s.failed("failed to read current volume", &controlpoint.ActionFailure{
				Service: rc.ServiceType,
				Action:  av.ActionGetVolume,
				Message: err.Error(),
				Err:     err,
			})
			return
		}
		if fn != nil {
			fn(v)
		}
	}, s.onFailed("failed to read current volume"))
}

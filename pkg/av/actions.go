package av

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/renderctl/renderctl-go/pkg/controlpoint"
	"github.com/renderctl/renderctl-go/pkg/model"
	"github.com/renderctl/renderctl-go/pkg/wire"
)

// Fixed argument values. Renderers expose a single instance.
const (
	InstanceID      = "0"
	ChannelMaster   = "Master"
	SeekModeRelTime = "REL_TIME"
)

// VariableVolume is the RenderingControl state variable carrying the volume
// and its allowed range.
const VariableVolume = "Volume"

// Action names.
const (
	ActionGetVolume       = "GetVolume"
	ActionSetVolume       = "SetVolume"
	ActionSeek            = "Seek"
	ActionGetPositionInfo = "GetPositionInfo"
)

// Argument names.
const (
	ArgInstanceID    = "InstanceID"
	ArgChannel       = "Channel"
	ArgDesiredVolume = "DesiredVolume"
	ArgCurrentVolume = "CurrentVolume"
	ArgUnit          = "Unit"
	ArgTarget        = "Target"
	ArgTrack         = "Track"
	ArgTrackDuration = "TrackDuration"
	ArgRelTime       = "RelTime"
)

// Result errors.
var (
	ErrMissingArgument = errors.New("missing output argument")
	ErrInvalidValue    = errors.New("invalid output argument")
)

// SetVolume builds RenderingControl SetVolume for the master channel.
func SetVolume(rc *model.Service, volume int64) *controlpoint.Action {
	return &controlpoint.Action{
		Service: rc,
		Name:    ActionSetVolume,
		Arguments: []wire.Argument{
			{Name: ArgInstanceID, Value: InstanceID},
			{Name: ArgChannel, Value: ChannelMaster},
			{Name: ArgDesiredVolume, Value: strconv.FormatInt(volume, 10)},
		},
	}
}

// GetVolume builds RenderingControl GetVolume for the master channel.
func GetVolume(rc *model.Service) *controlpoint.Action {
	return &controlpoint.Action{
		Service: rc,
		Name:    ActionGetVolume,
		Arguments: []wire.Argument{
			{Name: ArgInstanceID, Value: InstanceID},
			{Name: ArgChannel, Value: ChannelMaster},
		},
	}
}

// Seek builds AVTransport Seek with the given unit and target.
func Seek(avt *model.Service, unit, target string) *controlpoint.Action {
	return &controlpoint.Action{
		Service: avt,
		Name:    ActionSeek,
		Arguments: []wire.Argument{
			{Name: ArgInstanceID, Value: InstanceID},
			{Name: ArgUnit, Value: unit},
			{Name: ArgTarget, Value: target},
		},
	}
}

// GetPositionInfo builds AVTransport GetPositionInfo.
func GetPositionInfo(avt *model.Service) *controlpoint.Action {
	return &controlpoint.Action{
		Service: avt,
		Name:    ActionGetPositionInfo,
		Arguments: []wire.Argument{
			{Name: ArgInstanceID, Value: InstanceID},
		},
	}
}

// CurrentVolume extracts CurrentVolume from a GetVolume result.
func CurrentVolume(resp *wire.Response) (int64, error) {
	s, ok := resp.Get(ArgCurrentVolume)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingArgument, ArgCurrentVolume)
	}
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidValue, ArgCurrentVolume, s)
	}
	return v, nil
}

// PositionInfo is the subset of GetPositionInfo the controller reports.
type PositionInfo struct {
	Track         string
	TrackDuration string
	RelTime       string
}

// ParsePositionInfo extracts the position from a GetPositionInfo result.
// Missing arguments are left empty.
func ParsePositionInfo(resp *wire.Response) PositionInfo {
	args := resp.Map()
	return PositionInfo{
		Track:         args[ArgTrack],
		TrackDuration: args[ArgTrackDuration],
		RelTime:       args[ArgRelTime],
	}
}

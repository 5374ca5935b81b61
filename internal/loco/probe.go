package loco

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// TraceChannel selects which collision layer a ground probe tests against.
type TraceChannel int

const (
	ChannelWorldStatic TraceChannel = iota
	ChannelWorldDynamic
	ChannelVisibility
	ChannelCamera
)

var channelNames = map[TraceChannel]string{
	ChannelWorldStatic:  "world_static",
	ChannelWorldDynamic: "world_dynamic",
	ChannelVisibility:   "visibility",
	ChannelCamera:       "camera",
}

func (c TraceChannel) String() string {
	if name, ok := channelNames[c]; ok {
		return name
	}
	return fmt.Sprintf("channel(%d)", int(c))
}

// MarshalYAML writes the channel by name.
func (c TraceChannel) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// UnmarshalYAML accepts a channel name.
func (c *TraceChannel) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	for ch, n := range channelNames {
		if strings.EqualFold(n, name) {
			*c = ch
			return nil
		}
	}
	return fmt.Errorf("unknown trace channel: %s", name)
}

// ProbeRequest is a vertical sphere-cast from Start to End.
type ProbeRequest struct {
	Start   mgl64.Vec3
	End     mgl64.Vec3
	Radius  float64
	Channel TraceChannel
	// Ignore lists actor/component names the probe must skip.
	Ignore []string
}

// ProbeResult reports the first hit along the cast.
type ProbeResult struct {
	Hit    bool
	Point  mgl64.Vec3
	Normal mgl64.Vec3
}

// GroundProbe is implemented by the host. It is called synchronously from
// RunSimulation and must return within the tick.
type GroundProbe interface {
	Probe(req ProbeRequest) ProbeResult
}

// GroundProbeFunc adapts a function to GroundProbe.
type GroundProbeFunc func(req ProbeRequest) ProbeResult

func (f GroundProbeFunc) Probe(req ProbeRequest) ProbeResult { return f(req) }

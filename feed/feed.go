// Package feed streams attitude samples over gRPC.
//
// The wire contract is the service attitude.v1.AttitudeFeed with a single
// server-streaming method:
//
//	rpc Stream(google.protobuf.Empty) returns (stream google.protobuf.Struct);
//
// Each Struct carries the numeric fields pitch, roll and yaw in degrees.
// Missing fields read as zero.
package feed

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

const (
	serviceName  = "attitude.v1.AttitudeFeed"
	streamMethod = "/" + serviceName + "/Stream"

	fieldPitch = "pitch"
	fieldRoll  = "roll"
	fieldYaw   = "yaw"
)

// Sample is one orientation reading in degrees.
type Sample struct {
	Pitch float64
	Roll  float64
	Yaw   float64
}

func (s Sample) String() string {
	return fmt.Sprintf("pitch=%+.1f roll=%+.1f yaw=%.1f", s.Pitch, s.Roll, s.Yaw)
}

// Listener receives attitude updates. indicator.Indicator implements it.
type Listener interface {
	OnAttitudeChanged(pitch, roll float64)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(pitch, roll float64)

// OnAttitudeChanged calls f.
func (f ListenerFunc) OnAttitudeChanged(pitch, roll float64) { f(pitch, roll) }

func (s Sample) toProto() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldPitch: structpb.NewNumberValue(s.Pitch),
		fieldRoll:  structpb.NewNumberValue(s.Roll),
		fieldYaw:   structpb.NewNumberValue(s.Yaw),
	}}
}

func sampleFromProto(m *structpb.Struct) Sample {
	f := m.GetFields()
	return Sample{
		Pitch: f[fieldPitch].GetNumberValue(),
		Roll:  f[fieldRoll].GetNumberValue(),
		Yaw:   f[fieldYaw].GetNumberValue(),
	}
}

/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package vrpnmsg

import "github.com/facebookincubator/vrpn-go/wire"

// PoseReportTypeName is the VRPN type name a sender registers a
// PoseReport body under.
const PoseReportTypeName = "vrpn_Tracker Pos_Quat"

// VelocityReportTypeName is the VRPN type name for VelocityReport bodies.
const VelocityReportTypeName = "vrpn_Tracker Velocity"

// AccelReportTypeName is the VRPN type name for AccelReport bodies.
const AccelReportTypeName = "vrpn_Tracker Acceleration"

// PoseReport is a tracker position/orientation sample. The sensor id is
// written twice on the wire - once as itself, once as its own padding -
// a quirk of the reference encoding preserved here for interop; decode
// verifies but does not otherwise use the second copy.
type PoseReport struct {
	Sensor wire.Sensor
	Pos    wire.Vec3
	Quat   wire.Quat
}

func (b *PoseReport) Encode() ([]byte, error) {
	buf := make([]byte, 8+24+32)
	n := 0
	nn, _ := wire.PutI32(buf[n:], int32(b.Sensor))
	n += nn
	nn, _ = wire.PutI32(buf[n:], int32(b.Sensor))
	n += nn
	nn, _ = wire.PutVec3(buf[n:], b.Pos)
	n += nn
	_, _ = wire.PutQuat(buf[n:], b.Quat)
	return buf, nil
}

func (b *PoseReport) Decode(raw []byte) error {
	c := wire.NewCursor(raw)
	sensor, err := wire.GetI32(c)
	if err != nil {
		return wire.ExpandRequirement(err)
	}
	sensorPad, err := wire.GetI32(c)
	if err != nil {
		return wire.ExpandRequirement(err)
	}
	if sensorPad != sensor {
		return &wire.ParseError{Kind: "pose report", Detail: "sensor id mismatch between primary and padding copy"}
	}
	pos, err := wire.GetVec3(c)
	if err != nil {
		return wire.ExpandRequirement(err)
	}
	quat, err := wire.GetQuat(c)
	if err != nil {
		return wire.ExpandRequirement(err)
	}
	if c.Remaining() != 0 {
		return &wire.ParseError{Kind: "pose report", Detail: "trailing bytes after body"}
	}
	b.Sensor = wire.Sensor(sensor)
	b.Pos = pos
	b.Quat = quat
	return nil
}

func (b *PoseReport) Name() string { return PoseReportTypeName }

// VelocityReport is a tracker velocity sample: sensor, linear velocity,
// angular velocity (as a quaternion), and the time delta it was measured
// over. Present in the reference tracker implementation but dropped by
// the distilled pose-only description; added here to complete the
// tracker message family.
type VelocityReport struct {
	Sensor wire.Sensor
	Vel    wire.Vec3
	Quat   wire.Quat
	DtSecs float64
}

func (b *VelocityReport) Encode() ([]byte, error) {
	buf := make([]byte, 8+24+32+8)
	n := 0
	nn, _ := wire.PutI32(buf[n:], int32(b.Sensor))
	n += nn
	nn, _ = wire.PutI32(buf[n:], int32(b.Sensor))
	n += nn
	nn, _ = wire.PutVec3(buf[n:], b.Vel)
	n += nn
	nn, _ = wire.PutQuat(buf[n:], b.Quat)
	n += nn
	_, _ = wire.PutF64(buf[n:], b.DtSecs)
	return buf, nil
}

func (b *VelocityReport) Decode(raw []byte) error {
	c := wire.NewCursor(raw)
	sensor, err := wire.GetI32(c)
	if err != nil {
		return wire.ExpandRequirement(err)
	}
	sensorPad, err := wire.GetI32(c)
	if err != nil {
		return wire.ExpandRequirement(err)
	}
	if sensorPad != sensor {
		return &wire.ParseError{Kind: "velocity report", Detail: "sensor id mismatch between primary and padding copy"}
	}
	vel, err := wire.GetVec3(c)
	if err != nil {
		return wire.ExpandRequirement(err)
	}
	quat, err := wire.GetQuat(c)
	if err != nil {
		return wire.ExpandRequirement(err)
	}
	dt, err := wire.GetF64(c)
	if err != nil {
		return wire.ExpandRequirement(err)
	}
	if c.Remaining() != 0 {
		return &wire.ParseError{Kind: "velocity report", Detail: "trailing bytes after body"}
	}
	b.Sensor = wire.Sensor(sensor)
	b.Vel = vel
	b.Quat = quat
	b.DtSecs = dt
	return nil
}

func (b *VelocityReport) Name() string { return VelocityReportTypeName }

// AccelReport is a tracker linear/angular acceleration sample, laid out
// identically to VelocityReport but over a different physical quantity.
type AccelReport struct {
	Sensor wire.Sensor
	Acc    wire.Vec3
	Quat   wire.Quat
	DtSecs float64
}

func (b *AccelReport) Encode() ([]byte, error) {
	buf := make([]byte, 8+24+32+8)
	n := 0
	nn, _ := wire.PutI32(buf[n:], int32(b.Sensor))
	n += nn
	nn, _ = wire.PutI32(buf[n:], int32(b.Sensor))
	n += nn
	nn, _ = wire.PutVec3(buf[n:], b.Acc)
	n += nn
	nn, _ = wire.PutQuat(buf[n:], b.Quat)
	n += nn
	_, _ = wire.PutF64(buf[n:], b.DtSecs)
	return buf, nil
}

func (b *AccelReport) Decode(raw []byte) error {
	c := wire.NewCursor(raw)
	sensor, err := wire.GetI32(c)
	if err != nil {
		return wire.ExpandRequirement(err)
	}
	sensorPad, err := wire.GetI32(c)
	if err != nil {
		return wire.ExpandRequirement(err)
	}
	if sensorPad != sensor {
		return &wire.ParseError{Kind: "accel report", Detail: "sensor id mismatch between primary and padding copy"}
	}
	acc, err := wire.GetVec3(c)
	if err != nil {
		return wire.ExpandRequirement(err)
	}
	quat, err := wire.GetQuat(c)
	if err != nil {
		return wire.ExpandRequirement(err)
	}
	dt, err := wire.GetF64(c)
	if err != nil {
		return wire.ExpandRequirement(err)
	}
	if c.Remaining() != 0 {
		return &wire.ParseError{Kind: "accel report", Detail: "trailing bytes after body"}
	}
	b.Sensor = wire.Sensor(sensor)
	b.Acc = acc
	b.Quat = quat
	b.DtSecs = dt
	return nil
}

func (b *AccelReport) Name() string { return AccelReportTypeName }

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

package wire

import (
	"encoding/binary"
	"math"
)

// IDType is the wire representation of a sender or type id.
type IDType = int32

// TimeVal is a sender-clock timestamp: seconds and microseconds, back to
// back, both signed 32-bit big-endian on the wire.
type TimeVal struct {
	Seconds      int32
	Microseconds int32
}

// Vec3 is three float64, x/y/z order.
type Vec3 struct {
	X, Y, Z float64
}

// Quat is four float64, x/y/z/w order.
type Quat struct {
	X, Y, Z, W float64
}

// Sensor is a tracker sensor id.
type Sensor int32

// Cursor tracks a read position into a byte slice without mutating it,
// so a failed decode never advances past a partial frame.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor wraps b for reading starting at position 0.
func NewCursor(b []byte) *Cursor {
	return &Cursor{buf: b}
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

// Pos returns the current read position.
func (c *Cursor) Pos() int {
	return c.pos
}

// Peek returns the next n bytes without advancing the cursor. The second
// return value is false if fewer than n bytes remain.
func (c *Cursor) Peek(n int) ([]byte, bool) {
	if c.Remaining() < n {
		return nil, false
	}
	return c.buf[c.pos : c.pos+n], true
}

// Advance moves the read position forward by n bytes. Callers must have
// already verified via Peek/Remaining that n bytes are available.
func (c *Cursor) Advance(n int) {
	c.pos += n
}

// Take peeks n bytes and advances past them in one step, or returns an
// exact NeedMoreDataError without advancing if the source is underfilled.
func (c *Cursor) Take(n int) ([]byte, error) {
	b, ok := c.Peek(n)
	if !ok {
		return nil, NeedExactly(n - c.Remaining())
	}
	c.Advance(n)
	return b, nil
}

// --- fixed-size primitive encode/decode, all big-endian ---

// PutU8 writes a single byte to b[0]. Returns ErrOutOfBuffer if b is empty.
func PutU8(b []byte, v uint8) (int, error) {
	if len(b) < 1 {
		return 0, ErrOutOfBuffer
	}
	b[0] = v
	return 1, nil
}

// PutI32 writes a big-endian int32 to b[0:4].
func PutI32(b []byte, v int32) (int, error) {
	if len(b) < 4 {
		return 0, ErrOutOfBuffer
	}
	binary.BigEndian.PutUint32(b, uint32(v))
	return 4, nil
}

// PutU32 writes a big-endian uint32 to b[0:4].
func PutU32(b []byte, v uint32) (int, error) {
	if len(b) < 4 {
		return 0, ErrOutOfBuffer
	}
	binary.BigEndian.PutUint32(b, v)
	return 4, nil
}

// PutI64 writes a big-endian int64 to b[0:8].
func PutI64(b []byte, v int64) (int, error) {
	if len(b) < 8 {
		return 0, ErrOutOfBuffer
	}
	binary.BigEndian.PutUint64(b, uint64(v))
	return 8, nil
}

// PutF64 writes a big-endian float64 to b[0:8].
func PutF64(b []byte, v float64) (int, error) {
	if len(b) < 8 {
		return 0, ErrOutOfBuffer
	}
	binary.BigEndian.PutUint64(b, math.Float64bits(v))
	return 8, nil
}

// PutTimeVal writes seconds then microseconds, 8 bytes total.
func PutTimeVal(b []byte, t TimeVal) (int, error) {
	if len(b) < 8 {
		return 0, ErrOutOfBuffer
	}
	n, err := PutI32(b, t.Seconds)
	if err != nil {
		return 0, err
	}
	if _, err := PutI32(b[n:], t.Microseconds); err != nil {
		return 0, err
	}
	return 8, nil
}

// PutVec3 writes x, y, z: 24 bytes total.
func PutVec3(b []byte, v Vec3) (int, error) {
	if len(b) < 24 {
		return 0, ErrOutOfBuffer
	}
	PutF64(b, v.X)
	PutF64(b[8:], v.Y)
	PutF64(b[16:], v.Z)
	return 24, nil
}

// PutQuat writes x, y, z, w: 32 bytes total.
func PutQuat(b []byte, q Quat) (int, error) {
	if len(b) < 32 {
		return 0, ErrOutOfBuffer
	}
	PutF64(b, q.X)
	PutF64(b[8:], q.Y)
	PutF64(b[16:], q.Z)
	PutF64(b[24:], q.W)
	return 32, nil
}

// GetU8 reads a single byte from the cursor.
func GetU8(c *Cursor) (uint8, error) {
	b, err := c.Take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// GetI32 reads a big-endian int32 from the cursor.
func GetI32(c *Cursor) (int32, error) {
	b, err := c.Take(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

// GetU32 reads a big-endian uint32 from the cursor.
func GetU32(c *Cursor) (uint32, error) {
	b, err := c.Take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// GetI64 reads a big-endian int64 from the cursor.
func GetI64(c *Cursor) (int64, error) {
	b, err := c.Take(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

// GetF64 reads a big-endian float64 from the cursor.
func GetF64(c *Cursor) (float64, error) {
	b, err := c.Take(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

// GetTimeVal reads a TimeVal (seconds, microseconds).
func GetTimeVal(c *Cursor) (TimeVal, error) {
	sec, err := GetI32(c)
	if err != nil {
		return TimeVal{}, err
	}
	usec, err := GetI32(c)
	if err != nil {
		return TimeVal{}, err
	}
	return TimeVal{Seconds: sec, Microseconds: usec}, nil
}

// GetVec3 reads three float64 (x, y, z).
func GetVec3(c *Cursor) (Vec3, error) {
	x, err := GetF64(c)
	if err != nil {
		return Vec3{}, err
	}
	y, err := GetF64(c)
	if err != nil {
		return Vec3{}, err
	}
	z, err := GetF64(c)
	if err != nil {
		return Vec3{}, err
	}
	return Vec3{X: x, Y: y, Z: z}, nil
}

// GetQuat reads four float64 (x, y, z, w).
func GetQuat(c *Cursor) (Quat, error) {
	x, err := GetF64(c)
	if err != nil {
		return Quat{}, err
	}
	y, err := GetF64(c)
	if err != nil {
		return Quat{}, err
	}
	z, err := GetF64(c)
	if err != nil {
		return Quat{}, err
	}
	w, err := GetF64(c)
	if err != nil {
		return Quat{}, err
	}
	return Quat{X: x, Y: y, Z: z, W: w}, nil
}

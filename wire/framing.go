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

// Align is the alignment boundary (in bytes) that message bodies, and the
// header as a whole, are padded out to.
const Align = 8

// UnpaddedHeaderSize is the size, in bytes, of the four leading i32s plus
// the u32 length field: length, time.seconds, time.microseconds, sender,
// type. The four bytes of "padding" that bring the on-wire header to
// HeaderWireSize are not padding at all - they carry the sequence number,
// a protocol quirk preserved here for wire compatibility (see
// Frame.Sequence).
const UnpaddedHeaderSize = 20

// HeaderWireSize is the padded, on-wire size of the header, including the
// sequence number slot.
const HeaderWireSize = UnpaddedHeaderSize + 4

// Pad returns the number of zero bytes needed to bring n up to the next
// Align boundary.
func Pad(n int) int {
	return (Align - n%Align) % Align
}

// MessageSize captures the geometry of one message: every other size is
// derivable from the unpadded body size alone.
type MessageSize struct {
	UnpaddedBodySize int
}

// FromUnpaddedBodySize builds a MessageSize from the body size alone.
func FromUnpaddedBodySize(n int) MessageSize {
	return MessageSize{UnpaddedBodySize: n}
}

// FromUnpaddedMessageSize builds a MessageSize from the total unpadded
// size of header+body, as found in the wire length field.
func FromUnpaddedMessageSize(n int) MessageSize {
	return MessageSize{UnpaddedBodySize: n - UnpaddedHeaderSize}
}

// UnpaddedMessageSize is the value stored in the wire length field.
func (m MessageSize) UnpaddedMessageSize() int {
	return m.UnpaddedBodySize + UnpaddedHeaderSize
}

// PaddedBodySize is the body size rounded up to Align.
func (m MessageSize) PaddedBodySize() int {
	return m.UnpaddedBodySize + Pad(m.UnpaddedBodySize)
}

// PaddedMessageSize is the total number of bytes this message occupies on
// the wire, header and body both padded.
func (m MessageSize) PaddedMessageSize() int {
	return m.PaddedBodySize() + HeaderWireSize
}

// Frame is one decoded (or to-be-encoded) wire record: a message header
// plus its raw body bytes. Frame carries no notion of local vs. remote
// ids - those are resolved a layer up, in package connection.
type Frame struct {
	Time     TimeVal
	Sender   int32
	Type     int32
	Sequence uint32
	Body     []byte
}

// EncodeFrame serializes f into b, which must be at least
// FromUnpaddedBodySize(len(f.Body)).PaddedMessageSize() bytes long.
func EncodeFrame(b []byte, f Frame) (int, error) {
	size := FromUnpaddedBodySize(len(f.Body))
	total := size.PaddedMessageSize()
	if len(b) < total {
		return 0, ErrOutOfBuffer
	}
	n := 0
	nn, _ := PutU32(b[n:], uint32(size.UnpaddedMessageSize()))
	n += nn
	nn, _ = PutTimeVal(b[n:], f.Time)
	n += nn
	nn, _ = PutI32(b[n:], f.Sender)
	n += nn
	nn, _ = PutI32(b[n:], f.Type)
	n += nn
	nn, _ = PutU32(b[n:], f.Sequence)
	n += nn
	copy(b[n:], f.Body)
	n += len(f.Body)
	pad := Pad(len(f.Body))
	for i := 0; i < pad; i++ {
		b[n+i] = 0
	}
	n += pad
	return n, nil
}

// DecodeFrame peeks the wire length field and, if the cursor does not yet
// hold a complete padded frame, returns an at-least NeedMoreDataError
// without advancing the cursor - the caller can retry at the same
// position once more bytes have arrived. On success the cursor is
// advanced past the whole padded frame.
func DecodeFrame(c *Cursor) (*Frame, error) {
	lb, ok := c.Peek(4)
	if !ok {
		return nil, NeedAtLeast(4 - c.Remaining())
	}
	length := int(beUint32(lb))
	unpaddedBodyLen := length - UnpaddedHeaderSize
	if unpaddedBodyLen < 0 {
		return nil, &ParseError{Kind: "frame header", Detail: "length field smaller than header size"}
	}
	size := FromUnpaddedBodySize(unpaddedBodyLen)
	total := size.PaddedMessageSize()
	if c.Remaining() < total {
		return nil, NeedAtLeast(total - c.Remaining())
	}

	c.Advance(4)
	t, err := GetTimeVal(c)
	if err != nil {
		return nil, err
	}
	sender, err := GetI32(c)
	if err != nil {
		return nil, err
	}
	typ, err := GetI32(c)
	if err != nil {
		return nil, err
	}
	seq, err := GetU32(c)
	if err != nil {
		return nil, err
	}
	bodyBytes, err := c.Take(unpaddedBodyLen)
	if err != nil {
		return nil, err
	}
	body := make([]byte, unpaddedBodyLen)
	copy(body, bodyBytes)
	c.Advance(Pad(unpaddedBodyLen))

	return &Frame{
		Time:     t,
		Sender:   sender,
		Type:     typ,
		Sequence: seq,
		Body:     body,
	}, nil
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

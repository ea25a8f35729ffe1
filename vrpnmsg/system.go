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

// SenderName and TypeName distinguish the two identity spaces at the type
// level - a name from one is never accidentally passed where the other is
// expected.
type SenderName string
type TypeName string

// SenderDescriptionBody announces the name a remote sender id maps to.
// Sent as the body of a TypeSenderDescription system message, with the
// remote sender id carried in the enclosing Header.Sender field.
type SenderDescriptionBody struct {
	Description SenderName
}

func (b *SenderDescriptionBody) Encode() ([]byte, error) {
	return encodeName(string(b.Description))
}

func (b *SenderDescriptionBody) Decode(raw []byte) error {
	name, err := decodeName(raw)
	if err != nil {
		return err
	}
	b.Description = SenderName(name)
	return nil
}

// Name implements TypedMessageBody. System bodies are never registered
// under a user type name, so this always returns the empty string.
func (b *SenderDescriptionBody) Name() string { return "" }

// TypeDescriptionBody announces the name a remote type id maps to. The
// remote type id being described is carried in Header.Sender (VRPN
// reuses the sender field of the description message for the id of the
// type it describes).
type TypeDescriptionBody struct {
	Description TypeName
}

func (b *TypeDescriptionBody) Encode() ([]byte, error) {
	return encodeName(string(b.Description))
}

func (b *TypeDescriptionBody) Decode(raw []byte) error {
	name, err := decodeName(raw)
	if err != nil {
		return err
	}
	b.Description = TypeName(name)
	return nil
}

func (b *TypeDescriptionBody) Name() string { return "" }

// PingBody is the empty body of a liveness probe.
type PingBody struct{}

func (b *PingBody) Encode() ([]byte, error) { return nil, nil }
func (b *PingBody) Decode(raw []byte) error { return nil }
func (b *PingBody) Name() string            { return "" }

// PongBody is the empty body of a liveness reply.
type PongBody struct{}

func (b *PongBody) Encode() ([]byte, error) { return nil, nil }
func (b *PongBody) Decode(raw []byte) error { return nil }
func (b *PongBody) Name() string            { return "" }

// DisconnectBody is the empty body announcing a peer is closing the
// connection gracefully.
type DisconnectBody struct{}

func (b *DisconnectBody) Encode() ([]byte, error) { return nil, nil }
func (b *DisconnectBody) Decode(raw []byte) error { return nil }
func (b *DisconnectBody) Name() string            { return "" }

// LogDescriptionBody mirrors the cookie's log-mode flags for an
// in-stream request to start or stop logging. Parsed for protocol
// completeness but never emitted by this implementation - see the
// log-mode open question recorded in DESIGN.md.
type LogDescriptionBody struct {
	Mode wire.LogMode
}

func (b *LogDescriptionBody) Encode() ([]byte, error) {
	return []byte{byte(b.Mode)}, nil
}

func (b *LogDescriptionBody) Decode(raw []byte) error {
	if len(raw) < 1 {
		return &wire.ParseError{Kind: "log description", Detail: "empty body"}
	}
	b.Mode = wire.LogMode(raw[0])
	return nil
}

func (b *LogDescriptionBody) Name() string { return "" }

// encodeName writes a length-prefixed (u32) name, the wire format shared
// by SenderDescriptionBody and TypeDescriptionBody.
func encodeName(name string) ([]byte, error) {
	buf := make([]byte, 4+len(name))
	if _, err := wire.PutU32(buf, uint32(len(name))); err != nil {
		return nil, err
	}
	copy(buf[4:], name)
	return buf, nil
}

func decodeName(raw []byte) (string, error) {
	c := wire.NewCursor(raw)
	n, err := wire.GetU32(c)
	if err != nil {
		return "", err
	}
	nameBytes, err := c.Take(int(n))
	if err != nil {
		return "", wire.ExpandRequirement(err)
	}
	return string(nameBytes), nil
}

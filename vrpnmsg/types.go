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

// Package vrpnmsg defines the message bodies carried inside wire.Frame
// payloads: the system bookkeeping messages (descriptions, ping/pong,
// disconnect, log description) and the tracker report family. Translation
// of sender/type ids and dispatch to handlers live in package connection.
package vrpnmsg

import "github.com/facebookincubator/vrpn-go/wire"

// System message type ids. These are negative by construction - negative
// type ids never collide with a locally-registered user type id, which
// always starts at 0 and counts up. Exact values must match the reference
// implementation to interoperate.
const (
	TypeSenderDescription wire.IDType = -1
	TypeTypeDescription   wire.IDType = -2
	TypeDisconnect        wire.IDType = -3
	TypePing              wire.IDType = -4
	TypePong              wire.IDType = -5
	TypeLogDescription    wire.IDType = -6
)

// Header identifies a message independent of its body: when it was sent,
// by whom, and as what type. As decoded off the wire, Sender and Type are
// in the peer's id space; package connection translates them to local ids
// before dispatch, and the Header it hands to handlers carries the local
// ids.
type Header struct {
	Time   wire.TimeVal
	Sender wire.IDType
	Type   wire.IDType
}

// GenericMessage is a Header paired with an undecoded body. It is what the
// framing layer hands up and what a system-message or unrecognized-type
// handler sees.
type GenericMessage struct {
	Header Header
	Body   []byte
}

// TypedMessageBody is implemented by every message body type that wants
// typed (de)serialization support via TypedMessage. Name identifies the
// VRPN type name a sender registers this body under (system bodies return
// the empty string, since they are never user-registered).
type TypedMessageBody interface {
	Encode() ([]byte, error)
	Decode([]byte) error
	Name() string
}

// TypedMessage pairs a Header with a parsed body of type B. This is the
// single generic boundary in the message layer: callers that know the
// concrete body type work with TypedMessage[B] directly, while the
// dispatcher deals only in GenericMessage plus a parse step.
type TypedMessage[B TypedMessageBody] struct {
	Header Header
	Body   B
}

// Decode parses raw into a TypedMessage[B], reporting a parse error if raw
// is not the wire encoding this body type expects. newBody constructs a
// fresh, zeroed body to decode into - body types are typically pointers
// with pointer-receiver Decode methods, so a bare generic zero value is
// not enough to get a usable instance.
func Decode[B TypedMessageBody](h Header, raw []byte, newBody func() B) (TypedMessage[B], error) {
	body := newBody()
	if err := body.Decode(raw); err != nil {
		return TypedMessage[B]{}, err
	}
	return TypedMessage[B]{Header: h, Body: body}, nil
}

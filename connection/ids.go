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

// Package connection implements the VRPN endpoint state machine: cookie
// handshake, translation of remote sender/type ids to local ones, dispatch
// of translated messages to registered handlers, and the ping/pong
// liveness protocol. It consumes package wire for framing and package
// vrpnmsg for message bodies; it knows nothing about concrete transports
// beyond an io.ReadWriter.
package connection

import "github.com/facebookincubator/vrpn-go/wire"

// LocalID is an id assigned by this endpoint; it indexes into this
// endpoint's own dense id space, starting at 0.
type LocalID wire.IDType

// RemoteID is an id assigned by the peer, learned from a description
// message. It is never used to index anything locally without first
// going through a TranslationTable.
type RemoteID wire.IDType

// InvalidID marks an absent or not-yet-resolved id in either space.
const InvalidID = -1

// IsSystemType reports whether t names one of the reserved negative
// system message types rather than a user-registered type. Negative type
// ids are exhaustively reserved for system messages (vrpnmsg.TypeSender
// Description and friends); user types always count up from 0.
func IsSystemType(t wire.IDType) bool {
	return t < 0
}

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

package connection

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/facebookincubator/vrpn-go/vrpnmsg"
	"github.com/facebookincubator/vrpn-go/wire"
)

// ProtocolMajorVersion and ProtocolMinorVersion are this implementation's
// cookie version. Non-file peers must match on major; minor may differ.
const (
	ProtocolMajorVersion uint8 = 7
	ProtocolMinorVersion uint8 = 35
)

// State is a position in the Endpoint lifecycle. Transitions are strictly
// forward: Connecting -> CookieSent -> CookieVerified -> Open -> Closing
// -> Closed.
type State int

const (
	StateConnecting State = iota
	StateCookieSent
	StateCookieVerified
	StateOpen
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "Connecting"
	case StateCookieSent:
		return "CookieSent"
	case StateCookieVerified:
		return "CookieVerified"
	case StateOpen:
		return "Open"
	case StateClosing:
		return "Closing"
	case StateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// VersionMismatch is returned by Handshake when the peer's cookie major
// version does not match ours. It is fatal: the handshake cannot proceed.
type VersionMismatch struct {
	Ours, Theirs uint8
}

func (e *VersionMismatch) Error() string {
	return fmt.Sprintf("connection: cookie major version mismatch: ours %d, theirs %d", e.Ours, e.Theirs)
}

// Endpoint drives one peer connection: cookie handshake, inbound frame
// classification and dispatch, outbound publication. It owns its two
// translation tables and its dispatcher; it does not own the underlying
// stream beyond using it for the lifetime of the connection. ReceiveOnce
// and the rest of the receive path are not safe for concurrent use - only
// one goroutine may drive them at a time. Frame writes on the send path
// (Publish, SendPing, Disconnect, and the Pong ReceiveOnce triggers
// internally) are serialized by sendMu, since a caller's own
// ping/liveness goroutine commonly calls SendPing concurrently with the
// goroutine driving ReceiveOnce. Publish's first-use announcement
// bookkeeping is not guarded by sendMu, so Publish is not safe to call
// from more than one goroutine at a time.
type Endpoint struct {
	stream io.ReadWriter
	reader *FrameReader

	Types      *TypeTable
	Senders    *SenderTable
	Dispatcher *TypeDispatcher
	Clock      Clock

	state State

	sendMu  sync.Mutex
	sendSeq uint32

	announcedSenders map[LocalID]bool
	announcedTypes   map[LocalID]bool

	pingClients map[LocalID]*PingClient
	pingServer  *PingServer
	selfSender  LocalID

	diagnostics chan error
}

// NewEndpoint wraps rw (a transport-agnostic duplex byte stream) in a
// fresh Endpoint, ready for Handshake.
func NewEndpoint(rw io.ReadWriter, clock Clock) *Endpoint {
	types := NewTypeTable()
	senders := NewSenderTable()
	e := &Endpoint{
		stream:           rw,
		reader:           NewFrameReader(rw, 1<<20),
		Types:            types,
		Senders:          senders,
		Dispatcher:       NewTypeDispatcher(types, senders, 64),
		Clock:            clock,
		announcedSenders: make(map[LocalID]bool),
		announcedTypes:   make(map[LocalID]bool),
		pingClients:      make(map[LocalID]*PingClient),
		pingServer:       &PingServer{Clock: clock},
		// selfSender is a bare conventional identity for ping/pong
		// traffic: it never goes through the translation table, so
		// watching it never triggers a description announcement.
		selfSender:  0,
		diagnostics: make(chan error, 32),
	}
	return e
}

// State returns the Endpoint's current lifecycle state.
func (e *Endpoint) State() State {
	return e.state
}

// Diagnostics surfaces recoverable, non-fatal errors: unknown remote ids,
// remote id conflicts, malformed description bodies, unrecognized system
// types and failed Pong sends. Radio silence is not reported here; it is
// returned by PingClient.Tick. Body parse and handler errors go to
// Dispatcher.Errors instead.
func (e *Endpoint) Diagnostics() <-chan error {
	return e.diagnostics
}

func (e *Endpoint) reportDiagnostic(err error) {
	select {
	case e.diagnostics <- err:
	default:
	}
}

func (e *Endpoint) setState(s State) {
	if s < e.state {
		panic(fmt.Sprintf("connection: illegal backward state transition %s -> %s", e.state, s))
	}
	e.state = s
}

// WatchPing registers a PingClient for the given watched sender, so that
// Pong receipts for it clear radio-silence state. Callers drive the
// returned PingClient's Tick from their own timer.
func (e *Endpoint) WatchPing(sender LocalID, threshold time.Duration) *PingClient {
	pc := NewPingClient(sender, e.Clock, threshold)
	e.pingClients[sender] = pc
	return pc
}

// Handshake performs the cookie exchange: write our cookie, read the
// peer's, verify version compatibility, and transition through
// CookieSent and CookieVerified into Open, emitting description messages
// for any names already registered before the peer connected.
func (e *Endpoint) Handshake(ctx context.Context) error {
	out := make([]byte, wire.CookieSize)
	if _, err := wire.EncodeCookie(out, wire.Cookie{Major: ProtocolMajorVersion, Minor: ProtocolMinorVersion, LogMode: wire.LogModeNone}); err != nil {
		return fmt.Errorf("connection: encoding cookie: %w", err)
	}
	// The write is issued on its own goroutine because an unbuffered
	// duplex stream (as a test transport, or as two peers dialing each
	// other with no kernel send buffer yet) can only make progress if
	// both sides are reading concurrently with writing their own cookie.
	writeErr := make(chan error, 1)
	go func() {
		_, err := e.stream.Write(out)
		writeErr <- err
	}()

	in := make([]byte, wire.CookieSize)
	if _, err := io.ReadFull(e.stream, in); err != nil {
		return fmt.Errorf("connection: reading peer cookie: %w", err)
	}
	if err := <-writeErr; err != nil {
		return fmt.Errorf("connection: writing cookie: %w", err)
	}
	e.setState(StateCookieSent)

	peer, err := wire.DecodeCookie(wire.NewCursor(in))
	if err != nil {
		return fmt.Errorf("connection: parsing peer cookie: %w", err)
	}
	if peer.Major != ProtocolMajorVersion {
		e.setState(StateClosed)
		return &VersionMismatch{Ours: ProtocolMajorVersion, Theirs: peer.Major}
	}
	e.setState(StateCookieVerified)

	if err := e.announceAll(); err != nil {
		return err
	}
	e.setState(StateOpen)
	return nil
}

func (e *Endpoint) announceAll() error {
	for _, p := range e.Senders.Pairs() {
		if e.announcedSenders[p.Local] {
			continue
		}
		if err := e.sendSystem(vrpnmsg.TypeSenderDescription, wire.IDType(p.Local), &vrpnmsg.SenderDescriptionBody{Description: vrpnmsg.SenderName(p.Name)}); err != nil {
			return err
		}
		e.announcedSenders[p.Local] = true
	}
	for _, p := range e.Types.Pairs() {
		if e.announcedTypes[p.Local] {
			continue
		}
		if err := e.sendSystem(vrpnmsg.TypeTypeDescription, wire.IDType(p.Local), &vrpnmsg.TypeDescriptionBody{Description: vrpnmsg.TypeName(p.Name)}); err != nil {
			return err
		}
		e.announcedTypes[p.Local] = true
	}
	return nil
}

// ReceiveOnce pulls and classifies exactly one frame. System messages
// (negative type) are handled internally and never returned; the caller
// only sees user messages that survived translation. A nil message with
// a nil error means the frame was consumed without yielding a user
// message: a system message was handled internally, a user message with
// an unknown remote id was dropped (and reported on Diagnostics), or the
// frame arrived after Closing and was discarded.
func (e *Endpoint) ReceiveOnce(ctx context.Context) (*vrpnmsg.GenericMessage, error) {
	frame, err := e.reader.Next(ctx)
	if err != nil {
		if e.state != StateClosing && e.state != StateClosed {
			e.setState(StateClosing)
		}
		return nil, err
	}
	if e.state == StateClosing || e.state == StateClosed {
		return nil, nil
	}

	header := vrpnmsg.Header{Time: frame.Time, Sender: frame.Sender, Type: frame.Type}

	if IsSystemType(frame.Type) {
		e.handleSystem(header, frame.Body)
		return nil, nil
	}

	localSender, ok := e.Senders.MapToLocal(RemoteID(frame.Sender))
	if !ok {
		e.reportDiagnostic(fmt.Errorf("connection: %w: sender %d", UnknownRemoteId, frame.Sender))
		return nil, nil
	}
	localType, ok := e.Types.MapToLocal(RemoteID(frame.Type))
	if !ok {
		e.reportDiagnostic(fmt.Errorf("connection: %w: type %d", UnknownRemoteId, frame.Type))
		return nil, nil
	}

	msg := vrpnmsg.GenericMessage{
		Header: vrpnmsg.Header{Time: frame.Time, Sender: wire.IDType(localSender), Type: wire.IDType(localType)},
		Body:   frame.Body,
	}
	e.Dispatcher.Dispatch(localType, localSender, msg)
	return &msg, nil
}

func (e *Endpoint) handleSystem(h vrpnmsg.Header, body []byte) {
	switch h.Type {
	case vrpnmsg.TypeSenderDescription:
		var b vrpnmsg.SenderDescriptionBody
		if err := b.Decode(body); err != nil {
			e.reportDiagnostic(fmt.Errorf("connection: sender description: %w", err))
			return
		}
		if _, err := e.Senders.RecordRemote(string(b.Description), RemoteID(h.Sender)); err != nil {
			e.reportDiagnostic(err)
		}
	case vrpnmsg.TypeTypeDescription:
		var b vrpnmsg.TypeDescriptionBody
		if err := b.Decode(body); err != nil {
			e.reportDiagnostic(fmt.Errorf("connection: type description: %w", err))
			return
		}
		if _, err := e.Types.RecordRemote(string(b.Description), RemoteID(h.Sender)); err != nil {
			e.reportDiagnostic(err)
		}
	case vrpnmsg.TypePing:
		self := e.pingServer.HandlePing(LocalID(h.Sender), e.selfSender)
		if err := e.sendSystem(vrpnmsg.TypePong, wire.IDType(self), &vrpnmsg.PongBody{}); err != nil {
			e.reportDiagnostic(err)
		}
	case vrpnmsg.TypePong:
		if pc, ok := e.pingClients[LocalID(h.Sender)]; ok {
			pc.Pong()
		}
	case vrpnmsg.TypeDisconnect:
		e.setState(StateClosing)
	case vrpnmsg.TypeLogDescription:
		// Parsed for protocol completeness; log-mode is never enabled by
		// this implementation, so there is nothing further to do.
	default:
		e.reportDiagnostic(fmt.Errorf("connection: unrecognized system type %d", h.Type))
	}
}

// Publish sends a user message from localSender as localType, stamped
// with t. The first publication of a given local sender or type to this
// peer is preceded by the corresponding description message.
func (e *Endpoint) Publish(localType, localSender LocalID, t wire.TimeVal, body []byte) error {
	if e.state != StateOpen {
		return fmt.Errorf("connection: cannot publish in state %s", e.state)
	}
	if !e.announcedSenders[localSender] {
		if name, ok := e.Senders.NameForLocal(localSender); ok {
			if err := e.sendSystem(vrpnmsg.TypeSenderDescription, wire.IDType(localSender), &vrpnmsg.SenderDescriptionBody{Description: vrpnmsg.SenderName(name)}); err != nil {
				return err
			}
		}
		e.announcedSenders[localSender] = true
	}
	if !e.announcedTypes[localType] {
		if name, ok := e.Types.NameForLocal(localType); ok {
			if err := e.sendSystem(vrpnmsg.TypeTypeDescription, wire.IDType(localType), &vrpnmsg.TypeDescriptionBody{Description: vrpnmsg.TypeName(name)}); err != nil {
				return err
			}
		}
		e.announcedTypes[localType] = true
	}
	return e.writeFrame(wire.Frame{
		Time:   t,
		Sender: wire.IDType(localSender),
		Type:   wire.IDType(localType),
		Body:   body,
	})
}

// SendPing emits a Ping addressed to sender, stamped with the current
// time. Callers typically drive this from a PingClient's Tick.
func (e *Endpoint) SendPing(sender LocalID) error {
	return e.sendSystem(vrpnmsg.TypePing, wire.IDType(sender), &vrpnmsg.PingBody{})
}

// Disconnect announces a graceful shutdown to the peer. The peer
// transitions to StateClosing on receipt; this side still needs Close to
// reach StateClosed itself.
func (e *Endpoint) Disconnect() error {
	return e.sendSystem(vrpnmsg.TypeDisconnect, wire.IDType(e.selfSender), &vrpnmsg.DisconnectBody{})
}

func (e *Endpoint) sendSystem(typ wire.IDType, sender wire.IDType, body vrpnmsg.TypedMessageBody) error {
	raw, err := body.Encode()
	if err != nil {
		return fmt.Errorf("connection: encoding system body: %w", err)
	}
	return e.writeFrame(wire.Frame{
		Time:   e.Clock.Now(),
		Sender: sender,
		Type:   typ,
		Body:   raw,
	})
}

// writeFrame assigns the next outbound sequence number and writes f to the
// stream as one atomic, mutex-serialized operation. Every send, whether a
// user Publish or an internally-triggered Pong, goes through here, so
// concurrent callers never interleave frame bytes or race on sendSeq.
func (e *Endpoint) writeFrame(f wire.Frame) error {
	e.sendMu.Lock()
	defer e.sendMu.Unlock()

	e.sendSeq++
	f.Sequence = e.sendSeq

	size := wire.FromUnpaddedBodySize(len(f.Body))
	buf := make([]byte, size.PaddedMessageSize())
	n, err := wire.EncodeFrame(buf, f)
	if err != nil {
		return fmt.Errorf("connection: encoding frame: %w", err)
	}
	if _, err := e.stream.Write(buf[:n]); err != nil {
		return fmt.Errorf("connection: writing frame: %w", err)
	}
	return nil
}

// Close transitions the Endpoint through Closing to Closed. Any further
// inbound data is discarded by ReceiveOnce once Closing is entered.
func (e *Endpoint) Close(ctx context.Context) error {
	if e.state == StateClosed {
		return nil
	}
	if e.state < StateClosing {
		e.setState(StateClosing)
	}
	e.setState(StateClosed)
	return nil
}

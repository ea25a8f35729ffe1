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
	"errors"
	"fmt"
)

// RemoteIdConflict is returned when a remote id already bound to one
// local id is recorded again against a different local id.
var RemoteIdConflict = errors.New("connection: remote id already bound to a different local id")

// UnknownRemoteId is returned when a remote id has never been recorded.
var UnknownRemoteId = errors.New("connection: unknown remote id")

// idPair is one name's bookkeeping: its assigned local id and, once
// learned, the remote id the peer uses for the same name.
type idPair struct {
	local     int32
	remote    int32
	hasRemote bool
}

// idTable is the unexported core shared by SenderTable and TypeTable: a
// name keeps a stable local id for the table's lifetime, and a remote id
// is attached to it once a description message reveals the peer's
// numbering. Mirrors the hand-specialized concrete map-wrapper shape used
// elsewhere in this codebase rather than a generic container, since the
// two tables' key/value kinds differ (Sender vs Type) even though the
// bookkeeping logic is identical.
type idTable struct {
	byName         map[string]*idPair
	byRemote       map[int32]*idPair
	insertionOrder []string
}

func newIDTable() *idTable {
	return &idTable{
		byName:   make(map[string]*idPair),
		byRemote: make(map[int32]*idPair),
	}
}

func (t *idTable) addLocal(name string) int32 {
	if p, ok := t.byName[name]; ok {
		return p.local
	}
	p := &idPair{local: int32(len(t.insertionOrder)), remote: InvalidID}
	t.byName[name] = p
	t.insertionOrder = append(t.insertionOrder, name)
	return p.local
}

func (t *idTable) recordRemote(name string, remote int32) (int32, error) {
	p, ok := t.byName[name]
	if !ok {
		t.addLocal(name)
		p = t.byName[name]
	}
	if p.hasRemote {
		if p.remote != remote {
			return InvalidID, fmt.Errorf("%w: name %q local %d has remote %d, got %d", RemoteIdConflict, name, p.local, p.remote, remote)
		}
		return p.local, nil
	}
	if existing, ok := t.byRemote[remote]; ok && existing != p {
		return InvalidID, fmt.Errorf("%w: remote %d already bound to local %d, wanted to bind to local %d", RemoteIdConflict, remote, existing.local, p.local)
	}
	p.remote = remote
	p.hasRemote = true
	t.byRemote[remote] = p
	return p.local, nil
}

func (t *idTable) mapToLocal(remote int32) (int32, bool) {
	p, ok := t.byRemote[remote]
	if !ok {
		return InvalidID, false
	}
	return p.local, true
}

func (t *idTable) mapToRemote(local int32) (int32, bool) {
	for _, name := range t.insertionOrder {
		p := t.byName[name]
		if p.local == local && p.hasRemote {
			return p.remote, true
		}
	}
	return InvalidID, false
}

func (t *idTable) nameForLocal(local int32) (string, bool) {
	for _, name := range t.insertionOrder {
		if t.byName[name].local == local {
			return name, true
		}
	}
	return "", false
}

type namedPair struct {
	Name  string
	Local int32
}

func (t *idTable) pairs() []namedPair {
	out := make([]namedPair, 0, len(t.insertionOrder))
	for _, name := range t.insertionOrder {
		out = append(out, namedPair{Name: name, Local: t.byName[name].local})
	}
	return out
}

// SenderTable translates between sender names, local sender ids and
// remote sender ids, for one Endpoint's one peer connection.
type SenderTable struct {
	t *idTable
}

// NewSenderTable returns an empty sender translation table.
func NewSenderTable() *SenderTable {
	return &SenderTable{t: newIDTable()}
}

// AddLocal assigns (or returns the existing) local id for name.
func (s *SenderTable) AddLocal(name string) LocalID {
	return LocalID(s.t.addLocal(name))
}

// RecordRemote binds name to remote, allocating a local id for name if it
// does not already have one.
func (s *SenderTable) RecordRemote(name string, remote RemoteID) (LocalID, error) {
	local, err := s.t.recordRemote(name, int32(remote))
	return LocalID(local), err
}

// MapToLocal looks up the local id bound to remote, if any.
func (s *SenderTable) MapToLocal(remote RemoteID) (LocalID, bool) {
	local, ok := s.t.mapToLocal(int32(remote))
	return LocalID(local), ok
}

// MapToRemote looks up the remote id bound to local, if any.
func (s *SenderTable) MapToRemote(local LocalID) (RemoteID, bool) {
	remote, ok := s.t.mapToRemote(int32(local))
	return RemoteID(remote), ok
}

// NameForLocal looks up the name a local sender id was registered under.
func (s *SenderTable) NameForLocal(local LocalID) (string, bool) {
	return s.t.nameForLocal(int32(local))
}

// SenderPair is one (name, local id) entry, used when emitting
// description messages for a newly opened peer connection.
type SenderPair struct {
	Name  string
	Local LocalID
}

// Pairs returns every registered (name, local id) pair in registration
// order.
func (s *SenderTable) Pairs() []SenderPair {
	raw := s.t.pairs()
	out := make([]SenderPair, len(raw))
	for i, p := range raw {
		out[i] = SenderPair{Name: p.Name, Local: LocalID(p.Local)}
	}
	return out
}

// TypeTable translates between type names, local type ids and remote
// type ids, for one Endpoint's one peer connection.
type TypeTable struct {
	t *idTable
}

// NewTypeTable returns an empty type translation table.
func NewTypeTable() *TypeTable {
	return &TypeTable{t: newIDTable()}
}

// AddLocal assigns (or returns the existing) local id for name.
func (s *TypeTable) AddLocal(name string) LocalID {
	return LocalID(s.t.addLocal(name))
}

// RecordRemote binds name to remote, allocating a local id for name if it
// does not already have one.
func (s *TypeTable) RecordRemote(name string, remote RemoteID) (LocalID, error) {
	local, err := s.t.recordRemote(name, int32(remote))
	return LocalID(local), err
}

// MapToLocal looks up the local id bound to remote, if any.
func (s *TypeTable) MapToLocal(remote RemoteID) (LocalID, bool) {
	local, ok := s.t.mapToLocal(int32(remote))
	return LocalID(local), ok
}

// MapToRemote looks up the remote id bound to local, if any.
func (s *TypeTable) MapToRemote(local LocalID) (RemoteID, bool) {
	remote, ok := s.t.mapToRemote(int32(local))
	return RemoteID(remote), ok
}

// NameForLocal looks up the name a local type id was registered under.
func (s *TypeTable) NameForLocal(local LocalID) (string, bool) {
	return s.t.nameForLocal(int32(local))
}

// TypePair is one (name, local id) entry.
type TypePair struct {
	Name  string
	Local LocalID
}

// Pairs returns every registered (name, local id) pair in registration
// order.
func (s *TypeTable) Pairs() []TypePair {
	raw := s.t.pairs()
	out := make([]TypePair, len(raw))
	for i, p := range raw {
		out[i] = TypePair{Name: p.Name, Local: LocalID(p.Local)}
	}
	return out
}

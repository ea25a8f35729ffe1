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
	"fmt"

	"github.com/facebookincubator/vrpn-go/vrpnmsg"
)

// HandlerResult tells the dispatcher whether to keep a handler registered
// after this invocation.
type HandlerResult int

const (
	ContinueProcessing HandlerResult = iota
	RemoveThisHandler
)

// GenericHandler receives an already-translated message without parsing
// its body.
type GenericHandler func(vrpnmsg.GenericMessage) (HandlerResult, error)

// TypeFilter and SenderFilter select which messages a handler registration
// matches: either a concrete local id, or Any to match every id in that
// dimension.
type TypeFilter struct {
	Any   bool
	Exact LocalID
}

type SenderFilter struct {
	Any   bool
	Exact LocalID
}

// AnyType matches every local type id.
func AnyType() TypeFilter { return TypeFilter{Any: true} }

// ExactType matches only id.
func ExactType(id LocalID) TypeFilter { return TypeFilter{Exact: id} }

// AnySender matches every local sender id.
func AnySender() SenderFilter { return SenderFilter{Any: true} }

// ExactSender matches only id.
func ExactSender(id LocalID) SenderFilter { return SenderFilter{Exact: id} }

type handlerKey struct {
	typeFilter   TypeFilter
	senderFilter SenderFilter
}

type registeredHandler struct {
	key     handlerKey
	handler GenericHandler
}

// TypeDispatcher invokes handlers registered for a (type, sender) filter
// pair against incoming, already-translated messages. System message
// types never reach the registered handlers - the Endpoint handles them
// directly.
type TypeDispatcher struct {
	Types   *TypeTable
	Senders *SenderTable

	handlers []*registeredHandler
	errs     chan error
}

// NewTypeDispatcher builds a dispatcher sharing the given translation
// tables. errCap sizes the buffered diagnostic error channel.
func NewTypeDispatcher(types *TypeTable, senders *SenderTable, errCap int) *TypeDispatcher {
	return &TypeDispatcher{
		Types:   types,
		Senders: senders,
		errs:    make(chan error, errCap),
	}
}

// Errors returns the dispatcher's diagnostic channel: body parse failures
// and handler errors are reported here rather than aborting dispatch.
func (d *TypeDispatcher) Errors() <-chan error {
	return d.errs
}

func (d *TypeDispatcher) reportError(err error) {
	select {
	case d.errs <- err:
	default:
	}
}

// RegisterGeneric registers h for messages whose translated (type,
// sender) matches the given filters, in the order registered.
func (d *TypeDispatcher) RegisterGeneric(typeFilter TypeFilter, senderFilter SenderFilter, h GenericHandler) {
	d.handlers = append(d.handlers, &registeredHandler{
		key:     handlerKey{typeFilter: typeFilter, senderFilter: senderFilter},
		handler: h,
	})
}

// RegisterTyped registers a handler over a parsed body of type B. newBody
// must return a fresh instance to decode into on each invocation. A body
// that fails to parse is reported to Errors() and the handler is not
// invoked.
func RegisterTyped[B vrpnmsg.TypedMessageBody](d *TypeDispatcher, typeFilter TypeFilter, senderFilter SenderFilter, newBody func() B, h func(vrpnmsg.TypedMessage[B]) (HandlerResult, error)) {
	d.RegisterGeneric(typeFilter, senderFilter, func(gm vrpnmsg.GenericMessage) (HandlerResult, error) {
		msg, err := vrpnmsg.Decode(gm.Header, gm.Body, newBody)
		if err != nil {
			d.reportError(fmt.Errorf("connection: body parse error for type %d sender %d: %w", gm.Header.Type, gm.Header.Sender, err))
			return ContinueProcessing, nil
		}
		return h(msg)
	})
}

// matches reports whether filter matches id, and whether the match was
// exact (as opposed to via Any).
func (f TypeFilter) matches(id LocalID) (ok bool, exact bool) {
	if f.Any {
		return true, false
	}
	return f.Exact == id, true
}

func (f SenderFilter) matches(id LocalID) (ok bool, exact bool) {
	if f.Any {
		return true, false
	}
	return f.Exact == id, true
}

// specificity buckets handlers for dispatch order: both-exact first, then
// one-wildcarded (type-exact/sender-any, then type-any/sender-exact), then
// both-any. Lower is dispatched first.
func specificity(k handlerKey) int {
	typeExact := !k.typeFilter.Any
	senderExact := !k.senderFilter.Any
	switch {
	case typeExact && senderExact:
		return 0
	case typeExact && !senderExact:
		return 1
	case !typeExact && senderExact:
		return 2
	default:
		return 3
	}
}

// Dispatch invokes every registered handler whose filters match msg's
// translated type/sender, in specificity order (exact-exact, then
// one-wildcarded, then any-any), preserving registration order within
// each bucket. Handlers returning RemoveThisHandler are dropped before
// the next Dispatch call.
func (d *TypeDispatcher) Dispatch(localType, localSender LocalID, msg vrpnmsg.GenericMessage) {
	type candidate struct {
		bucket int
		order  int
		h      *registeredHandler
	}
	var candidates []candidate
	for i, rh := range d.handlers {
		tOK, _ := rh.key.typeFilter.matches(localType)
		if !tOK {
			continue
		}
		sOK, _ := rh.key.senderFilter.matches(localSender)
		if !sOK {
			continue
		}
		candidates = append(candidates, candidate{bucket: specificity(rh.key), order: i, h: rh})
	}
	// stable sort by bucket, preserving registration order within a bucket
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && candidates[j].bucket < candidates[j-1].bucket; j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}

	toRemove := make(map[*registeredHandler]bool)
	for _, c := range candidates {
		result, err := c.h.handler(msg)
		if err != nil {
			d.reportError(fmt.Errorf("connection: handler error: %w", err))
		}
		if result == RemoveThisHandler {
			toRemove[c.h] = true
		}
	}
	if len(toRemove) == 0 {
		return
	}
	kept := d.handlers[:0]
	for _, rh := range d.handlers {
		if !toRemove[rh] {
			kept = append(kept, rh)
		}
	}
	d.handlers = kept
}

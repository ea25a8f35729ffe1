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
	"sync"
)

// Connection owns a set of named Endpoints - for example one per peer a
// server is currently talking to. It does not multiplex their I/O: each
// Endpoint is still driven by its own goroutine or call site, matching
// the single-threaded-per-Endpoint scheduling model. Connection exists
// only to make lookup and bookkeeping across Endpoints safe to share,
// mirroring the hand-specialized concrete map-wrapper pattern used for
// the translation tables rather than reaching for a generic container.
type Connection struct {
	mu        sync.Mutex
	endpoints map[string]*Endpoint
}

// NewConnection returns an empty Connection.
func NewConnection() *Connection {
	return &Connection{endpoints: make(map[string]*Endpoint)}
}

// Add registers ep under name. It is an error to reuse a name that is
// still registered.
func (c *Connection) Add(name string, ep *Endpoint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.endpoints[name]; ok {
		return fmt.Errorf("connection: endpoint %q already registered", name)
	}
	c.endpoints[name] = ep
	return nil
}

// Remove drops name from the set, if present.
func (c *Connection) Remove(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.endpoints, name)
}

// Get returns the Endpoint registered under name, if any.
func (c *Connection) Get(name string) (*Endpoint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ep, ok := c.endpoints[name]
	return ep, ok
}

// Names returns the currently registered endpoint names.
func (c *Connection) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.endpoints))
	for name := range c.endpoints {
		out = append(out, name)
	}
	return out
}

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
	"sync"
	"time"

	"github.com/facebookincubator/vrpn-go/wire"
)

// DefaultPingInterval is the reference 1 Hz ping cadence.
const DefaultPingInterval = time.Second

// DefaultRadioSilenceThreshold is how long a ping can go unanswered
// before PingClient.Tick surfaces a RadioSilence observation.
const DefaultRadioSilenceThreshold = 5 * time.Second

// PingClient tracks the liveness of one watched remote sender, driven by
// an externally-owned ticker rather than its own goroutine - nothing in
// this type blocks on I/O, matching the no-handler-blocks-the-Endpoint
// rule. Tick and Pong are commonly called from different goroutines (a
// ticker loop and an Endpoint receive loop respectively), so access to
// firstUnansweredPing is serialized by mu.
type PingClient struct {
	WatchedSender LocalID
	Clock         Clock
	Threshold     time.Duration

	mu                  sync.Mutex
	firstUnansweredPing *wire.TimeVal
}

// NewPingClient builds a PingClient watching sender, using clock for
// timestamps and threshold as the radio-silence cutoff.
func NewPingClient(sender LocalID, clock Clock, threshold time.Duration) *PingClient {
	return &PingClient{WatchedSender: sender, Clock: clock, Threshold: threshold}
}

// Tick is called once per timer period. It reports whether a Ping should
// be sent this tick, and, if the watched sender has been silent since a
// prior ping for at least Threshold, a non-nil silence duration.
func (p *PingClient) Tick() (sendPing bool, silence *time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.Clock.Now()
	if p.firstUnansweredPing == nil {
		t := now
		p.firstUnansweredPing = &t
		return true, nil
	}
	elapsed := Sub(now, *p.firstUnansweredPing)
	if elapsed >= p.Threshold {
		d := elapsed
		return true, &d
	}
	return true, nil
}

// Pong clears the radio-silence state for the watched sender. Successive
// pings before a pong never reset firstUnansweredPing - only Pong does.
func (p *PingClient) Pong() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.firstUnansweredPing = nil
}

// PingServer answers Ping messages with an immediate Pong stamped with
// the current time.
type PingServer struct {
	Clock Clock
}

// HandlePing builds the Pong reply for a received Ping from sender: the
// reply is always addressed as self, the Endpoint's own identity.
func (s *PingServer) HandlePing(sender LocalID, self LocalID) LocalID {
	return self
}

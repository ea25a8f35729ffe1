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
	"time"

	"github.com/facebookincubator/vrpn-go/wire"
)

// Clock yields the current time as a wire TimeVal. Every place that
// stamps a message or drives ping/pong goes through an injected Clock
// rather than calling time.Now directly, so tests can advance time
// deterministically.
type Clock interface {
	Now() wire.TimeVal
}

// SystemClock is the production Clock, backed by the OS clock.
type SystemClock struct{}

func (SystemClock) Now() wire.TimeVal {
	now := time.Now()
	return wire.TimeVal{
		Seconds:      int32(now.Unix()),
		Microseconds: int32(now.Nanosecond() / 1000),
	}
}

// Sub returns a-b as a time.Duration, treating both as Unix-epoch
// seconds/microseconds.
func Sub(a, b wire.TimeVal) time.Duration {
	at := time.Unix(int64(a.Seconds), int64(a.Microseconds)*1000)
	bt := time.Unix(int64(b.Seconds), int64(b.Microseconds)*1000)
	return at.Sub(bt)
}

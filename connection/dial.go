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
	"net"
)

// DefaultPort is the default vrpn-server listen port.
const DefaultPort = 3883

// Dial connects to addr over TCP, disables Nagle's algorithm (latency
// matters more than bandwidth for device reports), and runs the cookie
// handshake to completion before returning.
func Dial(ctx context.Context, addr string) (*Endpoint, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connection: dialing %s: %w", addr, err)
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		if err := tc.SetNoDelay(true); err != nil {
			conn.Close()
			return nil, fmt.Errorf("connection: setting TCP_NODELAY: %w", err)
		}
	}

	ep := NewEndpoint(conn, SystemClock{})
	if err := ep.Handshake(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return ep, nil
}

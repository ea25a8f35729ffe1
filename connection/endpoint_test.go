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

package connection_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/facebookincubator/vrpn-go/connection"
	"github.com/facebookincubator/vrpn-go/vrpnmsg"
	"github.com/facebookincubator/vrpn-go/wire"
	"github.com/stretchr/testify/require"
)

func handshakeBothEnds(t *testing.T) (client, server *connection.Endpoint) {
	t.Helper()
	a, b := net.Pipe()
	client = connection.NewEndpoint(a, connection.SystemClock{})
	server = connection.NewEndpoint(b, connection.SystemClock{})

	errs := make(chan error, 2)
	go func() { errs <- client.Handshake(context.Background()) }()
	go func() { errs <- server.Handshake(context.Background()) }()

	require.NoError(t, <-errs)
	require.NoError(t, <-errs)
	require.Equal(t, connection.StateOpen, client.State())
	require.Equal(t, connection.StateOpen, server.State())
	return client, server
}

func TestHandshakeReachesOpen(t *testing.T) {
	handshakeBothEnds(t)
}

func TestEndpointTranslationScenario(t *testing.T) {
	client, server := handshakeBothEnds(t)

	localSender := server.Senders.AddLocal("TrackerA")
	require.Equal(t, connection.LocalID(0), localSender)
	localType := server.Types.AddLocal(vrpnmsg.PoseReportTypeName)

	errs := make(chan error, 1)
	go func() {
		errs <- server.Publish(localType, localSender, wire.TimeVal{Seconds: 1}, nil)
	}()

	// server's first publish announces its SenderDescription/TypeDescription,
	// then the user message; drain them on the client side.
	_, err := client.ReceiveOnce(context.Background()) // sender description
	require.NoError(t, err)
	_, err = client.ReceiveOnce(context.Background()) // type description
	require.NoError(t, err)
	msg, err := client.ReceiveOnce(context.Background())
	require.NoError(t, err)
	require.NoError(t, <-errs)

	require.NotNil(t, msg)
	mappedLocal, ok := client.Senders.MapToLocal(connection.RemoteID(localSender))
	require.True(t, ok)
	require.Equal(t, connection.LocalID(0), mappedLocal)
	require.Equal(t, wire.IDType(mappedLocal), msg.Header.Sender)
}

func TestEndpointPingPong(t *testing.T) {
	client, server := handshakeBothEnds(t)

	pingSender := server.Senders.AddLocal("vrpn_control")
	pc := server.WatchPing(pingSender, 5*time.Second)

	errs := make(chan error, 1)
	go func() { errs <- server.SendPing(pingSender) }()

	// The server must already be reading when the client writes its pong:
	// net.Pipe is unbuffered, so the pong write blocks until it is read.
	pongErrs := make(chan error, 1)
	go func() {
		_, err := server.ReceiveOnce(context.Background())
		pongErrs <- err
	}()

	_, err := client.ReceiveOnce(context.Background()) // ping handled internally, triggers a pong send
	require.NoError(t, err)
	require.NoError(t, <-errs)
	require.NoError(t, <-pongErrs) // pong processed by server; drains without error

	pc.Pong()
	send, silence := pc.Tick()
	require.True(t, send)
	require.Nil(t, silence)
}

func TestEndpointPublishBeforeOpenFails(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()
	ep := connection.NewEndpoint(a, connection.SystemClock{})
	err := ep.Publish(0, 0, wire.TimeVal{}, nil)
	require.Error(t, err)
}

func TestEndpointDisconnectTransitionsToClosing(t *testing.T) {
	client, server := handshakeBothEnds(t)

	done := make(chan struct{})
	go func() {
		_, _ = client.ReceiveOnce(context.Background())
		close(done)
	}()
	require.NoError(t, server.Disconnect())
	<-done

	require.Equal(t, connection.StateClosing, client.State())
}

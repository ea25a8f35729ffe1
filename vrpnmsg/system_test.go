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

package vrpnmsg_test

import (
	"testing"

	"github.com/facebookincubator/vrpn-go/vrpnmsg"
	"github.com/facebookincubator/vrpn-go/wire"
	"github.com/stretchr/testify/require"
)

func TestSenderDescriptionRoundTrip(t *testing.T) {
	in := vrpnmsg.SenderDescriptionBody{Description: "TrackerA"}
	raw, err := in.Encode()
	require.NoError(t, err)

	var out vrpnmsg.SenderDescriptionBody
	require.NoError(t, out.Decode(raw))
	require.Equal(t, in, out)
}

func TestTypeDescriptionRoundTrip(t *testing.T) {
	in := vrpnmsg.TypeDescriptionBody{Description: vrpnmsg.TypeName(vrpnmsg.PoseReportTypeName)}
	raw, err := in.Encode()
	require.NoError(t, err)

	var out vrpnmsg.TypeDescriptionBody
	require.NoError(t, out.Decode(raw))
	require.Equal(t, in, out)
}

func TestPingPongBodiesAreEmpty(t *testing.T) {
	var ping vrpnmsg.PingBody
	raw, err := ping.Encode()
	require.NoError(t, err)
	require.Empty(t, raw)
	require.NoError(t, ping.Decode(nil))

	var pong vrpnmsg.PongBody
	raw, err = pong.Encode()
	require.NoError(t, err)
	require.Empty(t, raw)
}

func TestLogDescriptionRoundTrip(t *testing.T) {
	in := vrpnmsg.LogDescriptionBody{Mode: wire.LogModeBoth}
	raw, err := in.Encode()
	require.NoError(t, err)

	var out vrpnmsg.LogDescriptionBody
	require.NoError(t, out.Decode(raw))
	require.Equal(t, in, out)
}

func TestTypedMessageDecodeUsesFactory(t *testing.T) {
	in := vrpnmsg.SenderDescriptionBody{Description: "Wand"}
	raw, err := in.Encode()
	require.NoError(t, err)

	h := vrpnmsg.Header{Sender: 3, Type: vrpnmsg.TypeSenderDescription}
	msg, err := vrpnmsg.Decode(h, raw, func() *vrpnmsg.SenderDescriptionBody {
		return &vrpnmsg.SenderDescriptionBody{}
	})
	require.NoError(t, err)
	require.Equal(t, h, msg.Header)
	require.Equal(t, vrpnmsg.SenderName("Wand"), msg.Body.Description)
}

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

package wire_test

import (
	"testing"

	"github.com/facebookincubator/vrpn-go/wire"
	"github.com/stretchr/testify/require"
)

func TestCookieRoundTrip(t *testing.T) {
	in := wire.Cookie{Major: 7, Minor: 35, LogMode: wire.LogModeBoth}
	buf := make([]byte, wire.CookieSize)
	n, err := wire.EncodeCookie(buf, in)
	require.NoError(t, err)
	require.Equal(t, wire.CookieSize, n)

	out, err := wire.DecodeCookie(wire.NewCursor(buf))
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestCookieExactBytes(t *testing.T) {
	buf := make([]byte, wire.CookieSize)
	_, err := wire.EncodeCookie(buf, wire.Cookie{Major: 7, Minor: 35, LogMode: wire.LogModeNone})
	require.NoError(t, err)
	require.Equal(t, "vrpn: ver. 07.35  0", string(buf[:19]))
	for _, b := range buf[19:] {
		require.Zero(t, b)
	}
}

func TestDecodeCookieBadPrefix(t *testing.T) {
	buf := make([]byte, wire.CookieSize)
	copy(buf, "not-a-vrpn-cookie!!!!!!")
	_, err := wire.DecodeCookie(wire.NewCursor(buf))
	require.Error(t, err)
	var unexpected *wire.UnexpectedDataError
	require.ErrorAs(t, err, &unexpected)
}

func TestDecodeCookieShort(t *testing.T) {
	buf := make([]byte, wire.CookieSize-1)
	_, err := wire.DecodeCookie(wire.NewCursor(buf))
	require.Error(t, err)
	var need *wire.NeedMoreDataError
	require.ErrorAs(t, err, &need)
	require.False(t, need.Exact)
}

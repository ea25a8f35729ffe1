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

package vrpnconfig_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/facebookincubator/vrpn-go/vrpnconfig"
	"github.com/stretchr/testify/require"
)

func TestReadServerConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen_address: \":4000\"\nsenders:\n  - TrackerA\n"), 0o644))

	c, err := vrpnconfig.ReadServerConfig(path)
	require.NoError(t, err)
	require.Equal(t, ":4000", c.ListenAddress)
	require.Equal(t, []string{"TrackerA"}, c.Senders)
	require.Equal(t, time.Second, c.PingInterval)
	require.NoError(t, c.Validate())
}

func TestServerConfigValidateRejectsBadRadioSilence(t *testing.T) {
	c := vrpnconfig.DefaultServerConfig()
	c.RadioSilence = c.PingInterval
	require.Error(t, c.Validate())
}

func TestReadClientConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "client.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_address: \"127.0.0.1:3883\"\n"), 0o644))

	c, err := vrpnconfig.ReadClientConfig(path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:3883", c.ServerAddress)
	require.NoError(t, c.Validate())
}

func TestClientConfigValidateRequiresAddress(t *testing.T) {
	c := vrpnconfig.DefaultClientConfig()
	require.Error(t, c.Validate())
}

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

package vrpnstats_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/facebookincubator/vrpn-go/vrpnstats"
	"github.com/stretchr/testify/require"
)

func TestRegistryExportsCounters(t *testing.T) {
	r := vrpnstats.NewRegistry()
	r.MessagesSent.WithLabelValues("vrpn_Tracker Pos_Quat").Inc()
	r.MessagesReceived.WithLabelValues("vrpn_Tracker Pos_Quat").Inc()
	r.TranslationErrors.Inc()
	r.RadioSilenceEvents.Inc()
	r.OpenEndpoints.Set(2)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

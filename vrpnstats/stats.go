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

// Package vrpnstats exposes Prometheus metrics for a running server or
// client: messages sent/received per type, translation diagnostics,
// radio-silence events, and the number of currently open endpoints.
package vrpnstats

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Registry holds every counter and gauge this package exposes, registered
// against its own prometheus.Registry so a vrpn-server process doesn't
// collide with the default global registry.
type Registry struct {
	registry *prometheus.Registry

	MessagesSent       *prometheus.CounterVec
	MessagesReceived   *prometheus.CounterVec
	TranslationErrors  prometheus.Counter
	RadioSilenceEvents prometheus.Counter
	OpenEndpoints      prometheus.Gauge
}

// NewRegistry builds and registers every metric.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.MessagesSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vrpn_messages_sent_total",
		Help: "Messages published, by type name.",
	}, []string{"type"})
	r.MessagesReceived = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vrpn_messages_received_total",
		Help: "Messages dispatched after translation, by type name.",
	}, []string{"type"})
	r.TranslationErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vrpn_translation_errors_total",
		Help: "UnknownRemoteId and RemoteIdConflict diagnostics observed.",
	})
	r.RadioSilenceEvents = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vrpn_radio_silence_events_total",
		Help: "Ping cycles that crossed the radio-silence threshold.",
	})
	r.OpenEndpoints = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "vrpn_open_endpoints",
		Help: "Endpoints currently in StateOpen.",
	})

	for _, c := range []prometheus.Collector{r.MessagesSent, r.MessagesReceived, r.TranslationErrors, r.RadioSilenceEvents, r.OpenEndpoints} {
		if err := r.registry.Register(c); err != nil {
			log.Errorf("vrpnstats: failed to register collector: %v", err)
		}
	}
	return r
}

// Handler returns the promhttp handler serving this registry's metrics.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Serve blocks serving metrics on addr's "/metrics" path. Grounded on the
// teacher's PrometheusExporter.Start, adapted to serve this package's own
// registry instead of scraping a second process.
func (r *Registry) Serve(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	addr := fmt.Sprintf(":%d", port)
	log.Infof("vrpnstats: serving metrics on %s", addr)
	return http.ListenAndServe(addr, mux)
}

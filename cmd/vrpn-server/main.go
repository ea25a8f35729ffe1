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

package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net"
	"time"

	"github.com/facebookincubator/vrpn-go/connection"
	"github.com/facebookincubator/vrpn-go/vrpnconfig"
	"github.com/facebookincubator/vrpn-go/vrpnstats"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	c := vrpnconfig.DefaultServerConfig()

	var configFile, logLevel string
	flag.StringVar(&c.ListenAddress, "listenaddress", c.ListenAddress, "host:port to listen on")
	flag.IntVar(&c.MonitoringPort, "monitoringport", c.MonitoringPort, "Port to run the prometheus monitoring server on")
	flag.DurationVar(&c.PingInterval, "pinginterval", c.PingInterval, "Interval between liveness pings sent to each client")
	flag.DurationVar(&c.RadioSilence, "radiosilence", c.RadioSilence, "Duration without a pong before a client is considered unreachable")
	flag.StringVar(&configFile, "config", "", "Path to a YAML config file")
	flag.StringVar(&logLevel, "loglevel", "info", "Set a log level. Can be: debug, info, warning, error")
	flag.Parse()

	switch logLevel {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warning":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	default:
		log.Fatalf("Unrecognized log level: %v", logLevel)
	}

	if configFile != "" {
		var err error
		c, err = vrpnconfig.ReadServerConfig(configFile)
		if err != nil {
			log.Fatalf("Reading config: %v", err)
		}
	}
	if err := c.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	stats := vrpnstats.NewRegistry()

	ln, err := net.Listen("tcp", c.ListenAddress)
	if err != nil {
		log.Fatalf("Listening on %s: %v", c.ListenAddress, err)
	}
	log.Infof("vrpn-server listening on %s", c.ListenAddress)

	// The monitoring server and the accept loop run as a group: either one
	// exiting (a listener error, a monitoring port bind failure) tears the
	// whole process down together instead of leaving a half-dead server.
	g, gctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		return stats.Serve(c.MonitoringPort)
	})
	g.Go(func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return err
			}
			go serveConn(conn, c, stats)
		}
	})
	<-gctx.Done()
	log.Fatalf("vrpn-server stopped: %v", context.Cause(gctx))
}

func serveConn(conn net.Conn, c *vrpnconfig.ServerConfig, stats *vrpnstats.Registry) {
	defer conn.Close()
	log.Infof("Accepted connection from %s", conn.RemoteAddr())

	ep := connection.NewEndpoint(conn, connection.SystemClock{})
	for _, name := range c.Senders {
		ep.Senders.AddLocal(name)
	}
	for _, name := range c.Types {
		ep.Types.AddLocal(name)
	}

	ctx := context.Background()
	if err := ep.Handshake(ctx); err != nil {
		log.Errorf("Handshake with %s failed: %v", conn.RemoteAddr(), err)
		return
	}
	stats.OpenEndpoints.Inc()
	defer stats.OpenEndpoints.Dec()

	done := make(chan struct{})
	defer close(done)

	watch := ep.WatchPing(0, c.RadioSilence)
	ticker := time.NewTicker(c.PingInterval)
	defer ticker.Stop()
	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := ep.SendPing(0); err != nil {
					return
				}
				if _, silence := watch.Tick(); silence != nil {
					stats.RadioSilenceEvents.Inc()
					log.Warnf("%s: radio silence for %s", conn.RemoteAddr(), *silence)
				}
			}
		}
	}()

	go func() {
		for {
			select {
			case <-done:
				return
			case diag := <-ep.Diagnostics():
				if errors.Is(diag, connection.UnknownRemoteId) || errors.Is(diag, connection.RemoteIdConflict) {
					stats.TranslationErrors.Inc()
				}
				log.Warnf("%s: %v", conn.RemoteAddr(), diag)
			}
		}
	}()

	for {
		msg, err := ep.ReceiveOnce(ctx)
		if err != nil {
			if err != io.EOF {
				log.Infof("%s: connection closed: %v", conn.RemoteAddr(), err)
			}
			return
		}
		if msg == nil {
			continue
		}
		if name, ok := ep.Types.NameForLocal(connection.LocalID(msg.Header.Type)); ok {
			stats.MessagesReceived.WithLabelValues(name).Inc()
		}
	}
}

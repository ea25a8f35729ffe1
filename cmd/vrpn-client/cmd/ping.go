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

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/facebookincubator/vrpn-go/connection"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	pingCount    int
	pingInterval time.Duration
	pingTimeout  time.Duration
)

func init() {
	RootCmd.AddCommand(pingCmd)
	pingCmd.Flags().IntVarP(&pingCount, "count", "c", 5, "number of pings to send")
	pingCmd.Flags().DurationVarP(&pingInterval, "interval", "i", time.Second, "interval between pings")
	pingCmd.Flags().DurationVarP(&pingTimeout, "timeout", "t", 5*time.Second, "dial and radio silence timeout")
}

func pingRun(server string, count int, interval, timeout time.Duration) error {
	ep, err := dialAndHandshake(server, timeout)
	if err != nil {
		return err
	}
	defer ep.Close(context.Background())

	watch := ep.WatchPing(0, timeout)
	go func() {
		for {
			if _, err := ep.ReceiveOnce(context.Background()); err != nil {
				return
			}
		}
	}()

	for n := 1; n <= count; n++ {
		start := time.Now()
		logSent("ping seq=%d", n)
		if err := ep.SendPing(0); err != nil {
			return fmt.Errorf("sending ping: %w", err)
		}
		time.Sleep(interval)
		if _, silence := watch.Tick(); silence != nil {
			log.Warnf("seq=%d: radio silence for %s", n, *silence)
			continue
		}
		logReceive("pong seq=%d rtt~=%s", n, time.Since(start))
	}
	return nil
}

var pingCmd = &cobra.Command{
	Use:        "ping {server}",
	Short:      "send liveness pings to a vrpn-server and report pong latency",
	Args:       cobra.ExactArgs(1),
	ArgAliases: []string{"server"},
	Run: func(_ *cobra.Command, args []string) {
		ConfigureVerbosity()
		if err := pingRun(args[0], pingCount, pingInterval, pingTimeout); err != nil {
			log.Fatal(err)
		}
	},
}

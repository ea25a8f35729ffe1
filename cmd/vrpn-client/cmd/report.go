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
	"time"

	"github.com/facebookincubator/vrpn-go/connection"
	"github.com/facebookincubator/vrpn-go/vrpnmsg"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	reportSender  string
	reportTimeout time.Duration
)

func init() {
	RootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&reportSender, "sender", "s", "Tracker0", "sender name to watch for pose reports")
	reportCmd.Flags().DurationVarP(&reportTimeout, "timeout", "t", 5*time.Second, "dial timeout")
}

func reportRun(server, senderName string) error {
	ep, err := dialAndHandshake(server, reportTimeout)
	if err != nil {
		return err
	}
	defer ep.Close(context.Background())

	localSender := ep.Senders.AddLocal(senderName)
	localType := ep.Types.AddLocal(vrpnmsg.PoseReportTypeName)

	connection.RegisterTyped(ep.Dispatcher, connection.ExactType(localType), connection.ExactSender(localSender),
		func() *vrpnmsg.PoseReport { return &vrpnmsg.PoseReport{} },
		func(msg vrpnmsg.TypedMessage[*vrpnmsg.PoseReport]) (connection.HandlerResult, error) {
			logReceive("pose sensor=%d pos=%+v quat=%+v", msg.Body.Sensor, msg.Body.Pos, msg.Body.Quat)
			return connection.ContinueProcessing, nil
		})

	go func() {
		for diag := range ep.Diagnostics() {
			log.Warn(diag)
		}
	}()

	for {
		if _, err := ep.ReceiveOnce(context.Background()); err != nil {
			return err
		}
	}
}

var reportCmd = &cobra.Command{
	Use:        "report {server}",
	Short:      "watch pose reports for a given sender on a vrpn-server",
	Args:       cobra.ExactArgs(1),
	ArgAliases: []string{"server"},
	Run: func(_ *cobra.Command, args []string) {
		ConfigureVerbosity()
		if err := reportRun(args[0], reportSender); err != nil {
			log.Fatal(err)
		}
	},
}

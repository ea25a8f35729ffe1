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
	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
)

// dialAndHandshake connects to addr over TCP and drives the cookie
// handshake to completion, returning the resulting Endpoint.
func dialAndHandshake(addr string, dialTimeout time.Duration) (*connection.Endpoint, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	return connection.Dial(ctx, addr)
}

// logSent and logReceive print colorized trace lines for interactive use,
// mirroring the convention every subcommand in this tree follows.
func logSent(msg string, v ...interface{}) {
	log.Infof(color.GreenString("client -> "+msg, v...))
}

func logReceive(msg string, v ...interface{}) {
	log.Infof(color.BlueString("server -> "+msg, v...))
}

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

// Package vrpnconfig describes on-disk configuration for the vrpn-server
// and vrpn-client binaries.
package vrpnconfig

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// ServerConfig describes how a vrpn-server process should listen, which
// senders and types it pre-registers, and how often it pings watched
// connections.
type ServerConfig struct {
	ListenAddress  string        `yaml:"listen_address"`
	MonitoringPort int           `yaml:"monitoring_port"`
	PingInterval   time.Duration `yaml:"ping_interval"`
	RadioSilence   time.Duration `yaml:"radio_silence"`
	Senders        []string      `yaml:"senders"`
	Types          []string      `yaml:"types"`
	LogLevel       string        `yaml:"log_level"`
}

// DefaultServerConfig returns a ServerConfig initialized with default values.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ListenAddress:  ":3883",
		MonitoringPort: 9883,
		PingInterval:   time.Second,
		RadioSilence:   5 * time.Second,
		LogLevel:       "info",
	}
}

// Validate checks ServerConfig is sane.
func (c *ServerConfig) Validate() error {
	if c.ListenAddress == "" {
		return fmt.Errorf("listen_address must be set")
	}
	if c.PingInterval <= 0 {
		return fmt.Errorf("ping_interval must be positive")
	}
	if c.RadioSilence <= c.PingInterval {
		return fmt.Errorf("radio_silence must be greater than ping_interval")
	}
	return nil
}

// ReadServerConfig reads a ServerConfig from the file at path.
func ReadServerConfig(path string) (*ServerConfig, error) {
	c := DefaultServerConfig()
	cData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(cData, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ClientConfig describes how a vrpn-client process should connect and what
// it expects to receive.
type ClientConfig struct {
	ServerAddress string        `yaml:"server_address"`
	DialTimeout   time.Duration `yaml:"dial_timeout"`
	PingInterval  time.Duration `yaml:"ping_interval"`
	RadioSilence  time.Duration `yaml:"radio_silence"`
	WatchSenders  []string      `yaml:"watch_senders"`
	LogLevel      string        `yaml:"log_level"`
}

// DefaultClientConfig returns a ClientConfig initialized with default values.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		DialTimeout:  5 * time.Second,
		PingInterval: time.Second,
		RadioSilence: 5 * time.Second,
		LogLevel:     "info",
	}
}

// Validate checks ClientConfig is sane.
func (c *ClientConfig) Validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("server_address must be set")
	}
	if c.DialTimeout <= 0 {
		return fmt.Errorf("dial_timeout must be positive")
	}
	return nil
}

// ReadClientConfig reads a ClientConfig from the file at path.
func ReadClientConfig(path string) (*ClientConfig, error) {
	c := DefaultClientConfig()
	cData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(cData, c); err != nil {
		return nil, err
	}
	return c, nil
}

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

package wire

import "fmt"

// magicPrefix opens every cookie, identifying the stream as VRPN traffic
// before either side commits to anything else.
const magicPrefix = "vrpn: ver. "

// CookieSize is the fixed size, NUL padding included, of the handshake cookie that both
// peers exchange before any message traffic flows.
const CookieSize = 24

// LogMode bits, carried as a single decimal digit in the cookie.
type LogMode uint8

const (
	LogModeNone     LogMode = 0
	LogModeIncoming LogMode = 1
	LogModeOutgoing LogMode = 2
	LogModeBoth     LogMode = 3
)

// Cookie is the handshake preamble exchanged by both endpoints of a
// connection before any message traffic is sent.
type Cookie struct {
	Major   uint8
	Minor   uint8
	LogMode LogMode
}

// EncodeCookie writes the 24-byte cookie to b, which must be at least
// CookieSize bytes. Layout: magicPrefix (11 bytes), 2-digit major, ".",
// 2-digit minor, two spaces, 1-digit log mode, then NUL padding out to
// CookieSize.
func EncodeCookie(b []byte, c Cookie) (int, error) {
	if len(b) < CookieSize {
		return 0, ErrOutOfBuffer
	}
	if c.Major > 99 || c.Minor > 99 {
		return 0, &ParseError{Kind: "cookie version", Detail: "major/minor must fit in two decimal digits"}
	}
	s := fmt.Sprintf("%s%02d.%02d  %d", magicPrefix, c.Major, c.Minor, c.LogMode&0x7)
	n := copy(b, s)
	for i := n; i < CookieSize; i++ {
		b[i] = 0
	}
	return CookieSize, nil
}

// DecodeCookie reads a 24-byte cookie from the cursor, verifying the magic
// prefix and parsing the version and log mode digits.
func DecodeCookie(c *Cursor) (Cookie, error) {
	raw, err := c.Take(CookieSize)
	if err != nil {
		return Cookie{}, ExpandRequirement(err)
	}
	prefix := raw[:len(magicPrefix)]
	if string(prefix) != magicPrefix {
		return Cookie{}, &UnexpectedDataError{Expected: []byte(magicPrefix), Actual: prefix}
	}
	rest := raw[len(magicPrefix):]
	// rest is "MM.mm  L" followed by NUL padding.
	if len(rest) < 8 {
		return Cookie{}, &ParseError{Kind: "cookie", Detail: "truncated version/log-mode field"}
	}
	major, err := parseDigits(rest[0:2])
	if err != nil {
		return Cookie{}, err
	}
	if rest[2] != '.' {
		return Cookie{}, &ParseError{Kind: "cookie", Detail: "expected '.' between version digits"}
	}
	minor, err := parseDigits(rest[3:5])
	if err != nil {
		return Cookie{}, err
	}
	if rest[5] != ' ' || rest[6] != ' ' {
		return Cookie{}, &ParseError{Kind: "cookie", Detail: "expected two spaces before log mode"}
	}
	if rest[7] < '0' || rest[7] > '9' {
		return Cookie{}, &ParseError{Kind: "cookie", Detail: "log mode is not a decimal digit"}
	}
	logMode := LogMode(rest[7] - '0')

	return Cookie{Major: uint8(major), Minor: uint8(minor), LogMode: logMode}, nil
}

func parseDigits(b []byte) (int, error) {
	if len(b) != 2 || b[0] < '0' || b[0] > '9' || b[1] < '0' || b[1] > '9' {
		return 0, &ParseError{Kind: "cookie", Detail: "expected two decimal digits"}
	}
	return int(b[0]-'0')*10 + int(b[1]-'0'), nil
}

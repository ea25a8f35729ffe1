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

package connection

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/facebookincubator/vrpn-go/wire"
)

const frameReaderChunkSize = 4096

// FrameReader converts a plain io.Reader into a lazy, restartable
// sequence of wire.Frame records. It reads only as much as a consumer
// asks for, via Next; decoding never advances past a partial frame, so a
// short read simply means Next reads more and retries against the same
// staging buffer.
type FrameReader struct {
	r      io.Reader
	buf    []byte
	maxBuf int
}

// NewFrameReader wraps r. maxBuf bounds how large the staging buffer may
// grow while waiting for one frame to complete, guarding against a
// corrupt or hostile length field demanding unbounded memory.
func NewFrameReader(r io.Reader, maxBuf int) *FrameReader {
	return &FrameReader{r: r, maxBuf: maxBuf}
}

// Next returns the next complete frame, reading from the underlying
// source as needed. It returns io.EOF if the source closed cleanly with
// no partial frame staged, or io.ErrUnexpectedEOF if it closed mid-frame.
func (f *FrameReader) Next(ctx context.Context) (*wire.Frame, error) {
	for {
		c := wire.NewCursor(f.buf)
		frame, err := wire.DecodeFrame(c)
		if err == nil {
			f.buf = f.buf[c.Pos():]
			return frame, nil
		}
		var need *wire.NeedMoreDataError
		if !errors.As(err, &need) {
			return nil, fmt.Errorf("connection: decoding frame: %w", err)
		}
		if len(f.buf) >= f.maxBuf {
			return nil, fmt.Errorf("connection: frame would exceed max buffer size %d", f.maxBuf)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		chunk := make([]byte, frameReaderChunkSize)
		n, rerr := f.r.Read(chunk)
		if n > 0 {
			f.buf = append(f.buf, chunk[:n]...)
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				if len(f.buf) > 0 {
					return nil, io.ErrUnexpectedEOF
				}
				return nil, io.EOF
			}
			return nil, rerr
		}
	}
}

/*
 * mipsevm - Preimage-oracle transport client
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package oracle implements the client side of the strictly synchronous
// hint/preimage transport: two independent byte-stream pairs, one for
// hint request/acknowledgement, one for preimage key/payload exchange,
// each framed with a length prefix.
package oracle

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
)

// Client implements mips.Oracle over four half-duplex byte streams: a
// hint pair (write request, read one-byte ack) and a preimage pair
// (write 32-byte key, read u64-length-prefixed payload).
type Client struct {
	hintOut io.Writer
	hintIn  io.Reader

	preimageOut io.Writer
	preimageIn  io.Reader

	cache map[[32]byte][]byte
}

// NewClient wires a Client to the four file descriptors (or any
// io.Reader/io.Writer pair, e.g. a spawned subprocess's pipes) the
// server subprocess exposes.
func NewClient(hintOut io.Writer, hintIn io.Reader, preimageOut io.Writer, preimageIn io.Reader) *Client {
	return &Client{
		hintOut:     hintOut,
		hintIn:      hintIn,
		preimageOut: preimageOut,
		preimageIn:  preimageIn,
		cache:       make(map[[32]byte][]byte),
	}
}

// Hint sends a u32-big-endian-length-prefixed hint payload and blocks
// for the server's single-byte acknowledgement.
func (c *Client) Hint(data []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	if _, err := c.hintOut.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("oracle: write hint length: %w", err)
	}
	if _, err := c.hintOut.Write(data); err != nil {
		return fmt.Errorf("oracle: write hint payload: %w", err)
	}
	var ack [1]byte
	if _, err := io.ReadFull(c.hintIn, ack[:]); err != nil {
		return fmt.Errorf("oracle: read hint ack: %w", err)
	}
	slog.Debug("oracle hint acked", "bytes", len(data))
	return nil
}

// Preimage returns the full preimage matching key, serving from an
// in-process cache after the first fetch for a given key (the transport
// is per-step synchronous and re-fetching an already-seen key would
// needlessly round-trip the server).
func (c *Client) Preimage(key [32]byte) ([]byte, error) {
	if data, ok := c.cache[key]; ok {
		return data, nil
	}
	if _, err := c.preimageOut.Write(key[:]); err != nil {
		return nil, fmt.Errorf("oracle: write preimage key: %w", err)
	}
	var lenBuf [8]byte
	if _, err := io.ReadFull(c.preimageIn, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("oracle: read preimage length: %w", err)
	}
	n := binary.BigEndian.Uint64(lenBuf[:])
	data := make([]byte, n)
	if _, err := io.ReadFull(c.preimageIn, data); err != nil {
		return nil, fmt.Errorf("oracle: read preimage payload: %w", err)
	}
	c.cache[key] = data
	slog.Debug("oracle preimage fetched", "key", fmt.Sprintf("%x", key), "bytes", n)
	return data, nil
}

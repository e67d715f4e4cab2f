/*
 * mipsevm - Oracle client test cases
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

package oracle

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// fakeServer answers hint writes with an immediate one-byte ack and
// preimage key writes with a fixed, length-prefixed payload, exercising
// Client against the documented wire format without a real subprocess.
type fakeServer struct {
	hintIn   *bytes.Buffer
	hintOut  *bytes.Buffer
	keyIn    *bytes.Buffer
	dataOut  *bytes.Buffer
	payloads map[[32]byte][]byte
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		hintIn:   &bytes.Buffer{},
		hintOut:  &bytes.Buffer{},
		keyIn:    &bytes.Buffer{},
		dataOut:  &bytes.Buffer{},
		payloads: map[[32]byte][]byte{},
	}
}

// serveHint drains one length-prefixed hint frame from hintIn and queues
// an ack byte in hintOut, mimicking the synchronous server side.
func (f *fakeServer) serveHint() []byte {
	var lenBuf [4]byte
	_, _ = f.hintIn.Read(lenBuf[:])
	n := binary.BigEndian.Uint32(lenBuf[:])
	payload := make([]byte, n)
	_, _ = f.hintIn.Read(payload)
	f.hintOut.WriteByte(1)
	return payload
}

// servePreimage drains a 32-byte key from keyIn and queues the matching
// length-prefixed payload in dataOut.
func (f *fakeServer) servePreimage() {
	var key [32]byte
	_, _ = f.keyIn.Read(key[:])
	data := f.payloads[key]
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(data)))
	f.dataOut.Write(lenBuf[:])
	f.dataOut.Write(data)
}

// syncWriter immediately hands off to a server-side handler after every
// Write, keeping the fake server's queues in lockstep with the client's
// synchronous protocol.
type syncWriter struct {
	buf *bytes.Buffer
	on  func()
}

func (w *syncWriter) Write(p []byte) (int, error) {
	n, err := w.buf.Write(p)
	if w.on != nil {
		w.on()
	}
	return n, err
}

func TestHintRoundTrip(t *testing.T) {
	srv := newFakeServer()
	hintOut := &syncWriter{buf: srv.hintIn}
	c := NewClient(hintOut, srv.hintOut, nil, nil)

	var seen []byte
	hintOut.on = func() {
		if srv.hintIn.Len() < 4 {
			return
		}
		n := binary.BigEndian.Uint32(srv.hintIn.Bytes()[:4])
		if uint32(srv.hintIn.Len()) < 4+n {
			return
		}
		seen = srv.serveHint()
	}

	if err := c.Hint([]byte("HINT")); err != nil {
		t.Fatalf("Hint: %v", err)
	}
	if string(seen) != "HINT" {
		t.Errorf("server saw %q, want HINT", seen)
	}
}

func TestPreimageRoundTripAndCache(t *testing.T) {
	srv := newFakeServer()
	var key [32]byte
	key[0] = 0x01
	srv.payloads[key] = []byte("the preimage bytes")

	keyOut := &syncWriter{buf: srv.keyIn}
	c := NewClient(nil, nil, keyOut, srv.dataOut)
	keyOut.on = func() {
		if srv.keyIn.Len() >= 32 {
			srv.servePreimage()
		}
	}

	data, err := c.Preimage(key)
	if err != nil {
		t.Fatalf("Preimage: %v", err)
	}
	if string(data) != "the preimage bytes" {
		t.Errorf("Preimage = %q", data)
	}

	// Second call must be served from cache, with no further server
	// interaction required.
	srv.payloads[key] = []byte("changed after first fetch")
	data2, err := c.Preimage(key)
	if err != nil {
		t.Fatalf("Preimage (cached): %v", err)
	}
	if string(data2) != "the preimage bytes" {
		t.Errorf("cached Preimage = %q, want original payload", data2)
	}
}

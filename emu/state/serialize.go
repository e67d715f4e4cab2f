/*
 * mipsevm - Snapshot serialization
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

package state

import (
	"compress/gzip"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/rcornwell/mipsevm/emu/memory"
)

// ErrStateDecode is wrapped around any malformed-snapshot failure.
var ErrStateDecode = errors.New("state: decode error")

// snapshot is the exact JSON wire format from spec.md §6.
type snapshot struct {
	Memory         []memory.PageRecord `json:"memory"`
	PreimageKey    string              `json:"preimageKey"`
	PreimageOffset uint32              `json:"preimageOffset"`
	PC             uint32              `json:"pc"`
	NextPC         uint32              `json:"nextPC"`
	LO             uint32              `json:"lo"`
	HI             uint32              `json:"hi"`
	Heap           uint32              `json:"heap"`
	Exit           uint8               `json:"exit"`
	Exited         bool                `json:"exited"`
	StepCount      uint64              `json:"step"`
	RegistersList  [32]uint32          `json:"registers"`
}

// MarshalJSON renders the state into the documented snapshot shape.
func (s *State) MarshalJSON() ([]byte, error) {
	snap := snapshot{
		Memory:         s.Memory.MarshalPages(),
		PreimageKey:    hex.EncodeToString(s.PreimageKey[:]),
		PreimageOffset: s.PreimageOffset,
		PC:             s.PC,
		NextPC:         s.NextPC,
		LO:             s.LO,
		HI:             s.HI,
		Heap:           s.HeapPtr,
		Exit:           s.ExitCode,
		Exited:         s.Exited,
		StepCount:      s.Step,
		RegistersList:  s.Registers,
	}
	return json.Marshal(snap)
}

// UnmarshalJSON loads the state from the documented snapshot shape.
func (s *State) UnmarshalJSON(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w: %v", ErrStateDecode, err)
	}
	key, err := hex.DecodeString(snap.PreimageKey)
	if err != nil || len(key) != 32 {
		return fmt.Errorf("%w: preimageKey must be 32 bytes hex", ErrStateDecode)
	}

	mem := memory.New()
	if err := mem.LoadPages(snap.Memory); err != nil {
		return fmt.Errorf("%w: %v", ErrStateDecode, err)
	}

	s.Memory = mem
	copy(s.PreimageKey[:], key)
	s.PreimageOffset = snap.PreimageOffset
	s.PC = snap.PC
	s.NextPC = snap.NextPC
	s.LO = snap.LO
	s.HI = snap.HI
	s.HeapPtr = snap.Heap
	s.ExitCode = snap.Exit
	s.Exited = snap.Exited
	s.Step = snap.StepCount
	s.Registers = snap.RegistersList
	return nil
}

// gzipMagic is the two-byte header compress/gzip writes, used to decide
// whether Load should transparently decompress a snapshot file.
var gzipMagic = [2]byte{0x1f, 0x8b}

// Load reads a JSON snapshot from r, transparently gunzipping it first if
// it carries a gzip header (spec.md §6: "optionally stored
// gzip-compressed").
func Load(r io.Reader) (*State, error) {
	br := &peekReader{r: r}
	head, err := br.peek(2)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %v", ErrStateDecode, err)
	}

	var payload io.Reader = br
	if len(head) == 2 && head[0] == gzipMagic[0] && head[1] == gzipMagic[1] {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStateDecode, err)
		}
		defer gz.Close()
		payload = gz
	}

	raw, err := io.ReadAll(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStateDecode, err)
	}

	s := New()
	if err := s.UnmarshalJSON(raw); err != nil {
		return nil, err
	}
	return s, nil
}

// Save writes a JSON snapshot to w, gzip-compressed when gz is true.
func (s *State) Save(w io.Writer, gz bool) error {
	raw, err := s.MarshalJSON()
	if err != nil {
		return err
	}
	if !gz {
		_, err := w.Write(raw)
		return err
	}
	zw := gzip.NewWriter(w)
	if _, err := zw.Write(raw); err != nil {
		return err
	}
	return zw.Close()
}

// peekReader lets Load sniff the gzip magic without consuming bytes that
// the subsequent JSON/gzip reader still needs.
type peekReader struct {
	r    io.Reader
	buf  []byte
	read int
}

func (p *peekReader) peek(n int) ([]byte, error) {
	for len(p.buf) < n {
		chunk := make([]byte, n-len(p.buf))
		m, err := p.r.Read(chunk)
		p.buf = append(p.buf, chunk[:m]...)
		if err != nil {
			return p.buf, err
		}
	}
	return p.buf, nil
}

func (p *peekReader) Read(dst []byte) (int, error) {
	if p.read < len(p.buf) {
		n := copy(dst, p.buf[p.read:])
		p.read += n
		return n, nil
	}
	return p.r.Read(dst)
}

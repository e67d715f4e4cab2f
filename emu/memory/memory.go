/*
 * mipsevm - Paged, Merkleized 32-bit guest memory
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

// Package memory implements the sparse, paged, Merkleized 32-bit address
// space shared by the interpreter and the on-chain verifier: word and
// byte access, bulk ranges, and constant-size root/proof extraction.
package memory

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrUnaligned is returned by word-granularity accesses on an address that
// is not a multiple of 4.
var ErrUnaligned = errors.New("memory: unaligned memory access")

// Memory is a sparse mapping of page index to page data, plus a cache of
// upper-tree node hashes keyed by generalized index and a dirty set of
// pages whose cached ancestors are known stale.
type Memory struct {
	pages map[uint32]*page
	nodes map[uint64][32]byte
	dirty map[uint32]struct{}
}

// New returns an empty Memory; every address reads as zero and its root
// equals zeroHash[TreeDepth].
func New() *Memory {
	return &Memory{
		pages: make(map[uint32]*page),
		nodes: make(map[uint64][32]byte),
		dirty: make(map[uint32]struct{}),
	}
}

// PageCount reports the number of pages ever touched.
func (m *Memory) PageCount() int {
	return len(m.pages)
}

func (m *Memory) pageGindex(pageIndex uint32) uint64 {
	return uint64(1<<PageKeySize) | uint64(pageIndex)
}

func (m *Memory) allocPage(pageIndex uint32) *page {
	p := newPage()
	m.pages[pageIndex] = p
	return p
}

func (m *Memory) markDirty(pageIndex uint32) {
	m.dirty[pageIndex] = struct{}{}
}

// GetMemory reads the aligned word at addr. Absent pages read as zero.
func (m *Memory) GetMemory(addr uint32) (uint32, error) {
	if addr&0x3 != 0 {
		return 0, fmt.Errorf("%w: 0x%08x", ErrUnaligned, addr)
	}
	p, ok := m.pages[addr>>PageAddrSize]
	if !ok {
		return 0, nil
	}
	off := addr & PageAddrMask
	return binary.BigEndian.Uint32(p.data[off : off+4]), nil
}

// SetMemory writes the aligned word value at addr, allocating the page on
// first touch and marking it dirty.
func (m *Memory) SetMemory(addr, value uint32) error {
	if addr&0x3 != 0 {
		return fmt.Errorf("%w: 0x%08x", ErrUnaligned, addr)
	}
	pageIndex := addr >> PageAddrSize
	p, ok := m.pages[pageIndex]
	if !ok {
		p = m.allocPage(pageIndex)
	}
	off := addr & PageAddrMask
	binary.BigEndian.PutUint32(p.data[off:off+4], value)
	p.invalidate(off)
	m.markDirty(pageIndex)
	return nil
}

// SetMemoryRange writes data starting at addr, which need not be aligned
// or page-bounded; it is applied page-at-a-time.
func (m *Memory) SetMemoryRange(addr uint32, data []byte) {
	for len(data) > 0 {
		pageIndex := addr >> PageAddrSize
		off := addr & PageAddrMask
		n := uint32(PageSize) - off
		if n > uint32(len(data)) {
			n = uint32(len(data))
		}
		p, ok := m.pages[pageIndex]
		if !ok {
			p = m.allocPage(pageIndex)
		}
		copy(p.data[off:off+n], data[:n])
		p.invalidateAll()
		m.markDirty(pageIndex)
		data = data[n:]
		addr += n
	}
}

// MemoryRange returns the count bytes starting at addr. Absent pages
// contribute zero bytes. The address range may span many pages.
func (m *Memory) MemoryRange(addr, count uint32) []byte {
	out := make([]byte, count)
	start := addr
	for n := uint32(0); n < count; {
		pageIndex := start >> PageAddrSize
		off := start & PageAddrMask
		chunk := uint32(PageSize) - off
		remaining := count - n
		if chunk > remaining {
			chunk = remaining
		}
		if p, ok := m.pages[pageIndex]; ok {
			copy(out[n:n+chunk], p.data[off:off+chunk])
		}
		n += chunk
		start += chunk
	}
	return out
}

// GetByte and SetByte are the sub-word decompositions the interpreter
// uses for lb/lbu/sb and friends; Memory itself is word-granular.
func (m *Memory) GetByte(addr uint32) byte {
	return m.MemoryRange(addr, 1)[0]
}

func (m *Memory) SetByte(addr uint32, v byte) {
	m.SetMemoryRange(addr, []byte{v})
}

// invalidateUpperAncestors drops the cached upper-tree node at every
// gindex on the path from a page's root up to (and including) the global
// root, forcing lazy recomputation.
func (m *Memory) invalidateUpperAncestors(pageIndex uint32) {
	g := m.pageGindex(pageIndex)
	for g > 0 {
		delete(m.nodes, g)
		g >>= 1
	}
}

// settleDirty recomputes the page root of every dirty page, seeds it into
// the upper-tree cache, and invalidates every stale ancestor. Call before
// reading any upper-tree node.
func (m *Memory) settleDirty() {
	for pageIndex := range m.dirty {
		p := m.pages[pageIndex]
		root := p.root()
		m.invalidateUpperAncestors(pageIndex)
		m.nodes[m.pageGindex(pageIndex)] = root
	}
	m.dirty = make(map[uint32]struct{})
}

// merkleizeUpper resolves the upper-tree node at gindex (1 <= gindex <
// (1<<(PageKeySize+1)), i.e. down to the page-root level), which must be
// called only after settleDirty.
func (m *Memory) merkleizeUpper(gindex uint64) [32]byte {
	if h, ok := m.nodes[gindex]; ok {
		return h
	}
	depth := TreeDepth - (bitLen(gindex) - 1)
	if gindex >= (1 << PageKeySize) {
		// page-root level with no page present: zero subtree.
		return zeroHash[pageTreeDepth]
	}
	left := m.merkleizeUpper(gindex << 1)
	right := m.merkleizeUpper(gindex<<1 | 1)
	var h [32]byte
	if left == zeroHash[depth-1] && right == zeroHash[depth-1] {
		h = zeroHash[depth]
	} else {
		h = hashPair(left, right)
	}
	m.nodes[gindex] = h
	return h
}

func bitLen(v uint64) int {
	n := 0
	for v > 0 {
		n++
		v >>= 1
	}
	return n
}

// MerkleRoot returns the 32-byte root of the full address space.
func (m *Memory) MerkleRoot() [32]byte {
	m.settleDirty()
	return m.merkleizeUpper(1)
}

// MerkleProof returns the ProofSize-byte proof for the 32-byte leaf
// containing addr: the leaf's own (zero-collapsed) value followed by the
// TreeDepth sibling hashes from that leaf up to, but not including, the
// root. Folding the leaf value with the siblings in order reproduces
// MerkleRoot().
func (m *Memory) MerkleProof(addr uint32) [ProofSize]byte {
	m.settleDirty()

	var out [ProofSize]byte
	pageIndex := addr >> PageAddrSize
	pageOff := addr & PageAddrMask

	p, ok := m.pages[pageIndex]
	var leaf [32]byte
	var pageSiblings [pageTreeDepth][32]byte
	if ok {
		leaf = p.leaf(pageOff)
		pageSiblings = p.proof(pageOff)
	} else {
		leaf = zeroHash[0]
		for i := range pageSiblings {
			pageSiblings[i] = zeroHash[i]
		}
	}
	copy(out[0:32], leaf[:])
	for i, s := range pageSiblings {
		copy(out[32+i*32:32+(i+1)*32], s[:])
	}

	gindex := m.pageGindex(pageIndex)
	base := 32 + pageTreeDepth*32
	for i := 0; i < PageKeySize; i++ {
		sibling := m.merkleizeUpper(gindex ^ 1)
		copy(out[base+i*32:base+(i+1)*32], sibling[:])
		gindex >>= 1
	}
	return out
}

// ForEachPage visits every present page in index order, for
// serialization.
func (m *Memory) ForEachPage(fn func(index uint32, data [PageSize]byte)) {
	indexes := make([]uint32, 0, len(m.pages))
	for idx := range m.pages {
		indexes = append(indexes, idx)
	}
	sortUint32(indexes)
	for _, idx := range indexes {
		fn(idx, m.pages[idx].data)
	}
}

func sortUint32(s []uint32) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// PageRecord is the JSON wire shape of one present page, embedded in the
// snapshot format's "memory" array (spec.md §6).
type PageRecord struct {
	Index uint32 `json:"index"`
	Data  string `json:"data"`
}

// MarshalPages returns the []{index,data} records the snapshot format
// embeds under the "memory" field.
func (m *Memory) MarshalPages() []PageRecord {
	recs := make([]PageRecord, 0, len(m.pages))
	m.ForEachPage(func(index uint32, data [PageSize]byte) {
		recs = append(recs, PageRecord{
			Index: index,
			Data:  base64.StdEncoding.EncodeToString(data[:]),
		})
	})
	return recs
}

// LoadPages resets Memory to exactly the given page records.
func (m *Memory) LoadPages(recs []PageRecord) error {
	m.pages = make(map[uint32]*page)
	m.nodes = make(map[uint64][32]byte)
	m.dirty = make(map[uint32]struct{})
	for _, r := range recs {
		raw, err := base64.StdEncoding.DecodeString(r.Data)
		if err != nil {
			return fmt.Errorf("memory: decode page %d: %w", r.Index, err)
		}
		if len(raw) != PageSize {
			return fmt.Errorf("memory: page %d has %d bytes, want %d", r.Index, len(raw), PageSize)
		}
		p := m.allocPage(r.Index)
		copy(p.data[:], raw)
		m.markDirty(r.Index)
	}
	return nil
}

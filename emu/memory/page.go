/*
 * mipsevm - Merkleized page storage
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

package memory

const (
	// PageSize is the size in bytes of one guest memory page.
	PageSize = 1 << PageAddrSize
	// PageAddrSize is log2(PageSize).
	PageAddrSize = 12
	// PageAddrMask selects the in-page byte offset of an address.
	PageAddrMask = PageSize - 1
	// PageKeySize is log2(number of pages in the 32-bit address space).
	PageKeySize = 32 - PageAddrSize
	// MaxPageCount bounds the page index space.
	MaxPageCount = 1 << PageKeySize

	// leafSize is the width in bytes of one lower-tree Merkle leaf.
	leafSize = 32
	// leavesPerPage is the number of 32-byte leaves packed into one page.
	leavesPerPage = PageSize / leafSize
	// pageTreeDepth is the depth of the lower Merkle tree inside a page (2^7 = 128 leaves).
	pageTreeDepth = 7
)

// page is one 4096-byte block of guest memory plus a lazily rebuilt cache
// of its internal Merkle subtree, indexed by the in-page generalized index
// (1 = page root, 2..127 = internal levels, 128..255 = leaves).
type page struct {
	data  [PageSize]byte
	nodes [1 << (pageTreeDepth + 1)][32]byte
	valid [1 << (pageTreeDepth + 1)]bool
}

func newPage() *page {
	return &page{}
}

// invalidate marks every cached node on the path from the leaf holding
// byteAddr (an in-page offset) up to the page root as stale.
func (p *page) invalidate(byteAddr uint32) {
	if p == nil {
		return
	}
	gindex := uint64(1<<pageTreeDepth) | uint64(byteAddr/leafSize)
	for gindex > 0 {
		p.valid[gindex] = false
		gindex >>= 1
	}
}

func (p *page) invalidateAll() {
	for i := range p.valid {
		p.valid[i] = false
	}
}

// merkleizeSubtree returns the hash of the subtree rooted at the in-page
// generalized index gindex (1 <= gindex < 2*leavesPerPage), recomputing
// and caching nodes as needed.
func (p *page) merkleizeSubtree(gindex uint64) [32]byte {
	if p.valid[gindex] {
		return p.nodes[gindex]
	}

	var h [32]byte
	if gindex >= leavesPerPage {
		start := (gindex - leavesPerPage) * leafSize
		copy(h[:], p.data[start:start+leafSize])
		if h == ([32]byte{}) {
			h = zeroHash[0]
		}
	} else {
		left := p.merkleizeSubtree(gindex << 1)
		right := p.merkleizeSubtree(gindex<<1 | 1)
		depth := pageTreeDepth - treeLevel(gindex)
		if left == zeroHash[depth-1] && right == zeroHash[depth-1] {
			h = zeroHash[depth]
		} else {
			h = hashPair(left, right)
		}
	}
	p.nodes[gindex] = h
	p.valid[gindex] = true
	return h
}

// treeLevel returns the depth of gindex within the page's local tree (root = 0).
func treeLevel(gindex uint64) int {
	level := 0
	for gindex > 1 {
		gindex >>= 1
		level++
	}
	return level
}

func (p *page) root() [32]byte {
	return p.merkleizeSubtree(1)
}

// leaf returns the raw 32-byte leaf value (zero-collapsed) containing
// in-page byte offset byteAddr.
func (p *page) leaf(byteAddr uint32) [32]byte {
	gindex := uint64(1<<pageTreeDepth) | uint64(byteAddr/leafSize)
	return p.merkleizeSubtree(gindex)
}

// proof returns the 7 sibling hashes (leaf level up to, but not including,
// the page root) for the leaf containing in-page byte offset byteAddr.
func (p *page) proof(byteAddr uint32) [pageTreeDepth][32]byte {
	var out [pageTreeDepth][32]byte
	leaf := uint64(1<<pageTreeDepth) | uint64(byteAddr/leafSize)
	gindex := leaf
	for i := 0; i < pageTreeDepth; i++ {
		sibling := gindex ^ 1
		out[i] = p.merkleizeSubtree(sibling)
		gindex >>= 1
	}
	return out
}

/*
 * mipsevm - keccak256 Merkle tree primitives
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

import (
	"golang.org/x/crypto/sha3"
)

// TreeDepth is the number of true hash levels between a 32-byte leaf and
// the global root: 20 upper-tree levels (page index bits) plus 7
// page-internal levels (128 leaves per 4096-byte page).
const TreeDepth = PageKeySize + pageTreeDepth

// ProofSize is the wire size of a merkle proof: the leaf's own
// (zero-collapsed) value, followed by the TreeDepth sibling hashes on the
// path from that leaf to the root.
const ProofSize = (TreeDepth + 1) * 32

// hashPair computes keccak256(left || right), the node-combining function
// used throughout the tree.
func hashPair(left, right [32]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(left[:])
	h.Write(right[:])
	var out [32]byte
	h.Sum(out[:0])
	return out
}

// zeroHash[d] is the root of an all-zero subtree of depth d (d=0 is a
// single 32-byte zero leaf). zeroHash[TreeDepth] is the root of an
// entirely empty Memory.
var zeroHash = func() [TreeDepth + 1][32]byte {
	var out [TreeDepth + 1][32]byte
	for i := 1; i <= TreeDepth; i++ {
		out[i] = hashPair(out[i-1], out[i-1])
	}
	return out
}()

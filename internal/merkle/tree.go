// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package merkle

import (
	"fmt"

	"github.com/MKhiriev/go-claim-vault/models"
)

// Tree is a complete sorted-pair tree. Leaves are padded with zero hashes up
// to the next power of two.
type Tree struct {
	// layers[0] are the padded leaves, the last layer holds only the root.
	layers [][]models.Hash
	count  int
}

// NewTree builds the tree over leaves in the given order.
func NewTree(leaves []models.Hash) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, ErrNoLeaves
	}

	width := 1
	for width < len(leaves) {
		width *= 2
	}

	level := make([]models.Hash, width)
	copy(level, leaves)

	layers := [][]models.Hash{level}
	for len(level) > 1 {
		next := make([]models.Hash, len(level)/2)
		for i := range next {
			next[i] = HashPair(level[2*i], level[2*i+1])
		}
		layers = append(layers, next)
		level = next
	}

	return &Tree{layers: layers, count: len(leaves)}, nil
}

// NewClaimTree hashes claims with LeafHash and builds the tree. Claim i must
// carry Index i.
func NewClaimTree(claims []models.Claim, kind models.ScheduleKind) (*Tree, error) {
	leaves := make([]models.Hash, len(claims))
	for i, c := range claims {
		if int(c.Index) != i {
			return nil, fmt.Errorf("%w: claim at position %d has index %d", ErrLeafIndex, i, c.Index)
		}
		leaves[i] = LeafHash(c, kind)
	}
	return NewTree(leaves)
}

func (t *Tree) Root() models.Hash {
	return t.layers[len(t.layers)-1][0]
}

// Len is the number of real (unpadded) leaves.
func (t *Tree) Len() int {
	return t.count
}

func (t *Tree) Leaf(i int) models.Hash {
	return t.layers[0][i]
}

// Proof returns the sibling path for leaf i, bottom up.
func (t *Tree) Proof(i int) ([]models.Hash, error) {
	if i < 0 || i >= t.count {
		return nil, fmt.Errorf("%w: %d", ErrLeafIndex, i)
	}

	proof := make([]models.Hash, 0, len(t.layers)-1)
	idx := i
	for _, layer := range t.layers[:len(t.layers)-1] {
		proof = append(proof, layer[idx^1])
		idx /= 2
	}
	return proof, nil
}

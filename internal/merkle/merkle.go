// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package merkle verifies and builds sorted-pair keccak-256 Merkle trees.
//
// Each interior node is the hash of its two children ordered by byte value,
// so a proof is just the list of siblings and carries no left/right flags.
// The off-chain builder (Tree) and the verifier (Verify) must use the same
// hash and the same leaf encoding.
package merkle

import (
	"bytes"
	"errors"
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/MKhiriev/go-claim-vault/models"
)

// MaxProofLength is the default proof length cap. It admits trees of up to
// 2^32 leaves, far beyond the 65535 claims a schedule can hold.
const MaxProofLength = 32

var (
	ErrProofTooLong = errors.New("merkle proof exceeds maximum length")
	ErrNoLeaves     = errors.New("merkle tree needs at least one leaf")
	ErrLeafIndex    = errors.New("merkle leaf index out of range")
)

// Keccak256 hashes the concatenation of parts.
func Keccak256(parts ...[]byte) models.Hash {
	h := sha3.NewLegacyKeccak256()
	for _, p := range parts {
		h.Write(p)
	}
	var out models.Hash
	h.Sum(out[:0])
	return out
}

// HashPair combines two nodes in sorted order.
func HashPair(a, b models.Hash) models.Hash {
	if bytes.Compare(a[:], b[:]) < 0 {
		return Keccak256(a[:], b[:])
	}
	return Keccak256(b[:], a[:])
}

// LeafHash is the leaf committed for claim in a schedule of the given kind.
func LeafHash(claim models.Claim, kind models.ScheduleKind) models.Hash {
	return Keccak256(claim.Encode(kind))
}

// Verify climbs from leaf through proof and reports whether it reaches root.
func Verify(leaf models.Hash, proof []models.Hash, root models.Hash) bool {
	current := leaf
	for _, sibling := range proof {
		current = HashPair(current, sibling)
	}
	return current == root
}

// VerifyBounded is Verify with a cap on the number of climb steps.
func VerifyBounded(leaf models.Hash, proof []models.Hash, root models.Hash, maxLen int) (bool, error) {
	if maxLen <= 0 {
		maxLen = MaxProofLength
	}
	if len(proof) > maxLen {
		return false, fmt.Errorf("%w: %d > %d", ErrProofTooLong, len(proof), maxLen)
	}
	return Verify(leaf, proof, root), nil
}

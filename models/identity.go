// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// IdentitySize is the width of every identity: accounts, vaults, schedules, mints.
const IdentitySize = 32

// HashSize is the width of a Merkle node or root.
const HashSize = 32

var (
	ErrInvalidIdentity = errors.New("invalid identity")
	ErrInvalidHash     = errors.New("invalid hash")
)

// Identity is a fixed-width public identifier. Its text form is base58.
//
// The all-zero identity is the empty sentinel: an unset pending owner,
// the native currency mint, a schedule without a fee asset.
type Identity [IdentitySize]byte

// ZeroIdentity is the empty sentinel.
var ZeroIdentity Identity

// ParseIdentity decodes a base58 identity.
func ParseIdentity(s string) (Identity, error) {
	var id Identity
	raw, err := base58.Decode(s)
	if err != nil {
		return id, fmt.Errorf("%w: %w", ErrInvalidIdentity, err)
	}
	if len(raw) != IdentitySize {
		return id, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidIdentity, IdentitySize, len(raw))
	}
	copy(id[:], raw)
	return id, nil
}

// MustParseIdentity is ParseIdentity for constants and tests.
func MustParseIdentity(s string) Identity {
	id, err := ParseIdentity(s)
	if err != nil {
		panic(err)
	}
	return id
}

// IdentityFromBytes copies a 32-byte slice into an Identity.
func IdentityFromBytes(b []byte) (Identity, error) {
	var id Identity
	if len(b) != IdentitySize {
		return id, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidIdentity, IdentitySize, len(b))
	}
	copy(id[:], b)
	return id, nil
}

func (i Identity) String() string {
	return base58.Encode(i[:])
}

func (i Identity) IsZero() bool {
	return i == ZeroIdentity
}

func (i Identity) Bytes() []byte {
	return bytes.Clone(i[:])
}

func (i Identity) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *Identity) UnmarshalText(text []byte) error {
	id, err := ParseIdentity(string(text))
	if err != nil {
		return err
	}
	*i = id
	return nil
}

// Value stores identities as raw bytes.
func (i Identity) Value() (driver.Value, error) {
	return i[:], nil
}

func (i *Identity) Scan(src any) error {
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidIdentity, src)
	}
	id, err := IdentityFromBytes(b)
	if err != nil {
		return err
	}
	*i = id
	return nil
}

// PackIdentities concatenates identities for single-column storage.
func PackIdentities(ids []Identity) []byte {
	out := make([]byte, 0, len(ids)*IdentitySize)
	for _, id := range ids {
		out = append(out, id[:]...)
	}
	return out
}

// UnpackIdentities reverses PackIdentities.
func UnpackIdentities(b []byte) ([]Identity, error) {
	if len(b)%IdentitySize != 0 {
		return nil, fmt.Errorf("%w: packed length %d", ErrInvalidIdentity, len(b))
	}
	ids := make([]Identity, 0, len(b)/IdentitySize)
	for off := 0; off < len(b); off += IdentitySize {
		var id Identity
		copy(id[:], b[off:off+IdentitySize])
		ids = append(ids, id)
	}
	return ids, nil
}

// Hash is a 32-byte digest. Its text form is lowercase hex.
type Hash [HashSize]byte

func ParseHash(s string) (Hash, error) {
	var h Hash
	raw, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("%w: %w", ErrInvalidHash, err)
	}
	if len(raw) != HashSize {
		return h, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidHash, HashSize, len(raw))
	}
	copy(h[:], raw)
	return h, nil
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) IsZero() bool {
	return h == Hash{}
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := ParseHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

func (h Hash) Value() (driver.Value, error) {
	return h[:], nil
}

func (h *Hash) Scan(src any) error {
	b, ok := src.([]byte)
	if !ok || len(b) != HashSize {
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidHash, src)
	}
	copy(h[:], b)
	return nil
}

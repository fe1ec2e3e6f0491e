// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package authority derives deterministic addresses for vaults, schedules,
// ledger accounts and the delegated signer that holds vault custody.
//
// A derived address is a sha256 digest that is deliberately not a point on
// the ed25519 curve, so no private key exists for it. Moving funds owned by
// such an address requires the service to present the seeds it was derived
// from, which is what a delegated Handle carries.
package authority

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"filippo.io/edwards25519"

	"github.com/MKhiriev/go-claim-vault/models"
)

const (
	MaxSeeds      = 16
	MaxSeedLength = 32
)

const derivationMarker = "ProgramDerivedAddress"

// Domain tags separating the address spaces.
var (
	VaultSeed    = []byte{93, 85, 196, 21, 227, 86, 221, 123}
	ScheduleSeed = []byte{244, 131, 10, 29, 174, 41, 128, 68}
	SignerSeed   = []byte{2, 151, 229, 53, 244, 77, 229, 7}
	AccountSeed  = []byte{140, 30, 83, 211, 7, 64, 19, 172}
	MintSeed     = []byte{61, 201, 4, 155, 98, 12, 243, 77}
)

var (
	ErrTooManySeeds  = errors.New("too many derivation seeds")
	ErrSeedTooLong   = errors.New("derivation seed too long")
	ErrOnCurve       = errors.New("derived address lies on the ed25519 curve")
	ErrNoViableNonce = errors.New("no nonce yields an off-curve address")
	ErrUnknownHandle = errors.New("unknown authority handle")
)

// CreateAddress hashes seeds with programID and fails with ErrOnCurve when the
// digest is a valid ed25519 public key.
func CreateAddress(programID models.Identity, seeds ...[]byte) (models.Identity, error) {
	if len(seeds) > MaxSeeds {
		return models.ZeroIdentity, ErrTooManySeeds
	}

	h := sha256.New()
	for _, s := range seeds {
		if len(s) > MaxSeedLength {
			return models.ZeroIdentity, fmt.Errorf("%w: %d bytes", ErrSeedTooLong, len(s))
		}
		h.Write(s)
	}
	h.Write(programID[:])
	h.Write([]byte(derivationMarker))

	var addr models.Identity
	h.Sum(addr[:0])

	if IsOnCurve(addr) {
		return models.ZeroIdentity, ErrOnCurve
	}
	return addr, nil
}

// FindAddress searches nonces from 255 down and returns the first off-curve
// address together with its nonce.
func FindAddress(programID models.Identity, seeds ...[]byte) (models.Identity, uint8, error) {
	withNonce := make([][]byte, len(seeds)+1)
	copy(withNonce, seeds)

	for nonce := 255; nonce >= 0; nonce-- {
		withNonce[len(seeds)] = []byte{byte(nonce)}
		addr, err := CreateAddress(programID, withNonce...)
		if errors.Is(err, ErrOnCurve) {
			continue
		}
		if err != nil {
			return models.ZeroIdentity, 0, err
		}
		return addr, uint8(nonce), nil
	}
	return models.ZeroIdentity, 0, ErrNoViableNonce
}

// IsOnCurve reports whether b decodes as an ed25519 point.
func IsOnCurve(b models.Identity) bool {
	_, err := new(edwards25519.Point).SetBytes(b[:])
	return err == nil
}

// Deriver binds derivations to one program id.
type Deriver struct {
	programID models.Identity
}

func NewDeriver(programID models.Identity) *Deriver {
	return &Deriver{programID: programID}
}

func (d *Deriver) ProgramID() models.Identity {
	return d.programID
}

// VaultAddress derives the vault id from its path.
func (d *Deriver) VaultAddress(path string) (models.Identity, error) {
	addr, _, err := FindAddress(d.programID, VaultSeed, []byte(path))
	return addr, err
}

// ScheduleAddress derives the schedule id from its event id.
func (d *Deriver) ScheduleAddress(eventID uint64) (models.Identity, error) {
	addr, _, err := FindAddress(d.programID, ScheduleSeed, binary.LittleEndian.AppendUint64(nil, eventID))
	return addr, err
}

// SignerAddress derives the custody address of a vault and the nonce that
// must be stored to rebuild it.
func (d *Deriver) SignerAddress(vaultID models.Identity) (models.Identity, uint8, error) {
	return FindAddress(d.programID, SignerSeed, vaultID[:])
}

// AccountAddress is the associated ledger account of owner for mint.
func (d *Deriver) AccountAddress(owner, mint models.Identity) (models.Identity, error) {
	addr, _, err := FindAddress(d.programID, AccountSeed, owner[:], mint[:])
	return addr, err
}

// MintAddress derives a mint id from its authority and a caller seed.
func (d *Deriver) MintAddress(authority models.Identity, seed string) (models.Identity, error) {
	addr, _, err := FindAddress(d.programID, MintSeed, authority[:], []byte(seed))
	return addr, err
}

// Resolve returns the identity a handle is allowed to act as.
func (d *Deriver) Resolve(h Handle) (models.Identity, error) {
	switch h.kind {
	case handleSigner:
		return h.signer, nil
	case handleDelegated:
		return CreateAddress(d.programID, SignerSeed, h.vaultID[:], []byte{h.nonce})
	default:
		return models.ZeroIdentity, ErrUnknownHandle
	}
}

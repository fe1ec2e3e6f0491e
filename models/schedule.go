// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"errors"
	"fmt"
	"math/bits"
	"time"
)

// ScheduleKind selects the claim leaf layout of a schedule.
type ScheduleKind uint8

const (
	// ScheduleKindSingle pays every claim in the schedule's receiving asset.
	ScheduleKindSingle ScheduleKind = 2
	// ScheduleKindMulti lets each claim name its own receiving mint.
	ScheduleKindMulti ScheduleKind = 3
)

func (k ScheduleKind) String() string {
	switch k {
	case ScheduleKindSingle:
		return "single"
	case ScheduleKindMulti:
		return "multi"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

func (k ScheduleKind) Valid() bool {
	return k == ScheduleKindSingle || k == ScheduleKindMulti
}

func (k ScheduleKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ScheduleKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "single", "":
		*k = ScheduleKindSingle
	case "multi":
		*k = ScheduleKindMulti
	default:
		return fmt.Errorf("unknown schedule kind %q", text)
	}
	return nil
}

// Asset binds a mint to a vault-held account.
// A zero Mint means no asset: for the sending side, no fee is collected.
type Asset struct {
	Mint    Identity `json:"mint"`
	Account Identity `json:"account"`
}

// IsNone reports the "no asset" sentinel. Only the mint decides, so a
// sending asset with a zero mint collects no fee whatever its account is.
func (a Asset) IsNone() bool {
	return a.Mint.IsZero()
}

// Schedule is one distribution event.
type Schedule struct {
	ID      Identity     `json:"id"`
	EventID uint64       `json:"event_id"`
	VaultID Identity     `json:"vault_id"`
	Kind    ScheduleKind `json:"kind"`

	MerkleRoot     Hash      `json:"merkle_root"`
	ActivationTime time.Time `json:"activation_time"`
	IsActive       bool      `json:"is_active"`

	ReceivingAsset Asset `json:"receiving_asset"`
	SendingAsset   Asset `json:"sending_asset"`

	// Redemptions lives inside the schedule record so every write to it is a
	// write to the schedule.
	Redemptions RedemptionBitmap `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClaimCount is the fixed number of claims committed to by MerkleRoot.
func (s Schedule) ClaimCount() int {
	return s.Redemptions.Len()
}

// ScheduleFilter narrows ListSchedules.
type ScheduleFilter struct {
	VaultID    Identity
	ActiveOnly bool
}

var ErrIndexOutOfRange = errors.New("claim index out of range")

// RedemptionBitmap is a fixed-length bit array sized at schedule creation.
// Bits only flip from unset to set.
type RedemptionBitmap struct {
	size int
	bits []byte
}

// NewRedemptionBitmap allocates size cleared bits.
func NewRedemptionBitmap(size uint16) RedemptionBitmap {
	return RedemptionBitmap{
		size: int(size),
		bits: make([]byte, packedLen(int(size))),
	}
}

// RedemptionBitmapFromBytes restores a persisted bitmap.
func RedemptionBitmapFromBytes(size uint16, packed []byte) (RedemptionBitmap, error) {
	if len(packed) != packedLen(int(size)) {
		return RedemptionBitmap{}, fmt.Errorf("redemption bitmap: %d bytes for %d claims", len(packed), size)
	}
	b := RedemptionBitmap{size: int(size), bits: make([]byte, len(packed))}
	copy(b.bits, packed)
	return b, nil
}

func packedLen(size int) int {
	return (size + 7) / 8
}

func (b RedemptionBitmap) Len() int {
	return b.size
}

func (b RedemptionBitmap) IsSet(index uint16) (bool, error) {
	if int(index) >= b.size {
		return false, fmt.Errorf("%w: %d >= %d", ErrIndexOutOfRange, index, b.size)
	}
	return b.bits[index/8]&(1<<(index%8)) != 0, nil
}

func (b *RedemptionBitmap) Set(index uint16) error {
	if int(index) >= b.size {
		return fmt.Errorf("%w: %d >= %d", ErrIndexOutOfRange, index, b.size)
	}
	b.bits[index/8] |= 1 << (index % 8)
	return nil
}

// Count returns the number of set bits.
func (b RedemptionBitmap) Count() int {
	n := 0
	for _, x := range b.bits {
		n += bits.OnesCount8(x)
	}
	return n
}

// Bytes returns a copy of the packed bits, least significant bit first.
func (b RedemptionBitmap) Bytes() []byte {
	out := make([]byte, len(b.bits))
	copy(out, b.bits)
	return out
}

// Clone returns an independent copy.
func (b RedemptionBitmap) Clone() RedemptionBitmap {
	return RedemptionBitmap{size: b.size, bits: b.Bytes()}
}

// ScheduleView is the read model of a schedule served over HTTP; the bitmap
// itself stays server side.
type ScheduleView struct {
	Schedule
	ClaimCount int `json:"claim_count"`
	Redeemed   int `json:"redeemed"`
}

func NewScheduleView(s Schedule) ScheduleView {
	return ScheduleView{Schedule: s, ClaimCount: s.ClaimCount(), Redeemed: s.Redemptions.Count()}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/binary"
	"time"
)

// Claim is one entry committed into a schedule's Merkle tree. It is never
// stored; the claimant presents it together with a proof.
type Claim struct {
	Index    uint16   `json:"index"`
	Claimant Identity `json:"claimant"`
	// ReceivingMint is part of the leaf only for multi-asset schedules.
	ReceivingMint   Identity `json:"receiving_mint"`
	ReceivingAmount uint64   `json:"receiving_amount"`
	SendingAmount   uint64   `json:"sending_amount"`
}

// Encode returns the canonical little-endian leaf preimage:
//
//	single: index u16 | claimant [32] | receiving u64 | sending u64
//	multi:  index u16 | claimant [32] | mint [32] | receiving u64 | sending u64
func (c Claim) Encode(kind ScheduleKind) []byte {
	size := 2 + IdentitySize + 8 + 8
	if kind == ScheduleKindMulti {
		size += IdentitySize
	}

	buf := make([]byte, 0, size)
	buf = binary.LittleEndian.AppendUint16(buf, c.Index)
	buf = append(buf, c.Claimant[:]...)
	if kind == ScheduleKindMulti {
		buf = append(buf, c.ReceivingMint[:]...)
	}
	buf = binary.LittleEndian.AppendUint64(buf, c.ReceivingAmount)
	buf = binary.LittleEndian.AppendUint64(buf, c.SendingAmount)
	return buf
}

// Redemption reports a completed claim.
type Redemption struct {
	ScheduleID      Identity  `json:"schedule_id"`
	Index           uint16    `json:"index"`
	Claimant        Identity  `json:"claimant"`
	ReceivingMint   Identity  `json:"receiving_mint"`
	ReceivingAmount uint64    `json:"receiving_amount"`
	SendingAmount   uint64    `json:"sending_amount"`
	RedeemedAt      time.Time `json:"redeemed_at"`
}

// RedemptionStatus answers "has index i been claimed".
type RedemptionStatus struct {
	ScheduleID Identity `json:"schedule_id"`
	Index      uint16   `json:"index"`
	Redeemed   bool     `json:"redeemed"`
}

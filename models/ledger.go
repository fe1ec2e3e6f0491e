// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// NativeMint denotes the native currency. It is the zero identity.
var NativeMint = ZeroIdentity

// Mint is a fungible asset. Only Authority may create new units.
type Mint struct {
	ID        Identity  `json:"id"`
	Authority Identity  `json:"authority"`
	CreatedAt time.Time `json:"created_at"`
}

// Account holds a balance of one mint for one owner.
type Account struct {
	Address   Identity  `json:"address"`
	Owner     Identity  `json:"owner"`
	Mint      Identity  `json:"mint"`
	Amount    uint64    `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

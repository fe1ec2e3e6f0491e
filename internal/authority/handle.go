// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package authority

import (
	"fmt"

	"github.com/MKhiriev/go-claim-vault/models"
)

type handleKind uint8

const (
	handleInvalid handleKind = iota
	handleSigner
	handleDelegated
)

// Handle authorizes a value transfer. A signer handle stands for a caller
// who signed the request; a delegated handle stands for a vault's custody
// address and carries only the public seeds that reproduce it.
type Handle struct {
	kind    handleKind
	signer  models.Identity
	vaultID models.Identity
	nonce   uint8
}

// Signer wraps the identity that signed the current request.
func Signer(id models.Identity) Handle {
	return Handle{kind: handleSigner, signer: id}
}

// Delegated is the custody authority of a vault.
func Delegated(vault models.Vault) Handle {
	return Handle{kind: handleDelegated, vaultID: vault.ID, nonce: vault.SignerNonce}
}

func (h Handle) IsDelegated() bool {
	return h.kind == handleDelegated
}

func (h Handle) String() string {
	switch h.kind {
	case handleSigner:
		return "signer:" + h.signer.String()
	case handleDelegated:
		return fmt.Sprintf("vault:%s/%d", h.vaultID, h.nonce)
	default:
		return "invalid"
	}
}

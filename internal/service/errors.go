package service

import (
	"errors"

	"github.com/MKhiriev/go-claim-vault/internal/ledger"
	"github.com/MKhiriev/go-claim-vault/internal/merkle"
	"github.com/MKhiriev/go-claim-vault/internal/validators"
)

var (
	// ErrInvalidOwner: the caller is not the owner, an admin or the pending
	// owner required by the operation.
	ErrInvalidOwner = errors.New("caller is not authorized for this vault")
	// ErrInvalidSigner: the request was not signed by the claimant.
	ErrInvalidSigner = errors.New("request signer is not the claimant")

	ErrScheduleUnavailable = errors.New("schedule is not active")
	ErrScheduleLocked      = errors.New("schedule is not activated yet")
	ErrAlreadyRedeemed     = errors.New("claim already redeemed")
	// ErrInvalidAccount: a vault, schedule or account binding does not hold.
	ErrInvalidAccount = errors.New("account does not match its vault or schedule binding")

	// ErrUnauthorized: the merkle proof does not lead to the schedule root.
	ErrUnauthorized = errors.New("claim proof verification failed")

	ErrTransactionFailed = errors.New("value transfer failed")

	ErrVaultAlreadyExists    = errors.New("vault already exists")
	ErrScheduleAlreadyExists = errors.New("schedule already exists")

	ErrVaultNotFound    = errors.New("vault not found")
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrAccountNotFound  = errors.New("account not found")

	ErrUnknownRequest = errors.New("unknown request kind")
	ErrInvalidRequest = errors.New("invalid request")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)

// ErrorKind groups failures by what the caller can do about them.
type ErrorKind string

const (
	KindAuthorization    ErrorKind = "authorization"
	KindState            ErrorKind = "state"
	KindProof            ErrorKind = "proof"
	KindTransfer         ErrorKind = "transfer"
	KindIdentityConflict ErrorKind = "identity_conflict"
	KindValidation       ErrorKind = "validation"
	KindNotFound         ErrorKind = "not_found"
	KindInternal         ErrorKind = "internal"
)

var errorKinds = []struct {
	kind ErrorKind
	errs []error
}{
	// transfer first: ledger failures wrap their own not-found causes
	{KindTransfer, []error{ErrTransactionFailed, ledger.ErrTransferFailed}},
	{KindAuthorization, []error{ErrInvalidOwner, ErrInvalidSigner, ledger.ErrNotMintAuthority}},
	{KindState, []error{ErrScheduleUnavailable, ErrScheduleLocked, ErrAlreadyRedeemed, ErrInvalidAccount, ledger.ErrMintMismatch}},
	{KindProof, []error{ErrUnauthorized, merkle.ErrProofTooLong}},
	{KindIdentityConflict, []error{ErrVaultAlreadyExists, ErrScheduleAlreadyExists, ledger.ErrMintExists}},
	{KindNotFound, []error{ErrVaultNotFound, ErrScheduleNotFound, ErrAccountNotFound, ledger.ErrAccountNotFound, ledger.ErrMintNotFound}},
	{KindValidation, []error{ErrInvalidRequest, ErrUnknownRequest, validators.ErrUnknownKind, ledger.ErrBalanceOverflow}},
}

// KindOf classifies err. Unrecognized errors are internal; nil has no kind.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	for _, group := range errorKinds {
		for _, target := range group.errs {
			if errors.Is(err, target) {
				return group.kind
			}
		}
	}
	return KindInternal
}

package validators

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-claim-vault/models"
)

const (
	FieldKind           = "kind"
	FieldPayload        = "payload"
	FieldPath           = "path"
	FieldVaultID        = "vault_id"
	FieldAdmins         = "admins"
	FieldNewOwner       = "new_owner"
	FieldDestination    = "destination"
	FieldAmount         = "amount"
	FieldScheduleKind   = "schedule_kind"
	FieldClaimCount     = "claim_count"
	FieldMerkleRoot     = "merkle_root"
	FieldReceivingAsset = "receiving_asset"
	FieldSendingAsset   = "sending_asset"
	FieldScheduleID     = "schedule_id"
	FieldClaimant       = "claimant"
	FieldSeed           = "seed"
	FieldAccount        = "account"
	FieldFrom           = "from"
	FieldTo             = "to"
)

// maxSeedLength matches the derivation limit for a single seed.
const maxSeedLength = 32

type RequestValidator struct{}

func NewRequestValidator() Validator {
	return &RequestValidator{}
}

func (v *RequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Request:
		return v.validateRequest(ctx, value, fields...)
	case *models.Request:
		return v.validateRequest(ctx, *value, fields...)

	case models.CreateVaultRequest:
		return validateCreateVault(value, fields...)
	case models.SetVaultRequest:
		return validateSetVault(value, fields...)
	case models.TransferOwnershipRequest:
		return validateTransferOwnership(value, fields...)
	case models.AcceptOwnershipRequest:
		return requireIdentity(value.VaultID, ErrMissingVault)
	case models.WithdrawRequest:
		return validateWithdraw(value, fields...)
	case models.CreateScheduleRequest:
		return validateCreateSchedule(value, fields...)
	case models.SetScheduleStatusRequest:
		return requireIdentity(value.ScheduleID, ErrMissingSchedule)
	case models.RedeemRequest:
		return validateRedeem(value, fields...)
	case models.CreateMintRequest:
		return validateCreateMint(value)
	case models.OpenAccountRequest:
		return nil
	case models.MintToRequest:
		return validateMintTo(value, fields...)
	case models.TransferRequest:
		return validateTransfer(value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *RequestValidator) validateRequest(ctx context.Context, r models.Request, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldKind, FieldPayload}
	}

	for _, f := range fields {
		switch f {
		case FieldKind:
			if _, ok := payloadOf(r); !ok {
				return fmt.Errorf("%w: %q", ErrUnknownKind, r.Kind)
			}
		case FieldPayload:
			payload, ok := payloadOf(r)
			if !ok {
				return fmt.Errorf("%w: %q", ErrUnknownKind, r.Kind)
			}
			if payload == nil {
				return fmt.Errorf("%w: %s", ErrMissingPayload, r.Kind)
			}
			if err := v.Validate(ctx, payload); err != nil {
				return fmt.Errorf("%s: %w", r.Kind, err)
			}
		default:
			return ErrUnknownField
		}
	}
	return nil
}

// payloadOf returns the dereferenced payload selected by Kind, nil when the
// pointer is unset, and false for an unknown kind.
func payloadOf(r models.Request) (any, bool) {
	switch r.Kind {
	case models.RequestCreateVault:
		return deref(r.CreateVault), true
	case models.RequestSetVault:
		return deref(r.SetVault), true
	case models.RequestTransferOwnership:
		return deref(r.TransferOwnership), true
	case models.RequestAcceptOwnership:
		return deref(r.AcceptOwnership), true
	case models.RequestWithdraw:
		return deref(r.Withdraw), true
	case models.RequestCreateSchedule:
		return deref(r.CreateSchedule), true
	case models.RequestSetScheduleStatus:
		return deref(r.SetScheduleStatus), true
	case models.RequestRedeem:
		return deref(r.Redeem), true
	case models.RequestCreateMint:
		return deref(r.CreateMint), true
	case models.RequestOpenAccount:
		return deref(r.OpenAccount), true
	case models.RequestMintTo:
		return deref(r.MintTo), true
	case models.RequestTransfer:
		return deref(r.Transfer), true
	default:
		return nil, false
	}
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func requireIdentity(id models.Identity, err error) error {
	if id.IsZero() {
		return err
	}
	return nil
}

func validateCreateVault(r models.CreateVaultRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldPath}
	}
	for _, f := range fields {
		switch f {
		case FieldPath:
			if r.Path == "" {
				return ErrEmptyPath
			}
			if len(r.Path) > models.MaxPathLength {
				return ErrPathTooLong
			}
		default:
			return ErrUnknownField
		}
	}
	return nil
}

func validateSetVault(r models.SetVaultRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldVaultID, FieldAdmins}
	}
	for _, f := range fields {
		switch f {
		case FieldVaultID:
			if err := requireIdentity(r.VaultID, ErrMissingVault); err != nil {
				return err
			}
		case FieldAdmins:
			if err := ValidateAdmins(r.Admins); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}
	return nil
}

// ValidateAdmins checks an admin set: bounded, no empty or repeated identities.
func ValidateAdmins(admins []models.Identity) error {
	if len(admins) > models.MaxAdmins {
		return fmt.Errorf("%w: %d > %d", ErrTooManyAdmins, len(admins), models.MaxAdmins)
	}
	seen := make(map[models.Identity]struct{}, len(admins))
	for i, a := range admins {
		if a.IsZero() {
			return fmt.Errorf("%w: index %d", ErrInvalidAdmin, i)
		}
		if _, dup := seen[a]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateAdmin, a)
		}
		seen[a] = struct{}{}
	}
	return nil
}

func validateTransferOwnership(r models.TransferOwnershipRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldVaultID, FieldNewOwner}
	}
	for _, f := range fields {
		switch f {
		case FieldVaultID:
			if err := requireIdentity(r.VaultID, ErrMissingVault); err != nil {
				return err
			}
		case FieldNewOwner:
			if err := requireIdentity(r.NewOwner, ErrMissingOwner); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}
	return nil
}

func validateWithdraw(r models.WithdrawRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldVaultID, FieldDestination, FieldAmount}
	}
	for _, f := range fields {
		switch f {
		case FieldVaultID:
			if err := requireIdentity(r.VaultID, ErrMissingVault); err != nil {
				return err
			}
		case FieldDestination:
			if err := requireIdentity(r.Destination, ErrMissingTarget); err != nil {
				return err
			}
		case FieldAmount:
			if r.Amount == 0 {
				return ErrZeroAmount
			}
		default:
			return ErrUnknownField
		}
	}
	return nil
}

func validateCreateSchedule(r models.CreateScheduleRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldVaultID, FieldScheduleKind, FieldClaimCount, FieldMerkleRoot, FieldReceivingAsset, FieldSendingAsset}
	}
	for _, f := range fields {
		switch f {
		case FieldVaultID:
			if err := requireIdentity(r.VaultID, ErrMissingVault); err != nil {
				return err
			}
		case FieldScheduleKind:
			if !r.Kind.Valid() {
				return fmt.Errorf("%w: %s", ErrInvalidKind, r.Kind)
			}
		case FieldClaimCount:
			if r.ClaimCount == 0 {
				return ErrZeroClaimCount
			}
		case FieldMerkleRoot:
			if r.MerkleRoot.IsZero() {
				return ErrEmptyMerkleRoot
			}
		case FieldReceivingAsset:
			// multi-asset schedules name the payout account per redemption
			if r.Kind == models.ScheduleKindSingle && r.ReceivingAsset.Account.IsZero() {
				return fmt.Errorf("receiving asset: %w", ErrMissingAccount)
			}
		case FieldSendingAsset:
			if !r.SendingAsset.Mint.IsZero() && r.SendingAsset.Account.IsZero() {
				return fmt.Errorf("sending asset: %w", ErrMissingAccount)
			}
			if r.SendingAsset.Mint.IsZero() && !r.SendingAsset.Account.IsZero() {
				return fmt.Errorf("sending asset: %w", ErrOrphanAccount)
			}
		default:
			return ErrUnknownField
		}
	}
	return nil
}

func validateRedeem(r models.RedeemRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldScheduleID, FieldClaimant}
	}
	for _, f := range fields {
		switch f {
		case FieldScheduleID:
			if err := requireIdentity(r.ScheduleID, ErrMissingSchedule); err != nil {
				return err
			}
		case FieldClaimant:
			if err := requireIdentity(r.Claim.Claimant, ErrMissingClaimant); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}
	return nil
}

func validateCreateMint(r models.CreateMintRequest) error {
	if r.Seed == "" {
		return ErrEmptySeed
	}
	if len(r.Seed) > maxSeedLength {
		return ErrSeedTooLong
	}
	return nil
}

func validateMintTo(r models.MintToRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldAccount, FieldAmount}
	}
	for _, f := range fields {
		switch f {
		case FieldAccount:
			if err := requireIdentity(r.Account, ErrMissingAccount); err != nil {
				return err
			}
		case FieldAmount:
			if r.Amount == 0 {
				return ErrZeroAmount
			}
		default:
			return ErrUnknownField
		}
	}
	return nil
}

func validateTransfer(r models.TransferRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldFrom, FieldTo, FieldAmount}
	}
	for _, f := range fields {
		switch f {
		case FieldFrom:
			if err := requireIdentity(r.From, ErrMissingAccount); err != nil {
				return err
			}
		case FieldTo:
			if err := requireIdentity(r.To, ErrMissingTarget); err != nil {
				return err
			}
		case FieldAmount:
			if r.Amount == 0 {
				return ErrZeroAmount
			}
		default:
			return ErrUnknownField
		}
	}
	return nil
}

package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrUnknownKind     = errors.New("unknown request kind")
	ErrMissingPayload  = errors.New("request payload does not match its kind")
	ErrEmptyPath       = errors.New("vault path is required")
	ErrPathTooLong     = errors.New("vault path is too long")
	ErrMissingVault    = errors.New("vault id is required")
	ErrTooManyAdmins   = errors.New("too many admins")
	ErrInvalidAdmin    = errors.New("admin identity must not be empty")
	ErrDuplicateAdmin  = errors.New("duplicate admin")
	ErrMissingOwner    = errors.New("new owner is required")
	ErrMissingTarget   = errors.New("destination account is required")
	ErrZeroAmount      = errors.New("amount must be positive")
	ErrInvalidKind     = errors.New("invalid schedule kind")
	ErrZeroClaimCount  = errors.New("claim count must be positive")
	ErrEmptyMerkleRoot = errors.New("merkle root is required")
	ErrMissingAccount  = errors.New("account is required")
	ErrOrphanAccount   = errors.New("account is given without a mint")
	ErrMissingSchedule = errors.New("schedule id is required")
	ErrMissingClaimant = errors.New("claimant is required")
	ErrEmptySeed       = errors.New("mint seed is required")
	ErrSeedTooLong     = errors.New("mint seed is too long")
)

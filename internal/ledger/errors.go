package ledger

import "errors"

// ErrTransferFailed wraps every failure of Ledger.Transfer.
var ErrTransferFailed = errors.New("transfer failed")

var (
	ErrAccountNotFound   = errors.New("ledger account not found")
	ErrOwnerMismatch     = errors.New("authority does not own the source account")
	ErrMintMismatch      = errors.New("accounts hold different mints")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrBalanceOverflow   = errors.New("balance overflow")
	ErrMintNotFound      = errors.New("mint not found")
	ErrMintExists        = errors.New("mint already exists")
	ErrNotMintAuthority  = errors.New("signer is not the mint authority")
)

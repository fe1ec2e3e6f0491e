package store

const (
	tableVaults    = "vaults"
	tableSchedules = "schedules"
	tableAccounts  = "accounts"
	tableMints     = "mints"
)

var vaultColumns = []string{
	"id", "path", "owner", "pending_owner", "admins",
	"signer_nonce", "signer", "created_at", "updated_at",
}

var scheduleColumns = []string{
	"id", "event_id", "vault_id", "kind", "merkle_root", "activation_time", "is_active",
	"receiving_mint", "receiving_account", "sending_mint", "sending_account",
	"claim_count", "redemptions", "created_at", "updated_at",
}

var accountColumns = []string{
	"address", "owner", "mint", "amount", "created_at", "updated_at",
}

var mintColumns = []string{
	"id", "authority", "created_at",
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

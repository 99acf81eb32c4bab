package domain

// Currency is the single currency the ledger operates in.
const Currency = "NGN"

const (
	TxTypeDeposit    = "DEPOSIT"
	TxTypeTransfer   = "TRANSFER"
	TxTypeWithdrawal = "WITHDRAWAL"

	TxStatusPending = "PENDING"
	TxStatusSuccess = "SUCCESS"
	TxStatusFailed  = "FAILED"
)

// Permissions gate which wallet operations a caller may invoke. They are
// granted by the auth layer and checked before any service is reached.
const (
	PermissionDeposit  = "deposit"
	PermissionTransfer = "transfer"
	PermissionWithdraw = "withdraw"
	PermissionRead     = "read"
)

// IsTerminalStatus reports whether a transaction status permits no further
// transition.
func IsTerminalStatus(status string) bool {
	return status == TxStatusSuccess || status == TxStatusFailed
}

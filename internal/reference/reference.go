// Package reference produces collision-resistant wallet numbers and
// transaction references from crypto/rand.
package reference

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	DepositPrefix    = "WLLT"
	TransferPrefix   = "TRF"
	WithdrawalPrefix = "WDR"

	DebitSuffix  = "_DEBIT"
	CreditSuffix = "_CREDIT"
)

const referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// WalletNumber returns a random 10-digit wallet number with a non-zero
// leading digit. Callers must collision-check it against the store and
// regenerate until a free value is found.
func WalletNumber() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9_000_000_000))
	if err != nil {
		return "", fmt.Errorf("generate wallet number: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+1_000_000_000), nil
}

// New returns a transaction reference of the form PREFIX_XXXXXXXXXXXXXXXX
// with a 16-character random alphanumeric suffix.
func New(prefix string) (string, error) {
	suffix := make([]byte, 16)
	max := big.NewInt(int64(len(referenceAlphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate reference: %w", err)
		}
		suffix[i] = referenceAlphabet[n.Int64()]
	}
	return fmt.Sprintf("%s_%s", prefix, suffix), nil
}

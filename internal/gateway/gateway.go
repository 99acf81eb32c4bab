// Package gateway integrates the external payment provider that funds
// deposits. The ledger only ever talks to the Gateway interface; the
// concrete Paystack client lives beside it.
package gateway

import "context"

// Gateway represents the hosted-payment provider.
type Gateway interface {
	// InitializeTransaction opens a hosted payment session for the given
	// payer and amount, keyed by reference, and returns the authorization
	// URL the payer completes the charge on.
	InitializeTransaction(ctx context.Context, email string, amountKobo int64, reference string) (string, error)

	// VerifySignature reports whether signature is a valid HMAC of the raw
	// webhook payload under the shared provider secret.
	VerifySignature(payload []byte, signature string) bool
}

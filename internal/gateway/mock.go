package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
)

// MockGateway simulates the payment provider for tests. Signatures are the
// same HMAC-SHA512 scheme as the real client so webhook tests can sign
// payloads with Sign.
type MockGateway struct {
	Secret string
	// InitErr, when set, is returned from InitializeTransaction to
	// exercise the gateway-failure path.
	InitErr error
	// InitCalls records the references passed to InitializeTransaction.
	InitCalls []string
}

func NewMockGateway(secret string) *MockGateway {
	return &MockGateway{Secret: secret}
}

func (g *MockGateway) InitializeTransaction(ctx context.Context, email string, amountKobo int64, reference string) (string, error) {
	g.InitCalls = append(g.InitCalls, reference)
	if g.InitErr != nil {
		return "", g.InitErr
	}
	return fmt.Sprintf("https://checkout.mock.paystack.test/%s", reference), nil
}

func (g *MockGateway) VerifySignature(payload []byte, signature string) bool {
	return hmac.Equal([]byte(signature), []byte(g.Sign(payload)))
}

// Sign returns the hex HMAC-SHA512 of payload under the mock secret.
func (g *MockGateway) Sign(payload []byte) string {
	mac := hmac.New(sha512.New, []byte(g.Secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

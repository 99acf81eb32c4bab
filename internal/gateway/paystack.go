package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// PaystackClient calls the Paystack REST API and verifies its webhooks.
// Webhook signatures are HMAC-SHA512 over the raw request body, hex encoded
// in the x-paystack-signature header.
type PaystackClient struct {
	secretKey []byte
	apiURL    string
	client    *http.Client
}

func NewPaystackClient(secretKey, apiURL string) *PaystackClient {
	return &PaystackClient{
		secretKey: []byte(secretKey),
		apiURL:    apiURL,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

type initializeRequest struct {
	Email     string `json:"email"`
	Amount    int64  `json:"amount"` // kobo
	Reference string `json:"reference"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

// InitializeTransaction opens a hosted payment session and returns the
// authorization URL. Called after the PENDING transaction row has been
// committed, never while a row lock is held.
func (p *PaystackClient) InitializeTransaction(ctx context.Context, email string, amountKobo int64, reference string) (string, error) {
	body, err := json.Marshal(initializeRequest{
		Email:     email,
		Amount:    amountKobo,
		Reference: reference,
	})
	if err != nil {
		return "", fmt.Errorf("encode initialize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build initialize request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+string(p.secretKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call paystack initialize: %w", err)
	}
	defer resp.Body.Close()

	var parsed initializeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode paystack response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !parsed.Status {
		return "", fmt.Errorf("paystack initialize failed: status %d: %s", resp.StatusCode, parsed.Message)
	}
	if parsed.Data.AuthorizationURL == "" {
		return "", fmt.Errorf("paystack initialize returned no authorization url")
	}
	return parsed.Data.AuthorizationURL, nil
}

// VerifySignature checks the x-paystack-signature header value against the
// payload using a constant-time comparison.
func (p *PaystackClient) VerifySignature(payload []byte, signature string) bool {
	if len(p.secretKey) == 0 || signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, p.secretKey)
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}

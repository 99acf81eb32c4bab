package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaystackClient_InitializeTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))

		var req initializeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ada@example.com", req.Email)
		assert.Equal(t, int64(50_000), req.Amount)
		assert.Equal(t, "WLLT_TESTREF00000001", req.Reference)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  true,
			"message": "Authorization URL created",
			"data": map[string]string{
				"authorization_url": "https://checkout.paystack.com/abc123",
				"access_code":       "abc123",
				"reference":         req.Reference,
			},
		})
	}))
	defer server.Close()

	client := NewPaystackClient("sk_test_secret", server.URL)
	url, err := client.InitializeTransaction(context.Background(), "ada@example.com", 50_000, "WLLT_TESTREF00000001")
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.paystack.com/abc123", url)
}

func TestPaystackClient_InitializeTransaction_GatewayRejects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  false,
			"message": "Invalid amount",
		})
	}))
	defer server.Close()

	client := NewPaystackClient("sk_test_secret", server.URL)
	_, err := client.InitializeTransaction(context.Background(), "ada@example.com", 0, "WLLT_TESTREF00000002")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid amount")
}

func TestPaystackClient_VerifySignature(t *testing.T) {
	client := NewPaystackClient("sk_test_secret", "https://api.paystack.co")
	payload := []byte(`{"event":"charge.success"}`)

	mac := hmac.New(sha512.New, []byte("sk_test_secret"))
	mac.Write(payload)
	valid := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, client.VerifySignature(payload, valid))
	assert.False(t, client.VerifySignature(payload, ""))
	assert.False(t, client.VerifySignature(payload, "deadbeef"))
	assert.False(t, client.VerifySignature([]byte(`{"event":"tampered"}`), valid))
}

func TestMockGateway_SignMatchesVerify(t *testing.T) {
	gw := &MockGateway{Secret: "whsec_test"}
	payload := []byte(`{"event":"charge.success","data":{"reference":"WLLT_X"}}`)
	assert.True(t, gw.VerifySignature(payload, gw.Sign(payload)))
	assert.False(t, gw.VerifySignature(payload, "bogus"))
}

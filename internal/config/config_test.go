package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "0123456789abcdef0123456789abcdef"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", testJWTSecret)
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "https://api.paystack.co", cfg.PaystackAPIURL)
	assert.Equal(t, int64(10_000), cfg.DepositMinKobo)
	assert.Equal(t, int64(10_000), cfg.TransferMinKobo)
	assert.Equal(t, int64(20_000), cfg.WithdrawMinKobo)
	assert.Equal(t, 3*time.Second, cfg.LockTimeout)
	assert.Equal(t, 30*time.Second, cfg.BalanceCacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.LedgerAuditInterval)
	assert.Equal(t, "wallet-ledger", cfg.JWTIssuer)
	assert.Equal(t, "wallet-api", cfg.JWTAudience)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("WALLET_WITHDRAW_MIN_KOBO", "50000")
	t.Setenv("LOCK_TIMEOUT", "500ms")
	t.Setenv("PAYSTACK_API_URL", "https://paystack.internal/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, int64(50_000), cfg.WithdrawMinKobo)
	assert.Equal(t, 500*time.Millisecond, cfg.LockTimeout)
	assert.Equal(t, "https://paystack.internal", cfg.PaystackAPIURL)
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_secret")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_ShortJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "too-short")
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_secret")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 characters")
}

func TestLoad_MissingPaystackKey(t *testing.T) {
	t.Setenv("JWT_SECRET", testJWTSecret)
	t.Setenv("PAYSTACK_SECRET_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PAYSTACK_SECRET_KEY")
}

func TestLoad_WithdrawBelowDeposit(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DEPOSIT_MIN_KOBO", "10000")
	t.Setenv("WITHDRAW_MIN_KOBO", "5000")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WITHDRAW_MIN_KOBO")
}

func TestLoad_InvalidLockTimeout(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LOCK_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOCK_TIMEOUT")
}

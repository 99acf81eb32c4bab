package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMoney_ToNaira(t *testing.T) {
	m := NewMoney(15_050) // 150.50 NGN
	d := m.ToNaira()
	assert.Equal(t, "150.5", d.String())
}

func TestFromNaira(t *testing.T) {
	d := decimal.NewFromFloat(150.50)
	m := FromNaira(d)
	assert.Equal(t, int64(15_050), m.Kobo)
}

func TestFromNaira_TruncatesSubKobo(t *testing.T) {
	// Anything below one kobo cannot be represented and is dropped.
	d, err := decimal.NewFromString("10.009")
	assert.NoError(t, err)
	m := FromNaira(d)
	assert.Equal(t, int64(1_000), m.Kobo)
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "150.00 NGN", NewMoney(15_000).String())
	assert.Equal(t, "0.05 NGN", NewMoney(5).String())
}

func TestMoney_IsPositive(t *testing.T) {
	assert.True(t, NewMoney(1).IsPositive())
	assert.False(t, NewMoney(0).IsPositive())
	assert.False(t, NewMoney(-100).IsPositive())
}

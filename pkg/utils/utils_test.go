package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksumAddress(t *testing.T) {
	addr, err := ChecksumAddress(" 0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed ")
	require.NoError(t, err)
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", addr)

	_, err = ChecksumAddress("Ethereum Address Here")
	assert.Error(t, err)
}

func TestAdjustDecimals(t *testing.T) {
	v := AdjustDecimals(decimal.RequireFromString("1500000000000000000"), 18)
	assert.True(t, v.Equal(decimal.RequireFromString("1.5")))
	assert.Equal(t, "1.5", v.String())

	v = AdjustDecimals(decimal.RequireFromString("1234567"), 6)
	assert.Equal(t, "1.234567", v.String())

	v = AdjustDecimals(decimal.RequireFromString("42"), 0)
	assert.Equal(t, "42", v.String())
}

func TestTradesFileName(t *testing.T) {
	assert.Equal(t, "wasabi_trades-0xabc.csv", TradesFileName("0xabc"))
}

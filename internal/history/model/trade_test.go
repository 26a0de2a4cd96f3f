package model

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalar_Unmarshal(t *testing.T) {
	var v struct {
		Str    Scalar `json:"str"`
		Num    Scalar `json:"num"`
		Float  Scalar `json:"float"`
		Absent Scalar `json:"absent"`
	}
	err := sonic.Unmarshal([]byte(`{"str":"1500000000000000000","num":18,"float":2.5}`), &v)
	require.NoError(t, err)

	assert.True(t, v.Str.Present())
	assert.Equal(t, "1500000000000000000", v.Str.String())
	assert.Equal(t, "18", v.Num.String())
	assert.Equal(t, "2.5", v.Float.String())
	assert.False(t, v.Absent.Present())
	assert.Equal(t, "", v.Absent.String())
}

func TestPage_Unmarshal(t *testing.T) {
	body := `{
		"items": [{"timestamp": 1700000000, "action": "OPEN", "data": {"collateralAmount": "12"}}],
		"hasNextPage": true,
		"nextPageToken": "abc"
	}`
	var page Page
	require.NoError(t, sonic.Unmarshal([]byte(body), &page))

	require.Len(t, page.Items, 1)
	assert.True(t, page.HasNextPage)
	assert.Equal(t, "abc", page.NextPageToken.String())

	item := page.Items[0]
	assert.Equal(t, "1700000000", item.Timestamp.String())
	assert.Nil(t, item.Token)
	require.NotNil(t, item.Data)
	assert.True(t, item.Data.CollateralAmount.Present())
	assert.False(t, item.Data.InterestPaid.Present())
}

func TestNormalizedRecord_Fields(t *testing.T) {
	rec := &NormalizedRecord{
		Date:   "2024-01-02 03:04:05",
		Action: "CLOSE",
		Amount: decimal.RequireFromString("1.5"),
		PnL:    decimal.Zero,
	}

	fields := rec.Fields()
	assert.Len(t, fields, 19)
	assert.Equal(t, "1.5", fields[ColAmount])
	assert.Equal(t, "0", fields[ColPnL])
	assert.NotContains(t, fields, ColInterestPaid)
	assert.NotContains(t, fields, ColPrincipalRepaid)
	assert.NotContains(t, fields, ColCollateralAmount)

	collateral := "250"
	rec.InterestPaid = decimal.NewNullDecimal(decimal.RequireFromString("0.01"))
	rec.CollateralAmount = &collateral

	fields = rec.Fields()
	assert.Len(t, fields, 21)
	assert.Equal(t, "0.01", fields[ColInterestPaid])
	assert.Equal(t, "250", fields[ColCollateralAmount])
	assert.NotContains(t, fields, ColPrincipalRepaid)
}

func TestPage_Validate(t *testing.T) {
	cases := []struct {
		name string
		body string
		ok   bool
	}{
		{"last page", `{"items": [], "hasNextPage": false}`, true},
		{"next page with token", `{"items": [], "hasNextPage": true, "nextPageToken": 7}`, true},
		{"empty object", `{}`, false},
		{"missing items", `{"hasNextPage": false}`, false},
		{"null items", `{"items": null, "hasNextPage": false}`, false},
		{"missing hasNextPage", `{"items": []}`, false},
		{"next page without token", `{"items": [], "hasNextPage": true}`, false},
		{"next page with null token", `{"items": [], "hasNextPage": true, "nextPageToken": null}`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var page Page
			require.NoError(t, sonic.Unmarshal([]byte(tc.body), &page))
			err := page.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrMalformedPage)
			}
		})
	}
}

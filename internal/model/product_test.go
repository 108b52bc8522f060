package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_DecimalsEncodeAsNumbers(t *testing.T) {
	raw, err := json.Marshal(Product{
		ID:         1,
		Name:       "Mouse",
		UnitPrice:  decimal.RequireFromString("49.99"),
		UnitWeight: decimal.RequireFromString("0.1"),
		CategoryID: 1,
	})
	require.NoError(t, err)

	assert.Contains(t, string(raw), `"unitPrice":49.99`)
	assert.Contains(t, string(raw), `"unitWeight":0.1`)

	var back Product
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, decimal.RequireFromString("49.99").Equal(back.UnitPrice))
}

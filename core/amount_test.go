package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountSubSaturates(t *testing.T) {
	a := NewAmount(10)
	b := NewAmount(25)

	assert.Equal(t, NewAmount(15), b.Sub(a))
	assert.True(t, a.Sub(b).IsZero())
}

func TestAmountJSONDecimalString(t *testing.T) {
	a, err := AmountFromString("340282366920938463463374607431768211456") // 2^128
	require.Nil(t, err)

	data, err := json.Marshal(a)
	require.Nil(t, err)
	assert.Equal(t, `"340282366920938463463374607431768211456"`, string(data))

	var back Amount
	require.Nil(t, json.Unmarshal(data, &back))
	assert.Equal(t, a, back)

	// Bare numbers are accepted too.
	require.Nil(t, json.Unmarshal([]byte(`42`), &back))
	assert.Equal(t, NewAmount(42), back)
}

func TestLoanClosed(t *testing.T) {
	loan := Loan{Amount: NewAmount(1), Collateral: NewAmount(2)}
	assert.False(t, loan.Closed())

	loan.Amount = Amount{}
	assert.False(t, loan.Closed())

	loan.Collateral = Amount{}
	assert.True(t, loan.Closed())
}

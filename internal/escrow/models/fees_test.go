package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"africonnect/internal/platform/catalog"
	dErrors "africonnect/pkg/domain-errors"
)

func testSchedule(t *testing.T) *FeeSchedule {
	t.Helper()
	c, err := catalog.Load("")
	require.NoError(t, err)
	return FeeScheduleFromCatalog(c)
}

func TestCalculate_CreditCard(t *testing.T) {
	q, err := testSchedule(t).Calculate("credit_card", 10000, "USD")
	require.NoError(t, err)
	assert.Equal(t, int64(320), q.Fee)
	assert.Equal(t, int64(9680), q.NetAmount)
	assert.Equal(t, "Stripe", q.Processor)
}

func TestCalculate_RoundsHalfUp(t *testing.T) {
	fs := NewFeeSchedule([]PaymentMethod{{Method: "m", RateBps: 150, Currencies: []string{"NGN"}}})

	q, err := fs.Calculate("m", 100, "NGN") // 1.5 rounds to 2
	require.NoError(t, err)
	assert.Equal(t, int64(2), q.Fee)

	q, err = fs.Calculate("m", 99, "NGN") // 1.485 rounds to 1
	require.NoError(t, err)
	assert.Equal(t, int64(1), q.Fee)
}

func TestCalculate_MonotonicAndExact(t *testing.T) {
	fs := testSchedule(t)
	var prev int64
	for amount := int64(0); amount <= 5000; amount += 37 {
		q, err := fs.Calculate("mobile_money", amount, "KES")
		require.NoError(t, err)
		assert.Equal(t, amount, q.Fee+q.NetAmount)
		assert.GreaterOrEqual(t, q.Fee, prev)
		prev = q.Fee
	}
}

func TestCalculate_Rejections(t *testing.T) {
	fs := testSchedule(t)

	_, err := fs.Calculate("cheque", 100, "USD")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnsupportedMethod))

	_, err = fs.Calculate("crypto", 100, "USD")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnsupportedCurrency))

	_, err = fs.Calculate("wallet", -1, "USD")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestPairKey(t *testing.T) {
	contractID := mustContractID(t, "5f0c8a4e-2b1d-4f7e-9c3a-000000000001")
	milestoneID := mustMilestoneID(t, "5f0c8a4e-2b1d-4f7e-9c3a-000000000002")

	assert.Equal(t, contractID.String()+":contract", PairKey(contractID, nil))
	assert.Equal(t, contractID.String()+":"+milestoneID.String(), PairKey(contractID, &milestoneID))
}

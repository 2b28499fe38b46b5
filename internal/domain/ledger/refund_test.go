package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRefundAmount(t *testing.T) {
	t.Run("full defaults to current revenue", func(t *testing.T) {
		amount, err := ResolveRefundAmount(RefundTypeFull, nil, d("180"))
		require.NoError(t, err)
		assert.True(t, amount.Equal(d("180")))
	})

	t.Run("full keeps an explicit amount", func(t *testing.T) {
		explicit := d("200")
		amount, err := ResolveRefundAmount(RefundTypeFull, &explicit, d("180"))
		require.NoError(t, err)
		assert.True(t, amount.Equal(d("200")))
	})

	t.Run("full on zero revenue resolves to zero", func(t *testing.T) {
		amount, err := ResolveRefundAmount(RefundTypeFull, nil, decimal.Zero)
		require.NoError(t, err)
		assert.True(t, amount.IsZero())
	})

	t.Run("partial requires a positive amount", func(t *testing.T) {
		_, err := ResolveRefundAmount(RefundTypePartial, nil, d("100"))
		assert.Error(t, err)

		zero := decimal.Zero
		_, err = ResolveRefundAmount(RefundTypePartial, &zero, d("100"))
		assert.Error(t, err)
	})

	t.Run("partial above revenue is rejected with the current figure", func(t *testing.T) {
		amount := d("150")
		_, err := ResolveRefundAmount(RefundTypePartial, &amount, d("100"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "100.00")
	})

	t.Run("partial within revenue passes through", func(t *testing.T) {
		requested := d("50")
		amount, err := ResolveRefundAmount(RefundTypePartial, &requested, d("100"))
		require.NoError(t, err)
		assert.True(t, amount.Equal(d("50")))
	})

	t.Run("rejects invalid type", func(t *testing.T) {
		_, err := ResolveRefundAmount(RefundType("BOGUS"), nil, d("100"))
		assert.Error(t, err)
	})
}

func TestNewRefund(t *testing.T) {
	t.Run("creates refund marker", func(t *testing.T) {
		saleID := uuid.New()
		actor := uuid.New()

		r, err := NewRefund(saleID, RefundTypeFull, d("100"), "customer cancelled", true, actor)
		require.NoError(t, err)
		assert.Equal(t, saleID, r.SaleID)
		assert.True(t, r.IsFull)
		assert.Equal(t, actor, r.RequestedBy)
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		_, err := NewRefund(uuid.New(), RefundTypePartial, d("-1"), "", false, uuid.New())
		assert.Error(t, err)
	})

	t.Run("rejects empty sale", func(t *testing.T) {
		_, err := NewRefund(uuid.Nil, RefundTypeFull, d("1"), "", true, uuid.New())
		assert.Error(t, err)
	})
}

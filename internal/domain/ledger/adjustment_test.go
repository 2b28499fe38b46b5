package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAdjustment(t *testing.T) {
	t.Run("creates adjustment", func(t *testing.T) {
		claimID := uuid.New()
		actor := uuid.New()

		a, err := NewAdjustment(claimID, d("25.50"), AdjustmentReasonCommission, "closer commission", actor)
		require.NoError(t, err)
		assert.Equal(t, claimID, a.ClaimID)
		assert.True(t, a.AdditionalCostUSD.Equal(d("25.50")))
		assert.Equal(t, AdjustmentReasonCommission, a.Reason)
		assert.Equal(t, actor, a.CreatedBy)
	})

	t.Run("rejects negative cost", func(t *testing.T) {
		_, err := NewAdjustment(uuid.New(), d("-5"), AdjustmentReasonOther, "", uuid.New())
		assert.Error(t, err)
	})

	t.Run("rejects invalid reason", func(t *testing.T) {
		_, err := NewAdjustment(uuid.New(), d("5"), AdjustmentReason("BOGUS"), "", uuid.New())
		assert.Error(t, err)
	})

	t.Run("rejects empty claim or actor", func(t *testing.T) {
		_, err := NewAdjustment(uuid.Nil, d("5"), AdjustmentReasonOther, "", uuid.New())
		assert.Error(t, err)

		_, err = NewAdjustment(uuid.New(), d("5"), AdjustmentReasonOther, "", uuid.Nil)
		assert.Error(t, err)
	})
}

func TestValidateAdjustmentCap(t *testing.T) {
	t.Run("allows totals up to the original margin", func(t *testing.T) {
		assert.NoError(t, ValidateAdjustmentCap(d("60"), d("40"), d("20")))
		assert.NoError(t, ValidateAdjustmentCap(d("60"), decimal.Zero, d("60")))
	})

	t.Run("rejects totals beyond the margin with remaining headroom", func(t *testing.T) {
		err := ValidateAdjustmentCap(d("60"), d("40"), d("21"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "20.00")
	})

	t.Run("headroom never reported negative", func(t *testing.T) {
		err := ValidateAdjustmentCap(d("60"), d("65"), d("1"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "0.00")
	})
}

func TestComputeAdjustedMetrics(t *testing.T) {
	t.Run("derives adjusted margin and percent", func(t *testing.T) {
		m, _ := NewSaleMetrics(uuid.New(), d("200"), d("80"), CurrencySourceComputed)
		claimID := uuid.New()

		am := ComputeAdjustedMetrics(claimID, m, d("40"))
		assert.Equal(t, claimID, am.ClaimID)
		assert.Equal(t, m.SaleID, am.SaleID)
		assert.True(t, am.OriginalMarginUSD.Equal(d("120")))
		assert.True(t, am.TotalAdjustmentsUSD.Equal(d("40")))
		assert.True(t, am.AdjustedMarginUSD.Equal(d("80")))
		assert.True(t, am.AdjustedMarginPercent.Equal(d("0.4")))
		assert.False(t, am.RefreshedAt.IsZero())
	})

	t.Run("zero revenue yields zero percent", func(t *testing.T) {
		m, _ := NewSaleMetrics(uuid.New(), decimal.Zero, decimal.Zero, CurrencySourceComputed)

		am := ComputeAdjustedMetrics(uuid.New(), m, decimal.Zero)
		assert.True(t, am.AdjustedMarginPercent.IsZero())
	})
}

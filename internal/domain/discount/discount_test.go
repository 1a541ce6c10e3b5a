package discount

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnit(t *testing.T) {
	assert.Equal(t, UnitPercent, ParseUnit("%"))
	assert.Equal(t, UnitFlat, ParseUnit("flat"))
	assert.Equal(t, UnitFlat, ParseUnit(""))
}

func TestNewDiscount_Validation(t *testing.T) {
	_, err := NewDiscount(DiscountParams{Name: "Spring", Amount: 500})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = NewDiscount(DiscountParams{Name: "Spring", Code: "SPRING", Amount: 0})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = NewDiscount(DiscountParams{Name: "Spring", Code: "SPRING", Amount: 150 * 100, Unit: UnitPercent})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = NewDiscount(DiscountParams{Name: "Spring", Code: "SPR ING", Amount: 100})
	assert.ErrorIs(t, err, ErrInvalidCode)

	d, err := NewDiscount(DiscountParams{Name: "Spring", Code: " SPRING ", Amount: 100})
	require.NoError(t, err)
	assert.Equal(t, "SPRING", d.Code())
	assert.Equal(t, StatusActive, d.Status())
}

func TestApply(t *testing.T) {
	pct, err := NewDiscount(DiscountParams{Name: "Half", Code: "HALF", Amount: 50 * 100, Unit: UnitPercent})
	require.NoError(t, err)
	assert.Equal(t, int64(500), pct.Apply(1000))

	flat, err := NewDiscount(DiscountParams{Name: "Five", Code: "FIVE", Amount: 500, Unit: UnitFlat})
	require.NoError(t, err)
	assert.Equal(t, int64(499), flat.Apply(999))
	assert.Equal(t, int64(0), flat.Apply(300))
}

func TestIsRedeemableAt(t *testing.T) {
	now := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	d, err := ReconstructDiscountWithParams(DiscountReconstructParams{
		DiscountParams: DiscountParams{Name: "Gold only", Code: "GOLD", Amount: 100, LevelID: 2, MaxUses: 2},
		ID:             1,
		Status:         "active",
		UseCount:       1,
	})
	require.NoError(t, err)

	assert.True(t, d.IsRedeemableAt(now, 2))
	assert.False(t, d.IsRedeemableAt(now, 3))

	d.Disable()
	assert.False(t, d.IsRedeemableAt(now, 2))

	expired, err := ReconstructDiscountWithParams(DiscountReconstructParams{
		DiscountParams: DiscountParams{Name: "Old", Code: "OLD", Amount: 100, Expiration: &past},
		ID:             2,
		Status:         "active",
	})
	require.NoError(t, err)
	assert.False(t, expired.IsRedeemableAt(now, 0))
}

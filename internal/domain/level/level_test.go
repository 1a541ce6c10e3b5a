package level

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevel_Defaults(t *testing.T) {
	l, err := NewLevel(LevelParams{Name: "Gold", Slug: "gold", Price: 999, Duration: 1, Capabilities: []string{"read_gold", " ", "read_gold"}})
	require.NoError(t, err)

	assert.Equal(t, DefaultRole, l.Role())
	assert.Equal(t, UnitMonth, l.DurationUnit())
	assert.Equal(t, StatusActive, l.Status())
	assert.Equal(t, []string{"read_gold"}, l.Capabilities())
	assert.False(t, l.IsFree())
}

func TestNewLevel_Validation(t *testing.T) {
	_, err := NewLevel(LevelParams{Slug: "x"})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = NewLevel(LevelParams{Name: "Neg", Slug: "neg", Price: -1})
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = NewLevel(LevelParams{Name: "Bad", Slug: "bad", Duration: 2, DurationUnit: "fortnight"})
	assert.Error(t, err)

	_, err = NewLevel(LevelParams{Name: "Deep", Slug: "deep", AccessLevel: 11})
	assert.Error(t, err)
}

func TestExpirationFrom(t *testing.T) {
	start := time.Date(2030, 1, 31, 12, 0, 0, 0, time.UTC)

	monthly, _ := NewLevel(LevelParams{Name: "M", Slug: "m", Duration: 1, DurationUnit: UnitMonth})
	assert.Equal(t, start.AddDate(0, 1, 0), *monthly.ExpirationFrom(start))

	daily, _ := NewLevel(LevelParams{Name: "D", Slug: "d", Duration: 7, DurationUnit: UnitDay})
	assert.Equal(t, start.AddDate(0, 0, 7), *daily.ExpirationFrom(start))

	lifetime, _ := NewLevel(LevelParams{Name: "L", Slug: "l"})
	assert.Nil(t, lifetime.ExpirationFrom(start))
}

func TestActivateDeactivate(t *testing.T) {
	l, err := ReconstructLevelWithParams(LevelReconstructParams{
		LevelParams: LevelParams{Name: "Gold", Slug: "gold", Role: "editor"},
		ID:          3,
		Status:      "active",
		Version:     1,
	})
	require.NoError(t, err)

	l.Deactivate()
	assert.False(t, l.IsActive())
	assert.Equal(t, 2, l.Version())

	l.Activate()
	assert.True(t, l.IsActive())
	assert.Equal(t, "editor", l.Role())
}

package setutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderedUintSet(t *testing.T) {
	s := NewOrderedUintSet(4, 0, 2, 4, 9, 2)

	assert.Equal(t, []uint{4, 2, 9}, s.ToSlice())
	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Has(9))
	assert.False(t, s.Has(0))
}

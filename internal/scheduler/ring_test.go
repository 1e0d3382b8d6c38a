package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRing_KeepsLatest(t *testing.T) {
	r := NewRing[int](3)
	for i := 1; i <= 5; i++ {
		r.Push(i)
	}

	assert.Equal(t, []int{3, 4, 5}, r.Items())
	assert.Equal(t, 5, r.Total())
	assert.Equal(t, 2, r.Dropped())
}

func TestRing_PartiallyFilled(t *testing.T) {
	r := NewRing[string](4)
	r.Push("a")
	r.Push("b")

	assert.Equal(t, []string{"a", "b"}, r.Items())
	assert.Equal(t, 0, r.Dropped())
}

func TestRing_ZeroCapacityOnlyCounts(t *testing.T) {
	r := NewRing[int](0)
	r.Push(1)
	r.Push(2)

	assert.Empty(t, r.Items())
	assert.Equal(t, 2, r.Total())
	assert.Equal(t, 2, r.Dropped())
}

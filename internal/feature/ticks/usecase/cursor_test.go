package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCursor_Advance(t *testing.T) {
	t.Parallel()

	var c cursor
	assert.Equal(t, int64(0), c.After(), "unset cursor starts from the beginning of the day")

	assert.True(t, c.Advance(10))
	assert.Equal(t, int64(10), c.After())

	assert.False(t, c.Advance(10), "staying in place would refetch the same page")
	assert.False(t, c.Advance(3), "cursor never moves backwards")
	assert.Equal(t, int64(10), c.After())

	assert.True(t, c.Advance(11))
	assert.Equal(t, int64(11), c.After())
}

package sharing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPage(t *testing.T) {
	page, err := NewPage(5, 20)
	require.NoError(t, err)
	assert.Equal(t, 5, page.From)
	assert.Equal(t, 20, page.Size)
	assert.True(t, page.Bounded())
}

func TestNewPageRejectsNegativeFrom(t *testing.T) {
	_, err := NewPage(-1, 10)
	require.Error(t, err)
	assert.Equal(t, ErrorTypeValidation, Type(err))
}

func TestNewPageRejectsNonPositiveSize(t *testing.T) {
	for _, size := range []int{0, -5} {
		_, err := NewPage(0, size)
		require.Error(t, err)
		assert.Equal(t, ErrorTypeValidation, Type(err))
	}
}

func TestAllIsUnbounded(t *testing.T) {
	assert.False(t, All.Bounded())
	assert.Equal(t, 0, All.From)
}

package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateRange(t *testing.T) {
	f, to, err := ParseDateRange("", " ")
	require.NoError(t, err)
	assert.Nil(t, f)
	assert.Nil(t, to)

	f, to, err = ParseDateRange("2024-03-01", "2024-03-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *f)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), *to)

	_, _, err = ParseDateRange("01/03/2024", "")
	assert.ErrorContains(t, err, "from invalid")

	_, _, err = ParseDateRange("2024-03-31", "2024-03-01")
	assert.Error(t, err)
}

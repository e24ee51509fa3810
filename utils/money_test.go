package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0.00", FormatAmount(0))
	assert.Equal(t, "497.00", FormatAmount(497))
	assert.Equal(t, "10.00", FormatAmount(200*0.05))
	assert.Equal(t, "-300.00", FormatAmount(-300))
	assert.Equal(t, "0.10", FormatAmount(0.1))
}

func TestParseAmount(t *testing.T) {
	v, err := ParseAmount("497.00")
	require.NoError(t, err)
	assert.Equal(t, 497.00, v)

	v, err = ParseAmount("  10.50 ")
	require.NoError(t, err)
	assert.Equal(t, 10.50, v)

	// Absent amounts read as zero.
	v, err = ParseAmount("")
	require.NoError(t, err)
	assert.Zero(t, v)

	_, err = ParseAmount("ten")
	require.Error(t, err)
}

func TestAmountsEqual(t *testing.T) {
	assert.True(t, AmountsEqual(210.00, 210.00))
	assert.True(t, AmountsEqual(210.00, 210.01))
	assert.True(t, AmountsEqual(210.01, 210.00))
	assert.False(t, AmountsEqual(210.00, 210.02))
	// Accumulated float error within a cent still compares equal.
	assert.True(t, AmountsEqual(0.1+0.2, 0.3))
}

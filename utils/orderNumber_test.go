package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOrderNumber_Format(t *testing.T) {
	number := GenerateOrderNumber("EID")

	parts := strings.Split(number, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "EID", parts[0])
	assert.Equal(t, time.Now().Format("20060102"), parts[1])
	assert.Len(t, parts[2], 12)
	assert.Equal(t, strings.ToUpper(parts[2]), parts[2])
}

func TestGenerateOrderNumber_DefaultPrefix(t *testing.T) {
	assert.True(t, strings.HasPrefix(GenerateOrderNumber(""), "EID-"))
	assert.True(t, strings.HasPrefix(GenerateOrderNumber("BAZAR"), "BAZAR-"))
}

func TestGenerateOrderNumber_Unique(t *testing.T) {
	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		number := GenerateOrderNumber("EID")
		require.False(t, seen[number], "duplicate order number %s after %d calls", number, i)
		seen[number] = true
	}
}

package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStruct(t *testing.T) {
	type settings struct {
		Name string `validate:"required"`
		Mode string `validate:"oneof=development production"`
	}

	assert.NoError(t, ValidateStruct(settings{Name: "posts", Mode: "development"}))

	err := ValidateStruct(settings{Mode: "weird"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), "mode must be one of: development production")
}

func TestRFC3339RoundTrip(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	stamp := FormatRFC3339(time.Date(2024, 3, 1, 7, 30, 0, 0, loc))
	assert.Equal(t, "2024-03-01T12:30:00Z", stamp)

	parsed, err := ParseRFC3339(stamp)
	require.NoError(t, err)
	assert.Equal(t, 12, parsed.Hour())

	_, err = ParseRFC3339("not-a-time")
	assert.Error(t, err)
}

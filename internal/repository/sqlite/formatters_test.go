package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimeForDB(t *testing.T) {
	ts := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-01T09:30:00Z", FormatTimeForDB(ts))

	parsed, err := ParseTimeFromDB(FormatTimeForDB(ts))
	require.NoError(t, err)
	assert.True(t, ts.Equal(parsed))
}

func TestParseTimeFromDB_Invalid(t *testing.T) {
	_, err := ParseTimeFromDB("2025-03-01 09:30")
	assert.Error(t, err)
}

func TestPlanDate(t *testing.T) {
	day := time.Date(2025, 3, 1, 23, 59, 0, 0, time.Local)
	assert.Equal(t, "2025-03-01", FormatPlanDate(day))

	parsed, err := ParsePlanDate("2025-03-01")
	require.NoError(t, err)
	assert.Equal(t, 1, parsed.Day())
	assert.Equal(t, 0, parsed.Hour())

	_, err = ParsePlanDate("03/01/2025")
	assert.Error(t, err)
}

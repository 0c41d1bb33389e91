package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimelineValidator_ParseSlot(t *testing.T) {
	tv := NewTimelineValidator()

	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"18", 18, false},
		{"0", 0, false},
		{"47", 47, false},
		{"09:00", 18, false},
		{"10:45", 21, false},
		{"48", 0, true},
		{"-1", 0, true},
		{"24:00", 0, true},
		{"noon", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := tv.ParseSlot(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimelineValidator_ParseDelta(t *testing.T) {
	tv := NewTimelineValidator()

	d, err := tv.ParseDelta("-1.5")
	require.NoError(t, err)
	assert.Equal(t, -1.5, d)

	_, err = tv.ParseDelta("two")
	assert.Error(t, err)
}

func TestTimelineValidator_ParsePlanDate(t *testing.T) {
	tv := NewTimelineValidator()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.Local)

	got, err := tv.ParsePlanDate("", now)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", got)

	got, err = tv.ParsePlanDate("2025-04-02", now)
	require.NoError(t, err)
	assert.Equal(t, "2025-04-02", got)

	_, err = tv.ParsePlanDate("02/04/2025", now)
	assert.Error(t, err)
}

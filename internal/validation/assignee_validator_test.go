package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssigneeValidator_ValidateName(t *testing.T) {
	av := NewAssigneeValidator()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"Valid", "Aki", false},
		{"Padded", "  Aki ", false},
		{"Blank name", "  ", true},
		{"Long name", strings.Repeat("x", AssigneeNameMaxLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := av.ValidateName(tt.input)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.NotEmpty(t, err.(*ValidationError).GetFieldErrors("name"))
		})
	}
}

func TestAssigneeValidator_ValidateAssigneeForRename(t *testing.T) {
	av := NewAssigneeValidator()

	assert.NoError(t, av.ValidateAssigneeForRename(3, "Mina"))

	err := av.ValidateAssigneeForRename(0, "")
	require.Error(t, err)
	ve := err.(*ValidationError)
	assert.Len(t, ve.Errors, 2)
}

func TestAssigneeValidator_GetValidName(t *testing.T) {
	av := NewAssigneeValidator()

	name, err := av.GetValidName("  Mina ")
	require.NoError(t, err)
	assert.Equal(t, "Mina", name)
	assert.Equal(t, "Mina", av.CleanName("\tMina\n"))

	_, err = av.GetValidName(" ")
	assert.Error(t, err)
}

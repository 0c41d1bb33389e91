package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kanban-todo/internal/domain"
)

func row(title string) domain.ImportRow {
	r := domain.NewImportRow()
	r.Title = title
	return r
}

func TestImportValidator_SubmittableRows(t *testing.T) {
	iv := NewImportValidator()

	rows := []domain.ImportRow{row("  First "), row(""), row("   "), row("Second")}
	got, err := iv.SubmittableRows(rows)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "First", got[0].Title)
	assert.Equal(t, "Second", got[1].Title)
}

func TestImportValidator_NoTitles(t *testing.T) {
	iv := NewImportValidator()

	_, err := iv.SubmittableRows([]domain.ImportRow{row(""), row(" ")})
	require.Error(t, err)
	assert.NotEmpty(t, err.(*ValidationError).GetFieldErrors("rows"))

	_, err = iv.SubmittableRows(nil)
	assert.Error(t, err)
}

func TestImportValidator_InvalidRowIsReportedByLine(t *testing.T) {
	iv := NewImportValidator()

	bad := row("Third")
	bad.Status = "LATER"
	_, err := iv.SubmittableRows([]domain.ImportRow{row("ok"), row(""), bad})
	require.Error(t, err)

	ve := err.(*ValidationError)
	require.Len(t, ve.Errors, 1)
	assert.Equal(t, "rows[3].status", ve.Errors[0].Field)
}

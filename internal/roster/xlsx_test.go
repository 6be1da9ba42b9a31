package roster

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/student-threshold-api/internal/model"
)

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadXLSX(t *testing.T) {
	buf := workbook(t, [][]any{
		{"Student_ID", "Name", "Math", "Science"},
		{"s1", "Alice Johnson", 90, 85},
		{"", "skipped row"},
		{"s2", "Bob Smith", 70},
	})

	got, err := ReadXLSX(buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Alice Johnson", got[0].Name)
	assert.Equal(t, 175, got[0].Total)
	assert.Equal(t, map[string]int{"math": 70}, got[1].Marks)
	assert.Equal(t, 70, got[1].Total)
}

func TestReadXLSX_Errors(t *testing.T) {
	_, err := ReadXLSX(workbook(t, [][]any{{"id", "label"}}))
	assert.True(t, errors.Is(err, ErrBadHeader))

	_, err = ReadXLSX(workbook(t, [][]any{
		{"student_id", "name", "math"},
		{"1", "A", "ninety"},
	}))
	assert.True(t, errors.Is(err, model.ErrInvalidMark))

	_, err = ReadXLSX(bytes.NewReader([]byte("not a workbook")))
	assert.Error(t, err)
}

func TestReadXLSX_RejectsOutOfRangeMarksAndUnknownSubjects(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]any
		wantErr error
	}{
		{
			name:    "mark above range",
			rows:    [][]any{{"student_id", "name", "math"}, {"1", "A", 500}},
			wantErr: model.ErrInvalidMark,
		},
		{
			name:    "negative mark",
			rows:    [][]any{{"student_id", "name", "science"}, {"1", "A", -40}},
			wantErr: model.ErrInvalidMark,
		},
		{
			name:    "one below minimum",
			rows:    [][]any{{"student_id", "name", "english"}, {"1", "A", model.MinMark - 1}},
			wantErr: model.ErrInvalidMark,
		},
		{
			name:    "second row out of range",
			rows:    [][]any{{"student_id", "name", "math"}, {"1", "A", 90}, {"2", "B", 101}},
			wantErr: model.ErrInvalidMark,
		},
		{
			name:    "unknown subject column",
			rows:    [][]any{{"student_id", "name", "math", "art"}, {"1", "A", 90, 70}},
			wantErr: model.ErrUnknownSubject,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadXLSX(workbook(t, tt.rows))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, got)
		})
	}

	got, err := ReadXLSX(workbook(t, [][]any{
		{"student_id", "name", "math", "history"},
		{"1", "A", model.MinMark, model.MaxMark},
	}))
	require.NoError(t, err)
	assert.Equal(t, model.MinMark+model.MaxMark, got[0].Total)
}

func TestWriteXLSX_ReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.xlsx")
	records := Generate(12, 99)

	require.NoError(t, WriteXLSX(path, records))
	got, err := readFile(path)
	require.NoError(t, err)

	want, err := model.NewRoster(records)
	require.NoError(t, err)
	assert.Equal(t, want.Records(), got)
}

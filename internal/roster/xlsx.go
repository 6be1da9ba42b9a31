package roster

import (
	"errors"
	"fmt"
	"io"
	"log"
	"slices"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/student-threshold-api/internal/model"
)

var (
	ErrNoSheet   = errors.New("spreadsheet has no sheets")
	ErrBadHeader = errors.New("spreadsheet header must start with student_id,name")
)

// ReadXLSX parses the first sheet of a workbook. Row 1 is the header
// "student_id, name, <subject>..."; every following non-empty row is a
// student. Blank mark cells are skipped. Subject columns must name one of
// model.Subjects and marks must be integers in [model.MinMark,
// model.MaxMark]; anything else fails with model.ErrUnknownSubject or
// model.ErrInvalidMark.
func ReadXLSX(r io.Reader) ([]model.StudentRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("roster: close spreadsheet: %v", err)
		}
	}()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrNoSheet
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, ErrBadHeader
	}

	header := rows[0]
	if len(header) < 2 || !strings.EqualFold(strings.TrimSpace(header[0]), "student_id") ||
		!strings.EqualFold(strings.TrimSpace(header[1]), "name") {
		return nil, ErrBadHeader
	}
	subjects := make([]string, 0, len(header)-2)
	for _, h := range header[2:] {
		subject := strings.ToLower(strings.TrimSpace(h))
		if subject != "" && !slices.Contains(model.Subjects, subject) {
			return nil, fmt.Errorf("header: %w: %q", model.ErrUnknownSubject, subject)
		}
		subjects = append(subjects, subject)
	}

	out := make([]model.StudentRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		id := strings.TrimSpace(row[0])
		name := ""
		if len(row) > 1 {
			name = strings.TrimSpace(row[1])
		}
		marks := make(map[string]int, len(subjects))
		for j, subject := range subjects {
			if 2+j >= len(row) || subject == "" {
				continue
			}
			cell := strings.TrimSpace(row[2+j])
			if cell == "" {
				continue
			}
			m, err := strconv.Atoi(cell)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d, %s=%q", model.ErrInvalidMark, i+2, subject, cell)
			}
			if err := model.ValidateMark(subject, m); err != nil {
				return nil, fmt.Errorf("row %d: %w", i+2, err)
			}
			marks[subject] = m
		}
		out = append(out, model.NewStudentRecord(id, name, marks))
	}
	return out, nil
}

// NewWorkbook writes records to a single-sheet workbook in the format
// ReadXLSX accepts. Subject columns follow model.Subjects.
func NewWorkbook(records []model.StudentRecord) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	header := []any{"student_id", "name"}
	for _, s := range model.Subjects {
		header = append(header, s)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		_ = f.Close()
		return nil, err
	}
	for i, rec := range records {
		row := []any{rec.StudentID, rec.Name}
		for _, s := range model.Subjects {
			if m, ok := rec.Marks[s]; ok {
				row = append(row, m)
			} else {
				row = append(row, nil)
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return f, nil
}

// WriteXLSX saves records to path.
func WriteXLSX(path string, records []model.StudentRecord) error {
	f, err := NewWorkbook(records)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

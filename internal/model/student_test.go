package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStudentRecord_ComputesTotalAndCopiesMarks(t *testing.T) {
	marks := map[string]int{"math": 90, "science": 80, "english": 70}
	rec := NewStudentRecord("1", "Student 1", marks)

	assert.Equal(t, 240, rec.Total)

	marks["math"] = 0
	assert.Equal(t, 90, rec.Marks["math"], "record must not share the caller's map")
	assert.Equal(t, 240, rec.Total)
}

func TestNewRoster_PreservesOrder(t *testing.T) {
	r, err := NewRoster([]StudentRecord{
		NewStudentRecord("b", "Bob", map[string]int{"math": 60}),
		NewStudentRecord("a", "Alice", map[string]int{"math": 70}),
		NewStudentRecord("c", "Carol", map[string]int{"math": 80}),
	})
	require.NoError(t, err)
	require.Equal(t, 3, r.Len())

	var names []string
	r.Range(func(s StudentRecord) bool {
		names = append(names, s.Name)
		return true
	})
	assert.Equal(t, []string{"Bob", "Alice", "Carol"}, names)
}

func TestNewRoster_RejectsDuplicateIDs(t *testing.T) {
	_, err := NewRoster([]StudentRecord{
		NewStudentRecord("1", "A", nil),
		NewStudentRecord("1", "B", nil),
	})
	assert.True(t, errors.Is(err, ErrDuplicateStudent))
}

func TestRoster_GetReturnsIsolatedCopy(t *testing.T) {
	r, err := NewRoster([]StudentRecord{NewStudentRecord("7", "Student 7", map[string]int{"math": 55})})
	require.NoError(t, err)

	rec, ok := r.Get("7")
	require.True(t, ok)
	rec.Marks["math"] = 100

	again, _ := r.Get("7")
	assert.Equal(t, 55, again.Marks["math"])

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRoster_EmptyAndNil(t *testing.T) {
	empty, err := NewRoster(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
	assert.Empty(t, empty.Records())

	var nilRoster *Roster
	assert.Equal(t, 0, nilRoster.Len())
	nilRoster.Range(func(StudentRecord) bool { t.Fatal("unexpected record"); return false })
}

func TestValidateMark(t *testing.T) {
	tests := []struct {
		subject string
		mark    int
		wantErr error
	}{
		{"math", MinMark, nil},
		{"geography", MaxMark, nil},
		{"math", MinMark - 1, ErrInvalidMark},
		{"science", MaxMark + 1, ErrInvalidMark},
		{"english", -40, ErrInvalidMark},
		{"art", 70, ErrUnknownSubject},
		{"Math", 70, ErrUnknownSubject},
	}
	for _, tt := range tests {
		err := ValidateMark(tt.subject, tt.mark)
		if tt.wantErr == nil {
			assert.NoError(t, err, "%s=%d", tt.subject, tt.mark)
			continue
		}
		assert.ErrorIs(t, err, tt.wantErr, "%s=%d", tt.subject, tt.mark)
	}
}

package model

import (
	"errors"
	"fmt"
	"slices"
)

// Subjects lists the subjects every generated student is marked on, in
// the column order used by spreadsheet import/export.
var Subjects = []string{"math", "science", "english", "history", "geography"}

const (
	MinMark = 50  // lowest mark a generated student can receive
	MaxMark = 100 // highest mark a generated student can receive
)

var (
	// ErrInvalidMark is returned for a mark outside [MinMark, MaxMark].
	ErrInvalidMark = errors.New("invalid mark")
	// ErrUnknownSubject is returned for a subject not in Subjects.
	ErrUnknownSubject = errors.New("unknown subject")
)

// ValidateMark checks one imported mark against the fixed subject set and
// the mark range.
func ValidateMark(subject string, mark int) error {
	if !slices.Contains(Subjects, subject) {
		return fmt.Errorf("%w: %q", ErrUnknownSubject, subject)
	}
	if mark < MinMark || mark > MaxMark {
		return fmt.Errorf("%w: %s=%d outside [%d,%d]", ErrInvalidMark, subject, mark, MinMark, MaxMark)
	}
	return nil
}

// ErrDuplicateStudent is returned by NewRoster when two records share a
// student_id.
var ErrDuplicateStudent = errors.New("duplicate student id")

// StudentRecord is one entry of the roster. Records are immutable once
// built by NewStudentRecord: Total is derived from Marks at construction
// time and never recomputed.
//
// Fields:
//  StudentID – unique identifier within the roster.
//  Name      – display label.
//  Marks     – subject name -> score.
//  Total     – sum of all values in Marks.
type StudentRecord struct {
	StudentID string         `json:"student_id"`
	Name      string         `json:"name"`
	Marks     map[string]int `json:"marks"`
	Total     int            `json:"total"`
}

// NewStudentRecord copies marks and computes the total.
func NewStudentRecord(id, name string, marks map[string]int) StudentRecord {
	own := make(map[string]int, len(marks))
	total := 0
	for subject, m := range marks {
		own[subject] = m
		total += m
	}
	return StudentRecord{StudentID: id, Name: name, Marks: own, Total: total}
}

// clone returns a copy whose Marks map is not shared with the receiver.
func (s StudentRecord) clone() StudentRecord {
	out := s
	out.Marks = make(map[string]int, len(s.Marks))
	for k, v := range s.Marks {
		out.Marks[k] = v
	}
	return out
}

// Roster is the read-only, insertion-ordered snapshot of student records
// built once at start. It is safe for concurrent readers because nothing
// writes to it after NewRoster returns.
type Roster struct {
	records []StudentRecord
	byID    map[string]int
}

// NewRoster builds a snapshot from records, preserving their order.
func NewRoster(records []StudentRecord) (*Roster, error) {
	r := &Roster{
		records: make([]StudentRecord, 0, len(records)),
		byID:    make(map[string]int, len(records)),
	}
	for _, rec := range records {
		if _, dup := r.byID[rec.StudentID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateStudent, rec.StudentID)
		}
		r.byID[rec.StudentID] = len(r.records)
		r.records = append(r.records, rec.clone())
	}
	return r, nil
}

// Len reports the number of records in the roster.
func (r *Roster) Len() int {
	if r == nil {
		return 0
	}
	return len(r.records)
}

// Range calls fn for each record in insertion order until fn returns
// false. fn must not modify the record's Marks map.
func (r *Roster) Range(fn func(StudentRecord) bool) {
	if r == nil {
		return
	}
	for _, rec := range r.records {
		if !fn(rec) {
			return
		}
	}
}

// Get looks a record up by student_id. The returned record owns its Marks.
func (r *Roster) Get(id string) (StudentRecord, bool) {
	if r == nil {
		return StudentRecord{}, false
	}
	i, ok := r.byID[id]
	if !ok {
		return StudentRecord{}, false
	}
	return r.records[i].clone(), true
}

// Records returns a deep copy of every record in insertion order.
func (r *Roster) Records() []StudentRecord {
	out := make([]StudentRecord, 0, r.Len())
	r.Range(func(s StudentRecord) bool {
		out = append(out, s.clone())
		return true
	})
	return out
}

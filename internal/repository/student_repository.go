package repository

import (
	"context"
	"database/sql"
	"fmt"
	"maps"
	"slices"

	"github.com/iliyamo/student-threshold-api/internal/model"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS students (
		student_id VARCHAR(64)  NOT NULL PRIMARY KEY,
		position   INT          NOT NULL,
		name       VARCHAR(255) NOT NULL,
		UNIQUE KEY uq_students_position (position)
	)`,
	`CREATE TABLE IF NOT EXISTS student_marks (
		student_id VARCHAR(64) NOT NULL,
		subject    VARCHAR(64) NOT NULL,
		mark       INT         NOT NULL,
		PRIMARY KEY (student_id, subject),
		CONSTRAINT fk_marks_student FOREIGN KEY (student_id) REFERENCES students (student_id) ON DELETE CASCADE
	)`,
}

type StudentRepo struct{ DB *sql.DB }

func NewStudentRepo(db *sql.DB) *StudentRepo { return &StudentRepo{DB: db} }

// EnsureSchema creates the roster tables if they do not exist.
func (r *StudentRepo) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// ListAll loads every student in roster order with their marks. Totals
// are recomputed from the marks rows, not stored. An empty students table
// yields an empty, non-nil slice. A marks row with a subject outside
// model.Subjects or a mark outside the allowed range fails the whole load.
func (r *StudentRepo) ListAll(ctx context.Context) ([]model.StudentRecord, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT student_id, name FROM students ORDER BY position ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type head struct{ id, name string }
	var heads []head
	marks := map[string]map[string]int{}
	for rows.Next() {
		var h head
		if err := rows.Scan(&h.id, &h.name); err != nil {
			return nil, err
		}
		heads = append(heads, h)
		marks[h.id] = map[string]int{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(heads) == 0 {
		return []model.StudentRecord{}, nil
	}

	mrows, err := r.DB.QueryContext(ctx, "SELECT student_id, subject, mark FROM student_marks")
	if err != nil {
		return nil, err
	}
	defer mrows.Close()
	for mrows.Next() {
		var id, subject string
		var mark int
		if err := mrows.Scan(&id, &subject, &mark); err != nil {
			return nil, err
		}
		m, ok := marks[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownStudent, id)
		}
		if err := model.ValidateMark(subject, mark); err != nil {
			return nil, fmt.Errorf("student %s: %w", id, err)
		}
		m[subject] = mark
	}
	if err := mrows.Err(); err != nil {
		return nil, err
	}

	out := make([]model.StudentRecord, 0, len(heads))
	for _, h := range heads {
		out = append(out, model.NewStudentRecord(h.id, h.name, marks[h.id]))
	}
	return out, nil
}

// ReplaceAll swaps the stored roster for records in one transaction.
func (r *StudentRepo) ReplaceAll(ctx context.Context, records []model.StudentRecord) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM student_marks"); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM students"); err != nil {
		return err
	}
	for i, rec := range records {
		if _, err = tx.ExecContext(ctx,
			"INSERT INTO students (student_id, position, name) VALUES (?,?,?)",
			rec.StudentID, i, rec.Name); err != nil {
			return fmt.Errorf("insert student %s: %w", rec.StudentID, err)
		}
		for _, subject := range slices.Sorted(maps.Keys(rec.Marks)) {
			mark := rec.Marks[subject]
			if _, err = tx.ExecContext(ctx,
				"INSERT INTO student_marks (student_id, subject, mark) VALUES (?,?,?)",
				rec.StudentID, subject, mark); err != nil {
				return fmt.Errorf("insert marks %s/%s: %w", rec.StudentID, subject, err)
			}
		}
	}
	return tx.Commit()
}

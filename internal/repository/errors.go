// Package repository persists the roster in MySQL. The server reads it once
// at startup when ROSTER_SOURCE=mysql; rosterctl writes it.
package repository

import "errors"

// ErrUnknownStudent is returned when a marks row references a student that
// is not in the students table.
var ErrUnknownStudent = errors.New("marks reference unknown student")

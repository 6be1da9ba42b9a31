// Package roster materializes the student roster once at startup from one
// of the configured sources: a synthetic generator, a spreadsheet or MySQL.
package roster

import (
	"math/rand/v2"
	"strconv"

	"github.com/iliyamo/student-threshold-api/internal/model"
)

// Generate builds size synthetic students named "Student N" with ids
// "1".."size" and a mark in [model.MinMark, model.MaxMark] per subject.
// A zero seed draws a random one, so two calls differ.
func Generate(size int, seed int64) []model.StudentRecord {
	var rng *rand.Rand
	if seed == 0 {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	} else {
		rng = rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	}

	out := make([]model.StudentRecord, 0, max(size, 0))
	for i := 1; i <= size; i++ {
		marks := make(map[string]int, len(model.Subjects))
		for _, subject := range model.Subjects {
			marks[subject] = model.MinMark + rng.IntN(model.MaxMark-model.MinMark+1)
		}
		id := strconv.Itoa(i)
		out = append(out, model.NewStudentRecord(id, "Student "+id, marks))
	}
	return out
}

package roster

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/student-threshold-api/internal/config"
	"github.com/iliyamo/student-threshold-api/internal/model"
)

type fakeLister struct {
	records []model.StudentRecord
	err     error
}

func (f fakeLister) ListAll(context.Context) ([]model.StudentRecord, error) { return f.records, f.err }

func TestLoad_Generated(t *testing.T) {
	r, err := Load(context.Background(), config.Config{RosterSource: config.SourceGenerated, RosterSize: 100, RosterSeed: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, 100, r.Len())
}

func TestLoad_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.xlsx")
	require.NoError(t, WriteXLSX(path, Generate(5, 3)))

	r, err := Load(context.Background(), config.Config{RosterSource: config.SourceXLSX, RosterFile: path}, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, r.Len())

	_, err = Load(context.Background(), config.Config{RosterSource: config.SourceXLSX, RosterFile: filepath.Join(t.TempDir(), "missing.xlsx")}, nil)
	assert.Error(t, err)
}

func TestLoad_MySQL(t *testing.T) {
	cfg := config.Config{RosterSource: config.SourceMySQL}
	r, err := Load(context.Background(), cfg, fakeLister{records: Generate(3, 5)})
	require.NoError(t, err)
	assert.Equal(t, 3, r.Len())

	boom := errors.New("boom")
	_, err = Load(context.Background(), cfg, fakeLister{err: boom})
	assert.ErrorIs(t, err, boom)

	_, err = Load(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestLoad_DuplicateIDs(t *testing.T) {
	dup := []model.StudentRecord{model.NewStudentRecord("1", "A", nil), model.NewStudentRecord("1", "B", nil)}
	_, err := Load(context.Background(), config.Config{RosterSource: config.SourceMySQL}, fakeLister{records: dup})
	assert.ErrorIs(t, err, model.ErrDuplicateStudent)
}

package roster

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/iliyamo/student-threshold-api/internal/config"
	"github.com/iliyamo/student-threshold-api/internal/model"
)

// Lister is the slice of repository.StudentRepo the mysql source needs.
type Lister interface {
	ListAll(ctx context.Context) ([]model.StudentRecord, error)
}

// Load builds the roster snapshot from cfg.RosterSource. db is only used
// for the mysql source and may be nil otherwise.
func Load(ctx context.Context, cfg config.Config, db Lister) (*model.Roster, error) {
	var (
		records []model.StudentRecord
		err     error
	)
	switch cfg.RosterSource {
	case config.SourceGenerated:
		records = Generate(cfg.RosterSize, cfg.RosterSeed)
	case config.SourceXLSX:
		records, err = readFile(cfg.RosterFile)
	case config.SourceMySQL:
		if db == nil {
			return nil, fmt.Errorf("roster: mysql source without a database")
		}
		records, err = db.ListAll(ctx)
	default:
		return nil, fmt.Errorf("roster: unknown source %q", cfg.RosterSource)
	}
	if err != nil {
		return nil, fmt.Errorf("roster: load %s: %w", cfg.RosterSource, err)
	}

	r, err := model.NewRoster(records)
	if err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}
	log.Printf("roster: loaded %d students from %s", r.Len(), cfg.RosterSource)
	return r, nil
}

func readFile(path string) ([]model.StudentRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadXLSX(f)
}

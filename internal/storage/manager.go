package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"go-leadscout/internal/models"
)

// PersistResult reports each sink's outcome independently; a failed CSV
// write says nothing about the database and vice versa.
type PersistResult struct {
	Written int
	Updated int
	CSVErr  error
	DBErr   error
}

// Errors flattens the per-sink failures for the run summary.
func (r PersistResult) Errors() []error {
	var errs []error
	if r.DBErr != nil {
		errs = append(errs, r.DBErr)
	}
	if r.CSVErr != nil {
		errs = append(errs, r.CSVErr)
	}
	return errs
}

// Manager is the dual-sink persistence layer: keyed SQLite store plus a
// CSV snapshot, both fed the same ranked batch.
type Manager struct {
	store   *Store
	csvPath string
	log     zerolog.Logger
}

func NewManager(store *Store, csvPath string, log zerolog.Logger) *Manager {
	return &Manager{store: store, csvPath: csvPath, log: log}
}

// Store exposes the structured store for lookups (seen keys, top posts).
func (m *Manager) Store() *Store {
	return m.store
}

// UpsertAll writes the ranked batch to both sinks. Database upserts are
// per-post, so one bad row does not poison the rest; the CSV snapshot is
// written regardless of how the database side went.
func (m *Manager) UpsertAll(ctx context.Context, posts []*models.Post) PersistResult {
	var result PersistResult

	var dbErrs []error
	for _, post := range posts {
		if ctx.Err() != nil {
			dbErrs = append(dbErrs, fmt.Errorf("upsert aborted: %w", ctx.Err()))
			break
		}
		updated, err := m.store.Upsert(ctx, post)
		if err != nil {
			dbErrs = append(dbErrs, err)
			continue
		}
		if updated {
			result.Updated++
		} else {
			result.Written++
		}
	}
	result.DBErr = errors.Join(dbErrs...)

	if err := WriteCSVSnapshot(m.csvPath, posts); err != nil {
		result.CSVErr = err
	}

	m.log.Info().
		Int("written", result.Written).
		Int("updated", result.Updated).
		Bool("csv_ok", result.CSVErr == nil).
		Bool("db_ok", result.DBErr == nil).
		Msg("💾 batch persisted")

	return result
}

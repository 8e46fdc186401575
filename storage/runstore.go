// Package storage archives generational experiment results in SQLite, so
// runs can be compared and best genomes recovered after the process exits.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/pthm-cable/polyp/organism"
)

// RunStore persists runs and per-generation summaries.
type RunStore struct {
	db *sql.DB
}

// RunMeta describes one generational experiment.
type RunMeta struct {
	ID         string
	Seed       int64
	Population int
	Elites     int
	EpisodeSec float64
	ConfigYAML string
	CreatedAt  time.Time
}

// GenerationRecord is one generation's summary.
type GenerationRecord struct {
	Generation  int
	BestFitness float64
	MeanFitness float64
	StdFitness  float64
	BestGenome  *organism.Genome
}

// Open opens (creating if needed) a run store at the given path.
func Open(ctx context.Context, path string) (*RunStore, error) {
	if path == "" {
		return nil, errors.New("storage: sqlite path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &RunStore{db: db}, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id          TEXT PRIMARY KEY,
			created_at  TEXT NOT NULL,
			seed        INTEGER NOT NULL,
			population  INTEGER NOT NULL,
			elites      INTEGER NOT NULL,
			episode_sec REAL NOT NULL,
			config_yaml TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS generations (
			run_id       TEXT NOT NULL REFERENCES runs(id),
			generation   INTEGER NOT NULL,
			best_fitness REAL NOT NULL,
			mean_fitness REAL NOT NULL,
			std_fitness  REAL NOT NULL,
			best_genome  TEXT NOT NULL,
			PRIMARY KEY (run_id, generation)
		);
	`)
	return err
}

// CreateRun registers a new run and returns its id.
func (s *RunStore) CreateRun(ctx context.Context, meta RunMeta) (string, error) {
	id := meta.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := meta.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, seed, population, elites, episode_sec, config_yaml)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, createdAt.Format(time.RFC3339), meta.Seed, meta.Population, meta.Elites, meta.EpisodeSec, meta.ConfigYAML)
	if err != nil {
		return "", fmt.Errorf("storage: insert run: %w", err)
	}
	return id, nil
}

// RecordGeneration stores one generation's summary and its best genome.
func (s *RunStore) RecordGeneration(ctx context.Context, runID string, rec GenerationRecord) error {
	payload, err := json.Marshal(rec.BestGenome)
	if err != nil {
		return fmt.Errorf("storage: encode genome: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO generations (run_id, generation, best_fitness, mean_fitness, std_fitness, best_genome)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, generation) DO UPDATE SET
			best_fitness = excluded.best_fitness,
			mean_fitness = excluded.mean_fitness,
			std_fitness = excluded.std_fitness,
			best_genome = excluded.best_genome
	`, runID, rec.Generation, rec.BestFitness, rec.MeanFitness, rec.StdFitness, payload)
	if err != nil {
		return fmt.Errorf("storage: insert generation: %w", err)
	}
	return nil
}

// BestGenome returns the stored best genome for a generation.
func (s *RunStore) BestGenome(ctx context.Context, runID string, generation int) (*organism.Genome, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT best_genome FROM generations WHERE run_id = ? AND generation = ?`,
		runID, generation).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	g := &organism.Genome{}
	if err := json.Unmarshal(payload, g); err != nil {
		return nil, false, fmt.Errorf("storage: decode genome: %w", err)
	}
	return g, true, nil
}

// Generations returns all generation records for a run, in order.
func (s *RunStore) Generations(ctx context.Context, runID string) ([]GenerationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT generation, best_fitness, mean_fitness, std_fitness, best_genome
		FROM generations WHERE run_id = ? ORDER BY generation
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GenerationRecord
	for rows.Next() {
		var rec GenerationRecord
		var payload []byte
		if err := rows.Scan(&rec.Generation, &rec.BestFitness, &rec.MeanFitness, &rec.StdFitness, &payload); err != nil {
			return nil, err
		}
		rec.BestGenome = &organism.Genome{}
		if err := json.Unmarshal(payload, rec.BestGenome); err != nil {
			return nil, fmt.Errorf("storage: decode genome: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *RunStore) Close() error {
	return s.db.Close()
}

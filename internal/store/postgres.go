package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	_ "embed"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultTimeout = 5 * time.Second

//go:embed schema.sql
var schemaSQL string

const selectColumns = `id, resume_id, job_id, match_score, matched_skills, missing_skills, source, created_at, updated_at`

// Postgres stores records in the match_results table.
type Postgres struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// Connect opens a pool, verifies it and creates the table when missing.
// Every query runs under timeout.
func Connect(ctx context.Context, databaseURL string, timeout time.Duration) (*Postgres, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	p := &Postgres{pool: pool, timeout: timeout}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := p.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return p, nil
}

func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

func (p *Postgres) migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if _, err := p.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create match_results table: %w", err)
	}
	return nil
}

func (p *Postgres) Find(ctx context.Context, resumeID, jobID string) (*Record, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	row := p.pool.QueryRow(ctx,
		`SELECT `+selectColumns+` FROM match_results WHERE resume_id = $1 AND job_id = $2`,
		resumeID, jobID,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find match record: %w", err)
	}
	return rec, nil
}

func (p *Postgres) Create(ctx context.Context, rec *Record) (*Record, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	id := rec.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := p.pool.QueryRow(ctx,
		`INSERT INTO match_results (id, resume_id, job_id, match_score, matched_skills, missing_skills, source)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (resume_id, job_id) DO UPDATE SET
		   match_score = EXCLUDED.match_score,
		   matched_skills = EXCLUDED.matched_skills,
		   missing_skills = EXCLUDED.missing_skills,
		   source = EXCLUDED.source,
		   updated_at = NOW()
		 RETURNING `+selectColumns,
		id, rec.ResumeID, rec.JobID, rec.MatchScore, nonNil(rec.MatchedSkills), nonNil(rec.MissingSkills), rec.Source,
	)
	created, err := scanRecord(row)
	if err != nil {
		return nil, fmt.Errorf("create match record: %w", err)
	}
	return created, nil
}

func (p *Postgres) Update(ctx context.Context, rec *Record) (*Record, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	row := p.pool.QueryRow(ctx,
		`UPDATE match_results
		 SET match_score = $2, matched_skills = $3, missing_skills = $4, source = $5, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+selectColumns,
		rec.ID, rec.MatchScore, nonNil(rec.MatchedSkills), nonNil(rec.MissingSkills), rec.Source,
	)
	updated, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update match record: %w", err)
	}
	return updated, nil
}

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	if err := row.Scan(
		&rec.ID,
		&rec.ResumeID,
		&rec.JobID,
		&rec.MatchScore,
		&rec.MatchedSkills,
		&rec.MissingSkills,
		&rec.Source,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &rec, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

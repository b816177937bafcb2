package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/domain/model"
	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SubmissionStore = (*SubmissionRepo)(nil)

// SubmissionRepo is the SQLite implementation of the SubmissionStore port.
// Records are append-only; seq preserves insertion order.
type SubmissionRepo struct {
	db *DB
}

// NewSubmissionRepo creates a new SubmissionRepo backed by the given DB.
func NewSubmissionRepo(db *DB) *SubmissionRepo {
	return &SubmissionRepo{db: db}
}

// Add appends a submission. A zero Timestamp is stored as NULL.
func (r *SubmissionRepo) Add(ctx context.Context, sub model.Submission) error {
	const query = `
		INSERT INTO submissions (id, rating, review, user_reply, ai_summary, ai_actions, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	var createdAt sql.NullString
	if !sub.Timestamp.IsZero() {
		createdAt = sql.NullString{String: sub.Timestamp.UTC().Format(time.RFC3339Nano), Valid: true}
	}

	_, err := r.db.Writer.ExecContext(ctx, query,
		sub.ID,
		sub.Rating,
		sub.Review,
		sub.UserReply,
		sub.AISummary,
		sub.AIActions,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("add submission %s: %w", sub.ID, err)
	}
	return nil
}

// ListAll returns every submission in insertion order.
func (r *SubmissionRepo) ListAll(ctx context.Context) ([]model.Submission, error) {
	const query = `
		SELECT id, rating, review, user_reply, ai_summary, ai_actions, created_at
		FROM submissions
		ORDER BY seq ASC`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	subs := []model.Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return subs, nil
}

// Count returns the number of stored submissions.
func (r *SubmissionRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.Reader.QueryRowContext(ctx, `SELECT COUNT(*) FROM submissions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubmission(s scanner) (*model.Submission, error) {
	var sub model.Submission
	var createdAt sql.NullString

	if err := s.Scan(
		&sub.ID,
		&sub.Rating,
		&sub.Review,
		&sub.UserReply,
		&sub.AISummary,
		&sub.AIActions,
		&createdAt,
	); err != nil {
		return nil, fmt.Errorf("scan submission: %w", err)
	}

	if createdAt.Valid && createdAt.String != "" {
		ts, err := parseTime(createdAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse created_at for submission %s: %w", sub.ID, err)
		}
		sub.Timestamp = ts
	}

	return &sub, nil
}

// parseTime tries the layouts SQLite and earlier writers have produced.
// Layouts without a zone are read as UTC.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999",
		"2006-01-02 15:04:05.999999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}

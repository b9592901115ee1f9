package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// InsertIssue persists a new issue and returns the store-assigned id and
// creation timestamp. The id is generated by the database and never reused.
func (s *PostgresStore) InsertIssue(ctx context.Context, issue Issue) (int64, time.Time, error) {
	const insertIssue = `
		INSERT INTO issues (name, contact, area, city, issue_type, description, image_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	var (
		id        int64
		createdAt time.Time
	)
	err := s.db.QueryRowContext(ctx, insertIssue,
		issue.Name, issue.Contact, issue.Area, issue.City,
		issue.IssueType, issue.Description, issue.ImagePath,
	).Scan(&id, &createdAt)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("insert issue: %w", err)
	}
	return id, createdAt, nil
}

// GetIssue returns the stored issue. sql.ErrNoRows passes through unwrapped
// so callers can map it to a not-found response.
func (s *PostgresStore) GetIssue(ctx context.Context, id int64) (Issue, error) {
	const query = `
		SELECT id, name, contact, area, city, issue_type, description, image_path, created_at
		FROM issues
		WHERE id = $1
	`
	var issue Issue
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&issue.ID, &issue.Name, &issue.Contact, &issue.Area, &issue.City,
		&issue.IssueType, &issue.Description, &issue.ImagePath, &issue.CreatedAt,
	)
	if err != nil {
		return Issue{}, err
	}
	return issue, nil
}

func (s *PostgresStore) ListIssues(ctx context.Context) ([]Issue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, contact, area, city, issue_type, description, image_path, created_at
		FROM issues
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	defer rows.Close()

	items := make([]Issue, 0)
	for rows.Next() {
		var issue Issue
		if err := rows.Scan(
			&issue.ID, &issue.Name, &issue.Contact, &issue.Area, &issue.City,
			&issue.IssueType, &issue.Description, &issue.ImagePath, &issue.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan issue: %w", err)
		}
		items = append(items, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate issues: %w", err)
	}
	return items, nil
}

// SearchIssues is the SQL fallback behind the admin listing's query
// parameter when Meilisearch is not available.
func (s *PostgresStore) SearchIssues(ctx context.Context, query string) ([]Issue, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, contact, area, city, issue_type, description, image_path, created_at
		FROM issues
		WHERE name ILIKE $1 OR area ILIKE $1 OR city ILIKE $1 OR description ILIKE $1
		ORDER BY created_at DESC, id DESC
	`, pattern)
	if err != nil {
		return nil, fmt.Errorf("search issues: %w", err)
	}
	defer rows.Close()

	items := make([]Issue, 0)
	for rows.Next() {
		var issue Issue
		if err := rows.Scan(
			&issue.ID, &issue.Name, &issue.Contact, &issue.Area, &issue.City,
			&issue.IssueType, &issue.Description, &issue.ImagePath, &issue.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan issue: %w", err)
		}
		items = append(items, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate issues: %w", err)
	}
	return items, nil
}

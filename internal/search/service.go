// Package search provides the optional full-text lookup behind the admin
// issue listing: Meilisearch when available, SQL pattern matching otherwise.
package search

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"civicdesk/api/internal/store"
)

// Store is the subset of the issue store the search facade needs.
type Store interface {
	GetIssue(ctx context.Context, id int64) (store.Issue, error)
	SearchIssues(ctx context.Context, query string) ([]store.Issue, error)
}

// Service is the facade that tries Meilisearch first and falls back to SQL.
type Service struct {
	meili *Meili
	store Store
}

// NewService creates a search service. meili may be nil if Meilisearch is
// not configured.
func NewService(meili *Meili, st Store) *Service {
	return &Service{meili: meili, store: st}
}

// Search returns issues matching the query. Index hits are re-read from the
// store so the returned records are always authoritative.
func (s *Service) Search(ctx context.Context, query string) ([]store.Issue, error) {
	if s.meili != nil && s.meili.Healthy() {
		ids, err := s.meili.SearchIssues(query, 50)
		if err == nil {
			issues := make([]store.Issue, 0, len(ids))
			for _, id := range ids {
				issue, err := s.store.GetIssue(ctx, id)
				if errors.Is(err, sql.ErrNoRows) {
					// Index lag; the record was never committed.
					continue
				}
				if err != nil {
					return nil, err
				}
				issues = append(issues, issue)
			}
			return issues, nil
		}
		log.Printf("search: meilisearch error, falling back to sql: %v", err)
	}

	return s.store.SearchIssues(ctx, query)
}

// IndexIssue pushes an issue into the index (fire-and-forget).
func (s *Service) IndexIssue(issue store.Issue) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		rec := IssueRecord{
			ID:          issue.ID,
			Name:        issue.Name,
			Area:        issue.Area,
			City:        issue.City,
			IssueType:   issue.IssueType,
			Description: issue.Description,
		}
		if err := s.meili.IndexIssue(rec); err != nil {
			log.Printf("search: index issue %d: %v", issue.ID, err)
		}
	}()
}

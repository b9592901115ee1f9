package search

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"civicdesk/api/internal/store"
)

type fakeStore struct {
	issues []store.Issue
}

func (f *fakeStore) GetIssue(ctx context.Context, id int64) (store.Issue, error) {
	for _, issue := range f.issues {
		if issue.ID == id {
			return issue, nil
		}
	}
	return store.Issue{}, sql.ErrNoRows
}

func (f *fakeStore) SearchIssues(ctx context.Context, query string) ([]store.Issue, error) {
	var out []store.Issue
	for _, issue := range f.issues {
		if strings.Contains(strings.ToLower(issue.Description), strings.ToLower(query)) {
			out = append(out, issue)
		}
	}
	return out, nil
}

func TestSearchFallsBackToSQLWithoutMeili(t *testing.T) {
	st := &fakeStore{issues: []store.Issue{
		{ID: 1, Description: "Pothole on main road"},
		{ID: 2, Description: "Streetlight broken"},
	}}
	svc := NewService(nil, st)

	results, err := svc.Search(context.Background(), "pothole")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != 1 {
		t.Errorf("unexpected results %+v", results)
	}
}

func TestIndexIssueWithoutMeiliIsNoOp(t *testing.T) {
	svc := NewService(nil, &fakeStore{})
	// Must not panic or block.
	svc.IndexIssue(store.Issue{ID: 1})
}

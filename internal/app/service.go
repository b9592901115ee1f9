package app

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"civicdesk/api/internal/artifact"
	"civicdesk/api/internal/blob"
	"civicdesk/api/internal/config"
	"civicdesk/api/internal/draft"
	"civicdesk/api/internal/indicator"
	"civicdesk/api/internal/observability"
	"civicdesk/api/internal/portal"
	"civicdesk/api/internal/store"
)

type issueStore interface {
	InsertIssue(context.Context, store.Issue) (int64, time.Time, error)
	GetIssue(context.Context, int64) (store.Issue, error)
	ListIssues(context.Context) ([]store.Issue, error)
	Ping(context.Context) error
}

type artifactRenderer interface {
	Render(ctx context.Context, id int64) (*artifact.Result, error)
}

type issueSearcher interface {
	Search(ctx context.Context, query string) ([]store.Issue, error)
	IndexIssue(issue store.Issue)
}

type indicatorFeed interface {
	Snapshot(ctx context.Context) indicator.Snapshot
}

// SubmitInput carries one submission through intake. Image is mandatory;
// Contact and IssueType are optional and default to the empty string.
type SubmitInput struct {
	Name        string
	Contact     string
	Area        string
	City        string
	IssueType   string
	Description string

	Image            io.Reader
	ImageFilename    string
	ImageContentType string
	ImageSize        int64
}

// SubmitResult is the submission response: always all three fields, even
// when the portal resolved to the default.
type SubmitResult struct {
	ID        int64  `json:"id"`
	DraftText string `json:"draftText"`
	PortalURL string `json:"portalUrl"`
}

type Service struct {
	cfg        config.Config
	issues     issueStore
	blobs      blob.Store
	portals    *portal.Directory
	renderer   artifactRenderer
	search     issueSearcher
	indicators indicatorFeed
	metrics    *observability.Metrics
}

func New(cfg config.Config, issues issueStore, blobs blob.Store, portals *portal.Directory, renderer artifactRenderer, search issueSearcher, indicators indicatorFeed, metrics *observability.Metrics) *Service {
	return &Service{
		cfg:        cfg,
		issues:     issues,
		blobs:      blobs,
		portals:    portals,
		renderer:   renderer,
		search:     search,
		indicators: indicators,
		metrics:    metrics,
	}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.issues.Ping(ctx)
}

// SubmitIssue runs one submission through intake, persistence, and response
// composition. Nothing is persisted when intake fails.
func (s *Service) SubmitIssue(ctx context.Context, input SubmitInput) (SubmitResult, error) {
	if err := validateSubmission(input); err != nil {
		s.metrics.ValidationFailures.Inc()
		return SubmitResult{}, err
	}

	imageName := blob.NewName(input.ImageFilename, time.Now())
	if err := s.blobs.Save(ctx, imageName, input.ImageContentType, input.Image, input.ImageSize); err != nil {
		log.Printf("submit: store attachment: %v", err)
		s.metrics.PersistenceErrors.Inc()
		return SubmitResult{}, persistenceError("Failed to store attachment")
	}

	id, createdAt, err := s.issues.InsertIssue(ctx, store.Issue{
		Name:        input.Name,
		Contact:     input.Contact,
		Area:        input.Area,
		City:        input.City,
		IssueType:   input.IssueType,
		Description: input.Description,
		ImagePath:   imageName,
	})
	if err != nil {
		log.Printf("submit: insert issue: %v", err)
		s.metrics.PersistenceErrors.Inc()
		// The attachment write and row insert are not transactional; roll
		// the attachment back best-effort so a failed insert does not leave
		// an orphaned file.
		if removeErr := s.blobs.Remove(ctx, imageName); removeErr != nil {
			log.Printf("submit: rollback attachment %s: %v", imageName, removeErr)
		}
		return SubmitResult{}, persistenceError("Failed to save issue")
	}

	issue := store.Issue{
		ID:          id,
		Name:        input.Name,
		Contact:     input.Contact,
		Area:        input.Area,
		City:        input.City,
		IssueType:   input.IssueType,
		Description: input.Description,
		ImagePath:   imageName,
		CreatedAt:   createdAt,
	}

	if s.search != nil {
		s.search.IndexIssue(issue)
	}
	s.metrics.IssuesSubmitted.Inc()

	return SubmitResult{
		ID:        id,
		DraftText: draft.Compose(issue, s.cfg.PublicBaseURL),
		PortalURL: s.portals.Resolve(issue.City),
	}, nil
}

func validateSubmission(input SubmitInput) error {
	required := []struct {
		field string
		value string
	}{
		{"name", input.Name},
		{"area", input.Area},
		{"city", input.City},
		{"description", input.Description},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return validationError(r.field + " is required")
		}
	}
	if input.Image == nil {
		return validationError("Image required")
	}
	return nil
}

// GetArtifact re-renders the complaint PDF for an issue.
func (s *Service) GetArtifact(ctx context.Context, id int64) (*artifact.Result, error) {
	result, err := s.renderer.Render(ctx, id)
	switch {
	case err == nil:
		s.metrics.ArtifactRenders.WithLabelValues("success").Inc()
	case errors.Is(err, sql.ErrNoRows):
		s.metrics.ArtifactRenders.WithLabelValues("not_found").Inc()
	default:
		s.metrics.ArtifactRenders.WithLabelValues("error").Inc()
	}
	return result, err
}

// ListIssues returns all issues newest first, or a search-filtered subset
// when query is non-blank.
func (s *Service) ListIssues(ctx context.Context, query string) ([]store.Issue, error) {
	if strings.TrimSpace(query) != "" && s.search != nil {
		return s.search.Search(ctx, query)
	}
	return s.issues.ListIssues(ctx)
}

// OpenAttachment streams a stored image for the /uploads/ route. The content
// type is derived from the stored name's extension.
func (s *Service) OpenAttachment(ctx context.Context, name string) (io.ReadCloser, string, error) {
	rc, err := s.blobs.Open(ctx, name)
	if err != nil {
		return nil, "", err
	}
	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return rc, contentType, nil
}

// Indicators returns the current indicator snapshot for the landing page.
func (s *Service) Indicators(ctx context.Context) indicator.Snapshot {
	return s.indicators.Snapshot(ctx)
}

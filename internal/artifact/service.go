package artifact

import (
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"log"
	"mime"
	"path/filepath"
	"strings"

	"civicdesk/api/internal/blob"
	"civicdesk/api/internal/store"
)

// IssueSource defines the data access the renderer needs.
type IssueSource interface {
	GetIssue(ctx context.Context, id int64) (store.Issue, error)
}

// Service renders issues into PDF documents. Nothing is cached: every
// request re-renders from the stored record.
type Service struct {
	issues IssueSource
	blobs  blob.Store
}

func NewService(issues IssueSource, blobs blob.Store) *Service {
	return &Service{issues: issues, blobs: blobs}
}

// Render produces the complaint PDF for an issue. A missing or unreadable
// image degrades to a document without the evidence page; an unknown id is
// reported through the store's not-found error.
func (s *Service) Render(ctx context.Context, id int64) (*Result, error) {
	issue, err := s.issues.GetIssue(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get issue: %w", err)
	}

	subject := issue.IssueType
	if strings.TrimSpace(subject) == "" {
		subject = "Local Issue"
	}

	data := TemplateData{
		Subject:      fmt.Sprintf("%s - %s, %s", subject, issue.Area, issue.City),
		Name:         issue.Name,
		Contact:      issue.Contact,
		CreatedAt:    issue.CreatedAt,
		Description:  issue.Description,
		ImageDataURL: s.imageDataURL(ctx, issue.ImagePath),
	}

	html, err := RenderComplaintHTML(data)
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	pdfData, err := printPDF(html)
	if err != nil {
		return nil, err
	}

	return &Result{
		Data:     pdfData,
		Filename: fmt.Sprintf("complaint_%d.pdf", id),
		MimeType: "application/pdf",
	}, nil
}

// imageDataURL loads the attached image and embeds it as a base64 data URL.
// A missing image is expected (manual cleanup, retention) and degrades
// silently; any other failure is logged. Either way the document is still
// produced without the evidence page.
func (s *Service) imageDataURL(ctx context.Context, name string) template.URL {
	if name == "" {
		return ""
	}
	exists, err := s.blobs.Exists(ctx, name)
	if err != nil {
		log.Printf("artifact: stat image %s: %v", name, err)
		return ""
	}
	if !exists {
		return ""
	}
	rc, err := s.blobs.Open(ctx, name)
	if err != nil {
		log.Printf("artifact: open image %s: %v", name, err)
		return ""
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		log.Printf("artifact: read image %s: %v", name, err)
		return ""
	}

	mimeType := mime.TypeByExtension(filepath.Ext(name))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return template.URL("data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(raw))
}

package app

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"civicdesk/api/internal/artifact"
	"civicdesk/api/internal/blob"
)

// maxSubmissionBytes bounds the multipart form, image included.
const maxSubmissionBytes = 32 << 20

type HTTPServer struct {
	service        *Service
	corsOrigin     string
	metricsHandler http.Handler
}

func NewHTTPServer(service *Service, corsOrigin string) *HTTPServer {
	return &HTTPServer{
		service:        service,
		corsOrigin:     corsOrigin,
		metricsHandler: promhttp.Handler(),
	}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.withMiddleware(http.HandlerFunc(s.handle))
}

func (s *HTTPServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		writeJSON(w, http.StatusNoContent, map[string]any{})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/health" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/ready" {
		// Check database connectivity
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := "ready"
		statusCode := http.StatusOK
		checks := map[string]any{
			"database": map[string]any{"status": "ok"},
		}

		if err := s.service.Ping(ctx); err != nil {
			status = "not_ready"
			statusCode = http.StatusServiceUnavailable
			checks["database"] = map[string]any{
				"status": "error",
				"error":  err.Error(),
			}
		}

		writeJSON(w, statusCode, map[string]any{
			"ok":     status == "ready",
			"status": status,
			"checks": checks,
		})
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/metrics" {
		s.metricsHandler.ServeHTTP(w, r)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/indicators" {
		writeJSON(w, http.StatusOK, s.service.Indicators(r.Context()))
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/submit-issue" {
		s.handleSubmitIssue(w, r)
		return
	}

	parts := splitPath(r.URL.Path)

	if r.Method == http.MethodGet && len(parts) == 3 && parts[0] == "api" && parts[1] == "issue-pdf" {
		s.handleIssuePDF(w, r, parts[2])
		return
	}

	if r.Method == http.MethodGet && len(parts) == 2 && parts[0] == "admin" && parts[1] == "issues" {
		// Unauthenticated by design; gate behind access control before any
		// real deployment.
		issues, err := s.service.ListIssues(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			log.Printf("list issues: %v", err)
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, issues)
		return
	}

	if r.Method == http.MethodGet && len(parts) == 2 && parts[0] == "uploads" {
		s.handleAttachment(w, r, parts[1])
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handleSubmitIssue(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSubmissionBytes)
	if err := r.ParseMultipartForm(maxSubmissionBytes); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid multipart form", nil)
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	input := SubmitInput{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Contact:     strings.TrimSpace(r.FormValue("contact")),
		Area:        strings.TrimSpace(r.FormValue("area")),
		City:        strings.TrimSpace(r.FormValue("city")),
		IssueType:   strings.TrimSpace(r.FormValue("issueType")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}

	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		input.Image = file
		input.ImageFilename = header.Filename
		input.ImageContentType = header.Header.Get("Content-Type")
		input.ImageSize = header.Size
	} else if !errors.Is(err, http.ErrMissingFile) {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid image attachment", nil)
		return
	}

	result, err := s.service.SubmitIssue(r.Context(), input)
	if err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) handleIssuePDF(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
		return
	}

	result, err := s.service.GetArtifact(r.Context(), id)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("render artifact %d: %v", id, err)
		}
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}

	w.Header().Set("Content-Type", result.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", result.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}

func (s *HTTPServer) handleAttachment(w http.ResponseWriter, r *http.Request, name string) {
	rc, contentType, err := s.service.OpenAttachment(r.Context(), name)
	if err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		log.Printf("stream attachment %s: %v", name, err)
	}
}

func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = randomRequestID()
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		started := time.Now()
		writer := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		setCORSHeaders(writer.Header(), s.corsOrigin)
		writer.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(writer, r)

		log.Printf(`{"request_id":"%s","method":"%s","path":"%s","status":%d,"duration_ms":%d}`,
			requestID,
			r.Method,
			r.URL.Path,
			writer.status,
			time.Since(started).Milliseconds(),
		)
	})
}

type requestIDKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func randomRequestID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func setCORSHeaders(header http.Header, corsOrigin string) {
	header.Set("Access-Control-Allow-Origin", corsOrigin)
	header.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
	header.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
	header.Set("Cache-Control", "no-store")
	header.Set("Content-Type", "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	response := map[string]any{
		"code":  code,
		"error": message,
	}
	if details != nil {
		response["details"] = details
	}
	writeJSON(w, status, response)
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func mapError(err error) (status int, code, message string, details any) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Details
	}
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, blob.ErrNotExist) {
		return http.StatusNotFound, "NOT_FOUND", "Not found", nil
	}
	if errors.Is(err, artifact.ErrPDFDependencyMissing) {
		return http.StatusServiceUnavailable, "PDF_UNAVAILABLE", "PDF rendering unavailable", nil
	}
	return http.StatusInternalServerError, "SERVER_ERROR", "Server error", nil
}

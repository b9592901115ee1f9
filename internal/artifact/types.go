// Package artifact renders a stored issue into a downloadable PDF document.
package artifact

import "errors"

// Result contains the rendered document.
type Result struct {
	Data     []byte
	Filename string
	MimeType string
}

// ErrPDFDependencyMissing indicates PDF rendering runtime dependencies are
// unavailable.
var ErrPDFDependencyMissing = errors.New("artifact pdf dependency missing")

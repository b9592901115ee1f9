package artifact

import (
	"bytes"
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var complaintTemplate *template.Template

func init() {
	funcMap := template.FuncMap{
		"formatDate": func(t time.Time, layout string) string {
			return t.Format(layout)
		},
	}

	templateContent, err := templateFS.ReadFile("templates/complaint.html")
	if err != nil {
		// Fallback to built-in template if file not found
		complaintTemplate = template.Must(template.New("complaint").Funcs(funcMap).Parse(fallbackTemplate))
		return
	}

	complaintTemplate = template.Must(template.New("complaint").Funcs(funcMap).Parse(string(templateContent)))
}

// TemplateData holds data for complaint template rendering.
type TemplateData struct {
	Subject     string
	Name        string
	Contact     string
	CreatedAt   time.Time
	Description string
	// ImageDataURL is a base64 data URL of the attached image, empty when
	// the image is not currently present in storage.
	ImageDataURL template.URL
}

// RenderComplaintHTML renders the complaint template with provided data.
func RenderComplaintHTML(data TemplateData) (string, error) {
	var buf bytes.Buffer
	if err := complaintTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// fallbackTemplate is used if the embedded template fails to load.
const fallbackTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Official Complaint Draft</title>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; max-width: 800px; margin: 2rem auto; }
    h1 { border-bottom: 2px solid #333; padding-bottom: 0.5rem; }
    .meta { color: #666; font-size: 0.9em; margin-bottom: 2rem; }
    .evidence { page-break-before: always; }
    .evidence img { max-width: 450px; max-height: 400px; display: block; margin: 1rem auto; }
  </style>
</head>
<body>
  <h1>Official Complaint Draft</h1>
  <p><strong>Subject:</strong> {{.Subject}}</p>
  <div class="meta">
    Submitted By: {{.Name}}{{if .Contact}} | Contact: {{.Contact}}{{end}} | Date: {{formatDate .CreatedAt "Jan 2, 2006 3:04:05 PM"}}
  </div>
  <h2>Description</h2>
  <p>{{.Description}}</p>
  {{if .ImageDataURL}}
  <div class="evidence">
    <h2>Attached Image (evidence)</h2>
    <img src="{{.ImageDataURL}}" alt="evidence">
  </div>
  {{end}}
</body>
</html>`

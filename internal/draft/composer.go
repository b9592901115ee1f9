// Package draft renders a stored issue into plain complaint text suitable
// for copy-paste submission to a grievance portal.
package draft

import (
	"fmt"
	"strings"

	"civicdesk/api/internal/store"
)

const dateLayout = "Jan 2, 2006 3:04:05 PM"

// Compose builds the draft complaint text for an issue. It is pure: the
// embedded date is the persisted creation timestamp, so two invocations for
// the same issue produce identical output. publicBaseURL is the externally
// visible origin the image URL is rooted at.
func Compose(issue store.Issue, publicBaseURL string) string {
	subject := issue.IssueType
	if strings.TrimSpace(subject) == "" {
		subject = "Local Issue"
	}
	contact := issue.Contact
	if strings.TrimSpace(contact) == "" {
		contact = "Not provided"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Subject: %s - %s, %s\n", subject, issue.Area, issue.City)
	fmt.Fprintf(&b, "Submitted By: %s\n", issue.Name)
	fmt.Fprintf(&b, "Contact: %s\n", contact)
	fmt.Fprintf(&b, "Date: %s\n", issue.CreatedAt.Format(dateLayout))
	b.WriteString("\nDescription:\n")
	b.WriteString(issue.Description)
	b.WriteString("\n\nAttached Image URL: ")
	b.WriteString(ImageURL(issue, publicBaseURL))
	return b.String()
}

// ImageURL returns the fully-qualified URL of the issue's stored image.
func ImageURL(issue store.Issue, publicBaseURL string) string {
	return strings.TrimRight(publicBaseURL, "/") + "/uploads/" + issue.ImagePath
}

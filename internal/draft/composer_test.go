package draft

import (
	"strings"
	"testing"
	"time"

	"civicdesk/api/internal/store"
)

func testIssue() store.Issue {
	return store.Issue{
		ID:          1,
		Name:        "Asha",
		Area:        "Andheri",
		City:        "Mumbai",
		Description: "Pothole on main road",
		ImagePath:   "1700000000000_abc.jpg",
		CreatedAt:   time.Date(2025, time.March, 14, 9, 26, 53, 0, time.UTC),
	}
}

func TestComposeContainsExpectedLines(t *testing.T) {
	text := Compose(testIssue(), "http://localhost:8787")

	for _, want := range []string{
		"Subject: Local Issue - Andheri, Mumbai",
		"Submitted By: Asha",
		"Contact: Not provided",
		"Date: Mar 14, 2025 9:26:53 AM",
		"Description:\nPothole on main road",
		"Attached Image URL: http://localhost:8787/uploads/1700000000000_abc.jpg",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("draft missing %q:\n%s", want, text)
		}
	}
}

func TestComposeUsesIssueTypeWhenSet(t *testing.T) {
	issue := testIssue()
	issue.IssueType = "Garbage"
	text := Compose(issue, "http://localhost:8787")
	if !strings.HasPrefix(text, "Subject: Garbage - Andheri, Mumbai\n") {
		t.Errorf("unexpected subject line:\n%s", text)
	}
}

func TestComposeUsesContactWhenSet(t *testing.T) {
	issue := testIssue()
	issue.Contact = "asha@example.com"
	text := Compose(issue, "http://localhost:8787")
	if !strings.Contains(text, "Contact: asha@example.com\n") {
		t.Errorf("expected contact line:\n%s", text)
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	issue := testIssue()
	first := Compose(issue, "http://localhost:8787")
	second := Compose(issue, "http://localhost:8787")
	if first != second {
		t.Error("two invocations produced different drafts")
	}
}

func TestImageURLHandlesTrailingSlash(t *testing.T) {
	issue := testIssue()
	with := ImageURL(issue, "http://localhost:8787/")
	without := ImageURL(issue, "http://localhost:8787")
	if with != without {
		t.Errorf("trailing slash changed the URL: %s vs %s", with, without)
	}
}

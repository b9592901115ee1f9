package store

import "time"

// Issue is a citizen-submitted complaint with one attached image.
// Rows are immutable after insert: there is no update or delete path.
type Issue struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Contact     string    `json:"contact"`
	Area        string    `json:"area"`
	City        string    `json:"city"`
	IssueType   string    `json:"issueType"`
	Description string    `json:"description"`
	ImagePath   string    `json:"imagePath"`
	CreatedAt   time.Time `json:"createdAt"`
}

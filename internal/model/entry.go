package model

// Entry is the live record of a revisioned content item (a blog post or a
// content page). Content and HTML always mirror the most recently saved body.
type Entry struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	URI       string `json:"uri"`
	Content   string `json:"content"`
	HTML      string `json:"html"`
	Active    bool   `json:"active"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

type EntryDetail struct {
	Entry
	Revisions []Revision `json:"revisions"`
}

type EntryFilter struct {
	Active  *bool
	Query   string
	OrderBy string
	Limit   uint
	Offset  uint
}

package model

// Revision is an immutable body snapshot owned by exactly one entry.
// Hash is unique per ParentID.
type Revision struct {
	ID        int64  `json:"id"`
	ParentID  int64  `json:"parent_id"`
	Content   string `json:"content"`
	HTML      string `json:"html"`
	Hash      string `json:"hash"`
	CreatedAt int64  `json:"created_at"`
}

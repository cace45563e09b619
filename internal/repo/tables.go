package repo

// Tables names the entry table and its revision table for one content kind.
type Tables struct {
	Entries   string
	Revisions string
}

var (
	BlogTables    = Tables{Entries: "blogs", Revisions: "blog_revisions"}
	ContentTables = Tables{Entries: "contents", Revisions: "content_revisions"}
)

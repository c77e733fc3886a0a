package models

// Post belongs to a blog. Its owner is not recorded independently: ownership
// is inherited from the parent blog.
type Post struct {
	ID      string
	BlogID  string
	Title   string
	Content string
}

package models

// Blog is a single-owner content collection. Subscribers holds user ids of
// non-owners who subscribed; the owner never appears in it. Version backs the
// conditional write used for owner edits.
type Blog struct {
	ID          string
	OwnerID     string
	Title       string
	Category    string
	Description string
	Subscribers []string
	Version     int64
}

// HasSubscriber reports whether userID is already in the subscriber set.
func (b *Blog) HasSubscriber(userID string) bool {
	for _, s := range b.Subscribers {
		if s == userID {
			return true
		}
	}
	return false
}

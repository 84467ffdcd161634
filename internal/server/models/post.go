package models

import "time"

type Post struct {
	ID        string
	OwnerID   string
	ImageURL  string
	Caption   string
	Likes     int64
	Hashtags  []string
	CreatedAt time.Time
}

// FeedEntry is one materialized pointer in a user's feed. CreatedAt is the
// post's timestamp, so entries order without resolving the post.
type FeedEntry struct {
	PostID    string
	AuthorID  string
	CreatedAt time.Time
}

// Entry returns the feed pointer for p.
func (p *Post) Entry() FeedEntry {
	return FeedEntry{PostID: p.ID, AuthorID: p.OwnerID, CreatedAt: p.CreatedAt}
}

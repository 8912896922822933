package types

import "time"

type PostType string

const (
	PostTypeNeed  PostType = "need"
	PostTypeOffer PostType = "offer"
)

func (t PostType) Valid() bool {
	switch t {
	case PostTypeNeed, PostTypeOffer:
		return true
	}
	return false
}

// Post is a need or offer authored by a user. Category and Categories are
// written together from a validated category set; Category is the primary
// kept for single-category consumers.
type Post struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	AuthorName  string     `json:"author_name"`
	Type        PostType   `json:"type"`
	Category    Category   `json:"category"`
	Categories  []Category `json:"categories"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// PostView is a Post as seen by one viewer.
type PostView struct {
	*Post
	CanHelp bool `json:"can_help"`
}

// PostFilter narrows a post listing. An empty Category or CategoryAll
// matches every post.
type PostFilter struct {
	Type     PostType
	UserID   string
	Category Category
	Limit    uint64
}

package models

import "time"

// DiscussionCategory is the closed set of thread categories
type DiscussionCategory string

const (
	CategoryBranch        DiscussionCategory = "BRANCH"
	CategoryYear          DiscussionCategory = "YEAR"
	CategoryPlacement     DiscussionCategory = "PLACEMENT"
	CategoryGeneral       DiscussionCategory = "GENERAL"
	CategorySWE           DiscussionCategory = "SWE"
	CategoryAI            DiscussionCategory = "AI"
	CategoryML            DiscussionCategory = "ML"
	CategoryDataScience   DiscussionCategory = "DATASCIENCE"
	CategoryWebDev        DiscussionCategory = "WEBDEV"
	CategoryAppDev        DiscussionCategory = "APPDEV"
	CategoryCyberSecurity DiscussionCategory = "CYBERSECURITY"
	CategoryBlockchain    DiscussionCategory = "BLOCKCHAIN"
	CategoryCloud         DiscussionCategory = "CLOUD"
	CategoryDevOps        DiscussionCategory = "DEVOPS"
)

var discussionCategories = map[DiscussionCategory]struct{}{
	CategoryBranch: {}, CategoryYear: {}, CategoryPlacement: {}, CategoryGeneral: {},
	CategorySWE: {}, CategoryAI: {}, CategoryML: {}, CategoryDataScience: {},
	CategoryWebDev: {}, CategoryAppDev: {}, CategoryCyberSecurity: {},
	CategoryBlockchain: {}, CategoryCloud: {}, CategoryDevOps: {},
}

// IsValid reports whether c is a known category
func (c DiscussionCategory) IsValid() bool {
	_, ok := discussionCategories[c]
	return ok
}

// DiscussionComment is an embedded, append-only comment on a thread
type DiscussionComment struct {
	ID         string    `json:"id" db:"id"`
	ThreadID   string    `json:"threadId" db:"thread_id"`
	AuthorID   string    `json:"authorId" db:"author_id"`
	AuthorName string    `json:"authorName" db:"author_name"`
	Content    string    `json:"content" db:"content"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// DiscussionThread represents a forum thread
type DiscussionThread struct {
	ID         string              `json:"id" db:"id"`
	AuthorID   string              `json:"authorId" db:"author_id"`
	AuthorName string              `json:"authorName" db:"author_name"`
	Title      string              `json:"title" db:"title"`
	Content    string              `json:"content" db:"content"`
	Category   DiscussionCategory  `json:"category" db:"category"`
	Tags       []string            `json:"tags" db:"tags"`
	Upvotes    []string            `json:"upvotes"` // user ids, toggle semantics
	Comments   []DiscussionComment `json:"comments"`
	CreatedAt  time.Time           `json:"createdAt" db:"created_at"`
}

// HasUpvote reports whether userID has upvoted t
func (t *DiscussionThread) HasUpvote(userID string) bool {
	for _, id := range t.Upvotes {
		if id == userID {
			return true
		}
	}
	return false
}

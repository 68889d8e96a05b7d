package models

import "time"

// SkillType says whether a listing offers or asks for help
type SkillType string

const (
	SkillOffer   SkillType = "OFFER"
	SkillRequest SkillType = "REQUEST"
)

// SkillCategory groups skill listings
type SkillCategory string

const (
	SkillAcademic    SkillCategory = "ACADEMIC"
	SkillNonAcademic SkillCategory = "NON_ACADEMIC"
)

// ListingStatus is OPEN until the owner closes the listing
type ListingStatus string

const (
	ListingOpen   ListingStatus = "OPEN"
	ListingClosed ListingStatus = "CLOSED"
)

// SkillOwner is the public profile shown next to a listing
type SkillOwner struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Branch *string `json:"branch,omitempty"`
	Year   *int    `json:"year,omitempty"`
}

// SkillListing is an entry on the skills marketplace
type SkillListing struct {
	ID          string        `json:"id" db:"id"`
	UserID      string        `json:"userId" db:"user_id"`
	Owner       SkillOwner    `json:"owner"`
	Type        SkillType     `json:"type" db:"type" example:"OFFER"`
	Title       string        `json:"title" db:"title" example:"Tutoring in linear algebra"`
	Description string        `json:"description" db:"description"`
	Tags        []string      `json:"tags" db:"tags"`
	Category    SkillCategory `json:"category" db:"category" example:"ACADEMIC"`
	Status      ListingStatus `json:"status" db:"status" example:"OPEN"`
	CreatedAt   time.Time     `json:"createdAt" db:"created_at"`
}

// SkillFilter narrows the marketplace. Only open listings are ever listed.
type SkillFilter struct {
	Type     SkillType
	Category SkillCategory
	Search   string
}

// SkillUpdate holds the fields an owner may change. Nil fields are kept.
type SkillUpdate struct {
	Type        *SkillType
	Title       *string
	Description *string
	Tags        []string
	Category    *SkillCategory
	Status      *ListingStatus
}

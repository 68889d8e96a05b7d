package models

import (
	"time"
)

// SocialLinks holds the optional public profile links of a user
type SocialLinks struct {
	GitHub    *string `json:"github,omitempty" example:"https://github.com/jdoe"`
	LinkedIn  *string `json:"linkedin,omitempty" example:"https://linkedin.com/in/jdoe"`
	Portfolio *string `json:"portfolio,omitempty" example:"https://jdoe.dev"`
}

// User defines the user model based on the 'users' table
type User struct {
	ID                 string      `json:"id" db:"id" example:"6f1c2a7e-3d2b-4b7a-9a51-0c1d2e3f4a5b"` // Unique identifier for the user
	AuthSubject        string      `json:"authSubject" db:"auth_subject" example:"firebase-uid-123"`  // Subject id issued by the identity provider
	Email              string      `json:"email" db:"email" example:"student@college.edu"`            // User's email address
	Name               string      `json:"name" db:"name" example:"Jane Doe"`                         // Display name
	Role               RoleType    `json:"role" db:"role" example:"student"`                          // student, admin or alumni
	Branch             *string     `json:"branch,omitempty" db:"branch" example:"CSE"`                // Academic branch (nullable)
	Year               *int        `json:"year,omitempty" db:"year" example:"2"`                      // Academic year (nullable)
	Bio                *string     `json:"bio,omitempty" db:"bio"`
	Skills             []string    `json:"skills" db:"skills"`
	Interests          []string    `json:"interests" db:"interests"`
	SocialLinks        SocialLinks `json:"socialLinks"`
	ProfileLocked      bool        `json:"profileLocked" db:"profile_locked"` // Branch and year are immutable once true
	AcceptedGuidelines bool        `json:"acceptedGuidelines" db:"accepted_guidelines"`
	LastActive         *time.Time  `json:"lastActive,omitempty" db:"last_active"`
	CreatedAt          time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time   `json:"updatedAt" db:"updated_at"`

	// Loaded from the side tables when requested
	BlockedUsers []string             `json:"blockedUsers"`
	PinnedDMs    []string             `json:"pinnedDms"`
	DMLastRead   map[string]time.Time `json:"dmLastRead"`
}

// HasBlocked reports whether u has blocked the given user id
func (u *User) HasBlocked(userID string) bool {
	for _, id := range u.BlockedUsers {
		if id == userID {
			return true
		}
	}
	return false
}

// ProfileUpdate carries the mutable profile fields of an upsert.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Email              *string
	Name               *string
	Role               *RoleType
	Branch             *string
	Year               *int
	Bio                *string
	Skills             []string
	Interests          []string
	SocialLinks        *SocialLinks
	AcceptedGuidelines *bool
}

// ApplyProfileUpdate applies upd to u following the profile lock rule: a locked
// profile silently keeps its branch and year, and supplying both fields in one
// update locks an unlocked profile.
func ApplyProfileUpdate(u *User, upd ProfileUpdate) {
	if u.ProfileLocked {
		upd.Branch = nil
		upd.Year = nil
	} else if upd.Branch != nil && *upd.Branch != "" && upd.Year != nil && *upd.Year != 0 {
		u.ProfileLocked = true
	}

	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.Branch != nil {
		u.Branch = upd.Branch
	}
	if upd.Year != nil {
		u.Year = upd.Year
	}
	if upd.Bio != nil {
		u.Bio = upd.Bio
	}
	if upd.Skills != nil {
		u.Skills = upd.Skills
	}
	if upd.Interests != nil {
		u.Interests = upd.Interests
	}
	if upd.SocialLinks != nil {
		u.SocialLinks = *upd.SocialLinks
	}
	if upd.AcceptedGuidelines != nil {
		u.AcceptedGuidelines = *upd.AcceptedGuidelines
	}
}

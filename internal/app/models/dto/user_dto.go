package dto

import (
	"github.com/yigit/campushub/internal/app/models"
)

// SyncUserRequest is sent by the client after every identity-provider sign in
type SyncUserRequest struct {
	AuthSubject string `json:"uid" binding:"required,max=128" example:"firebase-uid-123"`
	Email       string `json:"email" binding:"required,email" example:"student@college.edu"`
	Name        string `json:"name" binding:"omitempty,max=255" example:"Jane Doe"`
}

// UpsertProfileRequest represents a profile create-or-update. Omitted fields
// are left unchanged.
type UpsertProfileRequest struct {
	Email              *string             `json:"email,omitempty" binding:"omitempty,email"`
	Name               *string             `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Role               *string             `json:"role,omitempty" binding:"omitempty,oneof=student admin alumni"`
	Branch             *string             `json:"branch,omitempty" binding:"omitempty,max=64" example:"CSE"`
	Year               *int                `json:"year,omitempty" binding:"omitempty,min=1,max=6" example:"2"`
	Bio                *string             `json:"bio,omitempty" binding:"omitempty,max=2000"`
	Skills             []string            `json:"skills,omitempty" binding:"omitempty,dive,max=64"`
	Interests          []string            `json:"interests,omitempty" binding:"omitempty,dive,max=64"`
	SocialLinks        *models.SocialLinks `json:"socialLinks,omitempty"`
	AcceptedGuidelines *bool               `json:"acceptedGuidelines,omitempty"`
}

// ToProfileUpdate converts the request into a model update
func (r *UpsertProfileRequest) ToProfileUpdate() models.ProfileUpdate {
	upd := models.ProfileUpdate{
		Email:              r.Email,
		Name:               r.Name,
		Branch:             r.Branch,
		Year:               r.Year,
		Bio:                r.Bio,
		Skills:             r.Skills,
		Interests:          r.Interests,
		SocialLinks:        r.SocialLinks,
		AcceptedGuidelines: r.AcceptedGuidelines,
	}
	if r.Role != nil {
		role := models.RoleType(*r.Role)
		upd.Role = &role
	}
	return upd
}

// BlockRequest represents the body of POST /users/:uid/blocks
type BlockRequest struct {
	TargetID string `json:"targetId" binding:"required,uuid"`
	Action   string `json:"action" binding:"required,oneof=block unblock" example:"block"`
}

// UserResponse wraps a profile. User is null when no profile exists for the
// requested subject.
type UserResponse struct {
	User *models.User `json:"user"`
}

// BlockedUsersResponse lists the ids a user has blocked
type BlockedUsersResponse struct {
	BlockedUsers []string `json:"blockedUsers"`
}

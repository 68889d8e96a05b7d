package models

import "time"

// ProjectMember is a team member as shown on a project card
type ProjectMember struct {
	ID          string `json:"id"`
	AuthSubject string `json:"authSubject"`
	Name        string `json:"name"`
	Email       string `json:"email"`
}

// Project is a student project on the showcase
type Project struct {
	ID          string          `json:"id" db:"id"`
	TeamMembers []ProjectMember `json:"teamMembers"`
	Title       string          `json:"title" db:"title"`
	Description string          `json:"description" db:"description"`
	TechStack   []string        `json:"techStack" db:"tech_stack"`
	DemoLink    *string         `json:"demoLink,omitempty" db:"demo_link"`
	RepoLink    *string         `json:"repoLink,omitempty" db:"repo_link"`
	Images      []string        `json:"images" db:"images"`
	IsFeatured  bool            `json:"isFeatured" db:"is_featured"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

package models

import "time"

// ResourceType classifies shared study material
type ResourceType string

const (
	ResourcePYQ   ResourceType = "PYQ" // previous year question papers
	ResourceNotes ResourceType = "NOTES"
	ResourceLink  ResourceType = "LINK"
	ResourceOther ResourceType = "OTHER"
)

// IsValid reports whether t is a known resource type
func (t ResourceType) IsValid() bool {
	switch t {
	case ResourcePYQ, ResourceNotes, ResourceLink, ResourceOther:
		return true
	}
	return false
}

// Resource is a piece of study material shared by a user
type Resource struct {
	ID           string       `json:"id" db:"id"`
	UploaderID   string       `json:"uploaderId" db:"uploader_id"`
	UploaderName string       `json:"uploaderName" db:"uploader_name"`
	Title        string       `json:"title" db:"title" example:"DBMS end-sem 2023"`
	Description  *string      `json:"description,omitempty" db:"description"`
	Type         ResourceType `json:"type" db:"type" example:"PYQ"`
	CourseCode   *string      `json:"courseCode,omitempty" db:"course_code" example:"CS301"`
	Branch       *string      `json:"branch,omitempty" db:"branch" example:"CSE"`
	Semester     *int         `json:"semester,omitempty" db:"semester" example:"5"`
	FileURL      *string      `json:"fileUrl,omitempty" db:"file_url"`
	LinkURL      *string      `json:"linkUrl,omitempty" db:"link_url"`
	Downloads    int          `json:"downloads" db:"downloads"`
	CreatedAt    time.Time    `json:"createdAt" db:"created_at"`
}

// ResourceFilter narrows a resource listing. Empty fields match everything.
type ResourceFilter struct {
	Type       ResourceType
	Branch     string
	UploaderID string
	// Search is matched case-insensitively against title, description and course code
	Search string
}

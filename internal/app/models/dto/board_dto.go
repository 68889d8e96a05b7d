package dto

import (
	"github.com/yigit/campushub/internal/app/models"
)

// CreateResourceRequest represents a shared piece of study material
type CreateResourceRequest struct {
	UploaderID  string  `json:"uploaderId" binding:"required,uuid"`
	Title       string  `json:"title" binding:"required,min=3,max=300" example:"DBMS end-sem 2023"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=5000"`
	Type        string  `json:"type" binding:"required,oneof=PYQ NOTES LINK OTHER" example:"PYQ"`
	CourseCode  *string `json:"courseCode,omitempty" binding:"omitempty,max=32" example:"CS301"`
	Branch      *string `json:"branch,omitempty" binding:"omitempty,max=64" example:"CSE"`
	Semester    *int    `json:"semester,omitempty" binding:"omitempty,min=1,max=12" example:"5"`
	FileURL     *string `json:"fileUrl,omitempty" binding:"omitempty,url"`
	LinkURL     *string `json:"linkUrl,omitempty" binding:"omitempty,url"`
}

// CreateSkillRequest represents a new marketplace listing
type CreateSkillRequest struct {
	UserID      string   `json:"userId" binding:"required,uuid"`
	Type        string   `json:"type" binding:"required,oneof=OFFER REQUEST" example:"OFFER"`
	Title       string   `json:"title" binding:"required,min=3,max=300" example:"Tutoring in linear algebra"`
	Description string   `json:"description" binding:"required,max=5000"`
	Tags        []string `json:"tags,omitempty" binding:"omitempty,max=10,dive,min=1,max=32"`
	Category    string   `json:"category" binding:"required,oneof=ACADEMIC NON_ACADEMIC" example:"ACADEMIC"`
}

// UpdateSkillRequest represents the body of PATCH /skills/:id. Omitted fields
// are kept.
type UpdateSkillRequest struct {
	UserID      string   `json:"userId" binding:"required,uuid"`
	Type        *string  `json:"type,omitempty" binding:"omitempty,oneof=OFFER REQUEST"`
	Title       *string  `json:"title,omitempty" binding:"omitempty,min=3,max=300"`
	Description *string  `json:"description,omitempty" binding:"omitempty,max=5000"`
	Tags        []string `json:"tags,omitempty" binding:"omitempty,max=10,dive,min=1,max=32"`
	Category    *string  `json:"category,omitempty" binding:"omitempty,oneof=ACADEMIC NON_ACADEMIC"`
	Status      *string  `json:"status,omitempty" binding:"omitempty,oneof=OPEN CLOSED" example:"CLOSED"`
}

// CreateEventRequest represents a campus event. Date is YYYY-MM-DD or RFC 3339.
type CreateEventRequest struct {
	OrganizerID      string  `json:"organizerId" binding:"required,uuid"`
	Title            string  `json:"title" binding:"required,min=3,max=300" example:"Intro to Rust"`
	Description      string  `json:"description" binding:"required,max=5000"`
	Date             string  `json:"date" binding:"required" example:"2025-04-12"`
	Time             string  `json:"time" binding:"required,max=32" example:"17:30"`
	Venue            string  `json:"venue" binding:"required,max=255" example:"LT-2"`
	Club             string  `json:"club" binding:"required,max=255" example:"Coding Club"`
	ContactNumber    string  `json:"contactNumber" binding:"required,max=32"`
	EntryFee         string  `json:"entryFee" binding:"required,max=64" example:"Free"`
	Type             string  `json:"type" binding:"required,oneof=WORKSHOP FEST TALK HACKATHON" example:"WORKSHOP"`
	RegistrationLink *string `json:"registrationLink,omitempty" binding:"omitempty,url"`
}

// QuizQuestionRequest is one question of a new quiz
type QuizQuestionRequest struct {
	QuestionText       string   `json:"questionText" binding:"required,max=1000"`
	Options            []string `json:"options" binding:"required,min=2,max=10,dive,required,max=500"`
	CorrectOptionIndex *int     `json:"correctOptionIndex" binding:"required,min=0" example:"1"`
}

// CreateQuizRequest represents a new practice quiz
type CreateQuizRequest struct {
	CreatedBy   string                `json:"createdBy" binding:"required,uuid"`
	Title       string                `json:"title" binding:"required,min=3,max=300"`
	Description string                `json:"description" binding:"required,max=5000"`
	Questions   []QuizQuestionRequest `json:"questions" binding:"required,min=1,max=100,dive"`
}

// CreateProjectRequest represents a project for the showcase. The creator is
// always part of the team.
type CreateProjectRequest struct {
	CreatorID     string   `json:"creatorId" binding:"required,uuid"`
	TeamMemberIDs []string `json:"teamMemberIds,omitempty" binding:"omitempty,max=20,dive,uuid"`
	Title         string   `json:"title" binding:"required,min=3,max=300"`
	Description   string   `json:"description" binding:"required,max=10000"`
	TechStack     []string `json:"techStack,omitempty" binding:"omitempty,max=20,dive,min=1,max=32"`
	DemoLink      *string  `json:"demoLink,omitempty" binding:"omitempty,url"`
	RepoLink      *string  `json:"repoLink,omitempty" binding:"omitempty,url"`
	Images        []string `json:"images,omitempty" binding:"omitempty,max=10,dive,url"`
	IsFeatured    bool     `json:"isFeatured,omitempty"`
}

// ResourceListResponse wraps GET /resources
type ResourceListResponse struct {
	Resources []*models.Resource `json:"resources"`
}

// SkillListResponse wraps GET /skills
type SkillListResponse struct {
	Skills []*models.SkillListing `json:"skills"`
}

// EventListResponse wraps GET /events
type EventListResponse struct {
	Events []*models.Event `json:"events"`
}

// QuizListResponse wraps GET /quizzes
type QuizListResponse struct {
	Quizzes []*models.Quiz `json:"quizzes"`
}

// ProjectListResponse wraps GET /projects
type ProjectListResponse struct {
	Projects []*models.Project `json:"projects"`
}

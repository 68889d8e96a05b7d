package repositories

import (
	"github.com/yigit/campushub/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	MessageRepository    *MessageRepository
	DiscussionRepository *DiscussionRepository
	ResourceRepository   *ResourceRepository
	SkillRepository      *SkillRepository
	EventRepository      *EventRepository
	QuizRepository       *QuizRepository
	ProjectRepository    *ProjectRepository
}

// NewRepositories initializes all repositories
func NewRepositories(pg *db.PostgresDB) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(pg),
		MessageRepository:    NewMessageRepository(pg),
		DiscussionRepository: NewDiscussionRepository(pg),
		ResourceRepository:   NewResourceRepository(pg),
		SkillRepository:      NewSkillRepository(pg),
		EventRepository:      NewEventRepository(pg),
		QuizRepository:       NewQuizRepository(pg),
		ProjectRepository:    NewProjectRepository(pg),
	}
}

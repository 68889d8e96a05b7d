package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/app/models/dto"
	"github.com/yigit/campushub/internal/pkg/apperrors"
	"github.com/yigit/campushub/internal/pkg/metrics"
	"github.com/yigit/campushub/internal/pkg/moderation"
)

// QuizService defines the interface for practice quizzes
type QuizService interface {
	ListQuizzes(ctx context.Context) (*dto.QuizListResponse, error)
	CreateQuiz(ctx context.Context, req *dto.CreateQuizRequest) (*models.Quiz, error)
}

// quizServiceImpl implements QuizService
type quizServiceImpl struct {
	userRepo UserStore
	quizRepo QuizStore
	gate     moderation.Gate
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewQuizService creates a new QuizService
func NewQuizService(
	userRepo UserStore,
	quizRepo QuizStore,
	gate moderation.Gate,
	m *metrics.Metrics,
	logger zerolog.Logger,
) QuizService {
	return &quizServiceImpl{
		userRepo: userRepo,
		quizRepo: quizRepo,
		gate:     gate,
		metrics:  m,
		logger:   logger,
	}
}

// ListQuizzes returns all quizzes, newest first
func (s *quizServiceImpl) ListQuizzes(ctx context.Context) (*dto.QuizListResponse, error) {
	quizzes, err := s.quizRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list quizzes")
		return nil, fmt.Errorf("error listing quizzes: %w", err)
	}
	return &dto.QuizListResponse{Quizzes: quizzes}, nil
}

// buildQuestions checks every question has at least two options and an
// answer index inside them.
func buildQuestions(in []dto.QuizQuestionRequest) ([]models.QuizQuestion, error) {
	if len(in) == 0 {
		return nil, apperrors.NewValidationError("A quiz needs at least one question")
	}

	out := make([]models.QuizQuestion, 0, len(in))
	for i, q := range in {
		text := strings.TrimSpace(q.QuestionText)
		if text == "" {
			return nil, apperrors.NewValidationError(fmt.Sprintf("Question %d has no text", i+1))
		}
		if len(q.Options) < 2 {
			return nil, apperrors.NewValidationError(fmt.Sprintf("Question %d needs at least two options", i+1))
		}
		if q.CorrectOptionIndex == nil || *q.CorrectOptionIndex < 0 || *q.CorrectOptionIndex >= len(q.Options) {
			return nil, apperrors.NewValidationError(fmt.Sprintf("Question %d has no valid correct option", i+1))
		}
		out = append(out, models.QuizQuestion{
			QuestionText:       text,
			Options:            q.Options,
			CorrectOptionIndex: *q.CorrectOptionIndex,
		})
	}
	return out, nil
}

// CreateQuiz implements QuizService. Only admins may publish quizzes.
func (s *quizServiceImpl) CreateQuiz(ctx context.Context, req *dto.CreateQuizRequest) (*models.Quiz, error) {
	author, err := requireAdmin(ctx, s.userRepo, req.CreatedBy, "Only admins can create quizzes")
	if err != nil {
		return nil, err
	}

	questions, err := buildQuestions(req.Questions)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	text := []string{title, description}
	for _, q := range questions {
		text = append(text, q.QuestionText)
		text = append(text, q.Options...)
	}
	if err := moderate(ctx, s.gate, s.metrics, strings.Join(text, "\n"), moderation.ContextListing); err != nil {
		return nil, err
	}

	quiz := &models.Quiz{
		Title:       title,
		Description: description,
		Questions:   questions,
		CreatedBy:   author.ID,
	}
	if err := s.quizRepo.Create(ctx, quiz); err != nil {
		s.logger.Error().Err(err).Str("createdBy", author.ID).Msg("Failed to create quiz")
		return nil, fmt.Errorf("error creating quiz: %w", err)
	}

	s.metrics.Created("quiz")
	s.logger.Info().Str("quizID", quiz.ID).Int("questions", len(questions)).Msg("Quiz created")
	return quiz, nil
}

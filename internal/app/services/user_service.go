package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/pkg/apperrors"
)

// UserService defines the interface for profile operations
type UserService interface {
	SyncUser(ctx context.Context, subject, email, name string) (*models.User, error)
	// GetUserBySubject returns nil without error when no profile exists
	GetUserBySubject(ctx context.Context, subject string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpsertProfile(ctx context.Context, subject string, upd models.ProfileUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, subject string) error
	BlockUser(ctx context.Context, subject, targetID string) (*models.User, error)
	UnblockUser(ctx context.Context, subject, targetID string) (*models.User, error)
	ListBlockedUsers(ctx context.Context, subject string) ([]string, error)
}

// userServiceImpl implements UserService
type userServiceImpl struct {
	userRepo UserStore
	logger   zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo UserStore, logger zerolog.Logger) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
		logger:   logger,
	}
}

// defaultName derives a display name from an email address
func defaultName(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}

// SyncUser returns the profile for subject, creating a student profile on
// first sign in.
func (s *userServiceImpl) SyncUser(ctx context.Context, subject, email, name string) (*models.User, error) {
	if subject == "" || email == "" {
		return nil, apperrors.NewValidationError("uid and email are required")
	}

	user, err := s.GetUserBySubject(ctx, subject)
	if err != nil || user != nil {
		return user, err
	}

	if strings.TrimSpace(name) == "" {
		name = defaultName(email)
	}
	user = &models.User{
		AuthSubject: subject,
		Email:       strings.ToLower(strings.TrimSpace(email)),
		Name:        strings.TrimSpace(name),
		Role:        models.RoleStudent,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// a concurrent first sign in may have created it
		if apperrors.Is(err, apperrors.ErrConflict) {
			if existing, getErr := s.GetUserBySubject(ctx, subject); getErr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, s.wrapCreateError(err, subject)
	}

	s.logger.Info().Str("userID", user.ID).Str("subject", subject).Msg("User created on first sign in")
	return user, nil
}

// GetUserBySubject implements UserService
func (s *userServiceImpl) GetUserBySubject(ctx context.Context, subject string) (*models.User, error) {
	user, err := s.userRepo.GetBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, nil
		}
		s.logger.Error().Err(err).Str("subject", subject).Msg("Failed to load user")
		return nil, fmt.Errorf("error finding user: %w", err)
	}
	return user, nil
}

// GetUserByID implements UserService
func (s *userServiceImpl) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return requireUser(ctx, s.userRepo, id, "User not found")
}

// UpsertProfile creates the profile when missing, otherwise applies upd.
// Branch and year lock once both are set; later changes to them are dropped.
func (s *userServiceImpl) UpsertProfile(ctx context.Context, subject string, upd models.ProfileUpdate) (*models.User, error) {
	if upd.Role != nil && !upd.Role.IsValid() {
		return nil, apperrors.NewValidationError("Invalid role")
	}

	user, err := s.GetUserBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}

	if user == nil {
		if upd.Email == nil || strings.TrimSpace(*upd.Email) == "" {
			return nil, apperrors.NewValidationError("Email is required to create a profile")
		}
		email := strings.ToLower(strings.TrimSpace(*upd.Email))
		user = &models.User{
			AuthSubject: subject,
			Email:       email,
			Name:        defaultName(email),
			Role:        models.RoleStudent,
		}
		models.ApplyProfileUpdate(user, upd)

		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, s.wrapCreateError(err, subject)
		}
		s.logger.Info().Str("userID", user.ID).Bool("locked", user.ProfileLocked).Msg("Profile created")
		return user, nil
	}

	wasLocked := user.ProfileLocked
	models.ApplyProfileUpdate(user, upd)

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("userID", user.ID).Msg("Failed to update profile")
		return nil, fmt.Errorf("error updating profile: %w", err)
	}

	if !wasLocked && user.ProfileLocked {
		s.logger.Info().Str("userID", user.ID).Msg("Profile branch and year locked")
	}
	return user, nil
}

func (s *userServiceImpl) wrapCreateError(err error, subject string) error {
	if apperrors.Is(err, apperrors.ErrConflict) {
		return err
	}
	s.logger.Error().Err(err).Str("subject", subject).Msg("Failed to create user")
	return fmt.Errorf("error creating user: %w", err)
}

// DeleteUser implements UserService
func (s *userServiceImpl) DeleteUser(ctx context.Context, subject string) error {
	if err := s.userRepo.DeleteBySubject(ctx, subject); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.NewResourceNotFoundError("User not found")
		}
		return fmt.Errorf("error deleting user: %w", err)
	}
	s.logger.Info().Str("subject", subject).Msg("User deleted")
	return nil
}

// requireSubject loads the profile of subject or fails with not found
func (s *userServiceImpl) requireSubject(ctx context.Context, subject string) (*models.User, error) {
	user, err := s.GetUserBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewResourceNotFoundError("User not found")
	}
	return user, nil
}

// BlockUser adds targetID to the user's block list. Idempotent.
func (s *userServiceImpl) BlockUser(ctx context.Context, subject, targetID string) (*models.User, error) {
	user, err := s.requireSubject(ctx, subject)
	if err != nil {
		return nil, err
	}
	if user.ID == targetID {
		return nil, apperrors.NewValidationError("You cannot block yourself")
	}

	exists, err := s.userRepo.Exists(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("error finding user: %w", err)
	}
	if !exists {
		return nil, apperrors.NewResourceNotFoundError("User not found")
	}

	if err := s.userRepo.AddBlock(ctx, user.ID, targetID); err != nil {
		s.logger.Error().Err(err).Str("userID", user.ID).Str("targetID", targetID).Msg("Failed to block user")
		return nil, fmt.Errorf("error blocking user: %w", err)
	}

	s.logger.Info().Str("userID", user.ID).Str("targetID", targetID).Msg("User blocked")
	return s.requireSubject(ctx, subject)
}

// UnblockUser removes targetID from the user's block list. Idempotent.
func (s *userServiceImpl) UnblockUser(ctx context.Context, subject, targetID string) (*models.User, error) {
	user, err := s.requireSubject(ctx, subject)
	if err != nil {
		return nil, err
	}
	if user.ID == targetID {
		return nil, apperrors.NewValidationError("You cannot unblock yourself")
	}

	if err := s.userRepo.RemoveBlock(ctx, user.ID, targetID); err != nil {
		s.logger.Error().Err(err).Str("userID", user.ID).Str("targetID", targetID).Msg("Failed to unblock user")
		return nil, fmt.Errorf("error unblocking user: %w", err)
	}

	s.logger.Info().Str("userID", user.ID).Str("targetID", targetID).Msg("User unblocked")
	return s.requireSubject(ctx, subject)
}

// ListBlockedUsers implements UserService
func (s *userServiceImpl) ListBlockedUsers(ctx context.Context, subject string) ([]string, error) {
	user, err := s.requireSubject(ctx, subject)
	if err != nil {
		return nil, err
	}
	if user.BlockedUsers == nil {
		return []string{}, nil
	}
	return user.BlockedUsers, nil
}

package services

import (
  "context"
  "errors"
  "strings"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/classbridge/classbridge-backend/internal/apierr"
  "github.com/classbridge/classbridge-backend/internal/logger"
  "github.com/classbridge/classbridge-backend/internal/repos"
  "github.com/classbridge/classbridge-backend/internal/types"
)

type UpdateProfileInput struct {
  FirstName *string
  LastName  *string
  Level     *int
  GradeID   *uuid.UUID
}

type UserService interface {
  GetProfile(ctx context.Context, userID uuid.UUID) (*types.User, error)
  UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*types.User, error)
}

type userService struct {
  db       *gorm.DB
  log      *logger.Logger
  userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
  return &userService{
    db:       db,
    log:      log.With("service", "UserService"),
    userRepo: userRepo,
  }
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*types.User, error) {
  user, err := s.userRepo.GetByID(ctx, nil, userID)
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, apierr.NotFound("user %s not found", userID)
    }
    return nil, apierr.Persistence(err)
  }
  return user, nil
}

// UpdateProfile applies the provided fields. Changing the level moves
// the learner to a different difficulty tier, which reshapes every
// chapter view and rollup from the next read onward.
func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*types.User, error) {
  user, err := s.GetProfile(ctx, userID)
  if err != nil {
    return nil, err
  }

  if input.FirstName != nil {
    user.FirstName = strings.TrimSpace(*input.FirstName)
  }
  if input.LastName != nil {
    user.LastName = strings.TrimSpace(*input.LastName)
  }
  if input.Level != nil {
    if *input.Level < 1 || *input.Level > 12 {
      return nil, apierr.Validation("level must be between 1 and 12")
    }
    user.Level = *input.Level
  }
  if input.GradeID != nil {
    user.GradeID = input.GradeID
  }

  if err := s.userRepo.Update(ctx, nil, user); err != nil {
    return nil, apierr.Persistence(err)
  }
  return user, nil
}

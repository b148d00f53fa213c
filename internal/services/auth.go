package services

import (
  "context"
  "errors"
  "strings"
  "time"

  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/classbridge/classbridge-backend/internal/apierr"
  "github.com/classbridge/classbridge-backend/internal/logger"
  "github.com/classbridge/classbridge-backend/internal/repos"
  "github.com/classbridge/classbridge-backend/internal/requestdata"
  "github.com/classbridge/classbridge-backend/internal/types"
  "github.com/classbridge/classbridge-backend/internal/utils"
)

type TokenPair struct {
  AccessToken  string    `json:"access_token"`
  RefreshToken string    `json:"refresh_token"`
  ExpiresAt    time.Time `json:"expires_at"`
}

type accessClaims struct {
  UserID  string `json:"uid"`
  Level   int    `json:"level"`
  GradeID string `json:"grade_id,omitempty"`
  jwt.RegisteredClaims
}

type RegisterInput struct {
  Email     string
  Password  string
  FirstName string
  LastName  string
  Level     int
  GradeID   *uuid.UUID
}

type AuthService interface {
  Register(ctx context.Context, input RegisterInput) (*types.User, *TokenPair, error)
  Login(ctx context.Context, email, password string) (*types.User, *TokenPair, error)
  Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
  Logout(ctx context.Context, userID uuid.UUID) error
  SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
  db            *gorm.DB
  log           *logger.Logger
  userRepo      repos.UserRepo
  userTokenRepo repos.UserTokenRepo
  jwtSecret     []byte
  accessTTL     time.Duration
  refreshTTL    time.Duration
}

func NewAuthService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, userTokenRepo repos.UserTokenRepo) AuthService {
  serviceLog := log.With("service", "AuthService")
  secret := utils.GetEnv("JWT_SECRET", "", serviceLog)
  if secret == "" {
    serviceLog.Warn("JWT_SECRET is not set, tokens will be signed with an empty key")
  }
  accessMinutes := utils.GetEnvAsInt("JWT_ACCESS_TTL_MINUTES", 15, serviceLog)
  refreshHours := utils.GetEnvAsInt("JWT_REFRESH_TTL_HOURS", 24*30, serviceLog)
  return &authService{
    db:            db,
    log:           serviceLog,
    userRepo:      userRepo,
    userTokenRepo: userTokenRepo,
    jwtSecret:     []byte(secret),
    accessTTL:     time.Duration(accessMinutes) * time.Minute,
    refreshTTL:    time.Duration(refreshHours) * time.Hour,
  }
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*types.User, *TokenPair, error) {
  email := strings.ToLower(strings.TrimSpace(input.Email))
  if email == "" || input.Password == "" {
    return nil, nil, apierr.Validation("email and password are required")
  }
  if input.Level < 1 || input.Level > 12 {
    return nil, nil, apierr.Validation("level must be between 1 and 12")
  }

  if _, err := s.userRepo.GetByEmail(ctx, nil, email); err == nil {
    return nil, nil, apierr.Validation("an account with this email already exists")
  } else if !errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil, apierr.Persistence(err)
  }

  hash, err := utils.HashPassword(input.Password)
  if err != nil {
    return nil, nil, apierr.Persistence(err)
  }

  user := &types.User{
    Email:        email,
    PasswordHash: hash,
    FirstName:    strings.TrimSpace(input.FirstName),
    LastName:     strings.TrimSpace(input.LastName),
    Level:        input.Level,
    GradeID:      input.GradeID,
  }
  if err := s.userRepo.Create(ctx, nil, user); err != nil {
    return nil, nil, apierr.Persistence(err)
  }

  pair, err := s.issueTokens(ctx, user)
  if err != nil {
    return nil, nil, err
  }
  s.log.Info("User registered", "user_id", user.ID)
  return user, pair, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*types.User, *TokenPair, error) {
  user, err := s.userRepo.GetByEmail(ctx, nil, email)
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil, apierr.Unauthorized("invalid email or password")
    }
    return nil, nil, apierr.Persistence(err)
  }
  if !utils.CheckPassword(user.PasswordHash, password) {
    return nil, nil, apierr.Unauthorized("invalid email or password")
  }

  pair, err := s.issueTokens(ctx, user)
  if err != nil {
    return nil, nil, err
  }
  s.log.Info("User logged in", "user_id", user.ID)
  return user, pair, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
  row, err := s.userTokenRepo.GetByTokenString(ctx, nil, refreshToken)
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, apierr.Unauthorized("refresh token is invalid or revoked")
    }
    return nil, apierr.Persistence(err)
  }
  if time.Now().After(row.ExpiresAt) {
    return nil, apierr.Unauthorized("refresh token has expired")
  }

  user, err := s.userRepo.GetByID(ctx, nil, row.UserID)
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, apierr.Unauthorized("account no longer exists")
    }
    return nil, apierr.Persistence(err)
  }

  // Rotation: the old refresh token family is revoked before a new
  // pair is issued.
  if err := s.userTokenRepo.RevokeByUserID(ctx, nil, user.ID); err != nil {
    return nil, apierr.Persistence(err)
  }
  return s.issueTokens(ctx, user)
}

func (s *authService) Logout(ctx context.Context, userID uuid.UUID) error {
  if userID == uuid.Nil {
    return apierr.Validation("user id is required")
  }
  if err := s.userTokenRepo.RevokeByUserID(ctx, nil, userID); err != nil {
    return apierr.Persistence(err)
  }
  return nil
}

// SetContextFromToken validates the bearer token and attaches the
// authenticated identity (user id, level, grade) to the context.
func (s *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
  claims := &accessClaims{}
  token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
    if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
      return nil, errors.New("unexpected signing method")
    }
    return s.jwtSecret, nil
  })
  if err != nil || !token.Valid {
    return ctx, apierr.Unauthorized("access token is invalid")
  }

  userID, err := uuid.Parse(claims.UserID)
  if err != nil {
    return ctx, apierr.Unauthorized("access token subject is malformed")
  }

  rd := &requestdata.RequestData{
    TokenString: tokenString,
    UserID:      userID,
    Level:       claims.Level,
  }
  if claims.GradeID != "" {
    if gradeID, gErr := uuid.Parse(claims.GradeID); gErr == nil {
      rd.GradeID = gradeID
    }
  }
  return requestdata.WithRequestData(ctx, rd), nil
}

func (s *authService) issueTokens(ctx context.Context, user *types.User) (*TokenPair, error) {
  now := time.Now()
  expiresAt := now.Add(s.accessTTL)

  claims := &accessClaims{
    UserID: user.ID.String(),
    Level:  user.Level,
    RegisteredClaims: jwt.RegisteredClaims{
      Subject:   user.ID.String(),
      IssuedAt:  jwt.NewNumericDate(now),
      ExpiresAt: jwt.NewNumericDate(expiresAt),
    },
  }
  if user.GradeID != nil {
    claims.GradeID = user.GradeID.String()
  }

  access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
  if err != nil {
    return nil, apierr.Persistence(err)
  }

  refresh := uuid.NewString() + uuid.NewString()
  if err := s.userTokenRepo.Create(ctx, nil, &types.UserToken{
    UserID:      user.ID,
    TokenString: refresh,
    ExpiresAt:   now.Add(s.refreshTTL),
  }); err != nil {
    return nil, apierr.Persistence(err)
  }

  return &TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: expiresAt}, nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"hospital-admissions/internal/models"
	"hospital-admissions/internal/repository"
	"hospital-admissions/pkg/apperrors"
	"hospital-admissions/pkg/logger"
	"hospital-admissions/pkg/utils"
)

type AuthService struct {
	userRepo  *repository.UserRepository
	auditRepo *repository.AuditRepository
	log       *logger.Logger
}

func NewAuthService(userRepo *repository.UserRepository, auditRepo *repository.AuditRepository, log *logger.Logger) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		log:       log,
	}
}

// LoginResponse represents the response structure for login
type LoginResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"-"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			return nil, apperrors.Unauthorized("invalid credentials")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !utils.ComparePassword(user.PasswordHash, password) {
		s.log.Warn("failed login attempt", "username", username)
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	resp, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, &user.ID, "user_login", fmt.Sprintf("User %s logged in", username))
	return resp, nil
}

// RefreshAccessToken generates a new access token from a refresh token
func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	token, err := s.userRepo.FindRefreshTokenByHash(ctx, utils.HashRefreshToken(refreshToken))
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			return "", apperrors.Unauthorized("invalid or revoked refresh token")
		}
		return "", fmt.Errorf("failed to load refresh token: %w", err)
	}

	if time.Now().After(token.ExpiresAt) {
		return "", apperrors.Unauthorized("refresh token expired")
	}

	accessToken, err := utils.GenerateAccessToken(token.User.ID, token.User.Username, token.User.Role)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}

	return accessToken, nil
}

// Logout revokes a refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.userRepo.RevokeRefreshTokenByHash(ctx, utils.HashRefreshToken(refreshToken)); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// Register creates a patient account and logs it in. Staff accounts are
// created by an admin through CreateUser.
func (s *AuthService) Register(ctx context.Context, username, password string) (*LoginResponse, error) {
	user, err := s.createUser(ctx, username, password, models.RolePatient)
	if err != nil {
		return nil, err
	}

	resp, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, &user.ID, "user_registration", fmt.Sprintf("User %s registered", username))
	s.log.Info("user registered", "user_id", user.ID, "role", user.Role)
	return resp, nil
}

// CreateUser creates an account with any role on behalf of an admin
func (s *AuthService) CreateUser(ctx context.Context, actorID *uint, username, password, role string) (*UserResponse, error) {
	if !models.IsUserRole(role) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown role: %s", role))
	}

	user, err := s.createUser(ctx, username, password, role)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actorID, "user_created", fmt.Sprintf("User %s created with role %s", username, role))
	s.log.Info("user created", "user_id", user.ID, "role", user.Role)
	return &UserResponse{ID: user.ID, Username: user.Username, Role: user.Role}, nil
}

// EnsureAdmin creates the bootstrap admin account unless the username is taken
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	existing, err := s.userRepo.FindUserByUsername(ctx, username)
	switch {
	case err == nil:
		if existing.Role != models.RoleAdmin {
			s.log.Warn("bootstrap admin username belongs to a non-admin account", "username", username, "role", existing.Role)
		}
		return nil
	case !apperrors.HasCode(err, apperrors.CodeNotFound):
		return fmt.Errorf("failed to check bootstrap admin: %w", err)
	}

	user, err := s.createUser(ctx, username, password, models.RoleAdmin)
	if err != nil {
		return err
	}

	s.audit(ctx, nil, "user_created", fmt.Sprintf("Bootstrap admin %s created", username))
	s.log.Info("bootstrap admin created", "user_id", user.ID)
	return nil
}

func (s *AuthService) createUser(ctx context.Context, username, password, role string) (*models.User, error) {
	_, err := s.userRepo.FindUserByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, apperrors.Conflict("username already exists")
	case !apperrors.HasCode(err, apperrors.CodeNotFound):
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// audit records an auth event. Failures are logged, never returned.
func (s *AuthService) audit(ctx context.Context, userID *uint, action, details string) {
	if err := s.auditRepo.CreateAuditLog(ctx, userID, action, details); err != nil {
		s.log.Warn("failed to write audit log", "action", action, "error", err)
	}
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*LoginResponse, error) {
	accessToken, err := utils.GenerateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken := utils.GenerateRefreshToken()
	stored := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: utils.HashRefreshToken(refreshToken),
		ExpiresAt: time.Now().Add(utils.GetRefreshTokenExpiry()),
	}
	if err := s.userRepo.CreateRefreshToken(ctx, stored); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Role:     user.Role,
		},
	}, nil
}

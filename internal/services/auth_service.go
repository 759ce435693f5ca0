package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/crowddocs/contribution-service/internal/auth"
	"github.com/crowddocs/contribution-service/internal/events"
	"github.com/crowddocs/contribution-service/internal/models"
	"github.com/crowddocs/contribution-service/internal/repositories"
	"github.com/crowddocs/contribution-service/internal/validator"
)

type authService struct {
	repo      repositories.Repository
	issuer    *auth.Issuer
	publisher events.Publisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAuthService(repo repositories.Repository, issuer *auth.Issuer, publisher events.Publisher, logger *slog.Logger, validator *validator.Validator) AuthService {
	return &authService{
		repo:      repo,
		issuer:    issuer,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// Register creates an unverified user and publishes a verification email
// event. A failed publish does not roll the registration back; the response
// carries EmailSent=false instead.
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	exists, err := s.repo.User().ExistsByEmail(ctx, nil, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email uniqueness: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := s.repo.User().Create(ctx, nil, user); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("User registered", "user_id", user.ID, "role", user.Role)

	emailSent := s.sendVerificationEmail(ctx, user)

	return &RegisterResponse{
		User:      toUserResponse(user),
		EmailSent: emailSent,
	}, nil
}

func (s *authService) sendVerificationEmail(ctx context.Context, user *models.User) bool {
	token, err := s.issuer.IssueVerificationToken(user.ID)
	if err != nil {
		s.logger.Error("Failed to issue verification token", "error", err, "user_id", user.ID)
		return false
	}

	event := events.NewEmailNotificationEvent(events.TopicEmailVerification, user.ID, user.Email, user.Name, token)
	if err := s.publisher.PublishEmailNotification(ctx, event); err != nil {
		s.logger.Error("Failed to publish verification email event", "error", err, "user_id", user.ID)
		return false
	}
	return true
}

// Login authenticates credentials and gates on verification: correct
// credentials for an unverified user fail with ErrNeedsVerification.
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByEmail(ctx, nil, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.Verified {
		return nil, ErrNeedsVerification
	}

	token, err := s.issuer.IssueAuthToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue auth token: %w", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID)

	return &LoginResult{User: toUserResponse(user), Token: token}, nil
}

// VerifyEmail redeems a verification-purpose token, flips the verified flag
// and logs the user straight in.
func (s *authService) VerifyEmail(ctx context.Context, token string) (*LoginResult, error) {
	claims, err := s.issuer.Verify(token, auth.PurposeEmailVerification)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := s.repo.User().GetByID(ctx, nil, claims.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !user.Verified {
		user.Verified = true
		if err := s.repo.User().Update(ctx, nil, user); err != nil {
			return nil, fmt.Errorf("mark user verified: %w", err)
		}
		s.logger.Info("User verified", "user_id", user.ID)
	}

	authToken, err := s.issuer.IssueAuthToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue auth token: %w", err)
	}

	return &LoginResult{User: toUserResponse(user), Token: authToken}, nil
}

// RequestPasswordReset publishes a reset email event when the address is
// registered. Unknown addresses are not an error, so the endpoint does not
// leak which emails exist.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.repo.User().GetByEmail(ctx, nil, email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil
		}
		return fmt.Errorf("get user by email: %w", err)
	}

	token, err := s.issuer.IssueResetToken(user.ID)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}

	event := events.NewEmailNotificationEvent(events.TopicPasswordReset, user.ID, user.Email, user.Name, token)
	if err := s.publisher.PublishEmailNotification(ctx, event); err != nil {
		s.logger.Error("Failed to publish reset email event", "error", err, "user_id", user.ID)
	}
	return nil
}

// ResetPassword redeems a reset-purpose token and replaces the password hash.
func (s *authService) ResetPassword(ctx context.Context, req *ResetPasswordRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	claims, err := s.issuer.Verify(req.Token, auth.PurposePasswordReset)
	if err != nil {
		return ErrUnauthorized
	}

	user, err := s.repo.User().GetByID(ctx, nil, claims.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("get user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = string(hash)
	if err := s.repo.User().Update(ctx, nil, user); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.logger.Info("Password reset", "user_id", user.ID)
	return nil
}

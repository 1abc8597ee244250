package service

import (
	"context"
	"errors"
	"fmt"

	"inkdrop-backend/internal/domains/user/model"
	"inkdrop-backend/internal/domains/user/repository"
	"inkdrop-backend/internal/shared"
	"inkdrop-backend/internal/shared/errs"
	"inkdrop-backend/pkg/jwt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const defaultHashCost = 12

type userService struct {
	repo     repository.RepositoryInterface
	tokens   *jwt.Manager
	hashCost int
}

// NewUserService wires the service. hashCost <= 0 selects the default bcrypt cost.
func NewUserService(repo repository.RepositoryInterface, tokens *jwt.Manager, hashCost int) ServiceInterface {
	if hashCost <= 0 {
		hashCost = defaultHashCost
	}
	return &userService{repo: repo, tokens: tokens, hashCost: hashCost}
}

// ========================================
// AUTHENTICATION
// ========================================

func (s *userService) Register(ctx context.Context, req model.RegisterRequest) (*model.UserDTO, error) {
	return s.CreateWithRole(ctx, req, shared.RoleUser)
}

func (s *userService) CreateWithRole(ctx context.Context, req model.RegisterRequest, role string) (*model.UserDTO, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, errs.FromValidation(err)
	}
	if role != shared.RoleUser && role != shared.RoleAdmin {
		return nil, errs.Validation("role", "Unknown role "+role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	log.Info().Str("user_id", u.ID.String()).Str("role", role).Msg("User registered")
	dto := u.ToDTO()
	return &dto, nil
}

func (s *userService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, errs.FromValidation(err)
	}

	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(u.ID.String(), u.Email, u.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	return &model.LoginResponse{AccessToken: token, User: u.ToDTO()}, nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*model.UserDTO, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := u.ToDTO()
	return &dto, nil
}

// ========================================
// ACCOUNT SELF-SERVICE
// ========================================

func (s *userService) UpdateEmail(ctx context.Context, userID uuid.UUID, req model.UpdateEmailRequest) (*model.UserDTO, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, errs.FromValidation(err)
	}

	if err := s.repo.UpdateEmail(ctx, userID, req.Email); err != nil {
		return nil, err
	}

	log.Info().Str("user_id", userID.String()).Msg("User email updated")
	return s.GetByID(ctx, userID)
}

func (s *userService) ChangePassword(ctx context.Context, userID uuid.UUID, req model.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return errs.FromValidation(err)
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return model.ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.NewPassword)); err == nil {
		return model.ErrSamePassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.hashCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}

	log.Info().Str("user_id", userID.String()).Msg("User password changed")
	return nil
}

func (s *userService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}

	log.Info().Str("user_id", userID.String()).Msg("User account deleted")
	return nil
}

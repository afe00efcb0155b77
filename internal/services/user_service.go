package services

import (
	"context"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"eventhub/internal/authz"
	"eventhub/internal/models"
	"eventhub/internal/repositories"
)

const minPasswordLen = 8

type UserService interface {
	CreateUserWithPassword(ctx context.Context, user *models.User, plainPassword string) error
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
	DeleteUser(ctx context.Context, id int) error

	UpdateRefresh(ctx context.Context, userID int, token string, expiresAt time.Time) error
	RotateRefresh(ctx context.Context, oldToken, newToken string, expiresAt time.Time) (*models.User, error)
	GetByRefreshToken(ctx context.Context, token string) (*models.User, error)
	ClearRefresh(ctx context.Context, userID int) error
}

type userService struct {
	repo        repositories.UserRepository
	authService AuthService
}

func NewUserService(repo repositories.UserRepository, authService AuthService) UserService {
	return &userService{repo: repo, authService: authService}
}

func (s *userService) CreateUserWithPassword(ctx context.Context, user *models.User, plainPassword string) error {
	user.Name = strings.TrimSpace(user.Name)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	if _, err := mail.ParseAddress(user.Email); err != nil {
		return fmt.Errorf("%w: invalid email %q", ErrInvalidArgument, user.Email)
	}
	if !authz.Valid(user.RoleID) {
		return fmt.Errorf("%w: unknown role %d", ErrInvalidArgument, user.RoleID)
	}
	if len(strings.TrimSpace(plainPassword)) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidArgument, minPasswordLen)
	}

	hashed, err := s.authService.HashPassword(plainPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hashed
	if err := s.repo.Create(ctx, user); err != nil {
		return err
	}
	log.Printf("[user][create][ok] id=%d role=%d", user.ID, user.RoleID)
	return nil
}

func (s *userService) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *userService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *userService) DeleteUser(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *userService) UpdateRefresh(ctx context.Context, userID int, token string, expiresAt time.Time) error {
	return s.repo.UpdateRefresh(ctx, userID, token, expiresAt)
}

func (s *userService) RotateRefresh(ctx context.Context, oldToken, newToken string, expiresAt time.Time) (*models.User, error) {
	return s.repo.RotateRefresh(ctx, oldToken, newToken, expiresAt)
}

func (s *userService) GetByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	return s.repo.GetByRefreshToken(ctx, token)
}

func (s *userService) ClearRefresh(ctx context.Context, userID int) error {
	return s.repo.ClearRefresh(ctx, userID)
}

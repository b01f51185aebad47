package service

import (
	"context"
	"fmt"

	apperrors "sigeu/internal/errors"
	"sigeu/internal/model"
	"sigeu/internal/repository"
)

// UserService exposes user administration for admins.
type UserService interface {
	GetUser(ctx context.Context, id uint) (*model.User, error)
	ListUsers(ctx context.Context, page model.Page) ([]model.User, int64, error)
	SetActive(ctx context.Context, actorID, id uint, active bool) (*model.User, error)
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService builds a UserService.
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, errUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, page model.Page) ([]model.User, int64, error) {
	users, total, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// SetActive toggles the active flag. Deactivated users lose access on their
// next request because the auth middleware re-reads the user.
func (s *userService) SetActive(ctx context.Context, actorID, id uint, active bool) (*model.User, error) {
	if actorID == id && !active {
		return nil, apperrors.New(apperrors.ErrInvalidState, "No puedes desactivar tu propia cuenta")
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		if isNotFound(err) {
			return nil, errUserNotFound
		}
		return nil, fmt.Errorf("set user active: %w", err)
	}
	return s.GetUser(ctx, id)
}

package service

import (
	"context"

	"messenger_go/internal/domain"
)

// UserService provides user lookup for handlers and the chat API's
// user-existence checks.
type UserService struct {
	users domain.UserRepository
}

func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) ListActive(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	return s.users.ListActive(ctx, offset, limit)
}

// Deactivate soft-deletes the user; their chats and messages remain.
func (s *UserService) Deactivate(ctx context.Context, id int64) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return err
	}
	return s.users.SoftDelete(ctx, id)
}

// Exists reports whether an active user with the given id exists.
func (s *UserService) Exists(ctx context.Context, id int64) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !u.IsActive {
		return domain.ErrUserNotFound
	}
	return nil
}

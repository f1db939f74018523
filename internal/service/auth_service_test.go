package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"messenger_go/internal/domain"
	"messenger_go/internal/security"
	"messenger_go/internal/service"
)

func TestRegister(t *testing.T) {
	tokenSvc := security.NewTokenService("secret", time.Hour)
	hasher := security.NewPasswordHasher(4) // low cost for tests

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		svc := service.NewAuthService(mockRepo, tokenSvc, hasher)

		mockRepo.On("GetByUsername", mock.Anything, "newuser").Return(nil, domain.ErrUserNotFound)
		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Username == "newuser" && u.IsActive
		})).Return(nil)

		user, err := svc.Register(context.Background(), service.RegisterInput{
			Username: "newuser",
			Password: "Password1!",
		})
		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, "newuser", user.Username)
		assert.NotEqual(t, "Password1!", user.HashedPassword)
	})

	t.Run("UsernameTaken", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		svc := service.NewAuthService(mockRepo, tokenSvc, hasher)

		existing := &domain.User{Username: "existing"}
		mockRepo.On("GetByUsername", mock.Anything, "existing").Return(existing, nil)

		user, err := svc.Register(context.Background(), service.RegisterInput{
			Username: "existing",
			Password: "Password1!",
		})
		assert.ErrorIs(t, err, domain.ErrUsernameTaken)
		assert.Nil(t, user)
	})

	t.Run("EmailTaken", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		svc := service.NewAuthService(mockRepo, tokenSvc, hasher)

		email := "taken@example.com"
		mockRepo.On("GetByUsername", mock.Anything, "newuser").Return(nil, domain.ErrUserNotFound)
		mockRepo.On("GetByEmail", mock.Anything, email).Return(&domain.User{Username: "other"}, nil)

		user, err := svc.Register(context.Background(), service.RegisterInput{
			Username: "newuser",
			Email:    &email,
			Password: "Password1!",
		})
		assert.ErrorIs(t, err, domain.ErrEmailTaken)
		assert.Nil(t, user)
	})

	t.Run("MissingFields", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		svc := service.NewAuthService(mockRepo, tokenSvc, hasher)

		_, err := svc.Register(context.Background(), service.RegisterInput{Username: "nouser"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestLogin(t *testing.T) {
	tokenSvc := security.NewTokenService("secret", time.Hour)
	hasher := security.NewPasswordHasher(4)

	hashed, err := hasher.Hash("Password1!")
	assert.NoError(t, err)

	activeUser := &domain.User{
		ID:             1,
		Username:       "alice",
		HashedPassword: hashed,
		IsActive:       true,
	}

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		svc := service.NewAuthService(mockRepo, tokenSvc, hasher)

		mockRepo.On("GetByUsername", mock.Anything, "alice").Return(activeUser, nil)

		resp, err := svc.Login(context.Background(), service.LoginInput{
			Username: "alice",
			Password: "Password1!",
		})
		assert.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "bearer", resp.TokenType)

		claims, err := tokenSvc.Parse(resp.AccessToken)
		assert.NoError(t, err)
		assert.Equal(t, "alice", claims["sub"])
	})

	t.Run("WrongPassword", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		svc := service.NewAuthService(mockRepo, tokenSvc, hasher)

		mockRepo.On("GetByUsername", mock.Anything, "alice").Return(activeUser, nil)

		resp, err := svc.Login(context.Background(), service.LoginInput{
			Username: "alice",
			Password: "wrong",
		})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Nil(t, resp)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		svc := service.NewAuthService(mockRepo, tokenSvc, hasher)

		mockRepo.On("GetByUsername", mock.Anything, "ghost").Return(nil, domain.ErrUserNotFound)

		resp, err := svc.Login(context.Background(), service.LoginInput{
			Username: "ghost",
			Password: "Password1!",
		})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Nil(t, resp)
	})

	t.Run("InactiveUser", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		svc := service.NewAuthService(mockRepo, tokenSvc, hasher)

		inactive := &domain.User{Username: "bob", HashedPassword: hashed, IsActive: false}
		mockRepo.On("GetByUsername", mock.Anything, "bob").Return(inactive, nil)

		resp, err := svc.Login(context.Background(), service.LoginInput{
			Username: "bob",
			Password: "Password1!",
		})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Nil(t, resp)
	})
}

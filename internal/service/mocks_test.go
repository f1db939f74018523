package service_test

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"messenger_go/internal/domain"
)

// Mock repositories

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) ListActive(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *MockUserRepo) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockChatRepo struct {
	mock.Mock
}

func (m *MockChatRepo) Add(ctx context.Context, c *domain.Chat) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockChatRepo) Get(ctx context.Context, chatID uuid.UUID) (*domain.Chat, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Chat), args.Error(1)
}

func (m *MockChatRepo) GetPrivateByMemberPair(ctx context.Context, memberA, memberB int64) (*domain.Chat, error) {
	args := m.Called(ctx, memberA, memberB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Chat), args.Error(1)
}

func (m *MockChatRepo) ListForUser(ctx context.Context, userID int64) ([]*domain.Chat, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Chat), args.Error(1)
}

func (m *MockChatRepo) AddMember(ctx context.Context, chatID uuid.UUID, userID int64) error {
	args := m.Called(ctx, chatID, userID)
	return args.Error(0)
}

func (m *MockChatRepo) RemoveMember(ctx context.Context, chatID uuid.UUID, userID int64) error {
	args := m.Called(ctx, chatID, userID)
	return args.Error(0)
}

func (m *MockChatRepo) Delete(ctx context.Context, chatID uuid.UUID) error {
	args := m.Called(ctx, chatID)
	return args.Error(0)
}

type MockMessageRepo struct {
	mock.Mock
}

func (m *MockMessageRepo) Add(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageRepo) Get(ctx context.Context, messageID uuid.UUID) (*domain.Message, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *MockMessageRepo) ListForChat(ctx context.Context, chatID uuid.UUID, offset, limit int, ordering domain.Order) ([]*domain.Message, error) {
	args := m.Called(ctx, chatID, offset, limit, ordering)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Message), args.Error(1)
}

func (m *MockMessageRepo) MarkRead(ctx context.Context, messageID uuid.UUID, userID int64) error {
	args := m.Called(ctx, messageID, userID)
	return args.Error(0)
}

func (m *MockMessageRepo) Delete(ctx context.Context, messageID uuid.UUID) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

func (m *MockMessageRepo) DeleteForChat(ctx context.Context, chatID uuid.UUID) error {
	args := m.Called(ctx, chatID)
	return args.Error(0)
}

type MockPermissionRepo struct {
	mock.Mock
}

func (m *MockPermissionRepo) Get(ctx context.Context, chatID uuid.UUID, userID int64) (*domain.ChatPermissions, error) {
	args := m.Called(ctx, chatID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatPermissions), args.Error(1)
}

func (m *MockPermissionRepo) Add(ctx context.Context, p *domain.ChatPermissions) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPermissionRepo) Update(ctx context.Context, chatID uuid.UUID, userID int64, upd domain.PermissionsUpdate) error {
	args := m.Called(ctx, chatID, userID, upd)
	return args.Error(0)
}

func (m *MockPermissionRepo) Delete(ctx context.Context, chatID uuid.UUID, userID int64) error {
	args := m.Called(ctx, chatID, userID)
	return args.Error(0)
}

func (m *MockPermissionRepo) DeleteForChat(ctx context.Context, chatID uuid.UUID) error {
	args := m.Called(ctx, chatID)
	return args.Error(0)
}

// Mock providers

type MockAsker struct {
	mock.Mock
}

func (m *MockAsker) Ask(ctx context.Context, question string) (string, error) {
	args := m.Called(ctx, question)
	return args.String(0), args.Error(1)
}

type MockPhotoSearcher struct {
	mock.Mock
}

func (m *MockPhotoSearcher) Search(ctx context.Context, query string) (string, error) {
	args := m.Called(ctx, query)
	return args.String(0), args.Error(1)
}

// recordingBroadcaster captures every envelope sent per chat, in order.
type recordingBroadcaster struct {
	mu        sync.Mutex
	envelopes []recordedEnvelope
}

type recordedEnvelope struct {
	ChatID   uuid.UUID
	Envelope domain.Envelope
}

func (b *recordingBroadcaster) Broadcast(chatID uuid.UUID, env domain.Envelope) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.envelopes = append(b.envelopes, recordedEnvelope{ChatID: chatID, Envelope: env})
}

func (b *recordingBroadcaster) sent() []recordedEnvelope {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]recordedEnvelope, len(b.envelopes))
	copy(out, b.envelopes)
	return out
}

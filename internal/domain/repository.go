package domain

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ListActive(ctx context.Context, offset, limit int) ([]*User, error)
	SoftDelete(ctx context.Context, id int64) error
}

// ChatRepository defines persistence operations for chats.
// Get and GetPrivateByMemberPair return ErrChatNotFound when absent.
type ChatRepository interface {
	Add(ctx context.Context, c *Chat) error
	Get(ctx context.Context, chatID uuid.UUID) (*Chat, error)
	GetPrivateByMemberPair(ctx context.Context, memberA, memberB int64) (*Chat, error)
	ListForUser(ctx context.Context, userID int64) ([]*Chat, error)
	AddMember(ctx context.Context, chatID uuid.UUID, userID int64) error
	RemoveMember(ctx context.Context, chatID uuid.UUID, userID int64) error
	Delete(ctx context.Context, chatID uuid.UUID) error
}

// MessageRepository defines persistence operations for messages.
// Get returns ErrMessageNotFound when absent.
type MessageRepository interface {
	Add(ctx context.Context, m *Message) error
	Get(ctx context.Context, messageID uuid.UUID) (*Message, error)
	// ListForChat returns messages ordered by created_at with ties broken by
	// message id, applying offset and limit after ordering.
	ListForChat(ctx context.Context, chatID uuid.UUID, offset, limit int, ordering Order) ([]*Message, error)
	// MarkRead records userID in the message's read_by set; adding the same
	// user twice is a no-op.
	MarkRead(ctx context.Context, messageID uuid.UUID, userID int64) error
	Delete(ctx context.Context, messageID uuid.UUID) error
	DeleteForChat(ctx context.Context, chatID uuid.UUID) error
}

// PermissionRepository defines persistence operations for per-chat member
// permissions. Get returns ErrPermissionsNotFound when absent.
type PermissionRepository interface {
	Get(ctx context.Context, chatID uuid.UUID, userID int64) (*ChatPermissions, error)
	Add(ctx context.Context, p *ChatPermissions) error
	Update(ctx context.Context, chatID uuid.UUID, userID int64, upd PermissionsUpdate) error
	Delete(ctx context.Context, chatID uuid.UUID, userID int64) error
	DeleteForChat(ctx context.Context, chatID uuid.UUID) error
}

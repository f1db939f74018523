package domain

import (
	"time"

	"github.com/google/uuid"
)

// BotSenderID is the reserved sender for messages synthesized by bot commands.
const BotSenderID int64 = 777

// MaxMessageContentBytes bounds message content (255 KiB, matching the stored schema).
const MaxMessageContentBytes = 255 * 1024

// MaxChatNameLength bounds the chat name.
const MaxChatNameLength = 255

// User represents an application user.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	Email          *string   `db:"email" json:"email,omitempty"`
	HashedPassword string    `db:"hashed_password" json:"-"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Chat is a conversation container, private (exactly two members) or group
// (owner plus any number of invitees).
type Chat struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `json:"name"`
	IsGroup   bool      `json:"is_group"`
	OwnerID   int64     `json:"owner_id"`
	MemberIDs []int64   `json:"member_ids"`
}

// HasMember reports whether userID is in the chat's member list.
func (c *Chat) HasMember(userID int64) bool {
	for _, id := range c.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// NewChat builds a chat with a fresh ID and the owner as its first member.
func NewChat(name string, isGroup bool, ownerID int64) *Chat {
	now := time.Now().UTC()
	return &Chat{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
		Name:      name,
		IsGroup:   isGroup,
		OwnerID:   ownerID,
		MemberIDs: []int64{ownerID},
	}
}

// Message is a single chat message.
type Message struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"is_read"`
	ReadBy    []int64   `json:"read_by"`
	SenderID  int64     `json:"sender_id"`
	ChatID    uuid.UUID `json:"chat_id"`
}

// NewMessage builds a message with a fresh ID and creation timestamps.
func NewMessage(chatID uuid.UUID, senderID int64, content string) *Message {
	now := time.Now().UTC()
	return &Message{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
		Content:   content,
		ReadBy:    []int64{},
		SenderID:  senderID,
		ChatID:    chatID,
	}
}

// ChatPermissions holds one member's capabilities inside one chat.
// Exactly one record exists per (chat, user) pair.
type ChatPermissions struct {
	ID                     uuid.UUID `json:"id"`
	ChatID                 uuid.UUID `json:"chat_id"`
	UserID                 int64     `json:"user_id"`
	CanSendMessages        bool      `json:"can_send_messages"`
	CanChangePermissions   bool      `json:"can_change_permissions"`
	CanRemoveMembers       bool      `json:"can_remove_members"`
	CanDeleteOtherMessages bool      `json:"can_delete_other_messages"`
}

// DefaultPermissions is the send-only set granted to private-chat peers and
// group invitees.
func DefaultPermissions(chatID uuid.UUID, userID int64) *ChatPermissions {
	return &ChatPermissions{
		ID:              uuid.New(),
		ChatID:          chatID,
		UserID:          userID,
		CanSendMessages: true,
	}
}

// OwnerPermissions is the all-capabilities set granted to a group owner.
func OwnerPermissions(chatID uuid.UUID, userID int64) *ChatPermissions {
	return &ChatPermissions{
		ID:                     uuid.New(),
		ChatID:                 chatID,
		UserID:                 userID,
		CanSendMessages:        true,
		CanChangePermissions:   true,
		CanRemoveMembers:       true,
		CanDeleteOtherMessages: true,
	}
}

// PermissionsUpdate carries the new capability set for a permissions patch.
type PermissionsUpdate struct {
	CanSendMessages        bool `json:"can_send_messages"`
	CanChangePermissions   bool `json:"can_change_permissions"`
	CanRemoveMembers       bool `json:"can_remove_members"`
	CanDeleteOtherMessages bool `json:"can_delete_other_messages"`
}

// Order is the sort direction for message listing.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// ParseOrder maps a query-string value to an Order, defaulting to ascending.
func ParseOrder(s string) Order {
	if Order(s) == OrderDesc {
		return OrderDesc
	}
	return OrderAsc
}

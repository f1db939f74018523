package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"messenger_go/internal/domain"
)

// ChatService owns the chat lifecycle: creation, membership, permission
// records, and cascade deletion. Authorization is decided before these calls
// by the PermissionEngine.
type ChatService struct {
	chats    domain.ChatRepository
	messages domain.MessageRepository
	perms    domain.PermissionRepository
	log      *zap.Logger
}

func NewChatService(
	chats domain.ChatRepository,
	messages domain.MessageRepository,
	perms domain.PermissionRepository,
	log *zap.Logger,
) *ChatService {
	return &ChatService{
		chats:    chats,
		messages: messages,
		perms:    perms,
		log:      log,
	}
}

// CreatePrivateChat persists a two-member private chat between the chat owner
// and otherUserID, with symmetric send-only permissions for both.
func (s *ChatService) CreatePrivateChat(ctx context.Context, chat *domain.Chat, otherUserID int64) error {
	if err := validateChat(chat); err != nil {
		return err
	}
	if chat.OwnerID == otherUserID {
		return domain.ErrSelfChat
	}

	_, err := s.chats.GetPrivateByMemberPair(ctx, chat.OwnerID, otherUserID)
	if err == nil {
		return domain.ErrPrivateChatExists
	}
	if !isNotFound(err) {
		return fmt.Errorf("lookup private chat: %w", err)
	}

	chat.IsGroup = false
	chat.MemberIDs = []int64{chat.OwnerID, otherUserID}

	s.log.Info("creating private chat",
		zap.String("chat_id", chat.ID.String()),
		zap.Int64("owner_id", chat.OwnerID),
		zap.Int64("other_user_id", otherUserID),
	)
	if err := s.chats.Add(ctx, chat); err != nil {
		return err
	}

	// Both peers get the same send-only default; a private chat has no
	// privileged owner role.
	for _, userID := range chat.MemberIDs {
		if err := s.perms.Add(ctx, domain.DefaultPermissions(chat.ID, userID)); err != nil {
			return fmt.Errorf("add default permissions for user %d: %w", userID, err)
		}
	}
	return nil
}

// CreateGroupChat persists a group chat with the owner as sole member holding
// every capability.
func (s *ChatService) CreateGroupChat(ctx context.Context, chat *domain.Chat) error {
	if err := validateChat(chat); err != nil {
		return err
	}
	chat.IsGroup = true
	if len(chat.MemberIDs) == 0 {
		chat.MemberIDs = []int64{chat.OwnerID}
	}

	s.log.Info("creating group chat",
		zap.String("chat_id", chat.ID.String()),
		zap.Int64("owner_id", chat.OwnerID),
	)
	if err := s.chats.Add(ctx, chat); err != nil {
		return err
	}
	return s.perms.Add(ctx, domain.OwnerPermissions(chat.ID, chat.OwnerID))
}

func (s *ChatService) GetChat(ctx context.Context, chatID uuid.UUID) (*domain.Chat, error) {
	return s.chats.Get(ctx, chatID)
}

func (s *ChatService) ListChatsForUser(ctx context.Context, userID int64) ([]*domain.Chat, error) {
	return s.chats.ListForUser(ctx, userID)
}

// AddChatMember adds userID to a group chat and creates their send-only
// default permission record.
func (s *ChatService) AddChatMember(ctx context.Context, chatID uuid.UUID, userID int64) error {
	chat, err := s.chats.Get(ctx, chatID)
	if err != nil {
		return err
	}
	if !chat.IsGroup {
		return domain.ErrNotGroupChat
	}
	if chat.HasMember(userID) {
		return domain.ErrAlreadyChatMember
	}

	s.log.Info("adding chat member",
		zap.String("chat_id", chatID.String()),
		zap.Int64("user_id", userID),
	)
	if err := s.chats.AddMember(ctx, chatID, userID); err != nil {
		return err
	}
	return s.perms.Add(ctx, domain.DefaultPermissions(chatID, userID))
}

// RemoveChatMember removes userID from a group chat along with their
// permission record. The owner can never be removed.
func (s *ChatService) RemoveChatMember(ctx context.Context, chatID uuid.UUID, userID int64) error {
	chat, err := s.chats.Get(ctx, chatID)
	if err != nil {
		return err
	}
	if !chat.IsGroup {
		return domain.ErrNotGroupChat
	}
	if userID == chat.OwnerID {
		return domain.ErrOwnerNotRemovable
	}
	if !chat.HasMember(userID) {
		return domain.ErrTargetNotMember
	}

	s.log.Info("removing chat member",
		zap.String("chat_id", chatID.String()),
		zap.Int64("user_id", userID),
	)
	if err := s.chats.RemoveMember(ctx, chatID, userID); err != nil {
		return err
	}
	return s.perms.Delete(ctx, chatID, userID)
}

// UpdateUserChatPermissions replaces a group member's capability set. The
// owner's permissions are fixed; the acting user is validated separately by
// the PermissionEngine and can never target themselves.
func (s *ChatService) UpdateUserChatPermissions(ctx context.Context, chatID uuid.UUID, userID int64, upd domain.PermissionsUpdate) error {
	chat, err := s.chats.Get(ctx, chatID)
	if err != nil {
		return err
	}
	if !chat.IsGroup {
		return domain.ErrNotGroupChat
	}
	if userID == chat.OwnerID {
		return domain.ErrOwnerPermissionsFixed
	}
	if !chat.HasMember(userID) {
		return domain.ErrTargetNotMember
	}

	s.log.Info("updating chat permissions",
		zap.String("chat_id", chatID.String()),
		zap.Int64("user_id", userID),
	)
	return s.perms.Update(ctx, chatID, userID, upd)
}

// DeleteChat removes the chat, cascading to its messages and permission
// records.
func (s *ChatService) DeleteChat(ctx context.Context, chatID uuid.UUID) error {
	if _, err := s.chats.Get(ctx, chatID); err != nil {
		return err
	}

	s.log.Info("deleting chat", zap.String("chat_id", chatID.String()))
	if err := s.messages.DeleteForChat(ctx, chatID); err != nil {
		return fmt.Errorf("delete chat messages: %w", err)
	}
	if err := s.perms.DeleteForChat(ctx, chatID); err != nil {
		return fmt.Errorf("delete chat permissions: %w", err)
	}
	return s.chats.Delete(ctx, chatID)
}

func validateChat(chat *domain.Chat) error {
	if chat.Name == "" {
		return fmt.Errorf("%w: chat name is required", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(chat.Name) > domain.MaxChatNameLength {
		return fmt.Errorf("%w: chat name exceeds %d characters", domain.ErrInvalidInput, domain.MaxChatNameLength)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

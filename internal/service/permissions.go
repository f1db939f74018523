package service

import (
	"context"

	"github.com/google/uuid"

	"messenger_go/internal/domain"
)

// PermissionEngine evaluates chat-membership and capability predicates. The
// transport layer runs these before calling into the chat and message
// services; the services themselves stay free of authorization logic.
type PermissionEngine struct {
	chats domain.ChatRepository
	perms domain.PermissionRepository
}

func NewPermissionEngine(chats domain.ChatRepository, perms domain.PermissionRepository) *PermissionEngine {
	return &PermissionEngine{chats: chats, perms: perms}
}

// RequireMember verifies the user belongs to the chat and returns it.
func (e *PermissionEngine) RequireMember(ctx context.Context, chatID uuid.UUID, userID int64) (*domain.Chat, error) {
	chat, err := e.chats.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasMember(userID) {
		return nil, domain.ErrNotChatMember
	}
	return chat, nil
}

// RequireDeleteChat verifies the user may delete the chat: for group chats
// only the owner may; a private chat has no privileged owner role, so either
// member may delete it.
func (e *PermissionEngine) RequireDeleteChat(ctx context.Context, chatID uuid.UUID, userID int64) (*domain.Chat, error) {
	chat, err := e.RequireMember(ctx, chatID, userID)
	if err != nil {
		return nil, err
	}
	if chat.IsGroup && chat.OwnerID != userID {
		return nil, domain.ErrNotChatOwner
	}
	return chat, nil
}

// RequireSend verifies membership plus the can_send_messages capability.
func (e *PermissionEngine) RequireSend(ctx context.Context, chatID uuid.UUID, userID int64) (*domain.Chat, error) {
	chat, err := e.RequireMember(ctx, chatID, userID)
	if err != nil {
		return nil, err
	}
	p, err := e.perms.Get(ctx, chatID, userID)
	if err != nil {
		return nil, err
	}
	if !p.CanSendMessages {
		return nil, domain.ErrCannotSendMessages
	}
	return chat, nil
}

// RequireChangePermissions verifies the actor may change targetID's
// permissions. Changing one's own permissions is always forbidden, even with
// the capability set.
func (e *PermissionEngine) RequireChangePermissions(ctx context.Context, chatID uuid.UUID, actorID, targetID int64) (*domain.Chat, error) {
	chat, err := e.RequireMember(ctx, chatID, actorID)
	if err != nil {
		return nil, err
	}
	if actorID == targetID {
		return nil, domain.ErrSelfPermissionChange
	}
	p, err := e.perms.Get(ctx, chatID, actorID)
	if err != nil {
		return nil, err
	}
	if !p.CanChangePermissions {
		return nil, domain.ErrCannotChangePermissions
	}
	return chat, nil
}

// RequireRemoveMember verifies the actor may remove targetID. Leaving a chat
// (self-removal) is always allowed; removing anyone else needs the
// can_remove_members capability.
func (e *PermissionEngine) RequireRemoveMember(ctx context.Context, chatID uuid.UUID, actorID, targetID int64) (*domain.Chat, error) {
	chat, err := e.RequireMember(ctx, chatID, actorID)
	if err != nil {
		return nil, err
	}
	if actorID == targetID {
		return chat, nil
	}
	p, err := e.perms.Get(ctx, chatID, actorID)
	if err != nil {
		return nil, err
	}
	if !p.CanRemoveMembers {
		return nil, domain.ErrCannotRemoveMembers
	}
	return chat, nil
}

// RequireDeleteMessage verifies the actor may delete the message with the
// given sender. Deleting one's own message is always allowed; deleting
// another's needs the can_delete_other_messages capability.
func (e *PermissionEngine) RequireDeleteMessage(ctx context.Context, chatID uuid.UUID, actorID, senderID int64) (*domain.Chat, error) {
	chat, err := e.RequireMember(ctx, chatID, actorID)
	if err != nil {
		return nil, err
	}
	if actorID == senderID {
		return chat, nil
	}
	p, err := e.perms.Get(ctx, chatID, actorID)
	if err != nil {
		return nil, err
	}
	if !p.CanDeleteOtherMessages {
		return nil, domain.ErrCannotDeleteMessages
	}
	return chat, nil
}

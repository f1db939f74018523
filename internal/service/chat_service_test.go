package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"messenger_go/internal/domain"
	"messenger_go/internal/service"
)

func newChatService(chats *MockChatRepo, messages *MockMessageRepo, perms *MockPermissionRepo) *service.ChatService {
	return service.NewChatService(chats, messages, perms, zap.NewNop())
}

func TestCreatePrivateChat(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		chats := new(MockChatRepo)
		perms := new(MockPermissionRepo)
		svc := newChatService(chats, new(MockMessageRepo), perms)

		chats.On("GetPrivateByMemberPair", mock.Anything, int64(1), int64(2)).Return(nil, domain.ErrChatNotFound)
		chats.On("Add", mock.Anything, mock.Anything).Return(nil)
		perms.On("Add", mock.Anything, mock.MatchedBy(func(p *domain.ChatPermissions) bool {
			return p.CanSendMessages && !p.CanChangePermissions && !p.CanRemoveMembers && !p.CanDeleteOtherMessages
		})).Return(nil)

		chat := domain.NewChat("pair", false, 1)
		err := svc.CreatePrivateChat(context.Background(), chat, 2)
		assert.NoError(t, err)
		assert.False(t, chat.IsGroup)
		assert.ElementsMatch(t, []int64{1, 2}, chat.MemberIDs)
		perms.AssertNumberOfCalls(t, "Add", 2)
	})

	t.Run("SelfChat", func(t *testing.T) {
		chats := new(MockChatRepo)
		svc := newChatService(chats, new(MockMessageRepo), new(MockPermissionRepo))

		err := svc.CreatePrivateChat(context.Background(), domain.NewChat("pair", false, 1), 1)
		assert.ErrorIs(t, err, domain.ErrSelfChat)
		chats.AssertNotCalled(t, "Add")
	})

	t.Run("PairAlreadyExists", func(t *testing.T) {
		chats := new(MockChatRepo)
		svc := newChatService(chats, new(MockMessageRepo), new(MockPermissionRepo))

		existing := domain.NewChat("pair", false, 1)
		chats.On("GetPrivateByMemberPair", mock.Anything, int64(1), int64(2)).Return(existing, nil)

		err := svc.CreatePrivateChat(context.Background(), domain.NewChat("pair", false, 1), 2)
		assert.ErrorIs(t, err, domain.ErrPrivateChatExists)
		chats.AssertNotCalled(t, "Add")
	})

	t.Run("EmptyName", func(t *testing.T) {
		svc := newChatService(new(MockChatRepo), new(MockMessageRepo), new(MockPermissionRepo))
		err := svc.CreatePrivateChat(context.Background(), domain.NewChat("", false, 1), 2)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("NameLimitCountsRunes", func(t *testing.T) {
		chats := new(MockChatRepo)
		perms := new(MockPermissionRepo)
		svc := newChatService(chats, new(MockMessageRepo), perms)

		chats.On("GetPrivateByMemberPair", mock.Anything, int64(1), int64(2)).Return(nil, domain.ErrChatNotFound)
		chats.On("Add", mock.Anything, mock.Anything).Return(nil)
		perms.On("Add", mock.Anything, mock.Anything).Return(nil)

		// 255 two-byte runes: over the limit in bytes, at the limit in runes.
		atLimit := strings.Repeat("é", domain.MaxChatNameLength)
		assert.NoError(t, svc.CreatePrivateChat(context.Background(), domain.NewChat(atLimit, false, 1), 2))

		tooLong := strings.Repeat("é", domain.MaxChatNameLength+1)
		err := svc.CreatePrivateChat(context.Background(), domain.NewChat(tooLong, false, 1), 2)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestCreateGroupChat(t *testing.T) {
	chats := new(MockChatRepo)
	perms := new(MockPermissionRepo)
	svc := newChatService(chats, new(MockMessageRepo), perms)

	chats.On("Add", mock.Anything, mock.Anything).Return(nil)
	perms.On("Add", mock.Anything, mock.MatchedBy(func(p *domain.ChatPermissions) bool {
		return p.UserID == 1 && p.CanSendMessages && p.CanChangePermissions && p.CanRemoveMembers && p.CanDeleteOtherMessages
	})).Return(nil)

	chat := domain.NewChat("team", true, 1)
	err := svc.CreateGroupChat(context.Background(), chat)
	assert.NoError(t, err)
	assert.True(t, chat.IsGroup)
	assert.Equal(t, []int64{1}, chat.MemberIDs)
	perms.AssertExpectations(t)
}

func TestAddChatMember(t *testing.T) {
	chatID := uuid.New()

	group := func() *domain.Chat {
		c := domain.NewChat("team", true, 1)
		c.ID = chatID
		c.MemberIDs = []int64{1}
		return c
	}

	t.Run("Success", func(t *testing.T) {
		chats := new(MockChatRepo)
		perms := new(MockPermissionRepo)
		svc := newChatService(chats, new(MockMessageRepo), perms)

		chats.On("Get", mock.Anything, chatID).Return(group(), nil)
		chats.On("AddMember", mock.Anything, chatID, int64(2)).Return(nil)
		perms.On("Add", mock.Anything, mock.MatchedBy(func(p *domain.ChatPermissions) bool {
			return p.UserID == 2 && p.CanSendMessages && !p.CanChangePermissions
		})).Return(nil)

		assert.NoError(t, svc.AddChatMember(context.Background(), chatID, 2))
		perms.AssertExpectations(t)
	})

	t.Run("PrivateChat", func(t *testing.T) {
		chats := new(MockChatRepo)
		svc := newChatService(chats, new(MockMessageRepo), new(MockPermissionRepo))

		private := domain.NewChat("pair", false, 1)
		private.ID = chatID
		private.MemberIDs = []int64{1, 2}
		chats.On("Get", mock.Anything, chatID).Return(private, nil)

		err := svc.AddChatMember(context.Background(), chatID, 3)
		assert.ErrorIs(t, err, domain.ErrNotGroupChat)
	})

	t.Run("AlreadyMember", func(t *testing.T) {
		chats := new(MockChatRepo)
		svc := newChatService(chats, new(MockMessageRepo), new(MockPermissionRepo))

		chats.On("Get", mock.Anything, chatID).Return(group(), nil)

		err := svc.AddChatMember(context.Background(), chatID, 1)
		assert.ErrorIs(t, err, domain.ErrAlreadyChatMember)
	})
}

func TestRemoveChatMember(t *testing.T) {
	chatID := uuid.New()

	group := func() *domain.Chat {
		c := domain.NewChat("team", true, 1)
		c.ID = chatID
		c.MemberIDs = []int64{1, 2}
		return c
	}

	t.Run("Success", func(t *testing.T) {
		chats := new(MockChatRepo)
		perms := new(MockPermissionRepo)
		svc := newChatService(chats, new(MockMessageRepo), perms)

		chats.On("Get", mock.Anything, chatID).Return(group(), nil)
		chats.On("RemoveMember", mock.Anything, chatID, int64(2)).Return(nil)
		perms.On("Delete", mock.Anything, chatID, int64(2)).Return(nil)

		assert.NoError(t, svc.RemoveChatMember(context.Background(), chatID, 2))
		perms.AssertExpectations(t)
	})

	t.Run("OwnerNotRemovable", func(t *testing.T) {
		chats := new(MockChatRepo)
		svc := newChatService(chats, new(MockMessageRepo), new(MockPermissionRepo))

		chats.On("Get", mock.Anything, chatID).Return(group(), nil)

		err := svc.RemoveChatMember(context.Background(), chatID, 1)
		assert.ErrorIs(t, err, domain.ErrOwnerNotRemovable)
	})

	t.Run("TargetNotMember", func(t *testing.T) {
		chats := new(MockChatRepo)
		svc := newChatService(chats, new(MockMessageRepo), new(MockPermissionRepo))

		chats.On("Get", mock.Anything, chatID).Return(group(), nil)

		err := svc.RemoveChatMember(context.Background(), chatID, 9)
		assert.ErrorIs(t, err, domain.ErrTargetNotMember)
	})
}

func TestUpdateUserChatPermissions(t *testing.T) {
	chatID := uuid.New()
	upd := domain.PermissionsUpdate{CanSendMessages: true, CanRemoveMembers: true}

	group := func() *domain.Chat {
		c := domain.NewChat("team", true, 1)
		c.ID = chatID
		c.MemberIDs = []int64{1, 2}
		return c
	}

	t.Run("Success", func(t *testing.T) {
		chats := new(MockChatRepo)
		perms := new(MockPermissionRepo)
		svc := newChatService(chats, new(MockMessageRepo), perms)

		chats.On("Get", mock.Anything, chatID).Return(group(), nil)
		perms.On("Update", mock.Anything, chatID, int64(2), upd).Return(nil)

		assert.NoError(t, svc.UpdateUserChatPermissions(context.Background(), chatID, 2, upd))
		perms.AssertExpectations(t)
	})

	t.Run("OwnerPermissionsFixed", func(t *testing.T) {
		chats := new(MockChatRepo)
		svc := newChatService(chats, new(MockMessageRepo), new(MockPermissionRepo))

		chats.On("Get", mock.Anything, chatID).Return(group(), nil)

		err := svc.UpdateUserChatPermissions(context.Background(), chatID, 1, upd)
		assert.ErrorIs(t, err, domain.ErrOwnerPermissionsFixed)
	})
}

func TestDeleteChat(t *testing.T) {
	chatID := uuid.New()
	chat := domain.NewChat("team", true, 1)
	chat.ID = chatID

	chats := new(MockChatRepo)
	messages := new(MockMessageRepo)
	perms := new(MockPermissionRepo)
	svc := newChatService(chats, messages, perms)

	chats.On("Get", mock.Anything, chatID).Return(chat, nil)
	messages.On("DeleteForChat", mock.Anything, chatID).Return(nil)
	perms.On("DeleteForChat", mock.Anything, chatID).Return(nil)
	chats.On("Delete", mock.Anything, chatID).Return(nil)

	assert.NoError(t, svc.DeleteChat(context.Background(), chatID))
	messages.AssertExpectations(t)
	perms.AssertExpectations(t)
	chats.AssertExpectations(t)
}

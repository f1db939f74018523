package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"messenger_go/internal/domain"
	"messenger_go/internal/service"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		name    string
		content string
		kind    service.CommandKind
		query   string
	}{
		{"AskCommand", "@ai what is Go?", service.CommandAsk, "what is Go?"},
		{"AskCaseInsensitive", "@AI what is Go?", service.CommandAsk, "what is Go?"},
		{"PhotoCommand", "@photo mountain sunset", service.CommandPhoto, "mountain sunset"},
		{"PhotoCaseInsensitive", "@Photo cats", service.CommandPhoto, "cats"},
		{"NoTrailingSpace", "@ai", service.CommandNone, ""},
		{"PhotoNoTrailingSpace", "@photo", service.CommandNone, ""},
		{"PrefixMidSentence", "hello @ai there", service.CommandNone, ""},
		{"PlainText", "good morning", service.CommandNone, ""},
		{"EmptyQuery", "@ai    ", service.CommandAsk, ""},
		{"AskWinsOverPhotoText", "@ai @photo cats", service.CommandAsk, "@photo cats"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := service.ParseCommand(tc.content)
			assert.Equal(t, tc.kind, cmd.Kind)
			assert.Equal(t, tc.query, cmd.Query)
		})
	}
}

func TestDispatch(t *testing.T) {
	chatID := uuid.New()

	t.Run("AskSuccess", func(t *testing.T) {
		asker := new(MockAsker)
		photos := new(MockPhotoSearcher)
		asker.On("Ask", mock.Anything, "what is Go?").Return("Go is a programming language.", nil)

		d := service.NewCommandDispatcher(asker, photos, zap.NewNop())
		msg := domain.NewMessage(chatID, 1, "@ai what is Go?")

		reply := d.Dispatch(context.Background(), msg)
		assert.NotNil(t, reply)
		assert.Equal(t, int64(domain.BotSenderID), reply.SenderID)
		assert.Equal(t, chatID, reply.ChatID)
		assert.Equal(t, "Go is a programming language.", reply.Content)
		photos.AssertNotCalled(t, "Search")
	})

	t.Run("AskFailureYieldsFallbackReply", func(t *testing.T) {
		asker := new(MockAsker)
		photos := new(MockPhotoSearcher)
		asker.On("Ask", mock.Anything, "anything").Return("", errors.New("upstream down"))

		d := service.NewCommandDispatcher(asker, photos, zap.NewNop())
		msg := domain.NewMessage(chatID, 1, "@ai anything")

		reply := d.Dispatch(context.Background(), msg)
		assert.NotNil(t, reply)
		assert.Equal(t, int64(domain.BotSenderID), reply.SenderID)
		assert.Contains(t, reply.Content, "AI assistant is currently unavailable")
	})

	t.Run("PhotoSuccess", func(t *testing.T) {
		asker := new(MockAsker)
		photos := new(MockPhotoSearcher)
		photos.On("Search", mock.Anything, "cats").Return("https://images.example/cat.jpg", nil)

		d := service.NewCommandDispatcher(asker, photos, zap.NewNop())
		msg := domain.NewMessage(chatID, 1, "@photo cats")

		reply := d.Dispatch(context.Background(), msg)
		assert.NotNil(t, reply)
		assert.Equal(t, "https://images.example/cat.jpg", reply.Content)
		asker.AssertNotCalled(t, "Ask")
	})

	t.Run("PhotoFailureYieldsFallbackReply", func(t *testing.T) {
		asker := new(MockAsker)
		photos := new(MockPhotoSearcher)
		photos.On("Search", mock.Anything, "nothing").Return("", domain.ErrProvider)

		d := service.NewCommandDispatcher(asker, photos, zap.NewNop())
		msg := domain.NewMessage(chatID, 1, "@photo nothing")

		reply := d.Dispatch(context.Background(), msg)
		assert.NotNil(t, reply)
		assert.Contains(t, reply.Content, "no photo could be found")
	})

	t.Run("NonCommandReturnsNil", func(t *testing.T) {
		asker := new(MockAsker)
		photos := new(MockPhotoSearcher)

		d := service.NewCommandDispatcher(asker, photos, zap.NewNop())
		msg := domain.NewMessage(chatID, 1, "just chatting")

		assert.Nil(t, d.Dispatch(context.Background(), msg))
		asker.AssertNotCalled(t, "Ask")
		photos.AssertNotCalled(t, "Search")
	})
}

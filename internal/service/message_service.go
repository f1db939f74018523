package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"messenger_go/internal/domain"
)

// Broadcaster fans an envelope out to every live connection of a chat. The
// hub satisfies it directly; the Redis bridge satisfies it for multi-instance
// deployments.
type Broadcaster interface {
	Broadcast(chatID uuid.UUID, env domain.Envelope)
}

// MessageService runs the message pipeline: persist, broadcast, then command
// dispatch. Persistence and broadcast always complete before dispatch, and a
// dispatch outcome never affects the original message.
type MessageService struct {
	chats      domain.ChatRepository
	messages   domain.MessageRepository
	broadcast  Broadcaster
	dispatcher *CommandDispatcher
	log        *zap.Logger
}

func NewMessageService(
	chats domain.ChatRepository,
	messages domain.MessageRepository,
	broadcast Broadcaster,
	dispatcher *CommandDispatcher,
	log *zap.Logger,
) *MessageService {
	return &MessageService{
		chats:      chats,
		messages:   messages,
		broadcast:  broadcast,
		dispatcher: dispatcher,
		log:        log,
	}
}

// CreateMessage persists and broadcasts msg, then evaluates its content for a
// bot command. A matched command produces a bot reply that re-enters the
// persist+broadcast step but is never re-dispatched.
func (s *MessageService) CreateMessage(ctx context.Context, msg *domain.Message) error {
	if err := validateMessage(msg); err != nil {
		return err
	}
	if _, err := s.chats.Get(ctx, msg.ChatID); err != nil {
		return err
	}

	if err := s.persistAndBroadcast(ctx, msg); err != nil {
		return err
	}

	reply := s.dispatcher.Dispatch(ctx, msg)
	if reply == nil {
		return nil
	}
	if err := s.persistAndBroadcast(ctx, reply); err != nil {
		// The original message is already stored and delivered; a failed
		// bot reply must not undo that.
		s.log.Error("persist bot reply",
			zap.String("chat_id", msg.ChatID.String()),
			zap.Error(err),
		)
	}
	return nil
}

func (s *MessageService) persistAndBroadcast(ctx context.Context, msg *domain.Message) error {
	s.log.Info("creating message",
		zap.String("message_id", msg.ID.String()),
		zap.String("chat_id", msg.ChatID.String()),
		zap.Int64("sender_id", msg.SenderID),
	)
	if err := s.messages.Add(ctx, msg); err != nil {
		return err
	}
	s.broadcast.Broadcast(msg.ChatID, domain.NewTextMessageEnvelope(msg))
	return nil
}

// GetMessages lists a chat's messages ordered by creation time (ties broken
// by id), with offset and limit applied after ordering.
func (s *MessageService) GetMessages(ctx context.Context, chatID uuid.UUID, offset, limit int, ordering domain.Order) ([]*domain.Message, error) {
	if _, err := s.chats.Get(ctx, chatID); err != nil {
		return nil, err
	}
	return s.messages.ListForChat(ctx, chatID, offset, limit, ordering)
}

// GetMessage returns one message after validating it belongs to the chat.
func (s *MessageService) GetMessage(ctx context.Context, chatID, messageID uuid.UUID) (*domain.Message, error) {
	msg, err := s.messages.Get(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.ChatID != chatID {
		return nil, domain.ErrMessageNotInChat
	}
	return msg, nil
}

// MarkMessageRead records userID's read receipt exactly once and broadcasts
// it. Repeated calls for the same user are no-ops.
func (s *MessageService) MarkMessageRead(ctx context.Context, chatID, messageID uuid.UUID, userID int64) error {
	msg, err := s.GetMessage(ctx, chatID, messageID)
	if err != nil {
		return err
	}
	for _, id := range msg.ReadBy {
		if id == userID {
			return nil
		}
	}

	s.log.Info("marking message as read",
		zap.String("message_id", messageID.String()),
		zap.Int64("user_id", userID),
	)
	if err := s.messages.MarkRead(ctx, messageID, userID); err != nil {
		return err
	}
	s.broadcast.Broadcast(chatID, domain.NewMessageReadEnvelope(messageID, userID))
	return nil
}

// DeleteMessage removes one message after validating its chat linkage.
func (s *MessageService) DeleteMessage(ctx context.Context, chatID, messageID uuid.UUID) error {
	if _, err := s.GetMessage(ctx, chatID, messageID); err != nil {
		return err
	}
	s.log.Info("deleting message", zap.String("message_id", messageID.String()))
	return s.messages.Delete(ctx, messageID)
}

func validateMessage(msg *domain.Message) error {
	if msg.Content == "" {
		return fmt.Errorf("%w: message content cannot be empty", domain.ErrInvalidInput)
	}
	if len(msg.Content) > domain.MaxMessageContentBytes {
		return fmt.Errorf("%w: message content exceeds %d bytes", domain.ErrInvalidInput, domain.MaxMessageContentBytes)
	}
	return nil
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// EnvelopeType tags the variants of the live-connection wire format.
type EnvelopeType string

const (
	EnvelopeTextMessage     EnvelopeType = "text_message"
	EnvelopeMessageRead     EnvelopeType = "message_read"
	EnvelopeTypingIndicator EnvelopeType = "typing_indicator"
	EnvelopeUserJoined      EnvelopeType = "user_joined"
	EnvelopeUserLeft        EnvelopeType = "user_left"
	EnvelopeError           EnvelopeType = "error"
)

// Envelope is an ephemeral, typed notification pushed over live connections.
// Envelopes are never persisted. Data always holds one of the *Data payload
// structs below, set by the constructors; it is typed any only for JSON
// encoding.
type Envelope struct {
	Type EnvelopeType `json:"type"`
	Data any          `json:"data"`
}

type TextMessageData struct {
	MessageID uuid.UUID `json:"message_id"`
	Content   string    `json:"content"`
	SenderID  int64     `json:"sender_id"`
	ChatID    uuid.UUID `json:"chat_id"`
	CreatedAt time.Time `json:"created_at"`
}

type MessageReadData struct {
	MessageID uuid.UUID `json:"message_id"`
	UserID    int64     `json:"user_id"`
}

type TypingIndicatorData struct {
	UserID   int64 `json:"user_id"`
	IsTyping bool  `json:"is_typing"`
}

type UserJoinedData struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username,omitempty"`
}

type UserLeftData struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username,omitempty"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewTextMessageEnvelope wraps a persisted message for broadcast.
func NewTextMessageEnvelope(m *Message) Envelope {
	return Envelope{
		Type: EnvelopeTextMessage,
		Data: TextMessageData{
			MessageID: m.ID,
			Content:   m.Content,
			SenderID:  m.SenderID,
			ChatID:    m.ChatID,
			CreatedAt: m.CreatedAt,
		},
	}
}

// NewMessageReadEnvelope announces a read receipt.
func NewMessageReadEnvelope(messageID uuid.UUID, userID int64) Envelope {
	return Envelope{
		Type: EnvelopeMessageRead,
		Data: MessageReadData{MessageID: messageID, UserID: userID},
	}
}

// NewTypingIndicatorEnvelope announces typing state for a user.
func NewTypingIndicatorEnvelope(userID int64, isTyping bool) Envelope {
	return Envelope{
		Type: EnvelopeTypingIndicator,
		Data: TypingIndicatorData{UserID: userID, IsTyping: isTyping},
	}
}

// NewUserJoinedEnvelope announces a user connecting to a chat.
func NewUserJoinedEnvelope(userID int64, username string) Envelope {
	return Envelope{
		Type: EnvelopeUserJoined,
		Data: UserJoinedData{UserID: userID, Username: username},
	}
}

// NewUserLeftEnvelope announces a user disconnecting from a chat.
func NewUserLeftEnvelope(userID int64, username string) Envelope {
	return Envelope{
		Type: EnvelopeUserLeft,
		Data: UserLeftData{UserID: userID, Username: username},
	}
}

// NewErrorEnvelope carries a transport-level error back to a client.
func NewErrorEnvelope(code, message string) Envelope {
	return Envelope{
		Type: EnvelopeError,
		Data: ErrorData{Code: code, Message: message},
	}
}

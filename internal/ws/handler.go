package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"messenger_go/internal/domain"
	"messenger_go/internal/security"
	"messenger_go/internal/service"
)

func normalizeAllowedOrigins(origins []string) map[string]struct{} {
	res := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		o := strings.TrimSpace(strings.ToLower(origin))
		if o != "" {
			res[o] = struct{}{}
		}
	}
	return res
}

func makeCheckOrigin(allowedOrigins []string) func(r *http.Request) bool {
	allowed := normalizeAllowedOrigins(allowedOrigins)
	if len(allowed) == 0 {
		return func(r *http.Request) bool {
			return false
		}
	}

	return func(r *http.Request) bool {
		origin := strings.TrimSpace(strings.ToLower(r.Header.Get("Origin")))
		if origin == "" {
			return false
		}
		if _, ok := allowed[origin]; ok {
			return true
		}

		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return false
		}
		normalized := strings.ToLower(fmt.Sprintf("%s://%s", u.Scheme, u.Host))
		_, ok := allowed[normalized]
		return ok
	}
}

func extractToken(r *http.Request) string {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		if token := strings.TrimSpace(authHeader[len("Bearer "):]); token != "" {
			return token
		}
	}

	// Browsers cannot set Authorization on WebSocket requests; the token
	// rides in the subprotocol list instead.
	protocolHeader := r.Header.Get("Sec-WebSocket-Protocol")
	if protocolHeader != "" {
		parts := strings.Split(protocolHeader, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if len(parts) >= 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	return ""
}

// inboundFrame is the client-to-server wire shape.
type inboundFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type typingIndicatorFrame struct {
	IsTyping bool `json:"is_typing"`
}

type messageReadFrame struct {
	MessageID uuid.UUID `json:"message_id"`
}

// MakeHandler returns the /ws/chats/{chatID} endpoint. It authenticates via
// bearer token, verifies chat membership, registers the connection, and then
// dispatches inbound frames:
//   - typing_indicator -> broadcast typing state to the chat
//   - message_read     -> record the receipt and broadcast it
//
// Malformed or unknown frames get an error envelope back on the same
// connection; the connection stays open. Every exit path unregisters.
func MakeHandler(
	hub *Hub,
	broadcast service.Broadcaster,
	tokens *security.TokenService,
	users domain.UserRepository,
	engine *service.PermissionEngine,
	msgSvc *service.MessageService,
	allowedOrigins []string,
	log *zap.Logger,
) http.HandlerFunc {
	checkOrigin := makeCheckOrigin(allowedOrigins)
	upgrader := websocket.Upgrader{
		CheckOrigin:  checkOrigin,
		Subprotocols: []string{"bearer"},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		chatID, err := uuid.Parse(chi.URLParam(r, "chatID"))
		if err != nil {
			http.Error(w, "invalid chat id", http.StatusBadRequest)
			return
		}

		token := extractToken(r)
		if token == "" {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		claims, err := tokens.Parse(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		sub, _ := claims["sub"].(string)
		if sub == "" {
			http.Error(w, "invalid token subject", http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		user, err := users.GetByUsername(ctx, sub)
		if err != nil || !user.IsActive {
			http.Error(w, "user not found or inactive", http.StatusUnauthorized)
			return
		}

		// Membership is checked before the upgrade; a connection for a chat
		// the user is not a member of never reaches the hub.
		if _, err := engine.RequireMember(ctx, chatID, user.ID); err != nil {
			switch {
			case errors.Is(err, domain.ErrNotFound):
				http.Error(w, "chat not found", http.StatusNotFound)
			case errors.Is(err, domain.ErrForbidden):
				http.Error(w, "not a member of this chat", http.StatusForbidden)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		raw, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn := NewConn(raw)

		// The request context carries the router's per-request timeout; a
		// live connection outlasts it. Detach so mark-read writes keep
		// working for the connection's whole lifetime.
		ctx = context.WithoutCancel(ctx)

		hub.Register(chatID, conn)
		defer func() {
			hub.Unregister(chatID, conn)
			conn.Close()
			broadcast.Broadcast(chatID, domain.NewUserLeftEnvelope(user.ID, user.Username))
		}()
		broadcast.Broadcast(chatID, domain.NewUserJoinedEnvelope(user.ID, user.Username))

		for {
			_, payload, err := raw.ReadMessage()
			if err != nil {
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(payload, &frame); err != nil {
				sendErrorEnvelope(conn, "invalid_frame", "frame is not valid JSON")
				continue
			}

			switch domain.EnvelopeType(frame.Type) {
			case domain.EnvelopeTypingIndicator:
				var data typingIndicatorFrame
				if err := json.Unmarshal(frame.Data, &data); err != nil {
					sendErrorEnvelope(conn, "invalid_frame", "invalid typing_indicator data")
					continue
				}
				broadcast.Broadcast(chatID, domain.NewTypingIndicatorEnvelope(user.ID, data.IsTyping))

			case domain.EnvelopeMessageRead:
				var data messageReadFrame
				if err := json.Unmarshal(frame.Data, &data); err != nil || data.MessageID == uuid.Nil {
					sendErrorEnvelope(conn, "invalid_frame", "invalid message_read data")
					continue
				}
				if err := msgSvc.MarkMessageRead(ctx, chatID, data.MessageID, user.ID); err != nil {
					log.Warn("ws mark read",
						zap.String("chat_id", chatID.String()),
						zap.Error(err),
					)
					sendErrorEnvelope(conn, "mark_read_failed", "failed to mark message as read")
				}

			default:
				sendErrorEnvelope(conn, "unknown_type", fmt.Sprintf("unknown frame type %q", frame.Type))
			}
		}
	}
}

// sendErrorEnvelope replies to one connection only, never the whole chat.
func sendErrorEnvelope(conn Conn, code, message string) {
	data, err := json.Marshal(domain.NewErrorEnvelope(code, message))
	if err != nil {
		return
	}
	_ = conn.WriteText(data)
}

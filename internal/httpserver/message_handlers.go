package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"messenger_go/internal/domain"
	"messenger_go/internal/service"
)

type messageCreateRequest struct {
	Content string `json:"content"`
}

func handleCreateMessage(msgSvc *service.MessageService, engine *service.PermissionEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		if currentUser == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		chatID, err := parseChatID(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid chat id"})
			return
		}
		var req messageCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		if _, err := engine.RequireSend(r.Context(), chatID, currentUser.ID); err != nil {
			writeError(w, err)
			return
		}

		msg := domain.NewMessage(chatID, currentUser.ID, req.Content)
		if err := msgSvc.CreateMessage(r.Context(), msg); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, msg)
	}
}

func handleListMessages(msgSvc *service.MessageService, engine *service.PermissionEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		if currentUser == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		chatID, err := parseChatID(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid chat id"})
			return
		}

		if _, err := engine.RequireMember(r.Context(), chatID, currentUser.ID); err != nil {
			writeError(w, err)
			return
		}

		offset, limit := paginationParams(r, 100)
		ordering := domain.ParseOrder(r.URL.Query().Get("ordering"))
		msgs, err := msgSvc.GetMessages(r.Context(), chatID, offset, limit, ordering)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, msgs)
	}
}

func handleGetMessage(msgSvc *service.MessageService, engine *service.PermissionEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		if currentUser == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		chatID, messageID, err := parseChatAndMessageID(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		if _, err := engine.RequireMember(r.Context(), chatID, currentUser.ID); err != nil {
			writeError(w, err)
			return
		}
		msg, err := msgSvc.GetMessage(r.Context(), chatID, messageID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, msg)
	}
}

func handleMarkMessageRead(msgSvc *service.MessageService, engine *service.PermissionEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		if currentUser == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		chatID, messageID, err := parseChatAndMessageID(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		if _, err := engine.RequireMember(r.Context(), chatID, currentUser.ID); err != nil {
			writeError(w, err)
			return
		}
		if err := msgSvc.MarkMessageRead(r.Context(), chatID, messageID, currentUser.ID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
	}
}

func handleDeleteMessage(msgSvc *service.MessageService, engine *service.PermissionEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		if currentUser == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		chatID, messageID, err := parseChatAndMessageID(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		msg, err := msgSvc.GetMessage(r.Context(), chatID, messageID)
		if err != nil {
			writeError(w, err)
			return
		}
		if _, err := engine.RequireDeleteMessage(r.Context(), chatID, currentUser.ID, msg.SenderID); err != nil {
			writeError(w, err)
			return
		}
		if err := msgSvc.DeleteMessage(r.Context(), chatID, messageID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

func parseChatAndMessageID(r *http.Request) (chatID, messageID uuid.UUID, err error) {
	chatID, err = parseChatID(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, errInvalidChatID
	}
	messageID, err = uuid.Parse(chi.URLParam(r, "messageID"))
	if err != nil {
		return uuid.Nil, uuid.Nil, errInvalidMessageID
	}
	return chatID, messageID, nil
}

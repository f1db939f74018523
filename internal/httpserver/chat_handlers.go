package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"messenger_go/internal/domain"
	"messenger_go/internal/service"
)

type chatCreateRequest struct {
	Name string `json:"name"`
}

func handleCreatePrivateChat(chatSvc *service.ChatService, userSvc *service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		if currentUser == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		otherUserID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user id"})
			return
		}
		var req chatCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		if err := userSvc.Exists(r.Context(), otherUserID); err != nil {
			writeError(w, err)
			return
		}

		chat := domain.NewChat(req.Name, false, currentUser.ID)
		if err := chatSvc.CreatePrivateChat(r.Context(), chat, otherUserID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, chat)
	}
}

func handleCreateGroupChat(chatSvc *service.ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		if currentUser == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		var req chatCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		chat := domain.NewChat(req.Name, true, currentUser.ID)
		if err := chatSvc.CreateGroupChat(r.Context(), chat); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, chat)
	}
}

func handleListChats(chatSvc *service.ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		if currentUser == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		chats, err := chatSvc.ListChatsForUser(r.Context(), currentUser.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, chats)
	}
}

func handleGetChat(engine *service.PermissionEngine) http.HandlerFunc {
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

		chat, err := engine.RequireMember(r.Context(), chatID, currentUser.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, chat)
	}
}

func handleDeleteChat(chatSvc *service.ChatService, engine *service.PermissionEngine) http.HandlerFunc {
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

		if _, err := engine.RequireDeleteChat(r.Context(), chatID, currentUser.ID); err != nil {
			writeError(w, err)
			return
		}
		if err := chatSvc.DeleteChat(r.Context(), chatID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

func handleAddChatMember(chatSvc *service.ChatService, userSvc *service.UserService, engine *service.PermissionEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		if currentUser == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		chatID, userID, err := parseChatAndUserID(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		if _, err := engine.RequireMember(r.Context(), chatID, currentUser.ID); err != nil {
			writeError(w, err)
			return
		}
		if err := userSvc.Exists(r.Context(), userID); err != nil {
			writeError(w, err)
			return
		}
		if err := chatSvc.AddChatMember(r.Context(), chatID, userID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "member added"})
	}
}

func handleRemoveChatMember(chatSvc *service.ChatService, engine *service.PermissionEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		if currentUser == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		chatID, userID, err := parseChatAndUserID(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		if _, err := engine.RequireRemoveMember(r.Context(), chatID, currentUser.ID, userID); err != nil {
			writeError(w, err)
			return
		}
		if err := chatSvc.RemoveChatMember(r.Context(), chatID, userID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "member removed"})
	}
}

func handleUpdatePermissions(chatSvc *service.ChatService, engine *service.PermissionEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		if currentUser == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		chatID, userID, err := parseChatAndUserID(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		var upd domain.PermissionsUpdate
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		if _, err := engine.RequireChangePermissions(r.Context(), chatID, currentUser.ID, userID); err != nil {
			writeError(w, err)
			return
		}
		if err := chatSvc.UpdateUserChatPermissions(r.Context(), chatID, userID, upd); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "permissions updated"})
	}
}

func parseChatID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "chatID"))
}

func parseChatAndUserID(r *http.Request) (uuid.UUID, int64, error) {
	chatID, err := parseChatID(r)
	if err != nil {
		return uuid.Nil, 0, errInvalidChatID
	}
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		return uuid.Nil, 0, errInvalidUserID
	}
	return chatID, userID, nil
}

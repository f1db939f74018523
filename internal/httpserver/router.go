package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"messenger_go/internal/config"
	"messenger_go/internal/domain"
	"messenger_go/internal/provider"
	"messenger_go/internal/security"
	"messenger_go/internal/service"
	"messenger_go/internal/store/mongo"
	"messenger_go/internal/ws"
)

// NewRouter constructs the main HTTP router and wires routes, services, and middleware.
func NewRouter(
	cfg *config.Config,
	userRepo domain.UserRepository,
	mdb *mongodrv.Database,
	hub *ws.Hub,
	broadcast service.Broadcaster,
	tokenSvc *security.TokenService,
	passwordHasher *security.PasswordHasher,
	asker provider.Asker,
	photos provider.PhotoSearcher,
	log *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Repositories
	chatRepo := mongo.NewChatRepo(mdb)
	msgRepo := mongo.NewMessageRepo(mdb)
	permRepo := mongo.NewPermissionRepo(mdb)

	// Services
	authSvc := service.NewAuthService(userRepo, tokenSvc, passwordHasher)
	userSvc := service.NewUserService(userRepo)
	chatSvc := service.NewChatService(chatRepo, msgRepo, permRepo, log)
	engine := service.NewPermissionEngine(chatRepo, permRepo)
	dispatcher := service.NewCommandDispatcher(asker, photos, log)
	msgSvc := service.NewMessageService(chatRepo, msgRepo, broadcast, dispatcher, log)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message":"Smart Messenger API","version":"1.0.0"}`))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Auth routes (no auth required)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", handleRegister(authSvc))
			r.Post("/login", handleLogin(authSvc))
		})

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(tokenSvc, userRepo, log))

			r.Post("/auth/logout", handleLogout())
			r.Get("/auth/me", handleMe())

			// Users
			r.Route("/users", func(r chi.Router) {
				r.Get("/", handleListUsers(userSvc))
				r.Delete("/me", handleDeactivateMe(userSvc))
				r.Get("/{userID}", handleGetUser(userSvc))
			})

			// Chats, members, permissions, messages
			r.Route("/chats", func(r chi.Router) {
				r.Post("/private/{userID}", handleCreatePrivateChat(chatSvc, userSvc))
				r.Post("/group", handleCreateGroupChat(chatSvc))
				r.Get("/", handleListChats(chatSvc))
				r.Get("/{chatID}", handleGetChat(engine))
				r.Delete("/{chatID}", handleDeleteChat(chatSvc, engine))

				r.Post("/{chatID}/members/{userID}", handleAddChatMember(chatSvc, userSvc, engine))
				r.Delete("/{chatID}/members/{userID}", handleRemoveChatMember(chatSvc, engine))
				r.Patch("/{chatID}/permissions/{userID}", handleUpdatePermissions(chatSvc, engine))

				r.Post("/{chatID}/messages", handleCreateMessage(msgSvc, engine))
				r.Get("/{chatID}/messages", handleListMessages(msgSvc, engine))
				r.Get("/{chatID}/messages/{messageID}", handleGetMessage(msgSvc, engine))
				r.Delete("/{chatID}/messages/{messageID}", handleDeleteMessage(msgSvc, engine))
				r.Post("/{chatID}/messages/{messageID}/read", handleMarkMessageRead(msgSvc, engine))
			})

			// Providers exposed directly
			r.Route("/ai", func(r chi.Router) {
				r.Post("/ask", handleAIAsk(asker))
				r.Get("/photo", handleAIPhoto(photos))
			})
		})
	})

	// WebSocket endpoint
	r.Get("/ws/chats/{chatID}", ws.MakeHandler(hub, broadcast, tokenSvc, userRepo, engine, msgSvc, cfg.CORSOrigins, log))

	return r
}

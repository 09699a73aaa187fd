package server

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/B5plus/Random-user/internal/chat"
	"github.com/B5plus/Random-user/internal/database"
	"github.com/B5plus/Random-user/internal/handlers"
	"github.com/B5plus/Random-user/internal/models"
	"github.com/B5plus/Random-user/pkg/auth"
)

type Server struct {
	Router     *gin.Engine
	DB         *database.Database
	Redis      *redis.Client
	Feed       *chat.Feed
	JWTManager *auth.JWTManager
}

func NewServer() *Server {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println(".env not found, using environment variables")
		}
	}

	dbConn := &database.Database{}
	if err := dbConn.Connect(); err != nil {
		log.Fatalf("Postgres connect failed: %v", err)
	}

	redisOpts, err := redis.ParseURL(os.Getenv("REDIS_URL"))
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Redis connect failed: %v", err)
	}

	if err := ensureAdmin(dbConn); err != nil {
		log.Fatalf("Admin seed failed: %v", err)
	}

	jwtMgr := auth.NewJWTManager(
		os.Getenv("JWT_SECRET"),
		24*time.Hour,
	)

	// Один feed на процесс, закрывается вместе с сервером
	feed := chat.NewFeed()
	store := chat.NewMessageStore(dbConn, feed)
	verifier := chat.NewAccessVerifier(dbConn)
	coordinator := chat.NewCoordinator(verifier, store, feed)

	authH := handlers.NewAuthHandler(dbConn, jwtMgr, rdb)
	userH := handlers.NewUserHandler(dbConn)
	roomH := handlers.NewRoomHandler(dbConn)
	chatH := handlers.NewChatHandler(dbConn, store, verifier)
	wsH := handlers.NewWebSocketHandler(coordinator)

	router := gin.Default()
	APIEndpoints(router, jwtMgr, rdb, authH, userH, roomH, chatH, wsH)

	return &Server{
		Router:     router,
		DB:         dbConn,
		Redis:      rdb,
		Feed:       feed,
		JWTManager: jwtMgr,
	}
}

func (s *Server) Run() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server starting on port %s", port)
	if err := s.Router.Run(":" + port); err != nil {
		log.Fatalf("Server run error: %v", err)
	}
}

func (s *Server) Stop() {
	s.Feed.Close()
}

// ensureAdmin создаёт администратора из окружения, если его ещё нет
func ensureAdmin(db *database.Database) error {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		return errors.New("ADMIN_USERNAME and ADMIN_PASSWORD are not set")
	}

	_, err := db.FindAdminByUsername(username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, database.ErrAdminNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.SaveAdmin(&models.Admin{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	})
}

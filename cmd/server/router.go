package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/B5plus/Random-user/internal/handlers"
	"github.com/B5plus/Random-user/internal/middleware"
	"github.com/B5plus/Random-user/pkg/auth"
)

func APIEndpoints(
	r *gin.Engine,
	jwtMgr *auth.JWTManager,
	rdb *redis.Client,
	authH *handlers.AuthHandler,
	userH *handlers.UserHandler,
	roomH *handlers.RoomHandler,
	chatH *handlers.ChatHandler,
	wsH *handlers.WebSocketHandler,
) {
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Server is running"})
	})

	// Auth endpoints
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", authH.Login)
		authGroup.POST("/logout", authH.Logout)
	}

	// Игровая часть: регистрация, verify перед чатом, отправка и поток
	api := r.Group("/api")
	{
		api.POST("/users", userH.Register)

		api.POST("/rooms/:roomId/verify-access", chatH.VerifyAccess)
		api.GET("/rooms/:roomId/messages", chatH.GetRoomMessages)
		api.GET("/rooms/:roomId/ws", wsH.HandlePlayerStream)

		api.POST("/messages", chatH.SendMessage)
		api.GET("/players/rooms", chatH.GetPlayerRooms)
	}

	// Админская часть под JWT
	admin := r.Group("/api/admin", middleware.AuthMiddleware(jwtMgr, rdb))
	{
		admin.POST("/users", userH.Register)
		admin.GET("/users", userH.GetAllUsers)
		// Отдельные префиксы: gin не даёт статике соседствовать с :id
		admin.GET("/departments/:department/users", userH.GetUsersByDepartment)
		admin.GET("/random-users/:count", userH.GetRandomUsers)
		admin.GET("/users/:id", userH.GetUser)
		admin.PUT("/users/:id", userH.UpdateUser)
		admin.DELETE("/users/:id", userH.DeleteUser)

		admin.POST("/rooms", roomH.CreateRoom)
		admin.GET("/rooms", roomH.GetAllRooms)
		admin.GET("/rooms/:roomId", roomH.GetRoom)
		admin.PUT("/rooms/:roomId", roomH.UpdateRoom)
		admin.DELETE("/rooms/:roomId", roomH.DeleteRoom)
		admin.GET("/rooms/:roomId/stats", roomH.GetRoomStats)

		admin.GET("/rooms/:roomId/members", roomH.GetRoomMembers)
		admin.POST("/rooms/:roomId/members", roomH.AddRoomMembers)
		admin.DELETE("/rooms/:roomId/members/:userId", roomH.RemoveRoomMember)

		admin.GET("/rooms/:roomId/messages", chatH.ListRoomMessages)
		admin.PUT("/messages/:id", chatH.UpdateMessage)
		admin.DELETE("/messages/:id", chatH.DeleteMessage)
	}

	// WebSocket админа вне группы: токен при апгрейде приходит в query
	r.GET("/api/admin/rooms/:roomId/ws", middleware.WSAuthMiddleware(jwtMgr, rdb), wsH.HandleAdminStream)
}

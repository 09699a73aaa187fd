package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/B5plus/Random-user/internal/chat"
	ws "github.com/B5plus/Random-user/internal/websocket"
)

// WebSocketHandler раздаёт потоки событий комнат
type WebSocketHandler struct {
	coordinator *chat.Coordinator
	upgrader    websocket.Upgrader
}

func NewWebSocketHandler(coordinator *chat.Coordinator) *WebSocketHandler {
	return &WebSocketHandler{
		coordinator: coordinator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// TODO: Проверить origin в prod
				return true
			},
		},
	}
}

// HandlePlayerStream открывает сессию игрока: до апгрейда соединения
// проверяется членство, без него подписки не бывает
func (h *WebSocketHandler) HandlePlayerStream(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("roomId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	contactHandle := c.Query("contact_handle")
	if contactHandle == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "contact_handle is required"})
		return
	}

	session, err := h.coordinator.Open(roomID, contactHandle)
	if err != nil {
		if errors.Is(err, chat.ErrAccessDenied) {
			c.JSON(http.StatusForbidden, gin.H{"error": "you are not a member of this room"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open session"})
		return
	}

	h.serve(c, session)
}

// HandleAdminStream — поток для админской панели, доступ уже проверен
// JWT middleware
func (h *WebSocketHandler) HandleAdminStream(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("roomId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	session, err := h.coordinator.OpenAdmin(roomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open session"})
		return
	}

	h.serve(c, session)
}

func (h *WebSocketHandler) serve(c *gin.Context, session *chat.Session) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		session.Close()
		return
	}

	client := ws.NewClient(conn, session)

	go client.WritePump()
	go client.ReadPump()
}

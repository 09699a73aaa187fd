package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/B5plus/Random-user/internal/chat"
	"github.com/B5plus/Random-user/internal/database"
	"github.com/B5plus/Random-user/internal/handlers/dto"
	"github.com/B5plus/Random-user/internal/models"
)

type ChatHandler struct {
	db       *database.Database
	store    *chat.MessageStore
	verifier *chat.AccessVerifier
}

func NewChatHandler(db *database.Database, store *chat.MessageStore, verifier *chat.AccessVerifier) *ChatHandler {
	return &ChatHandler{db: db, store: store, verifier: verifier}
}

// SendMessage принимает сообщение по HTTP, доставка живым подписчикам
// идёт через feed. Игрок обязан состоять в комнате
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.SenderType == models.SenderPlayer {
		if req.SenderID == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sender_id is required for player messages"})
			return
		}

		isMember, err := h.db.HasMember(req.RoomID, *req.SenderID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify membership"})
			return
		}
		if !isMember {
			c.JSON(http.StatusForbidden, gin.H{"error": "you are not a member of this room"})
			return
		}
	}

	message, err := h.store.Append(req.RoomID, req.SenderType, req.SenderID, req.SenderName, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyBody):
			c.JSON(http.StatusBadRequest, gin.H{"error": "message body is empty"})
		case errors.Is(err, database.ErrRoomNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send message"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.NewMessageResponse(*message))
}

// GetRoomMessages — история комнаты для игрока, вход только через verify
func (h *ChatHandler) GetRoomMessages(c *gin.Context) {
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

	if _, err := h.verifier.VerifyAccess(roomID, contactHandle); err != nil {
		if errors.Is(err, chat.ErrAccessDenied) {
			c.JSON(http.StatusForbidden, gin.H{"error": "you are not a member of this room"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify access"})
		return
	}

	h.listMessages(c, roomID)
}

// ListRoomMessages — история для админской панели, без проверки членства
func (h *ChatHandler) ListRoomMessages(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("roomId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	if _, err := h.db.GetRoom(roomID.String()); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	h.listMessages(c, roomID)
}

func (h *ChatHandler) listMessages(c *gin.Context, roomID uuid.UUID) {
	messages, err := h.store.ListByRoom(roomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": dto.NewMessageResponses(messages),
		"count":    len(messages),
	})
}

// VerifyAccess решает, пускать ли игрока в чат комнаты.
// Чужим номер комнаты ничего не говорит: несуществующая комната
// и отсутствие членства неотличимы
func (h *ChatHandler) VerifyAccess(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("roomId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	var req dto.VerifyAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, err := h.verifier.VerifyAccess(roomID, req.ContactHandle)
	if err != nil {
		if errors.Is(err, chat.ErrAccessDenied) {
			c.JSON(http.StatusForbidden, gin.H{"error": "you are not a member of this room"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify access"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "access granted",
		"member":  formatMemberResponse(&snapshot.Membership),
	})
}

// GetPlayerRooms — комнаты игрока по контактному номеру,
// сначала самые свежие
func (h *ChatHandler) GetPlayerRooms(c *gin.Context) {
	contactHandle := c.Query("contact_handle")
	if contactHandle == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "contact_handle is required"})
		return
	}

	memberships, err := h.verifier.RoomsForHandle(contactHandle)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get rooms"})
		return
	}

	result := make([]gin.H, len(memberships))
	for i := range memberships {
		result[i] = gin.H{
			"room":       formatRoomResponse(&memberships[i].Room),
			"membership": formatMemberResponse(&memberships[i]),
		}
	}

	c.JSON(http.StatusOK, gin.H{"rooms": result, "count": len(result)})
}

// UpdateMessage — правка только для админа, позиция сообщения
// в истории не меняется
func (h *ChatHandler) UpdateMessage(c *gin.Context) {
	var req dto.UpdateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.store.Edit(c.Param("id"), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyBody):
			c.JSON(http.StatusBadRequest, gin.H{"error": "message body is empty"})
		case errors.Is(err, database.ErrMessageNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update message"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.NewMessageResponse(*message))
}

// DeleteMessage — удаление только для админа
func (h *ChatHandler) DeleteMessage(c *gin.Context) {
	message, err := h.store.Remove(c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrMessageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "message deleted successfully",
		"deleted": dto.NewMessageResponse(*message),
	})
}

package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/B5plus/Random-user/internal/database"
	"github.com/B5plus/Random-user/internal/handlers/dto"
	"github.com/B5plus/Random-user/internal/models"
)

type RoomHandler struct {
	db *database.Database
}

func NewRoomHandler(db *database.Database) *RoomHandler {
	return &RoomHandler{db: db}
}

func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room := &models.Room{
		Name:        req.Name,
		Description: req.Description,
		Capacity:    req.Capacity,
		CreatedAt:   time.Now(),
	}

	if err := h.db.CreateRoom(room); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create room"})
		return
	}

	c.JSON(http.StatusCreated, formatRoomResponse(room))
}

func (h *RoomHandler) GetAllRooms(c *gin.Context) {
	rooms, err := h.db.GetAllRooms()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get rooms"})
		return
	}

	result := make([]gin.H, len(rooms))
	for i := range rooms {
		response := formatRoomResponse(&rooms[i])
		count, err := h.db.CountRoomMembers(rooms[i].ID)
		if err == nil {
			response["member_count"] = count
			response["available_slots"] = rooms[i].Capacity - count
		}
		result[i] = response
	}

	c.JSON(http.StatusOK, gin.H{"rooms": result, "count": len(rooms)})
}

func (h *RoomHandler) GetRoom(c *gin.Context) {
	room, err := h.db.GetRoom(c.Param("roomId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	c.JSON(http.StatusOK, formatRoomResponse(room))
}

func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	room, err := h.db.GetRoom(c.Param("roomId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	var req dto.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Обновляем только переданные поля
	if req.Name != "" {
		room.Name = req.Name
	}
	if req.Description != "" {
		room.Description = req.Description
	}
	if req.Capacity > 0 {
		room.Capacity = req.Capacity
	}

	if err := h.db.UpdateRoom(room); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update room"})
		return
	}

	c.JSON(http.StatusOK, formatRoomResponse(room))
}

// DeleteRoom удаляет комнату каскадно вместе с членствами и сообщениями
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	if err := h.db.DeleteRoom(c.Param("roomId")); err != nil {
		if errors.Is(err, database.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete room"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "room deleted successfully"})
}

// GetRoomStats — заполненность комнаты и список участников
func (h *RoomHandler) GetRoomStats(c *gin.Context) {
	room, err := h.db.GetRoom(c.Param("roomId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	members, err := h.db.ListRoomMembers(room.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get members"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"room":            formatRoomResponse(room),
		"total_members":   len(members),
		"capacity":        room.Capacity,
		"available_slots": room.Capacity - len(members),
		"members":         formatMemberList(members),
	})
}

func (h *RoomHandler) GetRoomMembers(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("roomId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	if _, err := h.db.GetRoom(roomID.String()); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	members, err := h.db.ListRoomMembers(roomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get members"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"room_id": roomID,
		"members": formatMemberList(members),
		"count":   len(members),
	})
}

// AddRoomMembers — пакетное добавление, при переполнении комнаты
// отклоняется весь пакет
func (h *RoomHandler) AddRoomMembers(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("roomId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	var req dto.AddMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inserted, err := h.db.AddRoomMembers(roomID, req.UserIDs)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrRoomNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		case errors.Is(err, database.ErrCapacityExceeded):
			c.JSON(http.StatusConflict, gin.H{"error": "room capacity exceeded"})
		case errors.Is(err, database.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add members"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"added_count": len(inserted),
		"members":     formatMemberList(inserted),
	})
}

func (h *RoomHandler) RemoveRoomMember(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("roomId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	membership, err := h.db.RemoveRoomMember(roomID, userID)
	if err != nil {
		if errors.Is(err, database.ErrMembershipNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "membership not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "member removed successfully",
		"member":  formatMemberResponse(membership),
	})
}

func formatRoomResponse(room *models.Room) gin.H {
	return gin.H{
		"id":          room.ID,
		"name":        room.Name,
		"description": room.Description,
		"capacity":    room.Capacity,
		"created_at":  room.CreatedAt,
	}
}

func formatMemberResponse(m *models.Membership) gin.H {
	return gin.H{
		"id":             m.ID,
		"room_id":        m.RoomID,
		"user_id":        m.UserID,
		"added_at":       m.AddedAt,
		"name":           m.User.Name,
		"contact_handle": m.User.ContactHandle,
		"department":     m.User.Department,
	}
}

func formatMemberList(members []models.Membership) []gin.H {
	result := make([]gin.H, len(members))
	for i := range members {
		result[i] = formatMemberResponse(&members[i])
	}
	return result
}

package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/B5plus/Random-user/internal/database"
	"github.com/B5plus/Random-user/internal/handlers/dto"
	"github.com/B5plus/Random-user/internal/models"
)

type UserHandler struct {
	db *database.Database
}

func NewUserHandler(db *database.Database) *UserHandler {
	return &UserHandler{db: db}
}

// Register регистрирует игрока, контактный номер уникален
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := &models.User{
		Name:          req.Name,
		ContactHandle: req.ContactHandle,
		Department:    req.Department,
		CreatedAt:     time.Now(),
	}

	if err := h.db.SaveUser(user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, formatUserResponse(user))
}

func (h *UserHandler) GetAllUsers(c *gin.Context) {
	users, err := h.db.GetAllUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": formatUserList(users), "count": len(users)})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.db.GetUser(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, formatUserResponse(user))
}

func (h *UserHandler) GetUsersByDepartment(c *gin.Context) {
	department := c.Param("department")

	users, err := h.db.GetUsersByDepartment(department)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"department": department,
		"users":      formatUserList(users),
		"count":      len(users),
	})
}

// GetRandomUsers выбирает случайных игроков для массового добавления в комнату
func (h *UserHandler) GetRandomUsers(c *gin.Context) {
	count, err := strconv.Atoi(c.Param("count"))
	if err != nil || count <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid count"})
		return
	}

	users, total, err := h.db.GetRandomUsers(count)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":          formatUserList(users),
		"total_count":    total,
		"selected_count": len(users),
	})
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	user, err := h.db.GetUser(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Обновляем только переданные поля
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.ContactHandle != "" {
		user.ContactHandle = req.ContactHandle
	}
	if req.Department != "" {
		user.Department = req.Department
	}

	if err := h.db.UpdateUser(user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		return
	}

	c.JSON(http.StatusOK, formatUserResponse(user))
}

// DeleteUser удаляет игрока, его старые сообщения остаются
// с зафиксированным именем
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.db.DeleteUser(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user deleted successfully"})
}

func formatUserResponse(user *models.User) gin.H {
	return gin.H{
		"id":             user.ID,
		"name":           user.Name,
		"contact_handle": user.ContactHandle,
		"department":     user.Department,
		"created_at":     user.CreatedAt,
	}
}

func formatUserList(users []models.User) []gin.H {
	result := make([]gin.H, len(users))
	for i := range users {
		result[i] = formatUserResponse(&users[i])
	}
	return result
}

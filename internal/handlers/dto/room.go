package dto

import "github.com/google/uuid"

type CreateRoomRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity" binding:"required,gt=0"`
}

type UpdateRoomRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity" binding:"omitempty,gt=0"`
}

type AddMembersRequest struct {
	UserIDs []uuid.UUID `json:"userIds" binding:"required,min=1"`
}

package dto

type CreateUserRequest struct {
	Name          string `json:"name" binding:"required"`
	ContactHandle string `json:"contact_handle" binding:"required"`
	Department    string `json:"department" binding:"required"`
}

type UpdateUserRequest struct {
	Name          string `json:"name"`
	ContactHandle string `json:"contact_handle"`
	Department    string `json:"department"`
}

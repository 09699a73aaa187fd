package chat

import (
	"errors"

	"github.com/B5plus/Random-user/internal/database"
	"github.com/B5plus/Random-user/internal/models"
	"github.com/google/uuid"
)

type accessDB interface {
	FindMembership(roomID uuid.UUID, contactHandle string) (*models.Membership, error)
	MembershipsForHandle(contactHandle string) ([]models.Membership, error)
}

// MemberSnapshot — членство вместе с данными пользователя на момент проверки
type MemberSnapshot struct {
	Membership models.Membership
	User       models.User
}

// AccessVerifier — единственные ворота перед чтением и записью чата
// от имени игрока
type AccessVerifier struct {
	db accessDB
}

func NewAccessVerifier(db accessDB) *AccessVerifier {
	return &AccessVerifier{db: db}
}

// VerifyAccess проверяет членство по (комната, контактный номер).
// Несуществующая комната и отсутствие членства дают одинаковый
// ErrAccessDenied, чтобы по ответу нельзя было зондировать комнаты
func (v *AccessVerifier) VerifyAccess(roomID uuid.UUID, contactHandle string) (*MemberSnapshot, error) {
	membership, err := v.db.FindMembership(roomID, contactHandle)
	if err != nil {
		if errors.Is(err, database.ErrMembershipNotFound) {
			return nil, ErrAccessDenied
		}
		return nil, err
	}

	return &MemberSnapshot{
		Membership: *membership,
		User:       membership.User,
	}, nil
}

// RoomsForHandle — комнаты игрока, сначала самые свежие добавления
func (v *AccessVerifier) RoomsForHandle(contactHandle string) ([]models.Membership, error) {
	return v.db.MembershipsForHandle(contactHandle)
}

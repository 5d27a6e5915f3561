package user

import (
	"time"

	"github.com/google/uuid"
)

type (
	User struct {
		UUID         uuid.UUID
		Name         string
		Email        string
		PasswordHash *string
		Role         string

		CreatedAt time.Time
		UpdatedAt time.Time

		DeletedAt *time.Time
	}
	Users []*User
)

func (u *User) scanTargets() []any {
	return []any{
		&u.UUID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Role,

		&u.CreatedAt,
		&u.UpdatedAt,

		&u.DeletedAt,
	}
}

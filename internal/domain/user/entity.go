package user

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

type (
	ID   uint64
	UUID = uuid.UUID
	User struct {
		UUID         UUID
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

func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

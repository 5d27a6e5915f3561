package user

import (
	"time"

	"github.com/google/uuid"
)

type (
	User struct {
		UUID      uuid.UUID `json:"uuid"`
		Name      string    `json:"name"`
		Email     string    `json:"email"`
		Role      string    `json:"role"`
		CreatedAt time.Time `json:"created_at"`
	}
	Users        []User
	ResponseData struct {
		Data Users `json:"data"`
	}
)

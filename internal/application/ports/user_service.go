package ports

import (
	"context"

	"preservation-api/internal/domain/user"
)

type UserService interface {
	FindUserByID(ctx context.Context, uuid user.UUID) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindUsers(ctx context.Context, page int) (user.Users, error)
	CreateUser(ctx context.Context, u user.User, password string) (*user.User, error)
	UpdateUser(ctx context.Context, u user.User, password string) (*user.User, error)
	DeleteUser(ctx context.Context, uuid user.UUID) error
}

package ports

import (
	"preservation-api/internal/domain/user"
)

type Auth interface {
	GenerateToken(u *user.User, requestPassword string) (string, error)
	IssueToken(u *user.User) (string, error)
}

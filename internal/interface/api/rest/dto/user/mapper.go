package user

import (
	"strings"

	"preservation-api/internal/domain/user"
)

func ToResponseUser(uDomain user.User) User {
	var u = User{
		UUID:      uDomain.UUID,
		Name:      uDomain.Name,
		Email:     uDomain.Email,
		Role:      uDomain.Role,
		CreatedAt: uDomain.CreatedAt,
	}

	return u
}

func ToResponseUsers(usDomain user.Users) Users {
	us := make(Users, len(usDomain))
	for idx, u := range usDomain {
		us[idx] = ToResponseUser(*u)
	}

	return us
}

func ToDomainUser(uRequest Request) user.User {
	return user.User{
		Name:  strings.TrimSpace(uRequest.Name),
		Email: strings.ToLower(strings.TrimSpace(uRequest.Email)),
		Role:  uRequest.Role,
	}
}

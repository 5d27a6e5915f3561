package user

import (
	domain "preservation-api/internal/domain/user"
)

func fromDBModel(model *User) *domain.User {
	var u = &domain.User{
		UUID:         model.UUID,
		Name:         model.Name,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		Role:         model.Role,

		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,

		DeletedAt: model.DeletedAt,
	}

	return u
}

func fromDBModels(models *Users) domain.Users {
	us := make(domain.Users, len(*models))
	for idx, u := range *models {
		us[idx] = fromDBModel(u)
	}

	return us
}

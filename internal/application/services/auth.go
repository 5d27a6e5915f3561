package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"preservation-api/internal/application/ports"
	"preservation-api/internal/domain/user"
	"preservation-api/internal/infrastructure/jwt"
)

var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrFailedToGenerateToken = errors.New("failed to generate token")
)

type AuthService struct {
	jwtService *jwt.Service
}

func NewAuthService(
	jwtService *jwt.Service,
) ports.Auth {
	return &AuthService{
		jwtService: jwtService,
	}
}

func (as *AuthService) GenerateToken(u *user.User, requestPassword string) (string, error) {
	if u == nil || u.PasswordHash == nil {
		return "", ErrInvalidCredentials
	}
	err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(requestPassword))
	if err != nil {
		return "", ErrInvalidCredentials
	}

	return as.IssueToken(u)
}

// IssueToken signs a token without a password check, used right after registration.
func (as *AuthService) IssueToken(u *user.User) (string, error) {
	token, err := as.jwtService.GenerateJWT(u.UUID.String(), u.Role, jwt.TokenTTL)
	if err != nil {
		return "", ErrFailedToGenerateToken
	}

	return token, nil
}

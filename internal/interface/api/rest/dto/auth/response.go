package auth

import (
	"preservation-api/internal/interface/api/rest/dto/user"
)

const TokenType = "Bearer"

type TokenResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	User        *user.User `json:"user,omitempty"`
}

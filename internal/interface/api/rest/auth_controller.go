package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"preservation-api/internal/application/ports"
	"preservation-api/internal/application/services"
	domain "preservation-api/internal/domain/user"
	userDB "preservation-api/internal/infrastructure/db/postgres/user"
	"preservation-api/internal/interface/api/rest/dto/auth"
	"preservation-api/internal/interface/api/rest/dto/user"
	"preservation-api/internal/interface/api/rest/validator"
)

type AuthController struct {
	logger      *zap.Logger
	userService ports.UserService
	authService ports.Auth
}

func NewAuthController(
	r *gin.Engine,
	logger *zap.Logger,
	userService ports.UserService,
	authService ports.Auth,
) *AuthController {
	ac := &AuthController{
		logger:      logger,
		userService: userService,
		authService: authService,
	}

	r.POST(RouteLogin, ac.LoginHandler)
	r.POST(RouteRegister, ac.RegisterHandler)

	return ac
}

func (ac *AuthController) LoginHandler(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "invalid json"},
		)
		return
	}

	if errs := validator.ValidateLogin(req); errs != nil {
		invalidBody(c, errs)
		return
	}

	u, err := ac.userService.FindByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to get a user"},
		)
		ac.logger.Error("FindByEmail() error", zap.Error(err))
		return
	}
	if u == nil {
		c.JSON(
			http.StatusUnauthorized,
			gin.H{"error": "Credenciais inválidas"},
		)
		return
	}

	token, err := ac.authService.GenerateToken(u, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Credenciais inválidas"})
			return
		}
		ac.logger.Error("GenerateToken() error", zap.Error(err), zap.Stringer("user_uuid", u.UUID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, auth.TokenResponse{
		AccessToken: token,
		TokenType:   auth.TokenType,
	})
}

// RegisterHandler creates a regular user and signs them in right away.
func (ac *AuthController) RegisterHandler(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "invalid json"},
		)
		return
	}

	if errs := validator.ValidateRegister(req); errs != nil {
		invalidBody(c, errs)
		return
	}

	uDomain := user.ToDomainUser(user.Request{Name: req.Name, Email: req.Email})
	uDomain.Role = domain.RoleUser

	u, err := ac.userService.CreateUser(c.Request.Context(), uDomain, req.Password)
	if err != nil {
		if errors.Is(err, userDB.ErrEmailAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email já cadastrado!"})
			return
		}
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to create a user"},
		)
		ac.logger.Error("CreateUser() error", zap.Error(err))
		return
	}

	token, err := ac.authService.IssueToken(u)
	if err != nil {
		ac.logger.Error("IssueToken() error", zap.Error(err), zap.Stringer("user_uuid", u.UUID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := user.ToResponseUser(*u)
	c.JSON(http.StatusCreated, auth.TokenResponse{
		AccessToken: token,
		TokenType:   auth.TokenType,
		User:        &resp,
	})
}

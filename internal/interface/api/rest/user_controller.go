package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"preservation-api/internal/application/ports"
	"preservation-api/internal/application/services"
	domain "preservation-api/internal/domain/user"
	userDB "preservation-api/internal/infrastructure/db/postgres/user"
	"preservation-api/internal/infrastructure/jwt"
	"preservation-api/internal/interface/api/rest/dto/user"
	"preservation-api/internal/interface/api/rest/middleware"
	"preservation-api/internal/interface/api/rest/validator"
)

type UserController struct {
	userService ports.UserService
	logger      *zap.Logger
}

func NewUserController(
	r *gin.Engine,
	userService ports.UserService,
	logger *zap.Logger,
	jwtService *jwt.Service,
) *UserController {
	uc := &UserController{
		userService: userService,
		logger:      logger,
	}

	authed := r.Group("", middleware.AuthMiddleware(jwtService))
	admin := authed.Group("", middleware.RequireRole(domain.RoleAdmin))

	admin.GET(RouteUsers, uc.GetUsersHandler)
	admin.POST(RouteUsers, uc.CreateUserHandler)
	authed.GET(RouteUser, uc.GetUserHandler)
	authed.PUT(RouteUser, uc.UpdateUserHandler)
	authed.DELETE(RouteUser, uc.DeleteUserHandler)

	return uc
}

func (uc *UserController) GetUsersHandler(c *gin.Context) {
	page, err := validator.ValidatePage(c.Query("page"))
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": err.Error()},
		)
		return
	}

	users, err := uc.userService.FindUsers(c.Request.Context(), page)
	if err != nil {
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to get users"},
		)
		uc.logger.Error("FindUsers() error", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, user.ResponseData{
		Data: user.ToResponseUsers(users),
	})
}

func (uc *UserController) GetUserHandler(c *gin.Context) {
	ok, uuid := validator.IsUUID(c.Param("user_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "user_id must be a valid UUID"},
		)
		return
	}

	u, err := uc.userService.FindUserByID(c.Request.Context(), uuid)
	if err != nil {
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to get a user"},
		)
		uc.logger.Error("FindUserByID() error", zap.Error(err))
		return
	}

	if u == nil {
		c.JSON(
			http.StatusNotFound,
			gin.H{"error": "Usuário não encontrado"},
		)
		return
	}

	c.JSON(http.StatusOK, user.ToResponseUser(*u))
}

func (uc *UserController) CreateUserHandler(c *gin.Context) {
	var req user.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err.Error())
		return
	}
	if errs := validator.ValidateUser(req, true); errs != nil {
		invalidBody(c, errs)
		return
	}

	u, err := uc.userService.CreateUser(c.Request.Context(), user.ToDomainUser(req), req.Password)
	if err != nil {
		if errors.Is(err, userDB.ErrEmailAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email já cadastrado!"})
			return
		}
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to create a user"},
		)
		uc.logger.Error("CreateUser() error", zap.Error(err))
		return
	}

	c.JSON(http.StatusCreated, user.ToResponseUser(*u))
}

// UpdateUserHandler lets users edit themselves; only admins edit others or change roles.
func (uc *UserController) UpdateUserHandler(c *gin.Context) {
	ok, uuid := validator.IsUUID(c.Param("user_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "user_id must be a valid UUID"},
		)
		return
	}
	if !selfOrAdmin(c, uuid) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	var req user.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err.Error())
		return
	}
	if errs := validator.ValidateUser(req, false); errs != nil {
		invalidBody(c, errs)
		return
	}

	uDomain := user.ToDomainUser(req)
	uDomain.UUID = uuid
	if c.GetString(middleware.CtxUserRole) != domain.RoleAdmin {
		uDomain.Role = ""
	}

	u, err := uc.userService.UpdateUser(c.Request.Context(), uDomain, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Usuário não encontrado"})
		case errors.Is(err, userDB.ErrEmailAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": "Email já cadastrado!"})
		default:
			c.JSON(
				http.StatusInternalServerError,
				gin.H{"error": "failed to update a user"},
			)
			uc.logger.Error("UpdateUser() error", zap.Error(err))
		}
		return
	}

	c.JSON(http.StatusOK, user.ToResponseUser(*u))
}

func (uc *UserController) DeleteUserHandler(c *gin.Context) {
	ok, uuid := validator.IsUUID(c.Param("user_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "user_id must be a valid UUID"},
		)
		return
	}
	if !selfOrAdmin(c, uuid) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	err := uc.userService.DeleteUser(c.Request.Context(), uuid)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Usuário não encontrado"})
			return
		}
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to delete user"},
		)
		uc.logger.Error("DeleteUser() error", zap.Error(err))
		return
	}

	c.Status(http.StatusNoContent)
}

func selfOrAdmin(c *gin.Context, target domain.UUID) bool {
	if c.GetString(middleware.CtxUserRole) == domain.RoleAdmin {
		return true
	}
	caller, ok := middleware.CallerUUID(c)
	return ok && caller == target
}

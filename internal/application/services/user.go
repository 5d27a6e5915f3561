package services

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"preservation-api/internal/application/ports"
	domain "preservation-api/internal/domain/user"
)

var ErrUserNotFound = errors.New("user not found")

type UserService struct {
	userRepository domain.Repository
	logger         *zap.Logger
	mCounter       *prometheus.CounterVec
}

func NewUserService(
	userRepository domain.Repository,
	logger *zap.Logger,
	mCounter *prometheus.CounterVec,
) ports.UserService {
	return &UserService{
		userRepository: userRepository,
		logger:         logger.With(zap.String("component", "user_service")),
		mCounter:       mCounter,
	}
}

func (us *UserService) FindUserByID(ctx context.Context, uuid domain.UUID) (*domain.User, error) {
	u, err := us.userRepository.FetchUserByID(ctx, uuid)
	if err != nil {
		return nil, err
	}

	return u, nil
}

func (us *UserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := us.userRepository.FetchUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	return u, nil
}

func (us *UserService) FindUsers(ctx context.Context, page int) (domain.Users, error) {
	users, err := us.userRepository.FetchUsers(ctx, page)
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (us *UserService) CreateUser(ctx context.Context, u domain.User, password string) (*domain.User, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = &hash
	if u.Role == "" {
		u.Role = domain.RoleUser
	}

	uRet, err := us.userRepository.CreateUser(ctx, u)
	if err != nil {
		return nil, err
	}

	us.inc("user_created_total")
	us.logger.Info("user created", zap.String("user_uuid", uRet.UUID.String()))

	return uRet, nil
}

// UpdateUser re-hashes the password when one is given and keeps the stored hash otherwise.
func (us *UserService) UpdateUser(ctx context.Context, u domain.User, password string) (*domain.User, error) {
	if password != "" {
		hash, err := hashPassword(password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = &hash
	}

	uRet, err := us.userRepository.UpdateUser(ctx, u)
	if err != nil {
		return nil, err
	}
	if uRet == nil {
		return nil, ErrUserNotFound
	}

	us.inc("user_updated_total")

	return uRet, nil
}

func (us *UserService) DeleteUser(ctx context.Context, userUUID domain.UUID) error {
	u, err := us.userRepository.DeleteUser(ctx, userUUID)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}

	us.inc("user_deleted_total")
	us.logger.Info("user deleted", zap.String("user_uuid", u.UUID.String()))

	return nil
}

func (us *UserService) inc(label string) {
	if us.mCounter != nil {
		us.mCounter.WithLabelValues(label).Inc()
	}
}

func hashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

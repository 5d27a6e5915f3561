package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"preservation-api/internal/domain/user"
	"preservation-api/internal/infrastructure/jwt"
)

type FakeUserRepository struct {
	CreateUserFunc func(ctx context.Context, req user.User) (*user.User, error)
	UpdateUserFunc func(ctx context.Context, req user.User) (*user.User, error)
	DeleteUserFunc func(ctx context.Context, id user.UUID) (*user.User, error)
}

func (f *FakeUserRepository) FetchUserByID(ctx context.Context, id user.UUID) (*user.User, error) {
	return nil, errNotUsed
}
func (f *FakeUserRepository) FetchUserByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, errNotUsed
}
func (f *FakeUserRepository) FetchUsers(ctx context.Context, page int) (user.Users, error) {
	return nil, errNotUsed
}
func (f *FakeUserRepository) CreateUser(ctx context.Context, req user.User) (*user.User, error) {
	if f.CreateUserFunc == nil {
		return nil, errNotUsed
	}
	return f.CreateUserFunc(ctx, req)
}
func (f *FakeUserRepository) UpdateUser(ctx context.Context, req user.User) (*user.User, error) {
	if f.UpdateUserFunc == nil {
		return nil, errNotUsed
	}
	return f.UpdateUserFunc(ctx, req)
}
func (f *FakeUserRepository) DeleteUser(ctx context.Context, id user.UUID) (*user.User, error) {
	if f.DeleteUserFunc == nil {
		return nil, errNotUsed
	}
	return f.DeleteUserFunc(ctx, id)
}

func TestUserService_CreateUser_HashesPassword(t *testing.T) {
	var stored user.User
	repo := &FakeUserRepository{
		CreateUserFunc: func(ctx context.Context, req user.User) (*user.User, error) {
			stored = req
			req.UUID = uuid.New()
			return &req, nil
		},
	}
	svc := NewUserService(repo, zap.NewNop(), nil)

	u, err := svc.CreateUser(context.Background(), user.User{Name: "Ana", Email: "ana@example.com"}, "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.RoleUser, u.Role)
	require.NotNil(t, stored.PasswordHash)
	assert.NotEqual(t, "secret1", *stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*stored.PasswordHash), []byte("secret1")))
}

func TestUserService_UpdateUser(t *testing.T) {
	tests := []struct {
		name     string
		password string
		missing  bool
		wantHash bool
		wantErr  error
	}{
		{name: "re-hash on new password", password: "another1", wantHash: true},
		{name: "keep hash without password", wantHash: false},
		{name: "missing user", missing: true, wantErr: ErrUserNotFound},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var stored user.User
			repo := &FakeUserRepository{
				UpdateUserFunc: func(ctx context.Context, req user.User) (*user.User, error) {
					stored = req
					if tt.missing {
						return nil, nil
					}
					return &req, nil
				},
			}
			svc := NewUserService(repo, zap.NewNop(), nil)

			_, err := svc.UpdateUser(context.Background(), user.User{UUID: uuid.New(), Name: "Ana"}, tt.password)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHash, stored.PasswordHash != nil)
			if tt.wantHash {
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*stored.PasswordHash), []byte(tt.password)))
			}
		})
	}
}

func TestUserService_DeleteUser_Missing(t *testing.T) {
	repo := &FakeUserRepository{
		DeleteUserFunc: func(ctx context.Context, id user.UUID) (*user.User, error) { return nil, nil },
	}
	err := NewUserService(repo, zap.NewNop(), nil).DeleteUser(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_GenerateToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	h := string(hash)

	jwtSvc := jwt.New("k1")
	auth := NewAuthService(jwtSvc)
	u := &user.User{UUID: uuid.New(), Role: user.RoleAdmin, PasswordHash: &h}

	tok, err := auth.GenerateToken(u, "secret1")
	require.NoError(t, err)
	claims, err := jwtSvc.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, u.UUID.String(), claims.UserID)
	assert.Equal(t, user.RoleAdmin, claims.Role)

	_, err = auth.GenerateToken(u, "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.GenerateToken(&user.User{UUID: uuid.New()}, "secret1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

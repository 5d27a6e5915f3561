package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"preservation-api/internal/domain/user"
	"preservation-api/internal/infrastructure/db/postgres"
)

var ErrEmailAlreadyExists = errors.New("email already exists")

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) user.Repository {
	return &Repository{db: db}
}

func (r *Repository) FetchUsers(ctx context.Context, page int) (user.Users, error) {
	if page < 1 {
		page = 1
	}
	rows, err := r.db.Query(ctx, SelectUsers, page)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	us := Users{}
	for rows.Next() {
		u := new(User)
		if err = rows.Scan(u.scanTargets()...); err != nil {
			return nil, err
		}

		us = append(us, u)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(&us), nil
}

func (r *Repository) FetchUserByID(ctx context.Context, uuid user.UUID) (*user.User, error) {
	return r.one(r.db.QueryRow(ctx, SelectUserByID, uuid))
}

func (r *Repository) FetchUserByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.one(r.db.QueryRow(ctx, SelectUserByEmail, email))
}

func (r *Repository) CreateUser(ctx context.Context, req user.User) (*user.User, error) {
	u, err := r.one(r.db.QueryRow(
		ctx,
		InsertUser,
		req.Name, req.Email, req.PasswordHash, req.Role,
	))
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	return u, nil
}

// UpdateUser keeps the stored hash and role when req leaves them empty.
func (r *Repository) UpdateUser(ctx context.Context, req user.User) (*user.User, error) {
	u, err := r.one(r.db.QueryRow(ctx, UpdateUserByUUID,
		req.Name, req.Email, req.PasswordHash, req.Role, req.UUID,
	))
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	return u, nil
}

func (r *Repository) DeleteUser(ctx context.Context, uuid user.UUID) (*user.User, error) {
	return r.one(r.db.QueryRow(ctx, SoftDeleteUserByUUID, uuid))
}

// one scans a single row; a missing row is (nil, nil).
func (r *Repository) one(row pgx.Row) (*user.User, error) {
	u := new(User)
	if err := row.Scan(u.scanTargets()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(u), nil
}

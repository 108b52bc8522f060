package repository

import (
	"context"
	"fmt"

	"storefront/internal/model"
)

type userRepository struct {
	db *DB
}

// NewUserRepository creates a DB-backed user repository.
func NewUserRepository(db *DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	err := r.db.write(ctx, func() error {
		key := emailKey(user.Email)
		if _, ok := r.db.users[key]; ok {
			return ErrDuplicate
		}
		user.ID = r.db.nextUserID
		r.db.nextUserID++
		r.db.users[key] = *user
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.Email, err)
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var out *model.User
	err := r.db.read(ctx, func() error {
		u, ok := r.db.users[emailKey(email)]
		if !ok {
			return ErrNotFound
		}
		out = &u
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return out, nil
}

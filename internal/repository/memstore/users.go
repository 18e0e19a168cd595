package memstore

import (
	"context"

	"go-inventory-tracker/internal/model"
	"go-inventory-tracker/internal/repository"

	"github.com/google/uuid"
)

type userRepo struct{ *base }

func uniqueViolation(st *state, u *model.User) bool {
	for id, existing := range st.users {
		if id == u.ID {
			continue
		}
		if existing.Username == u.Username || existing.Email == u.Email {
			return true
		}
	}
	return false
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.with(ctx, func(st *state) error {
		user.EnsureID()
		if _, exists := st.users[user.ID]; exists || uniqueViolation(st, user) {
			return repository.ErrDuplicate
		}
		now := r.now()
		if user.CreatedAt.IsZero() {
			user.CreatedAt = now
		}
		user.UpdatedAt = now
		st.users[user.ID] = *user
		return nil
	})
}

func (r *userRepo) find(ctx context.Context, match func(model.User) bool) (*model.User, error) {
	var found model.User
	err := r.with(ctx, func(st *state) error {
		for _, u := range st.users {
			if match(u) {
				found = u
				return nil
			}
		}
		return repository.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.find(ctx, func(u model.User) bool { return u.ID == id })
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.find(ctx, func(u model.User) bool { return u.Email == email })
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.find(ctx, func(u model.User) bool { return u.Username == username })
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	return r.with(ctx, func(st *state) error {
		if _, ok := st.users[user.ID]; !ok {
			return repository.ErrNotFound
		}
		if uniqueViolation(st, user) {
			return repository.ErrDuplicate
		}
		user.UpdatedAt = r.now()
		st.users[user.ID] = *user
		return nil
	})
}

func (r *userRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	return r.with(ctx, func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return repository.ErrNotFound
		}
		u.Password = hashedPassword
		u.UpdatedAt = r.now()
		st.users[id] = u
		return nil
	})
}

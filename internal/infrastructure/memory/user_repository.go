package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// UserRepository implementación en memoria de repository.UserRepository.
type UserRepository struct {
	v view
}

var _ repository.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	return r.v.do(ctx, func(st *state) error {
		for _, existing := range st.users {
			if strings.EqualFold(existing.Email, u.Email) {
				return fmt.Errorf("email %q: %w", u.Email, domain.ErrDuplicate)
			}
		}
		u.ID = st.nextID("users")
		st.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	var out *entity.User
	err := r.v.do(ctx, func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.v.do(ctx, func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

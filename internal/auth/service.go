package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/muebleria-erp/muebleria-erp/internal/platform/httpx"
	"github.com/muebleria-erp/muebleria-erp/internal/shared"
)

// ErrInvalidCredentials covers both unknown usernames and bad passwords
// so callers cannot probe which accounts exist.
var ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", httpx.ErrUnauthorized)

// Service authenticates users.
type Service struct {
	repo Repository
}

// NewService constructs the auth service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Login verifies the credentials and returns the identity to store in the
// session.
func (s *Service) Login(ctx context.Context, username, password string) (shared.Identity, *User, error) {
	if username == "" || password == "" {
		return shared.Identity{}, nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return shared.Identity{}, nil, ErrInvalidCredentials
		}
		return shared.Identity{}, nil, err
	}
	if !user.Active {
		return shared.Identity{}, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return shared.Identity{}, nil, ErrInvalidCredentials
	}

	_ = s.repo.TouchLastLogin(ctx, user.ID)

	ident := shared.Identity{UserID: user.ID, Role: user.RoleID}
	if user.VendedorID != nil {
		ident.VendedorID = *user.VendedorID
	}
	return ident, user, nil
}

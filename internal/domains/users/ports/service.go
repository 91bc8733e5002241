package ports

import (
	"context"

	"github.com/Apurer/go-pos-api-server/internal/domains/users/domain"
)

// Service exposes staff account use cases to adapters.
type Service interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, username string, updated *domain.User) (*domain.User, error)
	Delete(ctx context.Context, username string) error
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, token string)
	// Authenticate resolves a session token to its staff account.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

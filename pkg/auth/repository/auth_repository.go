package repository

import (
	"context"

	"github.com/deryamemmedli/agrimonitor/entities"
)

type AuthRepository interface {
	// CreateAccount inserts the account and its first grant together.
	CreateAccount(ctx context.Context, a *entities.Account, g *entities.RoleGrant) error
	ByEmail(ctx context.Context, email string) (*entities.Account, error)
	// ByID loads the account with its grants.
	ByID(ctx context.Context, id uint) (*entities.Account, error)
}

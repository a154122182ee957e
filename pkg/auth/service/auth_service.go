package service

import (
	"context"

	"github.com/deryamemmedli/agrimonitor/entities"
	"github.com/deryamemmedli/agrimonitor/pkg/auth"
)

type AuthService interface {
	Register(ctx context.Context, in auth.RegisterInput) (*entities.Account, error)
	Login(ctx context.Context, email, password string) (*auth.Session, error)
	Me(ctx context.Context, accountID uint) (*auth.Me, error)
	// Authenticate turns a bearer token into an account id.
	Authenticate(raw string) (uint, error)
}

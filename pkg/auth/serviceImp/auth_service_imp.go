package serviceImp

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/deryamemmedli/agrimonitor/entities"
	"github.com/deryamemmedli/agrimonitor/pkg/apperr"
	"github.com/deryamemmedli/agrimonitor/pkg/auth"
	repo "github.com/deryamemmedli/agrimonitor/pkg/auth/repository"
	"github.com/deryamemmedli/agrimonitor/pkg/auth/service"
	"github.com/deryamemmedli/agrimonitor/pkg/role"
)

type authSvc struct {
	r      repo.AuthRepository
	tokens *auth.Tokens
	cost   int
	log    *slog.Logger
}

func NewAuthService(r repo.AuthRepository, tokens *auth.Tokens, log *slog.Logger) service.AuthService {
	return &authSvc{r: r, tokens: tokens, cost: bcrypt.DefaultCost, log: log}
}

func (s *authSvc) Register(ctx context.Context, in auth.RegisterInput) (*entities.Account, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Validation("invalid email address")
	}
	if len(in.Password) < auth.MinPasswordLen {
		return nil, apperr.Validation("password must be at least %d characters", auth.MinPasswordLen)
	}
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		return nil, apperr.Validation("full_name is required")
	}
	r, ok := entities.ParseRole(in.Role)
	if !ok {
		return nil, apperr.New(apperr.KindRoleNotGrantable, "role %q cannot be granted", in.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	a := &entities.Account{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     name,
		Phone:        strings.TrimSpace(in.Phone),
		PrimaryRole:  r,
	}
	g := &entities.RoleGrant{Role: r}
	switch r {
	case entities.RoleFarmer:
		g.FarmName, g.Address = in.FarmName, in.Address
	case entities.RoleAgronomist:
		g.CompanyName, g.LicenseNumber = in.CompanyName, in.LicenseNumber
	}

	if err := s.r.CreateAccount(ctx, a, g); err != nil {
		return nil, err
	}
	s.log.Info("account registered", "account_id", a.ID, "role", r)
	return a, nil
}

func (s *authSvc) Login(ctx context.Context, email, password string) (*auth.Session, error) {
	a, err := s.r.ByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.New(apperr.KindUnauthenticated, "invalid credentials")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return nil, apperr.New(apperr.KindUnauthenticated, "invalid credentials")
	}
	tok, exp, err := s.tokens.Sign(a.ID)
	if err != nil {
		return nil, err
	}
	return &auth.Session{Token: tok, TokenType: "bearer", ExpiresAt: exp, Account: a}, nil
}

func (s *authSvc) Me(ctx context.Context, accountID uint) (*auth.Me, error) {
	a, err := s.r.ByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &auth.Me{Account: a, Roles: role.Sorted(a.Grants), Profiles: a.Grants}, nil
}

func (s *authSvc) Authenticate(raw string) (uint, error) { return s.tokens.Parse(raw) }

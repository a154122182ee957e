package serviceImp

import (
	"context"
	"log/slog"
	"slices"

	"github.com/deryamemmedli/agrimonitor/entities"
	"github.com/deryamemmedli/agrimonitor/pkg/apperr"
	"github.com/deryamemmedli/agrimonitor/pkg/role"
	repo "github.com/deryamemmedli/agrimonitor/pkg/role/repository"
	"github.com/deryamemmedli/agrimonitor/pkg/role/service"
)

type roleSvc struct {
	r   repo.RoleRepository
	log *slog.Logger
}

func NewRoleService(r repo.RoleRepository, log *slog.Logger) service.RoleService {
	return &roleSvc{r: r, log: log}
}

func (s *roleSvc) AvailableRoles(ctx context.Context, accountID uint) ([]entities.Role, error) {
	if _, err := s.r.Account(ctx, accountID); err != nil {
		return nil, err
	}
	grants, err := s.r.Grants(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return role.Sorted(grants), nil
}

func (s *roleSvc) ActivateRole(ctx context.Context, accountID uint, requested string) (entities.Role, error) {
	r, ok := entities.ParseRole(requested)
	if !ok {
		return "", apperr.New(apperr.KindRoleNotGrantable, "role %q cannot be granted", requested)
	}
	held, err := s.AvailableRoles(ctx, accountID)
	if err != nil {
		return "", err
	}
	if slices.Contains(held, r) {
		return r, nil
	}
	if err := s.r.Grant(ctx, accountID, r); err != nil {
		return "", err
	}
	s.log.Info("role granted", "account_id", accountID, "role", r)
	return r, nil
}

func (s *roleSvc) Resolve(ctx context.Context, accountID uint, requested string) (role.Actor, error) {
	acc, err := s.r.Account(ctx, accountID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return role.Actor{}, apperr.New(apperr.KindUnauthenticated, "account no longer exists")
		}
		return role.Actor{}, err
	}
	grants, err := s.r.Grants(ctx, accountID)
	if err != nil {
		return role.Actor{}, err
	}
	held := role.Sorted(grants)
	if len(held) == 0 {
		return role.Actor{}, apperr.PermissionDenied("account holds no role")
	}

	if requested == "" {
		if slices.Contains(held, acc.PrimaryRole) {
			return role.Actor{AccountID: accountID, Role: acc.PrimaryRole}, nil
		}
		return role.Actor{AccountID: accountID, Role: held[0]}, nil
	}
	r, ok := entities.ParseRole(requested)
	if !ok || !slices.Contains(held, r) {
		return role.Actor{}, apperr.PermissionDenied("role %q is not held by this account", requested)
	}
	return role.Actor{AccountID: accountID, Role: r}, nil
}

func (s *roleSvc) UpdateProfile(ctx context.Context, actor role.Actor, p role.Profile) (*entities.RoleGrant, error) {
	account, grant := p.Columns(actor.Role)
	return s.r.UpdateProfile(ctx, actor.AccountID, actor.Role, account, grant)
}

package repositoryImp

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/deryamemmedli/agrimonitor/entities"
	"github.com/deryamemmedli/agrimonitor/pkg/apperr"
	"github.com/deryamemmedli/agrimonitor/pkg/role/repository"
)

type roleRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.RoleRepository { return &roleRepo{db} }

func (r *roleRepo) Account(ctx context.Context, id uint) (*entities.Account, error) {
	var a entities.Account
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("account %d not found", id)
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	return &a, nil
}

func (r *roleRepo) Grants(ctx context.Context, accountID uint) ([]entities.RoleGrant, error) {
	var out []entities.RoleGrant
	if err := r.db.WithContext(ctx).Where("account_id = ?", accountID).Order("id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}
	return out, nil
}

func (r *roleRepo) Grant(ctx context.Context, accountID uint, role entities.Role) error {
	g := entities.RoleGrant{AccountID: accountID, Role: role}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "account_id"}, {Name: "role"}}, DoNothing: true}).
		Create(&g).Error
	if err != nil {
		return fmt.Errorf("grant %s: %w", role, err)
	}
	return nil
}

func (r *roleRepo) UpdateProfile(ctx context.Context, accountID uint, role entities.Role, account, grant map[string]any) (*entities.RoleGrant, error) {
	var out entities.RoleGrant
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(account) > 0 {
			res := tx.Model(&entities.Account{}).Where("id = ?", accountID).Updates(account)
			if res.Error != nil {
				return fmt.Errorf("update account: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return apperr.NotFound("account %d not found", accountID)
			}
		}
		if len(grant) > 0 {
			res := tx.Model(&entities.RoleGrant{}).Where("account_id = ? AND role = ?", accountID, role).Updates(grant)
			if res.Error != nil {
				return fmt.Errorf("update profile: %w", res.Error)
			}
		}
		if err := tx.Where("account_id = ? AND role = ?", accountID, role).First(&out).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.PermissionDenied("role %s not held", role)
			}
			return fmt.Errorf("load grant: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

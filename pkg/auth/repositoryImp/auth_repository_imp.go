package repositoryImp

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/deryamemmedli/agrimonitor/entities"
	"github.com/deryamemmedli/agrimonitor/pkg/apperr"
	"github.com/deryamemmedli/agrimonitor/pkg/auth/repository"
)

type authRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.AuthRepository { return &authRepo{db} }

func (r *authRepo) CreateAccount(ctx context.Context, a *entities.Account, g *entities.RoleGrant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&entities.Account{}).Where("email = ?", a.Email).Count(&n).Error; err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if n > 0 {
			return apperr.New(apperr.KindConflict, "email already registered")
		}
		if err := tx.Omit("Grants").Create(a).Error; err != nil {
			return fmt.Errorf("create account: %w", err)
		}
		g.AccountID = a.ID
		if err := tx.Create(g).Error; err != nil {
			return fmt.Errorf("create grant: %w", err)
		}
		return nil
	})
}

func (r *authRepo) ByEmail(ctx context.Context, email string) (*entities.Account, error) {
	var a entities.Account
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("account not found")
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return &a, nil
}

func (r *authRepo) ByID(ctx context.Context, id uint) (*entities.Account, error) {
	var a entities.Account
	err := r.db.WithContext(ctx).
		Preload("Grants", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&a, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("account %d not found", id)
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	return &a, nil
}

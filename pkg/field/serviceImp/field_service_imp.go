package serviceImp

import (
	"context"
	"log/slog"

	"gorm.io/datatypes"

	"github.com/deryamemmedli/agrimonitor/entities"
	"github.com/deryamemmedli/agrimonitor/pkg/field"
	repo "github.com/deryamemmedli/agrimonitor/pkg/field/repository"
	"github.com/deryamemmedli/agrimonitor/pkg/field/service"
	"github.com/deryamemmedli/agrimonitor/pkg/role"
)

const (
	defaultPage = 50
	maxPage     = 500
)

type fieldSvc struct {
	r   repo.FieldRepository
	log *slog.Logger
}

func NewFieldService(r repo.FieldRepository, log *slog.Logger) service.FieldService {
	return &fieldSvc{r: r, log: log}
}

func (s *fieldSvc) Create(ctx context.Context, actor role.Actor, in field.Input) (*entities.Field, error) {
	if err := actor.Require(entities.RoleFarmer); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	f := &entities.Field{
		OwnerID:      actor.AccountID,
		Name:         in.Name,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		AreaHectares: in.AreaHectares,
		CropType:     in.CropType,
	}
	if len(in.Boundary) > 0 && string(in.Boundary) != "null" {
		f.Boundary = datatypes.JSON(in.Boundary)
	}
	if err := s.r.Create(ctx, f); err != nil {
		return nil, err
	}
	s.log.Info("field created", "field_id", f.ID, "owner_id", f.OwnerID)
	return f, nil
}

func (s *fieldSvc) Get(ctx context.Context, actor role.Actor, id uint) (*entities.Field, error) {
	f, err := s.r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := field.CanView(actor, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *fieldSvc) Update(ctx context.Context, actor role.Actor, id uint, p field.Patch) (*entities.Field, error) {
	cur, err := s.r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := field.CanEdit(actor, cur); err != nil {
		return nil, err
	}
	cols, err := p.Columns(cur.Latitude, cur.Longitude)
	if err != nil {
		return nil, err
	}
	return s.r.Update(ctx, id, actor.AccountID, cols)
}

func (s *fieldSvc) Delete(ctx context.Context, actor role.Actor, id uint) error {
	if err := actor.Require(entities.RoleFarmer); err != nil {
		return err
	}
	if err := s.r.Delete(ctx, id, actor.AccountID); err != nil {
		return err
	}
	s.log.Info("field deleted", "field_id", id, "owner_id", actor.AccountID)
	return nil
}

func (s *fieldSvc) List(ctx context.Context, actor role.Actor, page service.Page) ([]entities.Field, error) {
	if actor.Is(entities.RoleFarmer) {
		return s.r.List(ctx, repo.Filter{OwnerID: actor.AccountID})
	}
	limit := page.Limit
	if limit <= 0 {
		limit = defaultPage
	}
	if limit > maxPage {
		limit = maxPage
	}
	offset := page.Offset
	if offset < 0 {
		offset = 0
	}
	return s.r.List(ctx, repo.Filter{Limit: limit, Offset: offset})
}

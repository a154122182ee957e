package serviceImp

import (
	"context"
	"log/slog"

	"github.com/deryamemmedli/agrimonitor/entities"
	"github.com/deryamemmedli/agrimonitor/pkg/apperr"
	"github.com/deryamemmedli/agrimonitor/pkg/clock"
	"github.com/deryamemmedli/agrimonitor/pkg/request"
	repo "github.com/deryamemmedli/agrimonitor/pkg/request/repository"
	"github.com/deryamemmedli/agrimonitor/pkg/request/service"
	"github.com/deryamemmedli/agrimonitor/pkg/role"
	"github.com/deryamemmedli/agrimonitor/pkg/treatment"
)

type requestSvc struct {
	r   repo.RequestRepository
	clk clock.Clock
	log *slog.Logger
}

func NewRequestService(r repo.RequestRepository, clk clock.Clock, log *slog.Logger) service.RequestService {
	return &requestSvc{r: r, clk: clk, log: log}
}

func (s *requestSvc) Create(ctx context.Context, actor role.Actor, in request.CreateInput) (*entities.Request, error) {
	if err := actor.Require(entities.RoleAgronomist); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	req := &entities.Request{
		AgronomistID:  actor.AccountID,
		FieldID:       in.FieldID,
		Status:        entities.RequestPending,
		Message:       in.Message,
		ProposedPrice: in.Price,
		HealthIssue:   in.HealthIssue,
	}
	if err := s.r.Create(ctx, req, request.DefaultBeforeNDVI); err != nil {
		return nil, err
	}
	s.log.Info("request created", "request_id", req.ID, "field_id", req.FieldID,
		"agronomist_id", req.AgronomistID, "before_ndvi", req.BeforeNDVI, "estimated", req.NDVIEstimated)
	return req, nil
}

// decidable loads a request the actor may accept or reject.
func (s *requestSvc) decidable(ctx context.Context, actor role.Actor, id uint, a request.Action) (*entities.Request, error) {
	if err := actor.Require(entities.RoleFarmer); err != nil {
		return nil, err
	}
	req, err := s.r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.FarmerID != actor.AccountID {
		return nil, apperr.PermissionDenied("request %d is for another farmer's field", id)
	}
	if _, err := request.Next(req.Status, a); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *requestSvc) Accept(ctx context.Context, actor role.Actor, id uint) (*entities.Request, *entities.Treatment, error) {
	req, err := s.decidable(ctx, actor, id, request.Accept)
	if err != nil {
		return nil, nil, err
	}
	now := s.clk.Now()
	t := treatment.NewScheduled(req, now)
	out, err := s.r.Accept(ctx, id, now, t)
	if err != nil {
		return nil, nil, err
	}
	t.Derive()
	s.log.Info("request accepted", "request_id", id, "treatment_id", t.ID)
	return out, t, nil
}

func (s *requestSvc) Reject(ctx context.Context, actor role.Actor, id uint) (*entities.Request, error) {
	if _, err := s.decidable(ctx, actor, id, request.Reject); err != nil {
		return nil, err
	}
	out, err := s.r.Reject(ctx, id, s.clk.Now())
	if err != nil {
		return nil, err
	}
	s.log.Info("request rejected", "request_id", id)
	return out, nil
}

func (s *requestSvc) Delete(ctx context.Context, actor role.Actor, id uint) error {
	req, err := s.r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	var keepAccepted bool
	switch {
	case actor.Is(entities.RoleAgronomist) && req.AgronomistID == actor.AccountID:
	case actor.Is(entities.RoleFarmer) && req.FarmerID == actor.AccountID:
		if req.Status == entities.RequestAccepted {
			return apperr.PermissionDenied("request %d is accepted and cannot be deleted by the farmer", id)
		}
		keepAccepted = true
	default:
		return apperr.PermissionDenied("request %d cannot be deleted by this account", id)
	}
	if err := s.r.Delete(ctx, id, keepAccepted); err != nil {
		return err
	}
	s.log.Info("request deleted", "request_id", id, "by", actor.AccountID)
	return nil
}

func (s *requestSvc) Get(ctx context.Context, actor role.Actor, id uint) (*entities.Request, error) {
	req, err := s.r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.FarmerID != actor.AccountID && req.AgronomistID != actor.AccountID {
		return nil, apperr.PermissionDenied("request %d is not yours", id)
	}
	return req, nil
}

func (s *requestSvc) List(ctx context.Context, actor role.Actor, status entities.RequestStatus) ([]entities.Request, error) {
	f := repo.Filter{Status: status}
	switch actor.Role {
	case entities.RoleFarmer:
		f.FarmerID = actor.AccountID
	case entities.RoleAgronomist:
		f.AgronomistID = actor.AccountID
	default:
		return nil, apperr.PermissionDenied("no active role")
	}
	return s.r.List(ctx, f)
}

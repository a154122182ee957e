package serviceImp

import (
	"context"
	"io"
	"log/slog"

	"github.com/deryamemmedli/agrimonitor/entities"
	"github.com/deryamemmedli/agrimonitor/pkg/apperr"
	"github.com/deryamemmedli/agrimonitor/pkg/clock"
	"github.com/deryamemmedli/agrimonitor/pkg/ndvi"
	readingRepo "github.com/deryamemmedli/agrimonitor/pkg/ndvi/repository"
	"github.com/deryamemmedli/agrimonitor/pkg/role"
	"github.com/deryamemmedli/agrimonitor/pkg/treatment"
	"github.com/deryamemmedli/agrimonitor/pkg/treatment/report"
	repo "github.com/deryamemmedli/agrimonitor/pkg/treatment/repository"
	"github.com/deryamemmedli/agrimonitor/pkg/treatment/service"
)

type treatmentSvc struct {
	r        repo.TreatmentRepository
	readings readingRepo.ReadingRepository
	clk      clock.Clock
	log      *slog.Logger
}

func NewTreatmentService(r repo.TreatmentRepository, readings readingRepo.ReadingRepository, clk clock.Clock, log *slog.Logger) service.TreatmentService {
	return &treatmentSvc{r: r, readings: readings, clk: clk, log: log}
}

// assigned loads a treatment the actor runs as its agronomist and checks
// that a is allowed from its current status.
func (s *treatmentSvc) assigned(ctx context.Context, actor role.Actor, id uint, a treatment.Action) (*entities.Treatment, entities.TreatmentStatus, error) {
	if err := actor.Require(entities.RoleAgronomist); err != nil {
		return nil, "", err
	}
	t, err := s.r.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if t.AgronomistID != actor.AccountID {
		return nil, "", apperr.PermissionDenied("treatment %d is assigned to another agronomist", id)
	}
	to, err := treatment.Next(t, a)
	if err != nil {
		return nil, "", err
	}
	return t, to, nil
}

func (s *treatmentSvc) transition(ctx context.Context, t *entities.Treatment, to entities.TreatmentStatus, cols map[string]any) (*entities.Treatment, error) {
	cols["status"] = to
	out, err := s.r.Transition(ctx, t.ID, t.Status, cols)
	if err != nil {
		return nil, err
	}
	s.log.Info("treatment transition", "treatment_id", t.ID, "from", t.Status, "to", to)
	return out, nil
}

func (s *treatmentSvc) Start(ctx context.Context, actor role.Actor, id uint) (*entities.Treatment, error) {
	t, to, err := s.assigned(ctx, actor, id, treatment.Start)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, t, to, map[string]any{"started_at": s.clk.Now()})
}

func (s *treatmentSvc) Complete(ctx context.Context, actor role.Actor, id uint, in treatment.CompleteInput) (*entities.Treatment, error) {
	t, to, err := s.assigned(ctx, actor, id, treatment.Complete)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.transition(ctx, t, to, map[string]any{
		"completed_at":   s.clk.Now(),
		"treatment_type": in.TreatmentType,
		"notes":          in.Notes,
	})
}

func (s *treatmentSvc) Verify(ctx context.Context, actor role.Actor, id uint, in treatment.VerifyInput) (*entities.Treatment, error) {
	t, to, err := s.assigned(ctx, actor, id, treatment.Verify)
	if err != nil {
		return nil, err
	}
	after, err := s.afterValue(ctx, t, in)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, t, to, map[string]any{
		"after_ndvi_value":       after,
		"improvement_percentage": treatment.Improvement(t.BeforeNDVI, after),
		"agronomist_confirmed":   true,
		"verified_at":            s.clk.Now(),
	})
}

func (s *treatmentSvc) afterValue(ctx context.Context, t *entities.Treatment, in treatment.VerifyInput) (float64, error) {
	if in.AfterNDVI != nil {
		return *in.AfterNDVI, ndvi.CheckValue(*in.AfterNDVI)
	}
	if t.CompletedAt == nil {
		return 0, apperr.Validation("after_ndvi_value is required")
	}
	// manual uploads come from the farmer and do not count as evidence
	r, err := s.readings.LatestAfter(ctx, t.FieldID, *t.CompletedAt, entities.SourceSensor, entities.SourceSynthetic)
	if err != nil {
		return 0, err
	}
	if r == nil {
		return 0, apperr.Validation("after_ndvi_value is required: no imagery reading observed since completion")
	}
	return r.Value, nil
}

func (s *treatmentSvc) FarmerConfirm(ctx context.Context, actor role.Actor, id uint) (*entities.Treatment, error) {
	if err := actor.Require(entities.RoleFarmer); err != nil {
		return nil, err
	}
	t, err := s.r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.FarmerID != actor.AccountID {
		return nil, apperr.PermissionDenied("treatment %d is on another farmer's field", id)
	}
	if err := treatment.CanFarmerConfirm(t); err != nil {
		return nil, err
	}
	out, err := s.r.ConfirmByFarmer(ctx, id, s.clk.Now())
	if err != nil {
		return nil, err
	}
	s.log.Info("treatment confirmed by farmer", "treatment_id", id, "closed", out.Closed)
	return out, nil
}

func (s *treatmentSvc) Get(ctx context.Context, actor role.Actor, id uint) (*entities.Treatment, error) {
	t, err := s.r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.FarmerID != actor.AccountID && t.AgronomistID != actor.AccountID {
		return nil, apperr.PermissionDenied("treatment %d is not yours", id)
	}
	return t, nil
}

func (s *treatmentSvc) List(ctx context.Context, actor role.Actor, status entities.TreatmentStatus) ([]entities.Treatment, error) {
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

func (s *treatmentSvc) Export(ctx context.Context, actor role.Actor, w io.Writer) error {
	ts, err := s.List(ctx, actor, "")
	if err != nil {
		return err
	}
	return report.WriteWorkbook(w, ts)
}

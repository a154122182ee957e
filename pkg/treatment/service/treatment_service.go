package service

import (
	"context"
	"io"

	"github.com/deryamemmedli/agrimonitor/entities"
	"github.com/deryamemmedli/agrimonitor/pkg/role"
	"github.com/deryamemmedli/agrimonitor/pkg/treatment"
)

type TreatmentService interface {
	Start(ctx context.Context, actor role.Actor, id uint) (*entities.Treatment, error)
	Complete(ctx context.Context, actor role.Actor, id uint, in treatment.CompleteInput) (*entities.Treatment, error)
	Verify(ctx context.Context, actor role.Actor, id uint, in treatment.VerifyInput) (*entities.Treatment, error)
	FarmerConfirm(ctx context.Context, actor role.Actor, id uint) (*entities.Treatment, error)
	Get(ctx context.Context, actor role.Actor, id uint) (*entities.Treatment, error)
	List(ctx context.Context, actor role.Actor, status entities.TreatmentStatus) ([]entities.Treatment, error)
	// Export writes the actor's treatments as an XLSX workbook.
	Export(ctx context.Context, actor role.Actor, w io.Writer) error
}

package serviceImp

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/deryamemmedli/agrimonitor/entities"
	"github.com/deryamemmedli/agrimonitor/pkg/apperr"
	"github.com/deryamemmedli/agrimonitor/pkg/clock"
	ndviRepoImp "github.com/deryamemmedli/agrimonitor/pkg/ndvi/repositoryImp"
	"github.com/deryamemmedli/agrimonitor/pkg/request"
	reqRepoImp "github.com/deryamemmedli/agrimonitor/pkg/request/repositoryImp"
	reqSvcImp "github.com/deryamemmedli/agrimonitor/pkg/request/serviceImp"
	"github.com/deryamemmedli/agrimonitor/pkg/role"
	"github.com/deryamemmedli/agrimonitor/pkg/testutil"
	"github.com/deryamemmedli/agrimonitor/pkg/treatment"
	"github.com/deryamemmedli/agrimonitor/pkg/treatment/report"
	"github.com/deryamemmedli/agrimonitor/pkg/treatment/repositoryImp"
	"github.com/deryamemmedli/agrimonitor/pkg/treatment/service"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db     *gorm.DB
	clk    *clock.Fake
	svc    service.TreatmentService
	farmer role.Actor
	agro   role.Actor
	field  *entities.Field
}

func setup(t *testing.T) fixture {
	db := testutil.NewDB(t)
	clk := clock.NewFake(t0)
	farmer := testutil.CreateAccount(t, db, "f@farm.test", entities.RoleFarmer)
	agro := testutil.CreateAccount(t, db, "a@farm.test", entities.RoleAgronomist)
	return fixture{
		db:     db,
		clk:    clk,
		svc:    NewTreatmentService(repositoryImp.New(db), ndviRepoImp.New(db), clk, testutil.Logger()),
		farmer: role.Actor{AccountID: farmer.ID, Role: entities.RoleFarmer},
		agro:   role.Actor{AccountID: agro.ID, Role: entities.RoleAgronomist},
		field:  testutil.CreateField(t, db, farmer.ID, "North"),
	}
}

// accepted runs a request through acceptance and returns its treatment.
func (f fixture) accepted(t *testing.T) *entities.Treatment {
	t.Helper()
	reqs := reqSvcImp.NewRequestService(reqRepoImp.New(f.db), f.clk, testutil.Logger())
	req, err := reqs.Create(context.Background(), f.agro, request.CreateInput{
		FieldID: f.field.ID, Message: "Yellowing in the east block", Price: decimal.NewFromInt(200),
	})
	require.NoError(t, err)
	_, tr, err := reqs.Accept(context.Background(), f.farmer, req.ID)
	require.NoError(t, err)
	return tr
}

func (f fixture) status(t *testing.T, id uint) entities.TreatmentStatus {
	var tr entities.Treatment
	require.NoError(t, f.db.First(&tr, id).Error)
	return tr.Status
}

func v(x float64) *float64 { return &x }

func TestCompleteOnScheduledLeavesStatus(t *testing.T) {
	f := setup(t)
	tr := f.accepted(t)

	_, err := f.svc.Complete(context.Background(), f.agro, tr.ID, treatment.CompleteInput{TreatmentType: "spraying", Notes: "n"})
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	assert.Equal(t, entities.TreatmentScheduled, f.status(t, tr.ID))

	_, err = f.svc.Verify(context.Background(), f.agro, tr.ID, treatment.VerifyInput{AfterNDVI: v(0.7)})
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	assert.Equal(t, entities.TreatmentScheduled, f.status(t, tr.ID))
}

func TestFarmerConfirmBeforeVerificationFails(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	tr := f.accepted(t)

	_, err := f.svc.FarmerConfirm(ctx, f.farmer, tr.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	_, err = f.svc.Start(ctx, f.agro, tr.ID)
	require.NoError(t, err)
	_, err = f.svc.Complete(ctx, f.agro, tr.ID, treatment.CompleteInput{TreatmentType: "irrigation", Notes: "drip line fixed"})
	require.NoError(t, err)

	_, err = f.svc.FarmerConfirm(ctx, f.farmer, tr.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	var got entities.Treatment
	require.NoError(t, f.db.First(&got, tr.ID).Error)
	assert.False(t, got.FarmerConfirmed)
}

func TestTransitionPermissions(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	tr := f.accepted(t)
	other := testutil.CreateAccount(t, f.db, "o@farm.test", entities.RoleAgronomist)

	_, err := f.svc.Start(ctx, f.farmer, tr.ID)
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
	_, err = f.svc.Start(ctx, role.Actor{AccountID: other.ID, Role: entities.RoleAgronomist}, tr.ID)
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
	_, err = f.svc.Start(ctx, f.agro, 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, entities.TreatmentScheduled, f.status(t, tr.ID))
}

func TestCompleteRequiresTypeAndNotes(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	tr := f.accepted(t)
	_, err := f.svc.Start(ctx, f.agro, tr.ID)
	require.NoError(t, err)

	_, err = f.svc.Complete(ctx, f.agro, tr.ID, treatment.CompleteInput{TreatmentType: "spraying"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, entities.TreatmentInProgress, f.status(t, tr.ID))
}

func TestVerifyValidatesAfterValue(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	tr := f.accepted(t)
	_, err := f.svc.Start(ctx, f.agro, tr.ID)
	require.NoError(t, err)
	_, err = f.svc.Complete(ctx, f.agro, tr.ID, treatment.CompleteInput{TreatmentType: "spraying", Notes: "n"})
	require.NoError(t, err)

	_, err = f.svc.Verify(ctx, f.agro, tr.ID, treatment.VerifyInput{AfterNDVI: v(1.2)})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	// no value and no reading after completion
	testutil.AddReading(t, f.db, f.field.ID, 0.7, t0.Add(-time.Hour))
	_, err = f.svc.Verify(ctx, f.agro, tr.ID, treatment.VerifyInput{})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, entities.TreatmentCompleted, f.status(t, tr.ID))

	testutil.AddReading(t, f.db, f.field.ID, 0.6, t0.Add(48*time.Hour))
	got, err := f.svc.Verify(ctx, f.agro, tr.ID, treatment.VerifyInput{})
	require.NoError(t, err)
	require.NotNil(t, got.AfterNDVI)
	assert.InDelta(t, 0.6, *got.AfterNDVI, 1e-9)
	// no prior reading: before defaulted to 0.5
	require.NotNil(t, got.ImprovementPct)
	assert.InDelta(t, 20.0, *got.ImprovementPct, 1e-9)
	assert.True(t, *got.Effective)
}

func TestVerifyFallbackIgnoresManualReadings(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	tr := f.accepted(t)
	_, err := f.svc.Start(ctx, f.agro, tr.ID)
	require.NoError(t, err)
	_, err = f.svc.Complete(ctx, f.agro, tr.ID, treatment.CompleteInput{TreatmentType: "spraying", Notes: "n"})
	require.NoError(t, err)

	manual := &entities.NDVIReading{FieldID: f.field.ID, Value: 0.9, Source: entities.SourceManual, ObservedAt: t0.Add(72 * time.Hour)}
	require.NoError(t, f.db.Create(manual).Error)
	_, err = f.svc.Verify(ctx, f.agro, tr.ID, treatment.VerifyInput{})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, entities.TreatmentCompleted, f.status(t, tr.ID))

	synthetic := &entities.NDVIReading{FieldID: f.field.ID, Value: 0.55, Source: entities.SourceSynthetic, ObservedAt: t0.Add(24 * time.Hour)}
	require.NoError(t, f.db.Create(synthetic).Error)
	got, err := f.svc.Verify(ctx, f.agro, tr.ID, treatment.VerifyInput{})
	require.NoError(t, err)
	require.NotNil(t, got.AfterNDVI)
	assert.InDelta(t, 0.55, *got.AfterNDVI, 1e-9)
}

func TestVerifyWithZeroBeforeHasNoImprovement(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	testutil.AddReading(t, f.db, f.field.ID, 0, t0.Add(-time.Hour))
	tr := f.accepted(t)
	require.Zero(t, tr.BeforeNDVI)

	_, err := f.svc.Start(ctx, f.agro, tr.ID)
	require.NoError(t, err)
	_, err = f.svc.Complete(ctx, f.agro, tr.ID, treatment.CompleteInput{TreatmentType: "fertilization", Notes: "n"})
	require.NoError(t, err)
	got, err := f.svc.Verify(ctx, f.agro, tr.ID, treatment.VerifyInput{AfterNDVI: v(0.4)})
	require.NoError(t, err)
	assert.Nil(t, got.ImprovementPct)
	assert.Nil(t, got.Effective)
	assert.True(t, got.AgronomistConfirmed)
}

func TestEndToEnd(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	testutil.AddReading(t, f.db, f.field.ID, 0.35, t0.Add(-24*time.Hour))

	tr := f.accepted(t)
	assert.InDelta(t, 0.35, tr.BeforeNDVI, 1e-9)
	assert.Equal(t, entities.TreatmentScheduled, tr.Status)

	f.clk.Advance(time.Hour)
	_, err := f.svc.Start(ctx, f.agro, tr.ID)
	require.NoError(t, err)
	f.clk.Advance(time.Hour)
	_, err = f.svc.Complete(ctx, f.agro, tr.ID, treatment.CompleteInput{TreatmentType: "spraying", Notes: "fungicide, 2 passes"})
	require.NoError(t, err)
	f.clk.Advance(72 * time.Hour)
	got, err := f.svc.Verify(ctx, f.agro, tr.ID, treatment.VerifyInput{AfterNDVI: v(0.65)})
	require.NoError(t, err)
	require.NotNil(t, got.ImprovementPct)
	assert.InDelta(t, 85.714, *got.ImprovementPct, 1e-3)
	assert.True(t, *got.Effective)
	assert.False(t, got.Closed)

	closed, err := f.svc.FarmerConfirm(ctx, f.farmer, tr.ID)
	require.NoError(t, err)
	assert.True(t, closed.Closed)
	assert.True(t, closed.FarmerConfirmed)
	require.NotNil(t, closed.FarmerConfirmedAt)

	_, err = f.svc.FarmerConfirm(ctx, f.farmer, tr.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	for _, step := range []func() error{
		func() error { _, err := f.svc.Start(ctx, f.agro, tr.ID); return err },
		func() error {
			_, err := f.svc.Complete(ctx, f.agro, tr.ID, treatment.CompleteInput{TreatmentType: "x", Notes: "y"})
			return err
		},
		func() error { _, err := f.svc.Verify(ctx, f.agro, tr.ID, treatment.VerifyInput{AfterNDVI: v(0.9)}); return err },
	} {
		assert.ErrorIs(t, step(), apperr.ErrInvalidTransition)
	}

	final, err := f.svc.Get(ctx, f.farmer, tr.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.65, *final.AfterNDVI, 1e-9)
	assert.True(t, final.Closed)
}

func TestListAndExport(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a := f.accepted(t)
	f.accepted(t)
	_, err := f.svc.Start(ctx, f.agro, a.ID)
	require.NoError(t, err)

	all, err := f.svc.List(ctx, f.farmer, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	running, err := f.svc.List(ctx, f.agro, entities.TreatmentInProgress)
	require.NoError(t, err)
	require.Len(t, running, 1)
	assert.Equal(t, a.ID, running[0].ID)

	var buf bytes.Buffer
	require.NoError(t, f.svc.Export(ctx, f.agro, &buf))
	x, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer x.Close()
	rows, err := x.GetRows(report.SheetTreatments)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

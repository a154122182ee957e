package serviceImp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/deryamemmedli/agrimonitor/entities"
	"github.com/deryamemmedli/agrimonitor/pkg/apperr"
	"github.com/deryamemmedli/agrimonitor/pkg/clock"
	fieldRepoImp "github.com/deryamemmedli/agrimonitor/pkg/field/repositoryImp"
	"github.com/deryamemmedli/agrimonitor/pkg/imagery"
	"github.com/deryamemmedli/agrimonitor/pkg/ndvi"
	"github.com/deryamemmedli/agrimonitor/pkg/ndvi/repositoryImp"
	"github.com/deryamemmedli/agrimonitor/pkg/ndvi/service"
	"github.com/deryamemmedli/agrimonitor/pkg/role"
	"github.com/deryamemmedli/agrimonitor/pkg/testutil"
)

type downClient struct{}

func (downClient) Name() string { return "down" }

func (downClient) FetchNDVI(context.Context, imagery.Target, time.Time) (*imagery.Observation, error) {
	return nil, errors.New("connection refused")
}

// fixedClient reports one observation at a fixed time regardless of the
// requested date.
type fixedClient struct{ at time.Time }

func (fixedClient) Name() string { return "fixed" }

func (c fixedClient) FetchNDVI(context.Context, imagery.Target, time.Time) (*imagery.Observation, error) {
	return &imagery.Observation{Value: 0.73, ObservedAt: c.at, Source: entities.SourceSensor}, nil
}

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newSvc(t *testing.T, src imagery.Client) (service.NDVIService, *gorm.DB) {
	db := testutil.NewDB(t)
	return NewNDVIService(repositoryImp.New(db), fieldRepoImp.New(db), src, clock.NewFake(t0), testutil.Logger()), db
}

func countReadings(t *testing.T, db *gorm.DB) int64 {
	var n int64
	require.NoError(t, db.Model(&entities.NDVIReading{}).Count(&n).Error)
	return n
}

func TestFetchUpstreamFailurePersistsNothing(t *testing.T) {
	svc, db := newSvc(t, downClient{})
	owner := testutil.CreateAccount(t, db, "o@farm.test", entities.RoleFarmer)
	f := testutil.CreateField(t, db, owner.ID, "North")

	_, err := svc.Fetch(context.Background(), role.Actor{AccountID: owner.ID, Role: entities.RoleFarmer}, f.ID, time.Time{})
	assert.ErrorIs(t, err, apperr.ErrUpstreamUnavailable)
	assert.Zero(t, countReadings(t, db))
}

func TestFetchSyntheticStoresReading(t *testing.T) {
	svc, db := newSvc(t, imagery.NewSynthetic())
	owner := testutil.CreateAccount(t, db, "o@farm.test", entities.RoleFarmer)
	f := testutil.CreateField(t, db, owner.ID, "North")
	actor := role.Actor{AccountID: owner.ID, Role: entities.RoleFarmer}

	m, err := svc.Fetch(context.Background(), actor, f.ID, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, entities.SourceSynthetic, m.Source)
	assert.Equal(t, t0, m.ObservedAt)
	assert.Contains(t, string(m.Metadata), `"provider":"synthetic"`)

	sum, err := svc.Latest(context.Background(), actor, f.ID)
	require.NoError(t, err)
	require.NotNil(t, sum.NDVI)
	assert.InDelta(t, m.Value, *sum.NDVI, 1e-9)
	assert.False(t, sum.IsRealData)
	assert.Equal(t, entities.SourceSynthetic, sum.DataSource)
}

func TestRecordValidation(t *testing.T) {
	svc, db := newSvc(t, downClient{})
	owner := testutil.CreateAccount(t, db, "o@farm.test", entities.RoleFarmer)
	agro := testutil.CreateAccount(t, db, "a@farm.test", entities.RoleAgronomist)
	f := testutil.CreateField(t, db, owner.ID, "North")
	actor := role.Actor{AccountID: owner.ID, Role: entities.RoleFarmer}
	ctx := context.Background()
	v := func(x float64) *float64 { return &x }

	_, err := svc.Record(ctx, actor, f.ID, ndvi.RecordInput{Value: v(1.2)})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = svc.Record(ctx, actor, f.ID, ndvi.RecordInput{})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = svc.Record(ctx, actor, f.ID, ndvi.RecordInput{Value: v(0.5), Source: "drone"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = svc.Record(ctx, role.Actor{AccountID: agro.ID, Role: entities.RoleAgronomist}, f.ID, ndvi.RecordInput{Value: v(0.5)})
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	m, err := svc.Record(ctx, actor, f.ID, ndvi.RecordInput{Value: v(0.55)})
	require.NoError(t, err)
	assert.Equal(t, entities.SourceManual, m.Source)
	assert.Equal(t, t0, m.ObservedAt)
}

func TestSeriesAndMapSummary(t *testing.T) {
	svc, db := newSvc(t, downClient{})
	ctx := context.Background()
	owner := testutil.CreateAccount(t, db, "o@farm.test", entities.RoleFarmer)
	other := testutil.CreateAccount(t, db, "x@farm.test", entities.RoleFarmer)
	agro := testutil.CreateAccount(t, db, "a@farm.test", entities.RoleAgronomist)

	mine := testutil.CreateField(t, db, owner.ID, "Mine")
	theirs := testutil.CreateField(t, db, other.ID, "Theirs")
	testutil.AddReading(t, db, mine.ID, 0.8, t0.Add(-48*time.Hour))
	testutil.AddReading(t, db, mine.ID, 0.25, t0.Add(-24*time.Hour))

	series, err := svc.Series(ctx, role.Actor{AccountID: owner.ID, Role: entities.RoleFarmer}, mine.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.InDelta(t, 0.8, series[0].Value, 1e-9)

	_, err = svc.Series(ctx, role.Actor{AccountID: other.ID, Role: entities.RoleFarmer}, mine.ID, time.Time{}, time.Time{})
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	farmerMap, err := svc.MapSummary(ctx, role.Actor{AccountID: owner.ID, Role: entities.RoleFarmer})
	require.NoError(t, err)
	require.Len(t, farmerMap, 1)
	assert.Equal(t, ndvi.Unhealthy, farmerMap[0].Bucket)
	assert.True(t, farmerMap[0].Actionable)
	assert.True(t, farmerMap[0].IsRealData)

	agroMap, err := svc.MapSummary(ctx, role.Actor{AccountID: agro.ID, Role: entities.RoleAgronomist})
	require.NoError(t, err)
	require.Len(t, agroMap, 2)
	byID := map[uint]ndvi.FieldSummary{}
	for _, s := range agroMap {
		byID[s.FieldID] = s
	}
	assert.Equal(t, ndvi.NoData, byID[theirs.ID].Bucket)
	assert.False(t, byID[theirs.ID].Actionable)
	assert.Equal(t, ndvi.Unhealthy, byID[mine.ID].Bucket)
}

func TestSeriesBoundsWithOffset(t *testing.T) {
	svc, db := newSvc(t, downClient{})
	ctx := context.Background()
	owner := testutil.CreateAccount(t, db, "o@farm.test", entities.RoleFarmer)
	f := testutil.CreateField(t, db, owner.ID, "North")
	actor := role.Actor{AccountID: owner.ID, Role: entities.RoleFarmer}
	testutil.AddReading(t, db, f.ID, 0.6, time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC))

	plus2 := time.FixedZone("UTC+2", 2*60*60)
	// 09:00Z and 13:00Z
	from := time.Date(2025, 5, 1, 11, 0, 0, 0, plus2)
	to := time.Date(2025, 5, 1, 15, 0, 0, 0, plus2)

	got, err := svc.Series(ctx, actor, f.ID, from, to)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	// 10:30Z, after the reading
	got, err = svc.Series(ctx, actor, f.ID, time.Date(2025, 5, 1, 12, 30, 0, 0, plus2), time.Time{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFetchRejectsFutureDate(t *testing.T) {
	svc, db := newSvc(t, imagery.NewSynthetic())
	ctx := context.Background()
	owner := testutil.CreateAccount(t, db, "o@farm.test", entities.RoleFarmer)
	f := testutil.CreateField(t, db, owner.ID, "North")
	actor := role.Actor{AccountID: owner.ID, Role: entities.RoleFarmer}

	_, err := svc.Fetch(ctx, actor, f.ID, t0.AddDate(1, 0, 0))
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Zero(t, countReadings(t, db))

	m, err := svc.Fetch(ctx, actor, f.ID, t0.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, t0.Add(-24*time.Hour), m.ObservedAt)
}

func TestFetchRejectsFutureObservation(t *testing.T) {
	svc, db := newSvc(t, fixedClient{at: t0.AddDate(1, 0, 0)})
	ctx := context.Background()
	owner := testutil.CreateAccount(t, db, "o@farm.test", entities.RoleFarmer)
	f := testutil.CreateField(t, db, owner.ID, "North")
	actor := role.Actor{AccountID: owner.ID, Role: entities.RoleFarmer}

	_, err := svc.Fetch(ctx, actor, f.ID, time.Time{})
	assert.ErrorIs(t, err, apperr.ErrUpstreamUnavailable)
	assert.Zero(t, countReadings(t, db))

	v := 0.1
	_, err = svc.Record(ctx, actor, f.ID, ndvi.RecordInput{Value: &v})
	require.NoError(t, err)
	sum, err := svc.Latest(ctx, actor, f.ID)
	require.NoError(t, err)
	require.NotNil(t, sum.NDVI)
	assert.InDelta(t, 0.1, *sum.NDVI, 1e-9)
}

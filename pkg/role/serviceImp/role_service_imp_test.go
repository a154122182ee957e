package serviceImp

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deryamemmedli/agrimonitor/entities"
	"github.com/deryamemmedli/agrimonitor/pkg/apperr"
	"github.com/deryamemmedli/agrimonitor/pkg/role"
	"github.com/deryamemmedli/agrimonitor/pkg/role/repositoryImp"
	"github.com/deryamemmedli/agrimonitor/pkg/testutil"
)

func TestActivateRoleIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewRoleService(repositoryImp.New(db), testutil.Logger())
	ctx := context.Background()
	acc := testutil.CreateAccount(t, db, "f@farm.test", entities.RoleFarmer)

	r, err := svc.ActivateRole(ctx, acc.ID, "Agronomist")
	require.NoError(t, err)
	assert.Equal(t, entities.RoleAgronomist, r)

	r, err = svc.ActivateRole(ctx, acc.ID, "agronomist")
	require.NoError(t, err)
	assert.Equal(t, entities.RoleAgronomist, r)

	roles, err := svc.AvailableRoles(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, []entities.Role{entities.RoleFarmer, entities.RoleAgronomist}, roles)

	var n int64
	require.NoError(t, db.Model(&entities.RoleGrant{}).Where("account_id = ?", acc.ID).Count(&n).Error)
	assert.EqualValues(t, 2, n)
}

func TestActivateRoleConcurrent(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewRoleService(repositoryImp.New(db), testutil.Logger())
	acc := testutil.CreateAccount(t, db, "f@farm.test", entities.RoleFarmer)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ActivateRole(context.Background(), acc.ID, "agronomist")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var n int64
	require.NoError(t, db.Model(&entities.RoleGrant{}).
		Where("account_id = ? AND role = ?", acc.ID, entities.RoleAgronomist).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestActivateUnknownRole(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewRoleService(repositoryImp.New(db), testutil.Logger())
	acc := testutil.CreateAccount(t, db, "f@farm.test", entities.RoleFarmer)

	_, err := svc.ActivateRole(context.Background(), acc.ID, "admin")
	assert.ErrorIs(t, err, apperr.ErrRoleNotGrantable)
}

func TestResolve(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewRoleService(repositoryImp.New(db), testutil.Logger())
	ctx := context.Background()
	farmer := testutil.CreateAccount(t, db, "f@farm.test", entities.RoleFarmer)
	both := testutil.CreateAccount(t, db, "b@farm.test", entities.RoleAgronomist, entities.RoleFarmer)

	a, err := svc.Resolve(ctx, farmer.ID, "")
	require.NoError(t, err)
	assert.Equal(t, role.Actor{AccountID: farmer.ID, Role: entities.RoleFarmer}, a)

	_, err = svc.Resolve(ctx, farmer.ID, "agronomist")
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	a, err = svc.Resolve(ctx, both.ID, "")
	require.NoError(t, err)
	assert.Equal(t, entities.RoleAgronomist, a.Role, "primary role is the default")

	a, err = svc.Resolve(ctx, both.ID, "farmer")
	require.NoError(t, err)
	assert.Equal(t, entities.RoleFarmer, a.Role)

	// resolution never grants
	roles, err := svc.AvailableRoles(ctx, farmer.ID)
	require.NoError(t, err)
	assert.Equal(t, []entities.Role{entities.RoleFarmer}, roles)

	_, err = svc.Resolve(ctx, 9999, "")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestUpdateProfileTouchesActiveRoleOnly(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewRoleService(repositoryImp.New(db), testutil.Logger())
	acc := testutil.CreateAccount(t, db, "f@farm.test", entities.RoleFarmer)
	actor := role.Actor{AccountID: acc.ID, Role: entities.RoleFarmer}

	g, err := svc.UpdateProfile(context.Background(), actor, role.Profile{
		FullName:    "Aysel",
		FarmName:    "Green Acre",
		CompanyName: "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, "Green Acre", g.FarmName)
	assert.Empty(t, g.CompanyName)

	var got entities.Account
	require.NoError(t, db.First(&got, acc.ID).Error)
	assert.Equal(t, "Aysel", got.FullName)

	_, err = svc.UpdateProfile(context.Background(), role.Actor{AccountID: acc.ID, Role: entities.RoleAgronomist}, role.Profile{CompanyName: "x"})
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
}

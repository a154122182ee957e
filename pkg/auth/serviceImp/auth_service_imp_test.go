package serviceImp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/deryamemmedli/agrimonitor/entities"
	"github.com/deryamemmedli/agrimonitor/pkg/apperr"
	"github.com/deryamemmedli/agrimonitor/pkg/auth"
	"github.com/deryamemmedli/agrimonitor/pkg/auth/repositoryImp"
	"github.com/deryamemmedli/agrimonitor/pkg/testutil"
)

func newSvc(t *testing.T) *authSvc {
	db := testutil.NewDB(t)
	s := NewAuthService(repositoryImp.New(db), auth.NewTokens("test", time.Hour), testutil.Logger()).(*authSvc)
	s.cost = bcrypt.MinCost
	return s
}

func TestRegisterAndLogin(t *testing.T) {
	s := newSvc(t)
	ctx := context.Background()

	a, err := s.Register(ctx, auth.RegisterInput{
		Email: " Farmer@Example.com ", Password: "longenough", FullName: "Leyla", Role: "farmer", FarmName: "Sunny",
	})
	require.NoError(t, err)
	assert.Equal(t, "farmer@example.com", a.Email)
	assert.Equal(t, entities.RoleFarmer, a.PrimaryRole)

	sess, err := s.Login(ctx, "FARMER@example.com", "longenough")
	require.NoError(t, err)
	id, err := s.Authenticate(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, a.ID, id)

	me, err := s.Me(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []entities.Role{entities.RoleFarmer}, me.Roles)
	require.Len(t, me.Profiles, 1)
	assert.Equal(t, "Sunny", me.Profiles[0].FarmName)

	_, err = s.Login(ctx, "farmer@example.com", "wrong-password")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	_, err = s.Login(ctx, "nobody@example.com", "longenough")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestRegisterValidation(t *testing.T) {
	s := newSvc(t)
	ctx := context.Background()
	ok := auth.RegisterInput{Email: "a@b.co", Password: "12345678", FullName: "A", Role: "agronomist"}

	_, err := s.Register(ctx, ok)
	require.NoError(t, err)

	_, err = s.Register(ctx, ok)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	short := ok
	short.Email, short.Password = "c@b.co", "1234567"
	_, err = s.Register(ctx, short)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	bad := ok
	bad.Email = "not-an-email"
	_, err = s.Register(ctx, bad)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	admin := ok
	admin.Email, admin.Role = "d@b.co", "admin"
	_, err = s.Register(ctx, admin)
	assert.ErrorIs(t, err, apperr.ErrRoleNotGrantable)
}

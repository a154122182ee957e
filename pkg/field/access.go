package field

import (
	"github.com/deryamemmedli/agrimonitor/entities"
	"github.com/deryamemmedli/agrimonitor/pkg/apperr"
	"github.com/deryamemmedli/agrimonitor/pkg/role"
)

// CanView allows the owner under any role and every agronomist.
func CanView(actor role.Actor, f *entities.Field) error {
	if f.OwnerID == actor.AccountID || actor.Is(entities.RoleAgronomist) {
		return nil
	}
	return apperr.PermissionDenied("field %d belongs to another account", f.ID)
}

// CanEdit allows only the owner acting as a farmer.
func CanEdit(actor role.Actor, f *entities.Field) error {
	if err := actor.Require(entities.RoleFarmer); err != nil {
		return err
	}
	if f.OwnerID != actor.AccountID {
		return apperr.PermissionDenied("field %d belongs to another account", f.ID)
	}
	return nil
}

// Package role holds the role-authorization model: which roles an account
// holds, which one is active for a request, and the check that gates every
// lifecycle transition.
package role

import (
	"github.com/deryamemmedli/agrimonitor/entities"
	"github.com/deryamemmedli/agrimonitor/pkg/apperr"
)

// Actor is the caller of an operation: the authenticated account and the
// role it is acting under. The role is always one the account holds.
type Actor struct {
	AccountID uint          `json:"account_id"`
	Role      entities.Role `json:"active_role"`
}

func (a Actor) Is(r entities.Role) bool { return a.Role == r }

// Require fails with PermissionDenied unless the actor's active role is r.
func (a Actor) Require(r entities.Role) error { return Authorize(a.Role, r) }

// Authorize compares the active role only; holding r while acting under
// another role is not enough.
func Authorize(active, required entities.Role) error {
	if active != required {
		return apperr.PermissionDenied("requires active role %s, have %q", required, active)
	}
	return nil
}

// Profile is a partial update; empty strings leave a value unchanged.
// Role-specific fields that do not belong to the active role are ignored.
type Profile struct {
	FullName      string `json:"full_name"`
	Phone         string `json:"phone"`
	FarmName      string `json:"farm_name"`
	Address       string `json:"address"`
	CompanyName   string `json:"company_name"`
	LicenseNumber string `json:"license_number"`
}

// Columns splits p into account and grant column updates for role r.
func (p Profile) Columns(r entities.Role) (account, grant map[string]any) {
	account = map[string]any{}
	grant = map[string]any{}
	set := func(m map[string]any, col, v string) {
		if v != "" {
			m[col] = v
		}
	}
	set(account, "full_name", p.FullName)
	set(account, "phone", p.Phone)
	switch r {
	case entities.RoleFarmer:
		set(grant, "farm_name", p.FarmName)
		set(grant, "address", p.Address)
	case entities.RoleAgronomist:
		set(grant, "company_name", p.CompanyName)
		set(grant, "license_number", p.LicenseNumber)
	}
	return account, grant
}

// Sorted returns the distinct roles in grants in KnownRoles order.
func Sorted(grants []entities.RoleGrant) []entities.Role {
	held := make(map[entities.Role]bool, len(grants))
	for _, g := range grants {
		held[g.Role] = true
	}
	out := make([]entities.Role, 0, len(held))
	for _, r := range entities.KnownRoles {
		if held[r] {
			out = append(out, r)
		}
	}
	return out
}

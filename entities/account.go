package entities

import (
	"strings"
	"time"
)

type Role string

const (
	RoleFarmer     Role = "farmer"
	RoleAgronomist Role = "agronomist"
)

// KnownRoles lists every grantable role in display order.
var KnownRoles = []Role{RoleFarmer, RoleAgronomist}

// ParseRole accepts a role name in any case; ok is false for unknown values.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleFarmer, RoleAgronomist:
		return r, true
	}
	return "", false
}

func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

type Account struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Email        string      `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string      `gorm:"not null" json:"-"`
	FullName     string      `gorm:"not null" json:"full_name"`
	Phone        string      `json:"phone,omitempty"`
	PrimaryRole  Role        `gorm:"not null" json:"primary_role"`
	Grants       []RoleGrant `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Account) TableName() string { return "accounts" }

// RoleGrant records that an account holds a role, together with the
// profile that belongs to that role. (account_id, role) is unique.
type RoleGrant struct {
	ID        uint `gorm:"primaryKey" json:"-"`
	AccountID uint `gorm:"not null;uniqueIndex:idx_grant_account_role" json:"account_id"`
	Role      Role `gorm:"not null;uniqueIndex:idx_grant_account_role" json:"role"`

	// farmer profile
	FarmName string `json:"farm_name,omitempty"`
	Address  string `json:"address,omitempty"`
	// agronomist profile
	CompanyName   string `json:"company_name,omitempty"`
	LicenseNumber string `json:"license_number,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RoleGrant) TableName() string { return "role_grants" }

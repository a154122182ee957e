package auth

import (
	"time"

	"github.com/deryamemmedli/agrimonitor/entities"
)

const MinPasswordLen = 8

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`

	FarmName      string `json:"farm_name"`
	Address       string `json:"address"`
	CompanyName   string `json:"company_name"`
	LicenseNumber string `json:"license_number"`
}

type Session struct {
	Token     string            `json:"access_token"`
	TokenType string            `json:"token_type"`
	ExpiresAt time.Time         `json:"expires_at"`
	Account   *entities.Account `json:"account"`
}

// Me is the current account with every role it holds and their profiles.
type Me struct {
	*entities.Account
	Roles    []entities.Role      `json:"roles"`
	Profiles []entities.RoleGrant `json:"profiles"`
}

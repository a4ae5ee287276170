package model

// Role is the acting identity's role as resolved by the external identity
// service. The core only distinguishes admins from everyone else; provider
// ownership is checked against the provider row, not the role.
type Role string

const (
	RoleClient   Role = "CLIENT"
	RoleProvider Role = "PROVIDER"
	RoleAdmin    Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleProvider, RoleAdmin:
		return true
	}
	return false
}

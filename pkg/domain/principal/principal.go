package principal

import "github.com/google/uuid"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleStaff    Role = "staff"
	RoleReadOnly Role = "readonly"
)

func (r Role) OneOf(roles []Role) bool {
	for _, allowed := range roles {
		if r == allowed {
			return true
		}
	}
	return false
}

// Principal is the authenticated identity resolved for a request, scoped to
// one tenant. Read-only after resolution.
type Principal struct {
	ID        uuid.UUID
	CompanyID uuid.UUID
	Role      Role
	Email     string
}

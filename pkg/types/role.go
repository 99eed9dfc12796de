package types

// Role is the staff role carried in access tokens.
type Role string

const (
	RoleOwner   Role = "owner"
	RoleManager Role = "manager"
	RoleTrainer Role = "trainer"
	RoleStaff   Role = "staff"
)

// MemberWriterRoles may invoke mutating member operations.
var MemberWriterRoles = []Role{RoleOwner, RoleManager}

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleTrainer, RoleStaff:
		return true
	}
	return false
}

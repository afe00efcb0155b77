package authz

const (
	RoleStaff   = 20 // department staff
	RoleViewer  = 30 // read-only
	RoleManager = 40
	RoleAdmin   = 50
)

func IsElevated(roleID int) bool {
	return roleID == RoleManager || roleID == RoleAdmin
}

func IsReadOnly(roleID int) bool {
	return roleID == RoleViewer
}

func Valid(roleID int) bool {
	switch roleID {
	case RoleStaff, RoleViewer, RoleManager, RoleAdmin:
		return true
	}
	return false
}

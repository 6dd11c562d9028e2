package types

import "github.com/libreshelf/libreshelf-backend/pkg/enums"

// Actor identifies the authenticated caller for service-level checks and
// activity attribution. Middleware loads it fresh from storage per request so
// block flags take effect immediately.
type Actor struct {
	ID        int64
	Username  string
	Name      string
	Role      enums.UserRole
	IsBlocked bool
}

// IsLibrarian reports whether the caller holds the librarian role.
func (a Actor) IsLibrarian() bool {
	return a.Role == enums.UserRoleLibrarian
}

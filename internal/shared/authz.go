package shared

import "strconv"

// Role identifiers from the users table.
const (
	RoleAdministrator int64 = 1
	RoleOperator      int64 = 2
)

// Session keys for identity fields.
const (
	sessionKeyRole     = "role"
	sessionKeyVendedor = "vendedor_id"
)

// Identity is the verified caller attached to every request: the user id,
// their role, and the salesperson record they act as (0 when none).
type Identity struct {
	UserID     int64
	Role       int64
	VendedorID int64
}

// IsAdmin reports whether the caller holds the administrator role.
// Administrators see every row; all other roles are scoped to rows they
// own through their vendedor/user foreign key.
func (id Identity) IsAdmin() bool {
	return id.Role == RoleAdministrator
}

// IdentityFromSession reconstructs the caller identity stored at login.
// ok is false for anonymous sessions.
func IdentityFromSession(sess *Session) (Identity, bool) {
	if sess == nil || sess.User() == "" {
		return Identity{}, false
	}
	userID, err := strconv.ParseInt(sess.User(), 10, 64)
	if err != nil || userID <= 0 {
		return Identity{}, false
	}
	role, _ := strconv.ParseInt(sess.Get(sessionKeyRole), 10, 64)
	vendedorID, _ := strconv.ParseInt(sess.Get(sessionKeyVendedor), 10, 64)
	return Identity{UserID: userID, Role: role, VendedorID: vendedorID}, true
}

// StoreIdentity writes the caller identity into the session at login.
func StoreIdentity(sess *Session, id Identity) {
	sess.SetUser(strconv.FormatInt(id.UserID, 10))
	sess.Set(sessionKeyRole, strconv.FormatInt(id.Role, 10))
	sess.Set(sessionKeyVendedor, strconv.FormatInt(id.VendedorID, 10))
}

package users

// Role is the authorisation level the server assigns to a user.
type Role string

const (
	RoleUser    Role = "USER"
	RoleManager Role = "MANAGER"
	RoleAdmin   Role = "ADMIN"
)

// User is the identity record returned by the authentication collaborator.
// The authoritative copy lives server-side; the client only reads it.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// In reports whether the role appears in the given allowlist. Unknown roles
// match nothing, so access checks fail closed when new roles are introduced.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

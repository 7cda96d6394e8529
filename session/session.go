// Package session owns the authenticated identity for the current process and
// its durable copy. The Store is the single source of truth for "who is
// logged in"; everything else consumes snapshots.
package session

import (
	"context"

	"github.com/postpilot/dashboard/users"
)

// Session is the authenticated identity held for the current process
// lifetime. Token and User are always set and cleared together; a session
// with only one of them never exists.
type Session struct {
	Token string
	User  users.User
}

// Populated reports whether the session carries an identity.
func (s Session) Populated() bool {
	return s.Token != "" && s.User.ID != 0
}

// Credentials is a successful authentication result from the collaborator.
type Credentials struct {
	Token string
	User  users.User
}

// Authenticator is the external authentication collaborator. Implemented by
// api.AuthClient.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (Credentials, error)
	Register(ctx context.Context, name, email, password string) error
}

// Storage is the durable copy of the session, mirroring the two-key contract
// of the hosting environment: an opaque token plus a serialized user record.
// Read reports ok=false when either key is absent or unreadable; it never
// fails.
type Storage interface {
	Read() (token string, user []byte, ok bool)
	Write(token string, user []byte) error
	Clear() error
}

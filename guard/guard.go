// Package guard decides whether a navigation to a protected view is admitted.
// Views consume the decision only; they never re-implement role comparisons.
//
// Decisions are pure functions of the session snapshot and must be
// re-evaluated on every navigation: a logout revokes access on the very next
// check, with nothing cached in between.
package guard

import (
	"github.com/postpilot/dashboard/session"
	"github.com/postpilot/dashboard/users"
)

// Target identifies where a denied navigation is redirected.
type Target string

const (
	// TargetLogin receives unauthenticated visitors.
	TargetLogin Target = "/login"
	// TargetDashboard receives authenticated visitors lacking a required
	// role. Deliberately distinct from TargetLogin: an identity exists, it
	// just cannot see this view, and it is never told why.
	TargetDashboard Target = "/dashboard"
)

// Decision is the outcome of an admission check.
type Decision struct {
	Admitted bool
	Redirect Target // set only when Admitted is false
}

func admit() Decision {
	return Decision{Admitted: true}
}

func redirect(target Target) Decision {
	return Decision{Redirect: target}
}

// RequireAuthenticated admits any populated session and redirects everyone
// else to the login screen.
func RequireAuthenticated(s session.Session) Decision {
	if !s.Populated() {
		return redirect(TargetLogin)
	}
	return admit()
}

// RequireRole admits a populated session whose role appears in the allowlist.
// Membership in the explicit allowlist is the only admission path, so newly
// introduced roles fail closed until granted.
func RequireRole(s session.Session, allowed ...users.Role) Decision {
	if d := RequireAuthenticated(s); !d.Admitted {
		return d
	}
	if !s.User.Role.In(allowed...) {
		return redirect(TargetDashboard)
	}
	return admit()
}

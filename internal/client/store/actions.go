package store

import "github.com/dmitrijs2005/artbook/internal/client/wordpress"

// Action is a state-changing event. Type names follow the "[Feature] Event"
// convention.
type Action interface {
	Type() string
}

// LoadUser requests hydration of the signed-in user's profile.
type LoadUser struct{}

func (LoadUser) Type() string { return "[User] Load User" }

// AddUser stores a fetched profile. Token is the credential the profile was
// fetched with.
type AddUser struct {
	User  *wordpress.User
	Token string
}

func (AddUser) Type() string { return "[User] Add User" }

// ClearUser drops the profile on logout.
type ClearUser struct{}

func (ClearUser) Type() string { return "[User] Clear User" }

// State is the client-wide session state. User is nil when no profile is held.
type State struct {
	User *wordpress.User
}

// Reduce is the pure state transition for a.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case AddUser:
		s.User = a.User
	case ClearUser:
		s.User = nil
	}
	return s
}

package auth

import "context"

type authContextKey string

const userKey authContextKey = "authUser"

// User represents an authenticated console user.
type User struct {
	Sub      string
	Username string
	Role     Role
}

// IsAdministrator reports whether the user holds the administrator role.
func (u User) IsAdministrator() bool { return u.Role == RoleAdministrator }

// IsManager reports whether the user holds the manager role.
func (u User) IsManager() bool { return u.Role == RoleManager }

// IsEngineer reports whether the user holds the engineer role.
func (u User) IsEngineer() bool { return u.Role == RoleEngineer }

// WithUser stores an authenticated user in the context.
func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the authenticated user, if present.
func UserFromContext(ctx context.Context) (User, bool) {
	if ctx == nil {
		return User{}, false
	}
	value := ctx.Value(userKey)
	if value == nil {
		return User{}, false
	}
	user, ok := value.(User)
	return user, ok
}

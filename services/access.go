package services

import (
	"strings"

	"github.com/devleo10/dishly/models"
)

// Actor is the authenticated caller, taken from verified token claims.
type Actor struct {
	UserID uint
	Email  string
	Role   models.Role
}

func (a Actor) Is(allowed ...models.Role) bool {
	for _, r := range allowed {
		if a.Role == r {
			return true
		}
	}
	return false
}

// RequireRole is the single capability check. Mutating operations call it
// before any read or write so a rejected caller never causes side effects.
func RequireRole(actor Actor, action string, allowed ...models.Role) error {
	if actor.Is(allowed...) {
		return nil
	}
	return ForbiddenError("Only %s can %s", roleList(allowed), action)
}

func roleList(roles []models.Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		s := string(r)
		if s != "" {
			s = strings.ToUpper(s[:1]) + s[1:]
		}
		names[i] = s
	}
	switch len(names) {
	case 0:
		return "nobody"
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}

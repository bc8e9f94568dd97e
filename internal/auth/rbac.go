package auth

import "github.com/isdelr/articlehub-be/internal/models"

// Authorize reports whether a caller holding held may perform an operation
// requiring any one of required. An empty required set allows.
func Authorize(required, held []models.Role) bool {
	if len(required) == 0 {
		return true
	}
	for _, r := range required {
		for _, h := range held {
			if r == h {
				return true
			}
		}
	}
	return false
}

type requirementKind int

const (
	undeclared requirementKind = iota
	public
	authenticated
	anyOf
)

// Requirement is the access rule a route declares. The zero value is
// undeclared and is rejected by Guard.
type Requirement struct {
	kind  requirementKind
	roles []models.Role
}

// Public lets anyone through without a token.
func Public() Requirement { return Requirement{kind: public} }

// Authenticated requires a valid token and nothing else.
func Authenticated() Requirement { return Requirement{kind: authenticated} }

// AnyOf requires a valid token holding at least one of roles.
func AnyOf(roles ...models.Role) Requirement {
	if len(roles) == 0 {
		panic("auth: AnyOf needs at least one role")
	}
	return Requirement{kind: anyOf, roles: append([]models.Role(nil), roles...)}
}

// IsPublic reports whether the requirement skips authentication.
func (r Requirement) IsPublic() bool { return r.kind == public }

// Roles returns the roles an AnyOf requirement accepts.
func (r Requirement) Roles() []models.Role { return append([]models.Role(nil), r.roles...) }

func (r Requirement) String() string {
	switch r.kind {
	case public:
		return "public"
	case authenticated:
		return "authenticated"
	case anyOf:
		s := "any of "
		for i, role := range r.roles {
			if i > 0 {
				s += ","
			}
			s += string(role)
		}
		return s
	default:
		return "undeclared"
	}
}

package authorization

// Tier is the access level a route is registered under.
type Tier string

const (
	TierPublic        Tier = "public"
	TierAuthenticated Tier = "authenticated"
	TierAdmin         Tier = "admin"
)

func (t Tier) String() string {
	return string(t)
}

// RequiresAuth reports whether requests on this tier must carry a valid token.
func (t Tier) RequiresAuth() bool {
	return t == TierAuthenticated || t == TierAdmin
}

// ActionAccess is the single casbin action checked for tier membership.
const ActionAccess = "access"

// DefaultTierPolicies lists (role, tier, action) rules seeded into the enforcer.
func DefaultTierPolicies() [][]string {
	return [][]string{
		{RoleUser.String(), TierAuthenticated.String(), ActionAccess},
		{RoleAdmin.String(), TierAuthenticated.String(), ActionAccess},
		{RoleAdmin.String(), TierAdmin.String(), ActionAccess},
	}
}

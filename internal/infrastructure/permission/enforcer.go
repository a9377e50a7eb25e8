package permission

import (
	"fmt"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	"github.com/cinezone/cinezone/internal/shared/authorization"
	"github.com/cinezone/cinezone/internal/shared/logger"
)

// tierModel matches a role against a tier. Admins reach every tier a user
// reaches because both rows are stored explicitly.
const tierModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// Enforcer answers tier membership questions for a role.
type Enforcer struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   logger.Interface
}

// NewEnforcer stores policies in the casbin_rule table through gorm.
func NewEnforcer(db *gorm.DB, log logger.Interface) (*Enforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
	}

	m, err := model.NewModelFromString(tierModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}

	e := &Enforcer{enforcer: enforcer, logger: log}
	if err := e.EnsureDefaultPolicies(); err != nil {
		return nil, err
	}
	return e, nil
}

// NewMemoryEnforcer keeps the default policies in memory only.
func NewMemoryEnforcer(log logger.Interface) (*Enforcer, error) {
	m, err := model.NewModelFromString(tierModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	e := &Enforcer{enforcer: enforcer, logger: log}
	if err := e.EnsureDefaultPolicies(); err != nil {
		return nil, err
	}
	return e, nil
}

// EnsureDefaultPolicies adds the built-in tier rules that are missing.
func (e *Enforcer) EnsureDefaultPolicies() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	added := 0
	for _, policy := range authorization.DefaultTierPolicies() {
		ok, err := e.enforcer.AddPolicy(policy[0], policy[1], policy[2])
		if err != nil {
			e.logger.Errorw("failed to add tier policy",
				"error", err,
				"role", policy[0],
				"tier", policy[1])
			return fmt.Errorf("failed to add policy [%s, %s, %s]: %w", policy[0], policy[1], policy[2], err)
		}
		if ok {
			added++
		}
	}

	if added > 0 {
		e.logger.Infow("tier policies initialized", "added", added)
	}
	return nil
}

// Allows reports whether role may enter tier.
func (e *Enforcer) Allows(role authorization.UserRole, tier authorization.Tier) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	allowed, err := e.enforcer.Enforce(role.String(), tier.String(), authorization.ActionAccess)
	if err != nil {
		e.logger.Errorw("tier check failed", "error", err, "role", role, "tier", tier)
		return false, fmt.Errorf("tier check failed: %w", err)
	}
	return allowed, nil
}

func (e *Enforcer) LoadPolicy() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.enforcer.LoadPolicy(); err != nil {
		return fmt.Errorf("failed to reload policy: %w", err)
	}

	e.logger.Info("policy reloaded successfully")
	return nil
}

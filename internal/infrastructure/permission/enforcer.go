package permission

import (
	"fmt"
	"sync"

	"github.com/casbin/casbin/v2"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	"github.com/membergate/membergate/internal/domain/permission"
	"github.com/membergate/membergate/internal/shared/logger"
)

var _ permission.Enforcer = (*Enforcer)(nil)

// Enforcer wraps a casbin enforcer. Policies persist through the gorm
// adapter's auto-save when one is configured.
type Enforcer struct {
	enforcer   *casbin.Enforcer
	persistent bool
	mu         sync.RWMutex
	logger     logger.Interface
}

func NewEnforcer(db *gorm.DB, log logger.Interface) (*Enforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
	}

	m, err := newModel()
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}

	return &Enforcer{enforcer: enforcer, persistent: true, logger: log}, nil
}

// NewInMemoryEnforcer keeps policies in process only.
func NewInMemoryEnforcer(log logger.Interface) (*Enforcer, error) {
	m, err := newModel()
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	return &Enforcer{enforcer: enforcer, logger: log}, nil
}

func (e *Enforcer) Enforce(subject string, capability permission.Capability) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	allowed, err := e.enforcer.Enforce(subject, string(capability))
	if err != nil {
		e.logger.Errorw("capability check failed", "error", err, "subject", subject, "capability", capability)
		return false, fmt.Errorf("capability check failed: %w", err)
	}
	return allowed, nil
}

func (e *Enforcer) AddPolicy(subject string, capability permission.Capability) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.AddPolicy(subject, string(capability)); err != nil {
		e.logger.Errorw("failed to add policy", "error", err, "subject", subject, "capability", capability)
		return fmt.Errorf("failed to add policy: %w", err)
	}
	return nil
}

func (e *Enforcer) RemoveSubjectPolicies(subject string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.RemoveFilteredPolicy(0, subject); err != nil {
		e.logger.Errorw("failed to remove policies", "error", err, "subject", subject)
		return fmt.Errorf("failed to remove policies for %s: %w", subject, err)
	}
	return nil
}

func (e *Enforcer) AddRoleForUser(subject string, role string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.AddRoleForUser(subject, role); err != nil {
		e.logger.Errorw("failed to add role for user", "error", err, "subject", subject, "role", role)
		return fmt.Errorf("failed to add role for user: %w", err)
	}
	return nil
}

func (e *Enforcer) DeleteRoleForUser(subject string, role string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.DeleteRoleForUser(subject, role); err != nil {
		e.logger.Errorw("failed to delete role for user", "error", err, "subject", subject, "role", role)
		return fmt.Errorf("failed to delete role for user: %w", err)
	}
	return nil
}

func (e *Enforcer) GetRolesForUser(subject string) ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	roles, err := e.enforcer.GetRolesForUser(subject)
	if err != nil {
		return nil, fmt.Errorf("failed to get roles for user: %w", err)
	}
	return roles, nil
}

func (e *Enforcer) LoadPolicy() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.persistent {
		return nil
	}

	if err := e.enforcer.LoadPolicy(); err != nil {
		return fmt.Errorf("failed to reload policy: %w", err)
	}
	e.logger.Info("policy reloaded")
	return nil
}

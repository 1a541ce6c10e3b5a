package access

import (
	"context"
	"fmt"

	"github.com/membergate/membergate/internal/domain/level"
	"github.com/membergate/membergate/internal/domain/permission"
	"github.com/membergate/membergate/internal/shared/logger"
)

// Authorizer resolves capability checks and keeps a member's role and level
// grants in line with the level they are on.
type Authorizer struct {
	enforcer permission.Enforcer
	logger   logger.Interface
}

func NewAuthorizer(enforcer permission.Enforcer, logger logger.Interface) *Authorizer {
	return &Authorizer{enforcer: enforcer, logger: logger}
}

// Can reports whether userID holds capability. manage_options implies every
// capability through the administrator wildcard.
func (a *Authorizer) Can(ctx context.Context, userID uint, capability permission.Capability) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	ok, err := a.enforcer.Enforce(permission.UserSubject(userID), capability)
	if err != nil {
		return false, fmt.Errorf("failed to check %s for user %d: %w", capability, userID, err)
	}
	return ok, nil
}

// IsAdministrator reports whether userID can manage site options.
func (a *Authorizer) IsAdministrator(ctx context.Context, userID uint) (bool, error) {
	return a.Can(ctx, userID, permission.CapManageOptions)
}

// Roles returns the roles a member holds, without level grant subjects.
func (a *Authorizer) Roles(ctx context.Context, userID uint) ([]string, error) {
	all, err := a.enforcer.GetRolesForUser(permission.UserSubject(userID))
	if err != nil {
		return nil, err
	}
	roles := make([]string, 0, len(all))
	for _, r := range all {
		if !permission.IsLevelSubject(r) {
			roles = append(roles, r)
		}
	}
	return roles, nil
}

func (a *Authorizer) AddRole(ctx context.Context, userID uint, role string) error {
	return a.enforcer.AddRoleForUser(permission.UserSubject(userID), role)
}

func (a *Authorizer) RemoveRole(ctx context.Context, userID uint, role string) error {
	return a.enforcer.DeleteRoleForUser(permission.UserSubject(userID), role)
}

// SyncLevelGrants makes the level's extra capabilities the only ones held
// by its level subject.
func (a *Authorizer) SyncLevelGrants(ctx context.Context, l *level.Level) error {
	subject := permission.LevelSubject(l.ID())
	if err := a.enforcer.RemoveSubjectPolicies(subject); err != nil {
		return err
	}
	for _, c := range l.Capabilities() {
		if err := a.enforcer.AddPolicy(subject, permission.Capability(c)); err != nil {
			return err
		}
	}
	return nil
}

// RemoveLevelGrants drops every capability held by a deleted level.
func (a *Authorizer) RemoveLevelGrants(ctx context.Context, levelID uint) error {
	return a.enforcer.RemoveSubjectPolicies(permission.LevelSubject(levelID))
}

// ChangeLevel moves a member's grants from one level to another. Nothing
// changes when both are the same level. Either side may be nil (no level).
func (a *Authorizer) ChangeLevel(ctx context.Context, userID uint, from, to *level.Level) error {
	if levelID(from) == levelID(to) {
		return nil
	}
	subject := permission.UserSubject(userID)

	if from != nil {
		if err := a.enforcer.DeleteRoleForUser(subject, from.Role()); err != nil {
			return fmt.Errorf("failed to remove role %s: %w", from.Role(), err)
		}
		if err := a.enforcer.DeleteRoleForUser(subject, permission.LevelSubject(from.ID())); err != nil {
			return fmt.Errorf("failed to detach level %d: %w", from.ID(), err)
		}
	}
	if to != nil {
		if err := a.enforcer.AddRoleForUser(subject, to.Role()); err != nil {
			return fmt.Errorf("failed to add role %s: %w", to.Role(), err)
		}
		if err := a.enforcer.AddRoleForUser(subject, permission.LevelSubject(to.ID())); err != nil {
			return fmt.Errorf("failed to attach level %d: %w", to.ID(), err)
		}
	}

	a.logger.Infow("member level grants changed",
		"user_id", userID,
		"from_level", levelID(from),
		"to_level", levelID(to),
	)
	return nil
}

// ReplaceLevelRole swaps oldRole for newRole on every member of a level whose
// configured role changed.
func (a *Authorizer) ReplaceLevelRole(ctx context.Context, userIDs []uint, oldRole, newRole string) error {
	if oldRole == newRole {
		return nil
	}
	for _, id := range userIDs {
		subject := permission.UserSubject(id)
		if err := a.enforcer.DeleteRoleForUser(subject, oldRole); err != nil {
			return fmt.Errorf("failed to remove role %s from user %d: %w", oldRole, id, err)
		}
		if err := a.enforcer.AddRoleForUser(subject, newRole); err != nil {
			return fmt.Errorf("failed to add role %s to user %d: %w", newRole, id, err)
		}
	}
	return nil
}

func levelID(l *level.Level) uint {
	if l == nil {
		return 0
	}
	return l.ID()
}

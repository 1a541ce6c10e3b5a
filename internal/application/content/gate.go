// Package content decides what a visitor may see and renders the tags
// content authors place in pages.
package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/membergate/membergate/internal/domain/level"
	"github.com/membergate/membergate/internal/domain/member"
	"github.com/membergate/membergate/internal/domain/permission"
	"github.com/membergate/membergate/internal/shared/biztime"
	"github.com/membergate/membergate/internal/shared/hooks"
	"github.com/membergate/membergate/internal/shared/logger"
)

// Viewer is the visitor a decision is made for. Member is nil when nobody
// is logged in; Level is nil when the member has no level.
type Viewer struct {
	Member *member.Member
	Level  *level.Level
}

func (v Viewer) LoggedIn() bool { return v.Member != nil }

func (v Viewer) UserID() uint {
	if v.Member == nil {
		return 0
	}
	return v.Member.ID()
}

// AccessCheck is the argument handed to has_access filters.
type AccessCheck struct {
	UserID   uint
	Required int
}

type CapabilityChecker interface {
	Can(ctx context.Context, userID uint, capability permission.Capability) (bool, error)
}

// Gate holds the membership predicates every tag is built from. Each
// predicate result passes through its own override chain.
type Gate struct {
	members   member.Repository
	levels    level.Repository
	access    CapabilityChecker
	isActive  *hooks.Chain[bool, uint]
	hasAccess *hooks.Chain[bool, AccessCheck]
	clock     func() time.Time
	logger    logger.Interface
}

// NewGate creates a Gate with empty override chains.
func NewGate(members member.Repository, levels level.Repository, access CapabilityChecker, logger logger.Interface) *Gate {
	return &Gate{
		members:   members,
		levels:    levels,
		access:    access,
		isActive:  hooks.NewChain[bool, uint](),
		hasAccess: hooks.NewChain[bool, AccessCheck](),
		clock:     biztime.NowUTC,
		logger:    logger,
	}
}

// SetClock replaces the time source used for expiration checks.
func (g *Gate) SetClock(clock func() time.Time) {
	g.clock = clock
}

func (g *Gate) AddIsActiveFilter(priority int, f hooks.Filter[bool, uint]) {
	g.isActive.Add(priority, f)
}

func (g *Gate) AddHasAccessFilter(priority int, f hooks.Filter[bool, AccessCheck]) {
	g.hasAccess.Add(priority, f)
}

// Viewer loads the member and level for userID. Zero or unknown ids give a
// logged-out viewer.
func (g *Gate) Viewer(ctx context.Context, userID uint) (Viewer, error) {
	if userID == 0 {
		return Viewer{}, nil
	}
	m, err := g.members.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, member.ErrMemberNotFound) {
			return Viewer{}, nil
		}
		g.logger.Errorw("failed to load viewer", "error", err, "user_id", userID)
		return Viewer{}, fmt.Errorf("failed to load member: %w", err)
	}

	v := Viewer{Member: m}
	if m.LevelID() == 0 {
		return v, nil
	}
	l, err := g.levels.GetByID(ctx, m.LevelID())
	if err != nil {
		if errors.Is(err, level.ErrLevelNotFound) {
			return v, nil
		}
		return Viewer{}, fmt.Errorf("failed to load level: %w", err)
	}
	v.Level = l
	return v, nil
}

// Can reports whether the viewer holds capability. Lookup failures deny.
func (g *Gate) Can(ctx context.Context, v Viewer, capability permission.Capability) bool {
	if !v.LoggedIn() {
		return false
	}
	ok, err := g.access.Can(ctx, v.UserID(), capability)
	if err != nil {
		g.logger.Warnw("capability check failed", "error", err, "user_id", v.UserID(), "capability", capability)
		return false
	}
	return ok
}

func (g *Gate) IsAdministrator(ctx context.Context, v Viewer) bool {
	return g.Can(ctx, v, permission.CapManageOptions)
}

// IsActive is true for administrators and for members whose status still
// grants access at the current time.
func (g *Gate) IsActive(ctx context.Context, v Viewer) bool {
	ret := false
	if v.LoggedIn() {
		ret = g.IsAdministrator(ctx, v) || v.Member.HasAccessStatusAt(g.clock())
	}
	return g.isActive.Apply(ctx, ret, v.UserID())
}

// IsPaid is true for active members on a level with a price.
func (g *Gate) IsPaid(ctx context.Context, v Viewer) bool {
	return g.IsActive(ctx, v) && v.Level != nil && !v.Level.IsFree()
}

func (g *Gate) IsTrialing(ctx context.Context, v Viewer) bool {
	return v.LoggedIn() && v.Member.IsTrialing() && g.IsActive(ctx, v)
}

// HasAccess compares the viewer's level access level with required.
// Required level 0 is open to everyone.
func (g *Gate) HasAccess(ctx context.Context, v Viewer, required int) bool {
	ret := required <= 0
	if !ret && v.LoggedIn() {
		switch {
		case v.Level != nil && v.Level.AccessLevel() >= required:
			ret = true
		case g.IsAdministrator(ctx, v):
			ret = true
		}
	}
	return g.hasAccess.Apply(ctx, ret, AccessCheck{UserID: v.UserID(), Required: required})
}

// UpgradePossible reports whether an active level priced above the
// viewer's current one exists.
func (g *Gate) UpgradePossible(ctx context.Context, v Viewer) bool {
	if !v.LoggedIn() {
		return false
	}
	levels, err := g.levels.List(ctx, true)
	if err != nil {
		g.logger.Warnw("failed to list levels for upgrade check", "error", err)
		return false
	}

	var current int64
	if v.Level != nil {
		current = v.Level.Price()
	}
	for _, l := range levels {
		if l.ID() != v.Member.LevelID() && l.Price() > current {
			return true
		}
	}
	return false
}

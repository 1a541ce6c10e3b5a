package level

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// DurationUnit is the period a level's duration counts in.
type DurationUnit string

const (
	UnitDay   DurationUnit = "day"
	UnitMonth DurationUnit = "month"
	UnitYear  DurationUnit = "year"
)

func (u DurationUnit) IsValid() bool {
	return u == UnitDay || u == UnitMonth || u == UnitYear
}

// DefaultRole is granted when a level does not name one.
const DefaultRole = "subscriber"

// Level is a subscription level: a named plan with a price, a duration and
// the role (plus any extra capabilities) its members are granted.
type Level struct {
	id           uint
	name         string
	slug         string
	description  string
	price        int64
	fee          int64
	duration     int
	durationUnit DurationUnit
	accessLevel  int
	role         string
	capabilities []string
	status       Status
	listOrder    int
	version      int
	createdAt    time.Time
	updatedAt    time.Time
}

type LevelParams struct {
	Name         string
	Slug         string
	Description  string
	Price        int64
	Fee          int64
	Duration     int
	DurationUnit DurationUnit
	AccessLevel  int
	Role         string
	Capabilities []string
	ListOrder    int
}

func (p LevelParams) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	if len(p.Name) > 200 {
		return fmt.Errorf("level name too long (max 200 characters)")
	}
	if p.Slug == "" {
		return fmt.Errorf("level slug is required")
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidPrice)
	}
	if p.Duration < 0 {
		return fmt.Errorf("duration cannot be negative")
	}
	if p.Duration > 0 && !p.DurationUnit.IsValid() {
		return fmt.Errorf("invalid duration unit: %s", p.DurationUnit)
	}
	if p.AccessLevel < 0 || p.AccessLevel > 10 {
		return fmt.Errorf("access level must be between 0 and 10")
	}
	return nil
}

func NewLevel(p LevelParams) (*Level, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	l := &Level{
		status:    StatusActive,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}
	l.apply(p)
	return l, nil
}

type LevelReconstructParams struct {
	LevelParams
	ID        uint
	Status    string
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func ReconstructLevelWithParams(p LevelReconstructParams) (*Level, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("level ID cannot be zero")
	}
	status := Status(p.Status)
	if status != StatusActive && status != StatusInactive {
		return nil, fmt.Errorf("invalid level status: %s", p.Status)
	}
	l := &Level{
		id:        p.ID,
		status:    status,
		version:   p.Version,
		createdAt: p.CreatedAt,
		updatedAt: p.UpdatedAt,
	}
	l.apply(p.LevelParams)
	return l, nil
}

func (l *Level) apply(p LevelParams) {
	l.name = strings.TrimSpace(p.Name)
	l.slug = p.Slug
	l.description = p.Description
	l.price = p.Price
	l.fee = p.Fee
	l.duration = p.Duration
	l.durationUnit = p.DurationUnit
	if l.durationUnit == "" {
		l.durationUnit = UnitMonth
	}
	l.accessLevel = p.AccessLevel
	l.role = strings.TrimSpace(p.Role)
	if l.role == "" {
		l.role = DefaultRole
	}
	l.capabilities = normalizeCapabilities(p.Capabilities)
	l.listOrder = p.ListOrder
}

func normalizeCapabilities(caps []string) []string {
	seen := make(map[string]bool, len(caps))
	out := make([]string, 0, len(caps))
	for _, c := range caps {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func (l *Level) ID() uint                   { return l.id }
func (l *Level) Name() string               { return l.name }
func (l *Level) Slug() string               { return l.slug }
func (l *Level) Description() string        { return l.description }
func (l *Level) Price() int64               { return l.price }
func (l *Level) Fee() int64                 { return l.fee }
func (l *Level) Duration() int              { return l.duration }
func (l *Level) DurationUnit() DurationUnit { return l.durationUnit }
func (l *Level) AccessLevel() int           { return l.accessLevel }
func (l *Level) Role() string               { return l.role }
func (l *Level) Status() Status             { return l.status }
func (l *Level) ListOrder() int             { return l.listOrder }
func (l *Level) Version() int               { return l.version }
func (l *Level) CreatedAt() time.Time       { return l.createdAt }
func (l *Level) UpdatedAt() time.Time       { return l.updatedAt }

func (l *Level) Capabilities() []string {
	out := make([]string, len(l.capabilities))
	copy(out, l.capabilities)
	return out
}

func (l *Level) IsActive() bool { return l.status == StatusActive }

// IsFree reports whether members on this level pay nothing.
func (l *Level) IsFree() bool { return l.price == 0 }

// IsLifetime reports whether the level never expires.
func (l *Level) IsLifetime() bool { return l.duration == 0 }

func (l *Level) SetID(id uint) error {
	if l.id != 0 {
		return fmt.Errorf("level ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("level ID cannot be zero")
	}
	l.id = id
	return nil
}

// Update replaces the editable definition of the level.
func (l *Level) Update(p LevelParams) error {
	if err := p.validate(); err != nil {
		return err
	}
	l.apply(p)
	l.touch()
	return nil
}

func (l *Level) Activate() {
	if l.status != StatusActive {
		l.status = StatusActive
		l.touch()
	}
}

func (l *Level) Deactivate() {
	if l.status != StatusInactive {
		l.status = StatusInactive
		l.touch()
	}
}

// ExpirationFrom computes when a subscription started at start runs out.
// Lifetime levels return nil.
func (l *Level) ExpirationFrom(start time.Time) *time.Time {
	if l.IsLifetime() {
		return nil
	}
	var t time.Time
	switch l.durationUnit {
	case UnitDay:
		t = start.AddDate(0, 0, l.duration)
	case UnitYear:
		t = start.AddDate(l.duration, 0, 0)
	default:
		t = start.AddDate(0, l.duration, 0)
	}
	return &t
}

func (l *Level) touch() {
	l.updatedAt = time.Now().UTC()
	l.version++
}

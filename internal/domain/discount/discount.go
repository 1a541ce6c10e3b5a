package discount

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusDisabled Status = "disabled"
)

func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusDisabled
}

type Unit string

const (
	UnitPercent Unit = "%"
	UnitFlat    Unit = "flat"
)

// ParseUnit maps the admin form value: "%" is a percentage, anything else flat.
func ParseUnit(s string) Unit {
	if strings.TrimSpace(s) == string(UnitPercent) {
		return UnitPercent
	}
	return UnitFlat
}

// Discount is a redeemable code. Amount is in hundredths: cents for flat
// discounts, hundredths of a percent for percentage ones.
type Discount struct {
	id          uint
	name        string
	description string
	code        string
	amount      int64
	unit        Unit
	status      Status
	expiration  *time.Time
	maxUses     int
	useCount    int
	levelID     uint
	createdAt   time.Time
	updatedAt   time.Time
}

type DiscountParams struct {
	Name        string
	Description string
	Code        string
	Amount      int64
	Unit        Unit
	Expiration  *time.Time
	MaxUses     int
	LevelID     uint
}

func (p DiscountParams) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name", ErrMissingFields)
	}
	if strings.TrimSpace(p.Code) == "" {
		return fmt.Errorf("%w: code", ErrMissingFields)
	}
	if strings.ContainsAny(strings.TrimSpace(p.Code), " \t") {
		return fmt.Errorf("%w: code cannot contain spaces", ErrInvalidCode)
	}
	if p.Amount <= 0 {
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalidAmount)
	}
	if p.Unit == UnitPercent && p.Amount > 100*100 {
		return fmt.Errorf("%w: percentage cannot exceed 100", ErrInvalidAmount)
	}
	if p.MaxUses < 0 {
		return fmt.Errorf("max uses cannot be negative")
	}
	return nil
}

func NewDiscount(p DiscountParams) (*Discount, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	d := &Discount{status: StatusActive, createdAt: now, updatedAt: now}
	d.apply(p)
	return d, nil
}

type DiscountReconstructParams struct {
	DiscountParams
	ID        uint
	Status    string
	UseCount  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func ReconstructDiscountWithParams(p DiscountReconstructParams) (*Discount, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("discount ID cannot be zero")
	}
	status := Status(p.Status)
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid discount status: %s", p.Status)
	}
	d := &Discount{
		id:        p.ID,
		status:    status,
		useCount:  p.UseCount,
		createdAt: p.CreatedAt,
		updatedAt: p.UpdatedAt,
	}
	d.apply(p.DiscountParams)
	return d, nil
}

func (d *Discount) apply(p DiscountParams) {
	d.name = strings.TrimSpace(p.Name)
	d.description = p.Description
	d.code = strings.TrimSpace(p.Code)
	d.amount = p.Amount
	d.unit = p.Unit
	if d.unit != UnitPercent {
		d.unit = UnitFlat
	}
	d.expiration = p.Expiration
	d.maxUses = p.MaxUses
	d.levelID = p.LevelID
}

func (d *Discount) ID() uint               { return d.id }
func (d *Discount) Name() string           { return d.name }
func (d *Discount) Description() string    { return d.description }
func (d *Discount) Code() string           { return d.code }
func (d *Discount) Amount() int64          { return d.amount }
func (d *Discount) Unit() Unit             { return d.unit }
func (d *Discount) Status() Status         { return d.status }
func (d *Discount) Expiration() *time.Time { return d.expiration }
func (d *Discount) MaxUses() int           { return d.maxUses }
func (d *Discount) UseCount() int          { return d.useCount }
func (d *Discount) LevelID() uint          { return d.levelID }
func (d *Discount) CreatedAt() time.Time   { return d.createdAt }
func (d *Discount) UpdatedAt() time.Time   { return d.updatedAt }

func (d *Discount) SetID(id uint) error {
	if d.id != 0 {
		return fmt.Errorf("discount ID is already set")
	}
	d.id = id
	return nil
}

func (d *Discount) Update(p DiscountParams, status Status) error {
	if err := p.validate(); err != nil {
		return err
	}
	if !status.IsValid() {
		return fmt.Errorf("invalid discount status: %s", status)
	}
	d.apply(p)
	d.status = status
	d.touch()
	return nil
}

func (d *Discount) Activate() {
	d.status = StatusActive
	d.touch()
}

func (d *Discount) Disable() {
	d.status = StatusDisabled
	d.touch()
}

// IsRedeemableAt reports whether the code can be used at now for levelID.
func (d *Discount) IsRedeemableAt(now time.Time, levelID uint) bool {
	if d.status != StatusActive {
		return false
	}
	if d.expiration != nil && !d.expiration.After(now) {
		return false
	}
	if d.maxUses > 0 && d.useCount >= d.maxUses {
		return false
	}
	return d.levelID == 0 || d.levelID == levelID
}

// Apply returns price after the discount, floored at zero.
func (d *Discount) Apply(price int64) int64 {
	var off int64
	if d.unit == UnitPercent {
		off = price * d.amount / (100 * 100)
	} else {
		off = d.amount
	}
	if off >= price {
		return 0
	}
	return price - off
}

func (d *Discount) touch() {
	d.updatedAt = time.Now().UTC()
}

package payment

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusComplete Status = "complete"
	StatusPending  Status = "pending"
	StatusRefunded Status = "refunded"
	StatusFailed   Status = "failed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusComplete, StatusPending, StatusRefunded, StatusFailed:
		return true
	}
	return false
}

type Type string

const (
	TypeManual  Type = "manual"
	TypeGateway Type = "gateway"
)

// Payment records money received for a member's subscription. Amount is in
// minor units.
type Payment struct {
	id               uint
	userID           uint
	amount           int64
	date             time.Time
	subscriptionName string
	subscriptionKey  string
	transactionID    string
	status           Status
	paymentType      Type
	createdAt        time.Time
	updatedAt        time.Time
}

type PaymentParams struct {
	UserID           uint
	Amount           int64
	Date             time.Time
	SubscriptionName string
	SubscriptionKey  string
	TransactionID    string
	Status           Status
	Type             Type
}

func (p PaymentParams) validate() error {
	if p.UserID == 0 {
		return fmt.Errorf("%w: user", ErrMissingFields)
	}
	if p.Amount < 0 {
		return fmt.Errorf("%w: amount cannot be negative", ErrInvalidAmount)
	}
	if p.Date.IsZero() {
		return fmt.Errorf("%w: date", ErrMissingFields)
	}
	if !p.Status.IsValid() {
		return fmt.Errorf("invalid payment status: %s", p.Status)
	}
	if p.Type != TypeManual && p.Type != TypeGateway {
		return fmt.Errorf("invalid payment type: %s", p.Type)
	}
	return nil
}

func NewPayment(p PaymentParams) (*Payment, error) {
	if p.Status == "" {
		p.Status = StatusComplete
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	pay := &Payment{createdAt: now, updatedAt: now}
	pay.apply(p)
	return pay, nil
}

type PaymentReconstructParams struct {
	PaymentParams
	ID        uint
	CreatedAt time.Time
	UpdatedAt time.Time
}

func ReconstructPaymentWithParams(p PaymentReconstructParams) (*Payment, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("payment ID cannot be zero")
	}
	pay := &Payment{id: p.ID, createdAt: p.CreatedAt, updatedAt: p.UpdatedAt}
	pay.apply(p.PaymentParams)
	return pay, nil
}

func (p *Payment) apply(params PaymentParams) {
	p.userID = params.UserID
	p.amount = params.Amount
	p.date = params.Date.UTC()
	p.subscriptionName = strings.TrimSpace(params.SubscriptionName)
	p.subscriptionKey = params.SubscriptionKey
	p.transactionID = strings.TrimSpace(params.TransactionID)
	p.status = params.Status
	p.paymentType = params.Type
}

func (p *Payment) ID() uint                 { return p.id }
func (p *Payment) UserID() uint             { return p.userID }
func (p *Payment) Amount() int64            { return p.amount }
func (p *Payment) Date() time.Time          { return p.date }
func (p *Payment) SubscriptionName() string { return p.subscriptionName }
func (p *Payment) SubscriptionKey() string  { return p.subscriptionKey }
func (p *Payment) TransactionID() string    { return p.transactionID }
func (p *Payment) Status() Status           { return p.status }
func (p *Payment) Type() Type               { return p.paymentType }
func (p *Payment) CreatedAt() time.Time     { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time     { return p.updatedAt }

func (p *Payment) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("payment ID is already set")
	}
	p.id = id
	return nil
}

// Update replaces the editable fields; the payment type is kept.
func (p *Payment) Update(params PaymentParams) error {
	params.Type = p.paymentType
	if params.Status == "" {
		params.Status = p.status
	}
	if err := params.validate(); err != nil {
		return err
	}
	p.apply(params)
	p.updatedAt = time.Now().UTC()
	return nil
}

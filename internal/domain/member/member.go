package member

import (
	"fmt"
	"strings"
	"time"
)

// PayPalProfilePrefix marks a recurring-payments profile id issued by PayPal.
const PayPalProfilePrefix = "I-"

// Member is a user account together with its subscription state. Members
// are never hard-deleted; they move between statuses.
type Member struct {
	id                     uint
	login                  string
	email                  string
	displayName            string
	passwordHash           string
	levelID                uint
	status                 Status
	expiration             *time.Time
	paymentProfileID       string
	recurring              bool
	trialing               bool
	signupMethod           SignupMethod
	notes                  string
	subscriptionKey        string
	legacyPayPalSubscriber bool
	version                int
	createdAt              time.Time
	updatedAt              time.Time
}

func NewMember(login, email, displayName, passwordHash string) (*Member, error) {
	login = strings.TrimSpace(login)
	email = strings.TrimSpace(email)
	if login == "" {
		return nil, fmt.Errorf("member login is required")
	}
	if len(login) > 60 {
		return nil, fmt.Errorf("member login too long (max 60 characters)")
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email address: %s", email)
	}
	if displayName == "" {
		displayName = login
	}

	now := time.Now().UTC()
	return &Member{
		login:        login,
		email:        email,
		displayName:  displayName,
		passwordHash: passwordHash,
		status:       StatusPending,
		signupMethod: SignupLive,
		version:      1,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

type MemberReconstructParams struct {
	ID                     uint
	Login                  string
	Email                  string
	DisplayName            string
	PasswordHash           string
	LevelID                uint
	Status                 string
	Expiration             *time.Time
	PaymentProfileID       string
	Recurring              bool
	Trialing               bool
	SignupMethod           string
	Notes                  string
	SubscriptionKey        string
	LegacyPayPalSubscriber bool
	Version                int
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func ReconstructMemberWithParams(p MemberReconstructParams) (*Member, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("member ID cannot be zero")
	}
	status := Status(p.Status)
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, p.Status)
	}
	signup := SignupMethod(p.SignupMethod)
	if p.SignupMethod == "" {
		signup = SignupLive
	}

	return &Member{
		id:                     p.ID,
		login:                  p.Login,
		email:                  p.Email,
		displayName:            p.DisplayName,
		passwordHash:           p.PasswordHash,
		levelID:                p.LevelID,
		status:                 status,
		expiration:             p.Expiration,
		paymentProfileID:       p.PaymentProfileID,
		recurring:              p.Recurring,
		trialing:               p.Trialing,
		signupMethod:           signup,
		notes:                  p.Notes,
		subscriptionKey:        p.SubscriptionKey,
		legacyPayPalSubscriber: p.LegacyPayPalSubscriber,
		version:                p.Version,
		createdAt:              p.CreatedAt,
		updatedAt:              p.UpdatedAt,
	}, nil
}

func (m *Member) ID() uint                     { return m.id }
func (m *Member) Login() string                { return m.login }
func (m *Member) Email() string                { return m.email }
func (m *Member) DisplayName() string          { return m.displayName }
func (m *Member) PasswordHash() string         { return m.passwordHash }
func (m *Member) LevelID() uint                { return m.levelID }
func (m *Member) Status() Status               { return m.status }
func (m *Member) PaymentProfileID() string     { return m.paymentProfileID }
func (m *Member) IsRecurring() bool            { return m.recurring }
func (m *Member) IsTrialing() bool             { return m.trialing }
func (m *Member) SignupMethod() SignupMethod   { return m.signupMethod }
func (m *Member) Notes() string                { return m.notes }
func (m *Member) SubscriptionKey() string      { return m.subscriptionKey }
func (m *Member) LegacyPayPalSubscriber() bool { return m.legacyPayPalSubscriber }
func (m *Member) Version() int                 { return m.version }
func (m *Member) CreatedAt() time.Time         { return m.createdAt }
func (m *Member) UpdatedAt() time.Time         { return m.updatedAt }

// Expiration returns nil when the subscription never expires.
func (m *Member) Expiration() *time.Time {
	if m.expiration == nil {
		return nil
	}
	t := *m.expiration
	return &t
}

func (m *Member) SetID(id uint) error {
	if m.id != 0 {
		return fmt.Errorf("member ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("member ID cannot be zero")
	}
	m.id = id
	return nil
}

// HasPayPalProfile reports whether the stored payment profile id is a
// PayPal recurring-payments profile.
func (m *Member) HasPayPalProfile() bool {
	return strings.Contains(m.paymentProfileID, PayPalProfilePrefix)
}

// IsExpiredAt reports whether the member has an expiration at or before now.
func (m *Member) IsExpiredAt(now time.Time) bool {
	return m.expiration != nil && !m.expiration.After(now)
}

// HasAccessStatusAt reports whether the stored status grants access at now:
// active, free and cancelled members keep access until their expiration.
func (m *Member) HasAccessStatusAt(now time.Time) bool {
	switch m.status {
	case StatusActive, StatusFree, StatusCancelled:
		return !m.IsExpiredAt(now)
	}
	return false
}

func (m *Member) SetStatus(status Status) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	if m.status == status {
		return nil
	}
	m.status = status
	m.touch()
	return nil
}

// SetExpiration sets the expiration; nil means it never expires.
func (m *Member) SetExpiration(expiration *time.Time) {
	if expiration == nil {
		m.expiration = nil
	} else {
		t := expiration.UTC()
		m.expiration = &t
	}
	m.touch()
}

// AssignLevel moves the member onto a level. A zero id clears it.
func (m *Member) AssignLevel(levelID uint) {
	m.levelID = levelID
	m.touch()
}

// CancelSubscription marks the member cancelled and detaches it from its level.
func (m *Member) CancelSubscription() {
	m.status = StatusCancelled
	m.levelID = 0
	m.recurring = false
	m.touch()
}

func (m *Member) SetRecurring(recurring bool) {
	m.recurring = recurring
	m.touch()
}

func (m *Member) SetTrialing(trialing bool) {
	m.trialing = trialing
	m.touch()
}

func (m *Member) SetSignupMethod(method SignupMethod) error {
	if !method.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidSignup, method)
	}
	m.signupMethod = method
	m.touch()
	return nil
}

func (m *Member) SetNotes(notes string) {
	m.notes = notes
	m.touch()
}

func (m *Member) SetPaymentProfileID(profileID string) {
	m.paymentProfileID = strings.TrimSpace(profileID)
	m.touch()
}

func (m *Member) SetLegacyPayPalSubscriber(flag bool) {
	m.legacyPayPalSubscriber = flag
	m.touch()
}

// EnsureSubscriptionKey keeps an existing key or stores the generated one.
func (m *Member) EnsureSubscriptionKey(generate func() string) string {
	if m.subscriptionKey == "" {
		m.subscriptionKey = generate()
		m.touch()
	}
	return m.subscriptionKey
}

func (m *Member) SetPasswordHash(hash string) {
	m.passwordHash = hash
	m.touch()
}

func (m *Member) UpdateProfile(email, displayName string) error {
	if !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email address: %s", email)
	}
	m.email = strings.TrimSpace(email)
	if displayName != "" {
		m.displayName = displayName
	}
	m.touch()
	return nil
}

func (m *Member) touch() {
	m.updatedAt = time.Now().UTC()
	m.version++
}

package admin

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/membergate/membergate/internal/application/access"
	"github.com/membergate/membergate/internal/domain/discount"
	"github.com/membergate/membergate/internal/domain/level"
	"github.com/membergate/membergate/internal/domain/member"
	"github.com/membergate/membergate/internal/domain/payment"
	"github.com/membergate/membergate/internal/domain/permission"
	infrapermission "github.com/membergate/membergate/internal/infrastructure/permission"
	"github.com/membergate/membergate/internal/shared/logger"
)

// memberStore keeps snapshots so changes only persist through Update.
type memberStore struct {
	mu   sync.Mutex
	rows map[uint]member.MemberReconstructParams
	next uint
}

func newMemberStore() *memberStore {
	return &memberStore{rows: map[uint]member.MemberReconstructParams{}, next: 1}
}

func memberSnapshot(m *member.Member) member.MemberReconstructParams {
	return member.MemberReconstructParams{
		ID:                     m.ID(),
		Login:                  m.Login(),
		Email:                  m.Email(),
		DisplayName:            m.DisplayName(),
		PasswordHash:           m.PasswordHash(),
		LevelID:                m.LevelID(),
		Status:                 string(m.Status()),
		Expiration:             m.Expiration(),
		PaymentProfileID:       m.PaymentProfileID(),
		Recurring:              m.IsRecurring(),
		Trialing:               m.IsTrialing(),
		SignupMethod:           string(m.SignupMethod()),
		Notes:                  m.Notes(),
		SubscriptionKey:        m.SubscriptionKey(),
		LegacyPayPalSubscriber: m.LegacyPayPalSubscriber(),
		Version:                m.Version(),
		CreatedAt:              m.CreatedAt(),
		UpdatedAt:              m.UpdatedAt(),
	}
}

func (s *memberStore) load(p member.MemberReconstructParams) *member.Member {
	m, err := member.ReconstructMemberWithParams(p)
	if err != nil {
		panic(err)
	}
	return m
}

func (s *memberStore) Create(_ context.Context, m *member.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := m.SetID(s.next); err != nil {
		return err
	}
	s.next++
	s.rows[m.ID()] = memberSnapshot(m)
	return nil
}

func (s *memberStore) Update(_ context.Context, m *member.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[m.ID()]; !ok {
		return member.ErrMemberNotFound
	}
	s.rows[m.ID()] = memberSnapshot(m)
	return nil
}

func (s *memberStore) GetByID(_ context.Context, id uint) (*member.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[id]
	if !ok {
		return nil, member.ErrMemberNotFound
	}
	return s.load(p), nil
}

func (s *memberStore) GetByLogin(_ context.Context, login string) (*member.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.rows {
		if p.Login == login {
			return s.load(p), nil
		}
	}
	return nil, member.ErrMemberNotFound
}

func (s *memberStore) GetByLoginOrEmail(ctx context.Context, identifier string) (*member.Member, error) {
	return s.GetByLogin(ctx, identifier)
}

func (s *memberStore) GetByIDs(_ context.Context, ids []uint) ([]*member.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*member.Member
	for _, id := range ids {
		if p, ok := s.rows[id]; ok {
			out = append(out, s.load(p))
		}
	}
	return out, nil
}

func (s *memberStore) ListByLevel(_ context.Context, levelID uint) ([]*member.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uint, 0)
	for id, p := range s.rows {
		if p.LevelID == levelID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*member.Member, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.load(s.rows[id]))
	}
	return out, nil
}

func (s *memberStore) CountByLevel(ctx context.Context, levelID uint) (int64, error) {
	list, err := s.ListByLevel(ctx, levelID)
	return int64(len(list)), err
}

type levelStore struct {
	mu   sync.Mutex
	rows map[uint]*level.Level
	next uint
}

func newLevelStore() *levelStore {
	return &levelStore{rows: map[uint]*level.Level{}, next: 1}
}

func cloneLevel(l *level.Level) *level.Level {
	c, err := level.ReconstructLevelWithParams(level.LevelReconstructParams{
		LevelParams: level.LevelParams{
			Name:         l.Name(),
			Slug:         l.Slug(),
			Description:  l.Description(),
			Price:        l.Price(),
			Fee:          l.Fee(),
			Duration:     l.Duration(),
			DurationUnit: l.DurationUnit(),
			AccessLevel:  l.AccessLevel(),
			Role:         l.Role(),
			Capabilities: l.Capabilities(),
			ListOrder:    l.ListOrder(),
		},
		ID:        l.ID(),
		Status:    string(l.Status()),
		Version:   l.Version(),
		CreatedAt: l.CreatedAt(),
		UpdatedAt: l.UpdatedAt(),
	})
	if err != nil {
		panic(err)
	}
	return c
}

func (s *levelStore) Create(_ context.Context, l *level.Level) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := l.SetID(s.next); err != nil {
		return err
	}
	s.next++
	s.rows[l.ID()] = cloneLevel(l)
	return nil
}

func (s *levelStore) Update(_ context.Context, l *level.Level) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[l.ID()]; !ok {
		return level.ErrLevelNotFound
	}
	s.rows[l.ID()] = cloneLevel(l)
	return nil
}

func (s *levelStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return level.ErrLevelNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *levelStore) GetByID(_ context.Context, id uint) (*level.Level, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.rows[id]
	if !ok {
		return nil, level.ErrLevelNotFound
	}
	return cloneLevel(l), nil
}

func (s *levelStore) GetByIDs(ctx context.Context, ids []uint) ([]*level.Level, error) {
	var out []*level.Level
	for _, id := range ids {
		if l, err := s.GetByID(ctx, id); err == nil {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *levelStore) List(_ context.Context, onlyActive bool) ([]*level.Level, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*level.Level
	for _, l := range s.rows {
		if !onlyActive || l.IsActive() {
			out = append(out, cloneLevel(l))
		}
	}
	return out, nil
}

type discountStore struct {
	mu   sync.Mutex
	rows map[uint]*discount.Discount
	next uint
}

func newDiscountStore() *discountStore {
	return &discountStore{rows: map[uint]*discount.Discount{}, next: 1}
}

func (s *discountStore) Create(_ context.Context, d *discount.Discount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := d.SetID(s.next); err != nil {
		return err
	}
	s.next++
	s.rows[d.ID()] = d
	return nil
}

func (s *discountStore) Update(_ context.Context, d *discount.Discount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[d.ID()] = d
	return nil
}

func (s *discountStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return discount.ErrDiscountNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *discountStore) GetByID(_ context.Context, id uint) (*discount.Discount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.rows[id]; ok {
		return d, nil
	}
	return nil, discount.ErrDiscountNotFound
}

func (s *discountStore) GetByCode(_ context.Context, code string) (*discount.Discount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.rows {
		if d.Code() == code {
			return d, nil
		}
	}
	return nil, discount.ErrDiscountNotFound
}

type paymentStore struct {
	mu   sync.Mutex
	rows map[uint]*payment.Payment
	next uint
}

func newPaymentStore() *paymentStore {
	return &paymentStore{rows: map[uint]*payment.Payment{}, next: 1}
}

func (s *paymentStore) Create(_ context.Context, p *payment.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := p.SetID(s.next); err != nil {
		return err
	}
	s.next++
	s.rows[p.ID()] = p
	return nil
}

func (s *paymentStore) Update(_ context.Context, p *payment.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[p.ID()] = p
	return nil
}

func (s *paymentStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return payment.ErrPaymentNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *paymentStore) GetByID(_ context.Context, id uint) (*payment.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.rows[id]; ok {
		return p, nil
	}
	return nil, payment.ErrPaymentNotFound
}

func (s *paymentStore) ListByUser(_ context.Context, userID uint) ([]*payment.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*payment.Payment
	for _, p := range s.rows {
		if p.UserID() == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *paymentStore) SumEarnings(_ context.Context, f payment.EarningsFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, p := range s.rows {
		if p.Status() != payment.StatusComplete {
			continue
		}
		if f.SubscriptionName != "" && p.SubscriptionName() != f.SubscriptionName {
			continue
		}
		if f.UserID != 0 && p.UserID() != f.UserID {
			continue
		}
		if f.From != nil && p.Date().Before(*f.From) {
			continue
		}
		if f.To != nil && p.Date().After(*f.To) {
			continue
		}
		total += p.Amount()
	}
	return total, nil
}

type directTx struct {
	calls int
}

func (t *directTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

// staticNonces accepts one token per action.
type staticNonces map[string]string

func (n staticNonces) Verify(token, action string, _ uint) error {
	if token == "" || n[action] != token {
		return fmt.Errorf("invalid token for %s", action)
	}
	return nil
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.calls++
	return nil
}

type cancelledNotice struct {
	memberID uint
	level    string
}

type notifierStub struct {
	ch chan cancelledNotice
}

func (n *notifierStub) NotifySubscriptionCancelled(_ context.Context, m *member.Member, levelName string) error {
	n.ch <- cancelledNotice{m.ID(), levelName}
	return nil
}

type profileCancellerStub struct {
	err       error
	cancelled []uint
}

func (p *profileCancellerStub) Execute(_ context.Context, m *member.Member) error {
	if p.err != nil {
		return p.err
	}
	p.cancelled = append(p.cancelled, m.ID())
	return nil
}

const (
	adminID   uint = 1000
	managerID uint = 1001
	editorID  uint = 1002
)

type harness struct {
	members    *memberStore
	levels     *levelStore
	discounts  *discountStore
	payments   *paymentStore
	tx         *directTx
	earnings   *countingInvalidator
	notifier   *notifierStub
	profiles   *profileCancellerStub
	enforcer   *infrapermission.Enforcer
	authorizer *access.Authorizer
	dispatcher *Dispatcher
	now        time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := logger.NewNop()

	enforcer, err := infrapermission.NewInMemoryEnforcer(log)
	require.NoError(t, err)
	caps, err := infrapermission.LoadCapabilityMap("")
	require.NoError(t, err)
	require.NoError(t, infrapermission.SeedRoleCapabilities(enforcer, caps, log))
	require.NoError(t, enforcer.AddRoleForUser(permission.UserSubject(adminID), permission.RoleAdministrator))
	require.NoError(t, enforcer.AddRoleForUser(permission.UserSubject(managerID), "membership_manager"))
	require.NoError(t, enforcer.AddRoleForUser(permission.UserSubject(editorID), permission.RoleEditor))

	h := &harness{
		members:   newMemberStore(),
		levels:    newLevelStore(),
		discounts: newDiscountStore(),
		payments:  newPaymentStore(),
		tx:        &directTx{},
		earnings:  &countingInvalidator{},
		notifier:  &notifierStub{ch: make(chan cancelledNotice, 16)},
		profiles:  &profileCancellerStub{},
		enforcer:  enforcer,
		now:       time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}
	h.authorizer = access.NewAuthorizer(enforcer, log)

	commands := NewCommands(Deps{
		Members:    h.members,
		Levels:     h.levels,
		Discounts:  h.discounts,
		Payments:   h.payments,
		Authorizer: h.authorizer,
		Tx:         h.tx,
		Earnings:   h.earnings,
		Profiles:   h.profiles,
		Notifier:   h.notifier,
		Logger:     log,
		Clock:      func() time.Time { return h.now },
		NewKey:     func() string { return "generated-key" },
	})
	nonces := staticNonces{
		NonceBulkEdit:       "bulk-token",
		NonceDeletePayment:  "delete-token",
		NonceMemberAction:   memberToken,
		NonceLevelAction:    levelToken,
		NonceDiscountAction: discountToken,
	}
	h.dispatcher = NewDispatcher(h.authorizer, nonces, nil, log, commands.All()...)
	return h
}

func (h *harness) addLevel(t *testing.T, name, role string, price int64) *level.Level {
	t.Helper()
	l, err := level.NewLevel(level.LevelParams{
		Name:         name,
		Slug:         name,
		Price:        price,
		Duration:     1,
		DurationUnit: level.UnitMonth,
		Role:         role,
	})
	require.NoError(t, err)
	require.NoError(t, h.levels.Create(context.Background(), l))
	return l
}

func (h *harness) addMember(t *testing.T, login string, levelID uint, status member.Status) *member.Member {
	t.Helper()
	m, err := member.NewMember(login, login+"@example.com", "", "")
	require.NoError(t, err)
	require.NoError(t, m.SetStatus(status))
	m.AssignLevel(levelID)
	require.NoError(t, h.members.Create(context.Background(), m))
	return m
}

func (h *harness) member(t *testing.T, id uint) *member.Member {
	t.Helper()
	m, err := h.members.GetByID(context.Background(), id)
	require.NoError(t, err)
	return m
}

func (h *harness) roles(t *testing.T, userID uint) []string {
	t.Helper()
	roles, err := h.authorizer.Roles(context.Background(), userID)
	require.NoError(t, err)
	sort.Strings(roles)
	return roles
}

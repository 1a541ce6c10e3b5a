package member

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMember(t *testing.T, p MemberReconstructParams) *Member {
	t.Helper()
	if p.ID == 0 {
		p.ID = 1
	}
	if p.Login == "" {
		p.Login = "jane"
	}
	if p.Status == "" {
		p.Status = string(StatusActive)
	}
	m, err := ReconstructMemberWithParams(p)
	require.NoError(t, err)
	return m
}

func TestNewMember(t *testing.T) {
	m, err := NewMember(" jane ", "jane@example.com", "", "hash")
	require.NoError(t, err)
	assert.Equal(t, "jane", m.Login())
	assert.Equal(t, "jane", m.DisplayName())
	assert.Equal(t, StatusPending, m.Status())
	assert.Nil(t, m.Expiration())

	_, err = NewMember("", "jane@example.com", "", "")
	assert.Error(t, err)
	_, err = NewMember("jane", "not-an-email", "", "")
	assert.Error(t, err)
}

func TestReconstructMember_RejectsBadStatus(t *testing.T) {
	_, err := ReconstructMemberWithParams(MemberReconstructParams{ID: 3, Status: "zombie"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestHasPayPalProfile(t *testing.T) {
	tests := []struct {
		profile string
		want    bool
	}{
		{"I-8VW4B6S2N9XK", true},
		{"sub_I-legacy", true},
		{"cus_12345", false},
		{"", false},
	}
	for _, tt := range tests {
		m := newTestMember(t, MemberReconstructParams{PaymentProfileID: tt.profile})
		assert.Equal(t, tt.want, m.HasPayPalProfile(), tt.profile)
	}
}

func TestHasAccessStatusAt(t *testing.T) {
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	tests := []struct {
		name       string
		status     Status
		expiration *time.Time
		want       bool
	}{
		{"active without expiration", StatusActive, nil, true},
		{"active before expiration", StatusActive, &future, true},
		{"active after expiration", StatusActive, &past, false},
		{"cancelled keeps access until expiration", StatusCancelled, &future, true},
		{"cancelled after expiration", StatusCancelled, &past, false},
		{"free", StatusFree, nil, true},
		{"expired", StatusExpired, &future, false},
		{"pending", StatusPending, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMember(t, MemberReconstructParams{Status: string(tt.status), Expiration: tt.expiration})
			assert.Equal(t, tt.want, m.HasAccessStatusAt(now))
		})
	}
}

func TestCancelSubscription_ClearsLevel(t *testing.T) {
	m := newTestMember(t, MemberReconstructParams{LevelID: 4, Recurring: true})

	m.CancelSubscription()

	assert.Equal(t, StatusCancelled, m.Status())
	assert.Zero(t, m.LevelID())
	assert.False(t, m.IsRecurring())
}

func TestEnsureSubscriptionKey_KeepsExisting(t *testing.T) {
	m := newTestMember(t, MemberReconstructParams{SubscriptionKey: "abc"})
	assert.Equal(t, "abc", m.EnsureSubscriptionKey(func() string { return "new" }))

	fresh := newTestMember(t, MemberReconstructParams{})
	assert.Equal(t, "new", fresh.EnsureSubscriptionKey(func() string { return "new" }))
}

func TestSetStatus_Invalid(t *testing.T) {
	m := newTestMember(t, MemberReconstructParams{})
	assert.ErrorIs(t, m.SetStatus("bogus"), ErrInvalidStatus)
	assert.Equal(t, StatusActive, m.Status())
}

func TestExpiration_ReturnsCopy(t *testing.T) {
	exp := time.Date(2031, 2, 3, 23, 59, 59, 0, time.UTC)
	m := newTestMember(t, MemberReconstructParams{Expiration: &exp})

	got := m.Expiration()
	*got = got.Add(time.Hour)

	assert.Equal(t, exp, *m.Expiration())
}

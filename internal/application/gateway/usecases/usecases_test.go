package usecases

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/membergate/membergate/internal/application/gateway"
	"github.com/membergate/membergate/internal/domain/member"
	"github.com/membergate/membergate/internal/shared/config"
	"github.com/membergate/membergate/internal/shared/logger"
)

type stubMembers struct {
	member.Repository
	byID map[uint]*member.Member
}

func (s *stubMembers) GetByID(_ context.Context, id uint) (*member.Member, error) {
	if m, ok := s.byID[id]; ok {
		return m, nil
	}
	return nil, member.ErrMemberNotFound
}

type fakeTransport struct {
	mu    sync.Mutex
	calls []url.Values
	resp  *gateway.NVPResponse
	err   error
}


func (f *fakeTransport) Post(_ context.Context, fields url.Values) (*gateway.NVPResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fields)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type notifyRecorder struct {
	done chan uint
}

func (n *notifyRecorder) NotifyCardUpdated(_ context.Context, m *member.Member) error {
	n.done <- m.ID()
	return nil
}

type outcomeRecorder struct {
	outcomes []string
}

func (o *outcomeRecorder) ObserveCardUpdate(outcome string, _ time.Duration) {
	o.outcomes = append(o.outcomes, outcome)
}

func newMember(t *testing.T, id uint, profile string) *member.Member {
	t.Helper()
	m, err := member.ReconstructMemberWithParams(member.MemberReconstructParams{
		ID:               id,
		Login:            "member",
		Email:            "member@example.com",
		Status:           "active",
		PaymentProfileID: profile,
	})
	require.NoError(t, err)
	return m
}

func gatewayCfg() config.GatewayConfig {
	return config.GatewayConfig{
		Sandbox: true,
		PayPal: config.PayPalConfig{
			Test: config.PayPalAPICredentials{APIUsername: "u", APIPassword: "p", APISignature: "s"},
		},
	}
}

type fixture struct {
	uc        *UpdateBillingCardUseCase
	transport *fakeTransport
	notifier  *notifyRecorder
	metrics   *outcomeRecorder
}

func newFixture(t *testing.T, cfg config.GatewayConfig, resp *gateway.NVPResponse) *fixture {
	t.Helper()
	members := &stubMembers{byID: map[uint]*member.Member{
		7: newMember(t, 7, "I-PROFILE7"),
		8: newMember(t, 8, "cus_stripe"),
	}}
	log := logger.NewNop()
	f := &fixture{
		transport: &fakeTransport{resp: resp},
		notifier:  &notifyRecorder{done: make(chan uint, 1)},
		metrics:   &outcomeRecorder{},
	}
	f.uc = NewUpdateBillingCardUseCase(
		members,
		gateway.NewSubscriberChecker(members, log),
		gateway.NewCredentialResolver(cfg),
		f.transport,
		f.notifier,
		f.metrics,
		cfg.PayPal,
		log,
	)
	return f
}

func okResponse(profile string) *gateway.NVPResponse {
	return &gateway.NVPResponse{StatusCode: 200, Fields: url.Values{"ACK": {"Success"}, "PROFILEID": {profile}}}
}

func validCommand() UpdateBillingCardCommand {
	return UpdateBillingCardCommand{
		MemberID:   7,
		CardNumber: "4111111111111111",
		ExpMonth:   "3",
		ExpYear:    "29",
		CVC:        "123",
		Zip:        " 94107 ",
	}
}

func TestUpdateBillingCard_Success(t *testing.T) {
	cfg := gatewayCfg()
	cfg.PayPal.ButtonSource = "Membergate_SP"
	f := newFixture(t, cfg, okResponse("I-PROFILE7"))

	result, err := f.uc.Execute(context.Background(), validCommand())
	require.NoError(t, err)

	assert.True(t, result.Updated)
	assert.Equal(t, map[string]string{"card": "updated"}, result.QueryArgs())

	require.Len(t, f.transport.calls, 1)
	sent := f.transport.calls[0]
	assert.Equal(t, gateway.MethodUpdateRecurringProfile, sent.Get("METHOD"))
	assert.Equal(t, "I-PROFILE7", sent.Get("PROFILEID"))
	assert.Equal(t, "032029", sent.Get("EXPDATE"))
	assert.Equal(t, "123", sent.Get("CVV2"))
	assert.Equal(t, "94107", sent.Get("ZIP"))
	assert.Equal(t, "Membergate_SP", sent.Get("BUTTONSOURCE"))
	assert.Equal(t, "u", sent.Get("USER"))

	select {
	case id := <-f.notifier.done:
		assert.Equal(t, uint(7), id)
	case <-time.After(time.Second):
		t.Fatal("notification was not sent")
	}
	assert.Equal(t, []string{OutcomeUpdated}, f.metrics.outcomes)
}

func TestUpdateBillingCard_OptionalFieldsOmitted(t *testing.T) {
	f := newFixture(t, gatewayCfg(), okResponse("I-PROFILE7"))
	cmd := validCommand()
	cmd.Zip = ""

	_, err := f.uc.Execute(context.Background(), cmd)
	require.NoError(t, err)

	require.Len(t, f.transport.calls, 1)
	_, hasZip := f.transport.calls[0]["ZIP"]
	_, hasSource := f.transport.calls[0]["BUTTONSOURCE"]
	assert.False(t, hasZip)
	assert.False(t, hasSource)
}

func TestUpdateBillingCard_PreconditionsAreSilent(t *testing.T) {
	tests := []struct {
		name     string
		memberID uint
	}{
		{"no member id", 0},
		{"unknown member", 99},
		{"not a paypal subscriber", 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, gatewayCfg(), okResponse("I-PROFILE7"))
			cmd := validCommand()
			cmd.MemberID = tt.memberID

			result, err := f.uc.Execute(context.Background(), cmd)
			require.NoError(t, err)
			assert.True(t, result.Skipped)
			assert.Empty(t, result.QueryArgs())
			assert.Empty(t, f.transport.calls)
		})
	}
}

func TestUpdateBillingCard_InvalidFieldsNeverCallGateway(t *testing.T) {
	mutations := map[string]func(*UpdateBillingCardCommand){
		"empty number":      func(c *UpdateBillingCardCommand) { c.CardNumber = "" },
		"alpha number":      func(c *UpdateBillingCardCommand) { c.CardNumber = "4111-1111" },
		"empty month":       func(c *UpdateBillingCardCommand) { c.ExpMonth = "" },
		"non-numeric month": func(c *UpdateBillingCardCommand) { c.ExpMonth = "Mar" },
		"empty year":        func(c *UpdateBillingCardCommand) { c.ExpYear = "" },
		"signed year":       func(c *UpdateBillingCardCommand) { c.ExpYear = "+29" },
		"empty cvc":         func(c *UpdateBillingCardCommand) { c.CVC = "" },
		"decimal cvc":       func(c *UpdateBillingCardCommand) { c.CVC = "1.5" },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, gatewayCfg(), okResponse("I-PROFILE7"))
			cmd := validCommand()
			mutate(&cmd)

			result, err := f.uc.Execute(context.Background(), cmd)
			require.NoError(t, err)
			assert.False(t, result.Updated)
			assert.Equal(t, MsgMissingFields, result.Message)
			assert.Equal(t, "not-updated", result.QueryArgs()["card"])
			assert.Empty(t, f.transport.calls)
		})
	}
}

func TestUpdateBillingCard_AckFailure(t *testing.T) {
	for _, ack := range []string{"Failure", "FAILURE", "failure"} {
		t.Run(ack, func(t *testing.T) {
			resp := &gateway.NVPResponse{StatusCode: 200, Fields: url.Values{
				"ACK":            {ack},
				"PROFILEID":      {"I-PROFILE7"},
				"L_ERRORCODE0":   {"10527"},
				"L_LONGMESSAGE0": {"Invalid card number"},
			}}
			f := newFixture(t, gatewayCfg(), resp)

			result, err := f.uc.Execute(context.Background(), validCommand())
			require.NoError(t, err)
			assert.False(t, result.Updated)
			assert.Equal(t, "10527: Invalid card number", result.Message)
		})
	}
}

func TestUpdateBillingCard_ProfileMismatch(t *testing.T) {
	f := newFixture(t, gatewayCfg(), okResponse("I-SOMEONEELSE"))

	result, err := f.uc.Execute(context.Background(), validCommand())
	require.NoError(t, err)
	assert.False(t, result.Updated)
	assert.Equal(t, MsgProfileMismatch, result.Message)
	assert.Equal(t, []string{OutcomeMismatch}, f.metrics.outcomes)
}

func TestUpdateBillingCard_TransportAndStatusFailures(t *testing.T) {
	t.Run("transport error", func(t *testing.T) {
		f := newFixture(t, gatewayCfg(), nil)
		f.transport.err = errors.New("dial tcp: i/o timeout")

		result, err := f.uc.Execute(context.Background(), validCommand())
		require.NoError(t, err)
		assert.Equal(t, "dial tcp: i/o timeout", result.Message)
	})

	t.Run("non-200", func(t *testing.T) {
		f := newFixture(t, gatewayCfg(), &gateway.NVPResponse{StatusCode: 503, Fields: url.Values{}})

		result, err := f.uc.Execute(context.Background(), validCommand())
		require.NoError(t, err)
		assert.Equal(t, MsgGenericFailure, result.Message)
	})
}

func TestUpdateBillingCard_IncompleteCredentials(t *testing.T) {
	cfg := gatewayCfg()
	cfg.PayPal.Test.APISignature = ""
	f := newFixture(t, cfg, okResponse("I-PROFILE7"))

	result, err := f.uc.Execute(context.Background(), validCommand())
	require.NoError(t, err)
	assert.Equal(t, MsgGenericFailure, result.Message)
	assert.Empty(t, f.transport.calls)
}

func TestCancelRecurringProfile(t *testing.T) {
	members := &stubMembers{byID: map[uint]*member.Member{}}
	log := logger.NewNop()
	transport := &fakeTransport{resp: &gateway.NVPResponse{StatusCode: 200, Fields: url.Values{"ACK": {"Success"}}}}
	uc := NewCancelRecurringProfileUseCase(
		gateway.NewSubscriberChecker(members, log),
		gateway.NewCredentialResolver(gatewayCfg()),
		transport,
		log,
	)

	require.NoError(t, uc.Execute(context.Background(), newMember(t, 8, "cus_stripe")))
	assert.Empty(t, transport.calls)

	require.NoError(t, uc.Execute(context.Background(), newMember(t, 7, "I-PROFILE7")))
	require.Len(t, transport.calls, 1)
	assert.Equal(t, gateway.MethodManageProfileStatus, transport.calls[0].Get("METHOD"))
	assert.Equal(t, "Cancel", transport.calls[0].Get("ACTION"))

	transport.resp = &gateway.NVPResponse{StatusCode: 200, Fields: url.Values{
		"ACK": {"Failure"}, "L_ERRORCODE0": {"11556"}, "L_LONGMESSAGE0": {"Invalid profile status"},
	}}
	err := uc.Execute(context.Background(), newMember(t, 7, "I-PROFILE7"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "11556: Invalid profile status")
}

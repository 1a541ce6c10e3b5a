package handlers

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/membergate/membergate/internal/application/account"
	"github.com/membergate/membergate/internal/application/content"
	gatewayUsecases "github.com/membergate/membergate/internal/application/gateway/usecases"
	"github.com/membergate/membergate/internal/interfaces/http/handlers/testutil"
	"github.com/membergate/membergate/internal/shared/errors"
)

// =====================================================================
// Mocks
// =====================================================================

type mockNonces struct {
	valid     string
	gotAction string
	gotUser   uint
}

func (m *mockNonces) Verify(token, action string, userID uint) error {
	m.gotAction = action
	m.gotUser = userID
	if token != m.valid {
		return stderrors.New("bad token")
	}
	return nil
}

type mockChangePasswordUC struct {
	called bool
	gotCmd account.ChangePasswordCommand
	err    error
}

func (m *mockChangePasswordUC) Execute(ctx context.Context, userID uint, cmd account.ChangePasswordCommand) error {
	m.called = true
	m.gotCmd = cmd
	return m.err
}

type mockUpdateProfileUC struct {
	gotCmd account.UpdateProfileCommand
	err    error
}

func (m *mockUpdateProfileUC) Execute(ctx context.Context, userID uint, cmd account.UpdateProfileCommand) error {
	m.gotCmd = cmd
	return m.err
}

type mockUpdateCardUC struct {
	gotCmd gatewayUsecases.UpdateBillingCardCommand
	result *gatewayUsecases.UpdateBillingCardResult
	err    error
}

func (m *mockUpdateCardUC) Execute(ctx context.Context, cmd gatewayUsecases.UpdateBillingCardCommand) (*gatewayUsecases.UpdateBillingCardResult, error) {
	m.gotCmd = cmd
	return m.result, m.err
}

type accountFixture struct {
	password *mockChangePasswordUC
	profile  *mockUpdateProfileUC
	card     *mockUpdateCardUC
	nonces   *mockNonces
	handler  *AccountHandler
}

func newAccountFixture() *accountFixture {
	f := &accountFixture{
		password: &mockChangePasswordUC{},
		profile:  &mockUpdateProfileUC{},
		card:     &mockUpdateCardUC{},
		nonces:   &mockNonces{valid: "good-token"},
	}
	f.handler = NewAccountHandler(f.password, f.profile, f.card, f.nonces, testutil.NewMockLogger())
	return f
}

func withNonce(form url.Values, token string) url.Values {
	form.Set(content.NonceField, token)
	return form
}

// =====================================================================
// ChangePassword
// =====================================================================

func TestAccountHandler_ChangePassword_Success(t *testing.T) {
	f := newAccountFixture()

	c, w := testutil.NewFormContext("/account/password", withNonce(url.Values{
		"old_password":     {"old-secret"},
		"new_password":     {"new-secret-1"},
		"confirm_password": {"new-secret-1"},
		"redirect":         {"/account"},
	}, "good-token"))
	testutil.SetAuthContext(c, 7)
	f.handler.ChangePassword(c)

	require.Equal(t, http.StatusSeeOther, w.Code)
	loc := testutil.RedirectLocation(w)
	assert.Equal(t, "/account", loc.Path)
	assert.Equal(t, "true", loc.Query().Get("password-reset"))

	assert.Equal(t, content.NonceChangePassword, f.nonces.gotAction)
	assert.Equal(t, uint(7), f.nonces.gotUser)
	assert.Equal(t, "new-secret-1", f.password.gotCmd.NewPassword)
}

func TestAccountHandler_ChangePassword_BadNonce(t *testing.T) {
	f := newAccountFixture()

	c, w := testutil.NewFormContext("/account/password", withNonce(url.Values{
		"old_password": {"old-secret"},
	}, "stale"))
	testutil.SetAuthContext(c, 7)
	f.handler.ChangePassword(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, f.password.called)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Nonce verification failed.", resp.Error.Message)
}

func TestAccountHandler_ChangePassword_ValidationErrorRedirectsWithMessage(t *testing.T) {
	f := newAccountFixture()
	f.password.err = errors.NewValidationError("passwords do not match")

	c, w := testutil.NewFormContext("/account/password", withNonce(url.Values{
		"old_password":     {"old-secret"},
		"new_password":     {"new-secret-1"},
		"confirm_password": {"new-secret-2"},
	}, "good-token"))
	c.Request.Header.Set("Referer", "http://example.com/account?tab=password")
	testutil.SetAuthContext(c, 7)
	f.handler.ChangePassword(c)

	require.Equal(t, http.StatusSeeOther, w.Code)
	loc := testutil.RedirectLocation(w)
	assert.Equal(t, "/account", loc.Path)
	assert.Equal(t, "password", loc.Query().Get("tab"))
	assert.Equal(t, "passwords do not match", loc.Query().Get("msg"))
	assert.Empty(t, loc.Query().Get("password-reset"))
}

func TestAccountHandler_ChangePassword_InternalErrorRendersJSON(t *testing.T) {
	f := newAccountFixture()
	f.password.err = stderrors.New("db down")

	c, w := testutil.NewFormContext("/account/password", withNonce(url.Values{}, "good-token"))
	testutil.SetAuthContext(c, 7)
	f.handler.ChangePassword(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
}

// =====================================================================
// UpdateProfile
// =====================================================================

func TestAccountHandler_UpdateProfile_Success(t *testing.T) {
	f := newAccountFixture()

	c, w := testutil.NewFormContext("/account/profile", withNonce(url.Values{
		"email":        {"new@example.com"},
		"display_name": {"New Name"},
		"redirect":     {"/profile"},
	}, "good-token"))
	testutil.SetAuthContext(c, 3)
	f.handler.UpdateProfile(c)

	require.Equal(t, http.StatusSeeOther, w.Code)
	loc := testutil.RedirectLocation(w)
	assert.Equal(t, "/profile", loc.Path)
	assert.Equal(t, "true", loc.Query().Get("updated"))
	assert.Equal(t, content.NonceEditProfile, f.nonces.gotAction)
	assert.Equal(t, "new@example.com", f.profile.gotCmd.Email)
	assert.Equal(t, "New Name", f.profile.gotCmd.DisplayName)
}

func TestAccountHandler_UpdateProfile_WrongActionToken(t *testing.T) {
	f := newAccountFixture()
	f.nonces.valid = "other"

	c, w := testutil.NewFormContext("/account/profile", withNonce(url.Values{}, "good-token"))
	testutil.SetAuthContext(c, 3)
	f.handler.UpdateProfile(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

// =====================================================================
// UpdateCard
// =====================================================================

func TestAccountHandler_UpdateCard(t *testing.T) {
	tests := []struct {
		name      string
		result    *gatewayUsecases.UpdateBillingCardResult
		wantQuery url.Values
	}{
		{
			name:      "updated",
			result:    &gatewayUsecases.UpdateBillingCardResult{Updated: true},
			wantQuery: url.Values{"card": {"updated"}},
		},
		{
			name:      "rejected by gateway",
			result:    &gatewayUsecases.UpdateBillingCardResult{Message: "Invalid card"},
			wantQuery: url.Values{"card": {"not-updated"}, "msg": {"Invalid card"}},
		},
		{
			name:      "nothing to update",
			result:    &gatewayUsecases.UpdateBillingCardResult{Skipped: true},
			wantQuery: url.Values{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAccountFixture()
			f.card.result = tt.result

			c, w := testutil.NewFormContext("/account/card", withNonce(url.Values{
				"card_number":    {"4111111111111111"},
				"card_cvc":       {"123"},
				"card_zip":       {"94107"},
				"card_exp_month": {"04"},
				"card_exp_year":  {"2030"},
				"redirect":       {"/billing"},
			}, "good-token"))
			testutil.SetAuthContext(c, 42)
			f.handler.UpdateCard(c)

			require.Equal(t, http.StatusSeeOther, w.Code)
			loc := testutil.RedirectLocation(w)
			assert.Equal(t, "/billing", loc.Path)
			assert.Equal(t, tt.wantQuery, loc.Query())

			assert.Equal(t, uint(42), f.card.gotCmd.MemberID)
			assert.Equal(t, "4111111111111111", f.card.gotCmd.CardNumber)
			assert.Equal(t, "04", f.card.gotCmd.ExpMonth)
			assert.Equal(t, "2030", f.card.gotCmd.ExpYear)
			assert.Equal(t, "123", f.card.gotCmd.CVC)
			assert.Equal(t, "94107", f.card.gotCmd.Zip)
		})
	}
}

func TestAccountHandler_UpdateCard_BadNonce(t *testing.T) {
	f := newAccountFixture()

	c, w := testutil.NewFormContext("/account/card", withNonce(url.Values{
		"card_number": {"4111111111111111"},
	}, ""))
	testutil.SetAuthContext(c, 42)
	f.handler.UpdateCard(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, content.NonceUpdateCard, f.nonces.gotAction)
	assert.Empty(t, f.card.gotCmd.CardNumber)
}

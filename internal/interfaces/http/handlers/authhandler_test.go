package handlers

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/membergate/membergate/internal/application/account"
	"github.com/membergate/membergate/internal/domain/member"
	"github.com/membergate/membergate/internal/interfaces/http/handlers/testutil"
	"github.com/membergate/membergate/internal/shared/constants"
	"github.com/membergate/membergate/internal/shared/errors"
)

type mockLoginUC struct {
	got    account.LoginCommand
	result *account.LoginResult
	err    error
}

func (m *mockLoginUC) Execute(ctx context.Context, cmd account.LoginCommand) (*account.LoginResult, error) {
	m.got = cmd
	return m.result, m.err
}

func newLoginResult(t *testing.T) *account.LoginResult {
	t.Helper()
	m, err := member.NewMember("jdoe", "jdoe@example.com", "Jane Doe", "hash")
	require.NoError(t, err)
	return &account.LoginResult{Member: m, Token: "session-token", ExpiresIn: 86400}
}

func sessionCookie(t *testing.T, header http.Header) *http.Cookie {
	t.Helper()
	resp := http.Response{Header: header}
	for _, c := range resp.Cookies() {
		if c.Name == constants.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestAuthHandler_Login_JSON(t *testing.T) {
	uc := &mockLoginUC{result: newLoginResult(t)}
	h := NewAuthHandler(uc, true, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/auth/login", LoginRequest{Login: "jdoe", Password: "secret-pass"})
	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jdoe", uc.got.Identifier)
	assert.Equal(t, "secret-pass", uc.got.Password)

	cookie := sessionCookie(t, w.Header())
	require.NotNil(t, cookie)
	assert.Equal(t, "session-token", cookie.Value)
	assert.Equal(t, 86400, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.True(t, resp.Success)
}

func TestAuthHandler_Login_FormRedirectsToLocalTarget(t *testing.T) {
	uc := &mockLoginUC{result: newLoginResult(t)}
	h := NewAuthHandler(uc, false, testutil.NewMockLogger())

	c, w := testutil.NewFormContext("/auth/login", url.Values{
		"login":    {"jdoe"},
		"password": {"secret-pass"},
		"redirect": {"/members/welcome?x=1"},
	})
	h.Login(c)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/members/welcome?x=1", w.Header().Get("Location"))
	assert.NotNil(t, sessionCookie(t, w.Header()))
}

func TestAuthHandler_Login_OffsiteRedirectFallsBack(t *testing.T) {
	uc := &mockLoginUC{result: newLoginResult(t)}
	h := NewAuthHandler(uc, false, testutil.NewMockLogger())

	c, w := testutil.NewFormContext("/auth/login", url.Values{
		"login":    {"jdoe"},
		"password": {"secret-pass"},
		"redirect": {"https://evil.example.net/phish"},
	})
	h.Login(c)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	uc := &mockLoginUC{}
	h := NewAuthHandler(uc, false, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/auth/login", LoginRequest{Login: "jdoe"})
	h.Login(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, uc.got.Identifier)
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	uc := &mockLoginUC{err: errors.NewUnauthorizedError("invalid login or password")}
	h := NewAuthHandler(uc, false, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/auth/login", LoginRequest{Login: "jdoe", Password: "wrong"})
	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, sessionCookie(t, w.Header()))
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	h := NewAuthHandler(&mockLoginUC{}, false, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/auth/logout", nil)
	h.Logout(c)

	assert.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w.Header())
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
}

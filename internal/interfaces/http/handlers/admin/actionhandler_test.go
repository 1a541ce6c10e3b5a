package admin

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adminApp "github.com/membergate/membergate/internal/application/admin"
	"github.com/membergate/membergate/internal/interfaces/http/handlers/testutil"
	"github.com/membergate/membergate/internal/shared/errors"
)

type recordingDispatcher struct {
	got    adminApp.Request
	result *adminApp.Result
	err    error
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, req adminApp.Request) (*adminApp.Result, error) {
	d.got = req
	return d.result, d.err
}

func TestActionHandler_Submit_RedirectsWithMessage(t *testing.T) {
	d := &recordingDispatcher{result: &adminApp.Result{
		Page:   "rcp-member-levels",
		Params: map[string]string{adminApp.MessageParam: "level_added"},
	}}
	h := NewActionHandler(d, testutil.NewMockLogger())

	c, w := testutil.NewFormContext("/admin/actions", url.Values{
		adminApp.ActionParam: {adminApp.ActionAddLevel},
		"name":               {"Gold"},
	})
	testutil.SetAuthContext(c, 1)
	h.Submit(c)

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, adminApp.ActionAddLevel, d.got.Action)
	assert.Equal(t, uint(1), d.got.ActorID)
	assert.Equal(t, "Gold", d.got.Input.Get("name"))

	loc := testutil.RedirectLocation(w)
	assert.Equal(t, PagePath, loc.Path)
	assert.Equal(t, "rcp-member-levels", loc.Query().Get("page"))
	assert.Equal(t, "level_added", loc.Query().Get(adminApp.MessageParam))
}

func TestActionHandler_Submit_BulkActionWins(t *testing.T) {
	d := &recordingDispatcher{result: &adminApp.Result{Page: "rcp-members"}}
	h := NewActionHandler(d, testutil.NewMockLogger())

	c, _ := testutil.NewFormContext("/admin/actions", url.Values{
		adminApp.ActionParam:     {adminApp.ActionEditMember},
		adminApp.BulkActionParam: {"mark-active"},
	})
	testutil.SetAuthContext(c, 1)
	h.Submit(c)

	assert.Equal(t, adminApp.ActionBulkEdit, d.got.Action)
}

func TestActionHandler_Submit_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"forbidden", errors.NewForbiddenError("You do not have permission to perform this action."), http.StatusForbidden},
		{"unknown action", errors.NewBadRequestError("unknown admin action"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewActionHandler(&recordingDispatcher{err: tt.err}, testutil.NewMockLogger())

			c, w := testutil.NewFormContext("/admin/actions", url.Values{adminApp.ActionParam: {"whatever"}})
			testutil.SetAuthContext(c, 1)
			h.Submit(c)

			assert.Equal(t, tt.code, w.Code)
			assert.Empty(t, w.Header().Get("Location"))
		})
	}
}

func TestActionHandler_Link(t *testing.T) {
	d := &recordingDispatcher{result: &adminApp.Result{
		Page:   "rcp-members",
		Params: map[string]string{adminApp.MessageParam: "member_activated"},
	}}
	h := NewActionHandler(d, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/admin/actions?activate_member=7&_nonce=tok", nil)
	testutil.SetAuthContext(c, 1)
	h.Link(c)

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, adminApp.ActionActivateMember, d.got.Action)
	assert.Equal(t, "7", d.got.Input.Get("id"))
	assert.Equal(t, "tok", d.got.Input.Get(adminApp.NonceField))
	assert.Equal(t, "member_activated", testutil.RedirectLocation(w).Query().Get(adminApp.MessageParam))
}

func TestActionHandler_Link_NoAction(t *testing.T) {
	d := &recordingDispatcher{}
	h := NewActionHandler(d, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/admin/actions?foo=bar", nil)
	h.Link(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, d.got.Action)
}

func TestRedirectURL_PageOverridesParams(t *testing.T) {
	got := RedirectURL(&adminApp.Result{
		Page:   "rcp-discounts",
		Params: map[string]string{"page": "ignored", "discount_id": "4"},
	})

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, PagePath, u.Path)
	assert.Equal(t, "rcp-discounts", u.Query().Get("page"))
	assert.Equal(t, "4", u.Query().Get("discount_id"))
}

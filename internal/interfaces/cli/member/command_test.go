package member

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/membergate/membergate/internal/domain/member"
)

type fakeFinder struct {
	byID    map[uint]*member.Member
	byLogin map[string]*member.Member
}

func (f *fakeFinder) GetByID(ctx context.Context, id uint) (*member.Member, error) {
	if m, ok := f.byID[id]; ok {
		return m, nil
	}
	return nil, member.ErrMemberNotFound
}

func (f *fakeFinder) GetByLoginOrEmail(ctx context.Context, identifier string) (*member.Member, error) {
	if m, ok := f.byLogin[identifier]; ok {
		return m, nil
	}
	return nil, member.ErrMemberNotFound
}

func newFinder(t *testing.T) (*fakeFinder, *member.Member, *member.Member) {
	t.Helper()
	admin, err := member.NewMember("admin", "admin@example.com", "Admin", "hash")
	require.NoError(t, err)
	require.NoError(t, admin.SetID(1))

	numeric, err := member.NewMember("2024", "year@example.com", "Year", "hash")
	require.NoError(t, err)
	require.NoError(t, numeric.SetID(9))

	return &fakeFinder{
		byID:    map[uint]*member.Member{1: admin, 9: numeric},
		byLogin: map[string]*member.Member{"admin": admin, "admin@example.com": admin, "2024": numeric},
	}, admin, numeric
}

func TestFindMember(t *testing.T) {
	finder, admin, numeric := newFinder(t)
	ctx := context.Background()

	got, err := findMember(ctx, finder, "1")
	require.NoError(t, err)
	assert.Same(t, admin, got)

	got, err = findMember(ctx, finder, " admin@example.com ")
	require.NoError(t, err)
	assert.Same(t, admin, got)

	got, err = findMember(ctx, finder, "2024")
	require.NoError(t, err)
	assert.Same(t, numeric, got, "numeric logins fall back to a login lookup")

	_, err = findMember(ctx, finder, "ghost")
	assert.ErrorContains(t, err, `no member matches "ghost"`)
}

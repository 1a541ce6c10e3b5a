package permission

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/membergate/membergate/internal/domain/permission"
	"github.com/membergate/membergate/internal/shared/logger"
)

func newSeededEnforcer(t *testing.T) *Enforcer {
	t.Helper()
	e, err := NewInMemoryEnforcer(logger.NewNop())
	require.NoError(t, err)

	caps, err := LoadCapabilityMap("")
	require.NoError(t, err)
	require.NoError(t, SeedRoleCapabilities(e, caps, logger.NewNop()))
	return e
}

func TestEnforcer_RoleCapabilities(t *testing.T) {
	e := newSeededEnforcer(t)
	editor := permission.UserSubject(10)
	require.NoError(t, e.AddRoleForUser(editor, permission.RoleEditor))

	tests := []struct {
		capability permission.Capability
		want       bool
	}{
		{permission.CapModerateComments, true},
		{permission.CapRead, true},
		{permission.CapSwitchThemes, false},
		{permission.CapManageMembers, false},
	}
	for _, tt := range tests {
		ok, err := e.Enforce(editor, tt.capability)
		require.NoError(t, err)
		assert.Equal(t, tt.want, ok, tt.capability)
	}
}

func TestEnforcer_AdministratorWildcard(t *testing.T) {
	e := newSeededEnforcer(t)
	admin := permission.UserSubject(1)
	require.NoError(t, e.AddRoleForUser(admin, permission.RoleAdministrator))

	for _, c := range []permission.Capability{permission.CapManageOptions, permission.CapManageLevels, "anything_else"} {
		ok, err := e.Enforce(admin, c)
		require.NoError(t, err)
		assert.True(t, ok, c)
	}
}

func TestEnforcer_LevelGrantsAndRemoval(t *testing.T) {
	e := newSeededEnforcer(t)
	user := permission.UserSubject(5)
	gold := permission.LevelSubject(3)

	require.NoError(t, e.AddPolicy(gold, "read_gold_content"))
	require.NoError(t, e.AddRoleForUser(user, gold))

	ok, err := e.Enforce(user, "read_gold_content")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, e.RemoveSubjectPolicies(gold))
	ok, err = e.Enforce(user, "read_gold_content")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEnforcer_RoleSwap(t *testing.T) {
	e := newSeededEnforcer(t)
	user := permission.UserSubject(8)
	require.NoError(t, e.AddRoleForUser(user, permission.RoleContributor))

	require.NoError(t, e.DeleteRoleForUser(user, permission.RoleContributor))
	require.NoError(t, e.AddRoleForUser(user, permission.RoleEditor))

	roles, err := e.GetRolesForUser(user)
	require.NoError(t, err)
	assert.Equal(t, []string{permission.RoleEditor}, roles)
}

func TestEnforcer_PersistsThroughGormAdapter(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	e, err := NewEnforcer(db, logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, e.AddPolicy(permission.RoleSubscriber, permission.CapRead))
	require.NoError(t, e.AddRoleForUser(permission.UserSubject(2), permission.RoleSubscriber))

	reloaded, err := NewEnforcer(db, logger.NewNop())
	require.NoError(t, err)
	ok, err := reloaded.Enforce(permission.UserSubject(2), permission.CapRead)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoadCapabilityMap_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caps.yaml")
	require.NoError(t, os.WriteFile(path, []byte("roles:\n  auditor:\n    - rcp_view_payments\n"), 0o600))

	m, err := LoadCapabilityMap(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"rcp_view_payments"}, m.Roles["auditor"])

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("roles: {}\n"), 0o600))
	_, err = LoadCapabilityMap(empty)
	assert.Error(t, err)
}

package permission

import (
	"fmt"
	"strconv"
	"strings"
)

// Capability is a named ability checked before an action is allowed.
type Capability string

const (
	CapManageOptions    Capability = "manage_options"
	CapSwitchThemes     Capability = "switch_themes"
	CapModerateComments Capability = "moderate_comments"
	CapUploadFiles      Capability = "upload_files"
	CapEditPosts        Capability = "edit_posts"
	CapRead             Capability = "read"

	CapManageLevels    Capability = "rcp_manage_levels"
	CapManageMembers   Capability = "rcp_manage_members"
	CapManageDiscounts Capability = "rcp_manage_discounts"
	CapManagePayments  Capability = "rcp_manage_payments"
	CapViewPayments    Capability = "rcp_view_payments"

	// CapAll matches every capability.
	CapAll Capability = "*"
)

const (
	RoleAdministrator = "administrator"
	RoleEditor        = "editor"
	RoleAuthor        = "author"
	RoleContributor   = "contributor"
	RoleSubscriber    = "subscriber"
)

const (
	userSubjectPrefix  = "user:"
	levelSubjectPrefix = "level:"
)

// UserSubject is the enforcer subject for a member.
func UserSubject(userID uint) string {
	return userSubjectPrefix + strconv.FormatUint(uint64(userID), 10)
}

// LevelSubject is the enforcer subject holding a level's extra grants.
func LevelSubject(levelID uint) string {
	return levelSubjectPrefix + strconv.FormatUint(uint64(levelID), 10)
}

func IsLevelSubject(subject string) bool {
	return strings.HasPrefix(subject, levelSubjectPrefix)
}

func ParseUserSubject(subject string) (uint, error) {
	raw, ok := strings.CutPrefix(subject, userSubjectPrefix)
	if !ok {
		return 0, fmt.Errorf("not a user subject: %s", subject)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user subject %q: %w", subject, err)
	}
	return uint(id), nil
}

package admin

import "net/url"

// ActionParam names the action of a submitted admin form.
const (
	ActionParam     = "rcp-action"
	BulkActionParam = "rcp-bulk-action"
)

// singleItemActions are the link actions whose parameter carries the item id.
// Each one requires an anti-forgery token in NonceField.
var singleItemActions = []string{
	ActionRevokeAccess,
	ActionActivateMember,
	ActionCancelMember,
	ActionDeleteLevel,
	ActionActivateLevel,
	ActionDeactivateLevel,
	ActionDeleteDiscount,
	ActionActivateDiscount,
	ActionDeactivateDiscount,
}

// ResolvePostAction picks the action of a submitted form. A non-empty bulk
// action selects the bulk edit.
func ResolvePostAction(form url.Values) string {
	if form.Get(BulkActionParam) != "" {
		return ActionBulkEdit
	}
	return form.Get(ActionParam)
}

// ResolveGetAction picks the action of an admin link and rewrites its
// query into the command input, keeping the token. It returns "" when the
// link names no action.
func ResolveGetAction(query url.Values) (string, url.Values) {
	if query.Get(ActionParam) == ActionDeletePayment {
		return ActionDeletePayment, query
	}
	for _, action := range singleItemActions {
		if id := query.Get(action); id != "" {
			return action, url.Values{"id": {id}, NonceField: {query.Get(NonceField)}}
		}
	}
	return "", nil
}

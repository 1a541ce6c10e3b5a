package permission

import (
	"github.com/casbin/casbin/v2/model"
)

// rbacModel grants a capability when the subject, or any role or level it
// belongs to, holds it directly or holds "*".
const rbacModel = `
[request_definition]
r = sub, cap

[policy_definition]
p = sub, cap

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.cap == "*" || r.cap == p.cap)
`

func newModel() (model.Model, error) {
	return model.NewModelFromString(rbacModel)
}

package rbac

import (
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// Static role policy. Roles are carried in the JWT, so unlike a per-company
// policy store this never reloads at request time.
var policies = [][]string{
	{"COMPANY", "company", "read"},
	{"COMPANY", "invitation", "create"},
	{"COMPANY", "invitation", "read"},
	{"COMPANY", "invitation", "delete"},
	{"COMPANY", "employee", "create"},
	{"COMPANY", "jobrole", "create"},
	{"COMPANY", "jobrole", "read"},
	{"COMPANY", "jobrole", "update"},
	{"COMPANY", "jobrole", "delete"},
	{"COMPANY", "content", "create"},
	{"COMPANY", "content", "read"},
	{"COMPANY", "content", "update"},
	{"COMPANY", "content", "delete"},
	{"COMPANY", "profile", "read"},
	{"COMPANY", "profile", "update"},
	{"COMPANY", "export", "read"},
	{"EMPLOYEE", "profile", "read"},
	{"EMPLOYEE", "profile", "update"},
	{"EMPLOYEE", "file", "create"},
	{"EMPLOYEE", "file", "read"},
	{"EMPLOYEE", "file", "delete"},
	{"COMPANY", "file", "create"},
	{"COMPANY", "file", "read"},
	{"COMPANY", "file", "delete"},
}

// ADMIN inherits everything COMPANY can do.
var groupings = [][]string{
	{"ADMIN", "COMPANY"},
}

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(role, resource, action string) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.Mutex
}

func NewService() (Service, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range policies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}
	for _, g := range groupings {
		if _, err := enforcer.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, err
		}
	}

	return &service{enforcer: enforcer}, nil
}

func (s *service) Enforce(role, resource, action string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.enforcer.Enforce(role, resource, action)
}

package rbac_test

import (
	"testing"

	"github.com/JerkingFan/Evalyze/internal/rbac"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Enforce(t *testing.T) {
	svc, err := rbac.NewService()
	require.NoError(t, err)

	cases := []struct {
		name     string
		role     string
		resource string
		action   string
		allowed  bool
	}{
		{"company creates invitations", "COMPANY", "invitation", "create", true},
		{"company reads exports", "COMPANY", "export", "read", true},
		{"company manages job roles", "COMPANY", "jobrole", "delete", true},
		{"employee updates own profile", "EMPLOYEE", "profile", "update", true},
		{"employee uploads files", "EMPLOYEE", "file", "create", true},
		{"employee cannot create invitations", "EMPLOYEE", "invitation", "create", false},
		{"employee cannot read exports", "EMPLOYEE", "export", "read", false},
		{"employee cannot create employees", "EMPLOYEE", "employee", "create", false},
		{"admin inherits company permissions", "ADMIN", "invitation", "create", true},
		{"admin inherits export access", "ADMIN", "export", "read", true},
		{"unknown role denied", "GUEST", "profile", "read", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allowed, err := svc.Enforce(tc.role, tc.resource, tc.action)
			assert.NoError(t, err)
			assert.Equal(t, tc.allowed, allowed)
		})
	}
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleOneOf(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		required []Role
		want     bool
	}{
		{"empty required allows any", RoleUser, nil, true},
		{"member", RoleAdmin, []Role{RoleAdmin, RoleEditor}, true},
		{"not a member", RoleUser, []Role{RoleAdmin, RoleEditor}, false},
		{"no hierarchy: admin does not satisfy editor-only", RoleAdmin, []Role{RoleEditor}, false},
		{"exact match", RoleEditor, []Role{RoleEditor}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.OneOf(tt.required...))
		})
	}
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleEditor, ParseRole("editor"))
	assert.Equal(t, RoleUser, ParseRole("user"))
	assert.Equal(t, RoleUser, ParseRole("garbage"))
	assert.Equal(t, RoleUser, ParseRole(""))
}

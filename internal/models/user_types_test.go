package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordSetAndMatches(t *testing.T) {
	var p Password
	require.NoError(t, p.Set("password1"))
	require.NotEmpty(t, p.Hash)
	assert.NotEqual(t, "password1", p.Hash)

	match, err := p.Matches("password1")
	require.NoError(t, err)
	assert.True(t, match)

	match, err = p.Matches("wrong-password")
	require.NoError(t, err)
	assert.False(t, match)
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleMainAdmin.Valid())
	assert.True(t, RoleSubAdmin.Valid())
	assert.True(t, RoleStore.Valid())

	assert.False(t, Role("admin").Valid())
	assert.False(t, Role("").Valid())
	assert.False(t, Role("superuser").Valid())
}

func TestRoleIsAdmin(t *testing.T) {
	// Both admin tiers pass every admin gate; store owners never do.
	assert.True(t, RoleMainAdmin.IsAdmin())
	assert.True(t, RoleSubAdmin.IsAdmin())
	assert.False(t, RoleStore.IsAdmin())
	assert.False(t, Role("admin").IsAdmin())
}

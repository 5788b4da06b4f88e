package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPasswordHashing(t *testing.T) {
	user := User{Password: "secret-password"}

	require.NoError(t, user.HashPassword())
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "secret-password", user.PasswordHash)

	assert.NoError(t, user.CheckPassword("secret-password"))
	assert.Error(t, user.CheckPassword("wrong-password"))
}

func TestHashPasswordEmptyIsNoop(t *testing.T) {
	user := User{}
	require.NoError(t, user.HashPassword())
	assert.Empty(t, user.PasswordHash)
}

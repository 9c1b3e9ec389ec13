package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndComparePass(t *testing.T) {
	hash, err := HashPass("hunter2")
	require.NoError(t, err)

	ok, err := ComparePass("hunter2", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ComparePass("hunter3", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestComparePassInvalidFormat(t *testing.T) {
	for _, h := range []string{"", "nodot", "a.b.c", "!!!.abc", "YWJj.!!!"} {
		_, err := ComparePass("x", h)
		assert.ErrorIs(t, err, ErrInvalidHash, h)
	}
}

func TestCredentialsMatch(t *testing.T) {
	plain := Credentials{Username: "admin", Password: "secret"}
	assert.True(t, plain.Match("admin", "secret"))
	assert.False(t, plain.Match("admin", "wrong"))
	assert.False(t, plain.Match("root", "secret"))
	assert.False(t, plain.Match("", ""))

	hash, err := HashPass("secret")
	require.NoError(t, err)
	hashed := Credentials{Username: "admin", Password: "ignored", PasswordHash: hash}
	assert.True(t, hashed.Match("admin", "secret"))
	assert.False(t, hashed.Match("admin", "ignored"))

	assert.False(t, Credentials{}.Match("", ""))
}

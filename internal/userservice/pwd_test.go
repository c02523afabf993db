package userservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordMatches(t *testing.T) {
	bcryptCost = bcrypt.MinCost
	t.Cleanup(func() { bcryptCost = 12 })

	var p Password
	require.NoError(t, p.set("secret1"))

	assert.NotEqual(t, []byte("secret1"), p.hash)

	ok, err := p.matches("secret1")
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.matches("secret2")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordMatchesCorruptHash(t *testing.T) {
	p := Password{hash: []byte("not-a-bcrypt-hash")}

	ok, err := p.matches("secret1")
	assert.Error(t, err)
	assert.False(t, ok)
}

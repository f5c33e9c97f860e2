package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcrypt_HashAndCompare(t *testing.T) {
	t.Parallel()

	h := NewBcrypt(bcrypt.MinCost)

	hash, err := h.Hash("pw123456")
	require.NoError(t, err)
	assert.NotEqual(t, "pw123456", string(hash))

	assert.NoError(t, h.Compare(hash, "pw123456"))
	assert.ErrorIs(t, h.Compare(hash, "wrong"), ErrMismatch)
}

func TestBcrypt_CompareMalformedHash(t *testing.T) {
	t.Parallel()

	err := NewBcrypt(bcrypt.MinCost).Compare([]byte("garbage"), "pw")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMismatch)
}

func TestNewBcrypt_InvalidCost(t *testing.T) {
	t.Parallel()

	assert.Equal(t, bcrypt.DefaultCost, NewBcrypt(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcrypt(99).cost)
	assert.Equal(t, 12, NewBcrypt(12).cost)
}

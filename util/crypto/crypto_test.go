package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPasswordAsBcrypt(t *testing.T) {
	hash, err := HashPasswordAsBcrypt("pw123")
	assert.NoError(t, err)
	assert.NotEqual(t, "pw123", hash)

	assert.True(t, CheckPasswordHash(hash, "pw123"))
	assert.False(t, CheckPasswordHash(hash, "wrong"))
	assert.False(t, CheckPasswordHash("not-a-hash", "pw123"))
}

func TestHashesAreSalted(t *testing.T) {
	first, err := HashPasswordAsBcrypt("same password")
	assert.NoError(t, err)
	second, err := HashPasswordAsBcrypt("same password")
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cryptoKey = []byte("0123456789abcdef0123456789abcdef")

func TestEncryptDecrypt(t *testing.T) {
	sealed, err := Encrypt([]byte("backend-id-42"), cryptoKey)
	require.NoError(t, err)
	assert.NotEqual(t, "backend-id-42", sealed)

	plain, err := Decrypt(sealed, cryptoKey)
	require.NoError(t, err)
	assert.Equal(t, "backend-id-42", plain)
}

func TestDecrypt_WrongKey(t *testing.T) {
	sealed, err := Encrypt([]byte("backend-id-42"), cryptoKey)
	require.NoError(t, err)

	_, err = Decrypt(sealed, []byte("ffffffffffffffffffffffffffffffff"))
	assert.Error(t, err)
}

func TestDecrypt_Malformed(t *testing.T) {
	_, err := Decrypt("%%%not-base64%%%", cryptoKey)
	assert.Error(t, err)

	_, err = Decrypt("c2hvcnQ=", cryptoKey)
	assert.Error(t, err)
}

func TestEncrypt_BadKeyLength(t *testing.T) {
	_, err := Encrypt([]byte("x"), []byte("short"))
	assert.Error(t, err)
}

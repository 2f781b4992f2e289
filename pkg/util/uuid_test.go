package util

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashUUID(t *testing.T) {
	a := HashUUID([]byte("GIF89a"))
	b := HashUUID([]byte("GIF89a"))
	c := HashUUID([]byte("GIF87a"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	_, err := uuid.Parse(a)
	require.NoError(t, err)

	assert.Empty(t, HashUUID(func() {}), "unmarshalable values have no fingerprint")
}

func TestMd5ThenHex(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", Md5ThenHex(nil))
	assert.Len(t, Md5ThenHex([]byte("frame")), 32)
}

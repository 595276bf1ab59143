package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	createdAt := time.Date(2025, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(createdAt, "stmt-1")
	assert.NotEmpty(t, token)

	gotTime, gotID, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, createdAt.Equal(gotTime))
	assert.Equal(t, "stmt-1", gotID)

	// Non-UTC input round-trips to the same instant.
	local := createdAt.In(time.FixedZone("MYT", 8*3600))
	gotTime, _, err = DecodeToken(EncodeToken(local, "stmt-1"))
	require.NoError(t, err)
	assert.True(t, createdAt.Equal(gotTime))
}

func TestDecodeTokenError(t *testing.T) {
	_, _, err := DecodeToken("this is not base64!")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	_, _, err = DecodeToken(base64.URLEncoding.EncodeToString([]byte("no-separator")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	_, _, err = DecodeToken(base64.URLEncoding.EncodeToString([]byte("yesterday|stmt-1")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "created_at parse")
}

package gcs

import (
	"testing"

	"github.com/SscSPs/mma_statements/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURI(t *testing.T) {
	bucket, object, err := ParseURI("gs://statements/user-1/stmt-1.pdf")
	require.NoError(t, err)
	assert.Equal(t, "statements", bucket)
	assert.Equal(t, "user-1/stmt-1.pdf", object)
	assert.Equal(t, "gs://statements/user-1/stmt-1.pdf", FormatURI(bucket, object))

	for _, bad := range []string{"file:///tmp/x", "gs://bucket", "gs:///object", "gs://bucket/"} {
		_, _, err := ParseURI(bad)
		assert.ErrorIs(t, err, apperrors.ErrValidation, bad)
	}
}

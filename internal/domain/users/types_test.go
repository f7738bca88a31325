package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordSetAndCompare(t *testing.T) {
	var u User
	require.NoError(t, u.Password.Set("s3cret-pass"))

	assert.NoError(t, u.Password.Compare("s3cret-pass"))
	assert.Error(t, u.Password.Compare("other"))
	assert.NotEqual(t, "s3cret-pass", string(u.Password.hash))
}

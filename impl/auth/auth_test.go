package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperatorByToken(t *testing.T) {
	a := New("s3cret")

	op, err := a.OperatorByToken("s3cret")
	require.NoError(t, err)
	assert.Equal(t, "admin", op.Name)

	_, err = a.OperatorByToken("guess")
	assert.Error(t, err)
}

func TestOperatorByTokenNotConfigured(t *testing.T) {
	_, err := New("").OperatorByToken("")

	assert.EqualError(t, err, "admin token not configured")
}

package sl

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSecret(t *testing.T) {
	assert.Equal(t, "?", Secret("token", "").Value.String())
	assert.Equal(t, "***", Secret("token", "abc").Value.String())
	assert.Equal(t, "A1B2C***", Secret("key", "A1B2C3D4-0000").Value.String())
}

func TestErr(t *testing.T) {
	a := Err(errors.New("boom"))
	assert.Equal(t, "error", a.Key)
	assert.Equal(t, "boom", a.Value.String())
}

func TestElapsed(t *testing.T) {
	a := Elapsed(time.Now())
	assert.Equal(t, "duration", a.Key)
	assert.Contains(t, a.Value.String(), "ms")
}

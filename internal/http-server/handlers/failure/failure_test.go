package failure

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"licensedesk/impl/core"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("quantity: %w", core.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("user u1: %w", core.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("closed: %w", core.ErrConflict), http.StatusConflict},
		{fmt.Errorf("bot: %w", core.ErrUnavailable), http.StatusServiceUnavailable},
		{errors.New("mongodb connect: refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Status(tt.err), tt.err.Error())
	}
}

package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("bad"), http.StatusBadRequest},
		{"conflict", Conflict("Email in use"), http.StatusConflict},
		{"auth", Auth("Not authorized"), http.StatusUnauthorized},
		{"not found", NotFound("Not found"), http.StatusNotFound},
		{"io", IO("upload failed", errors.New("disk full")), http.StatusInternalServerError},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("ctx: %w", NotFound("gone")), http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.err))
		})
	}
}

func TestPublicMessageHidesCause(t *testing.T) {
	err := Internal(errors.New("pq: connection refused"))
	assert.Equal(t, "Internal server error", PublicMessage(err))
	assert.Equal(t, "Internal server error", PublicMessage(errors.New("raw")))
	assert.Equal(t, "Email in use", PublicMessage(Conflict("Email in use")))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root")
	err := IO("upload failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.True(t, Is(err, KindIO))
	assert.False(t, Is(nil, KindIO))
}

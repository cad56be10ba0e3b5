package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/contactbook/internal/apperr"
)

type sample struct {
	Name     string `json:"name" validate:"required,personname"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,alphanum"`
}

func TestMessages(t *testing.T) {
	v := New()

	cases := []struct {
		in   sample
		want string
	}{
		{sample{Email: "a@b.com", Password: "abc123"}, "missing required name field"},
		{sample{Name: "Ann 2", Email: "a@b.com", Password: "abc123"}, `"name" must contain only letters and spaces`},
		{sample{Name: "Ann", Email: "nope", Password: "abc123"}, `"email" must be a valid email`},
		{sample{Name: "Ann", Email: "a@b.com", Password: "abc"}, `"password" length must be at least 6 characters long`},
		{sample{Name: "Ann", Email: "a@b.com", Password: "abc-123"}, `"password" must only contain alpha-numeric characters`},
	}
	for _, tc := range cases {
		err := Struct(v, tc.in)
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindValidation))
		assert.Equal(t, tc.want, apperr.PublicMessage(err))
	}

	assert.NoError(t, Struct(v, sample{Name: "Ann Lee", Email: "a@b.com", Password: "abc123"}))
}

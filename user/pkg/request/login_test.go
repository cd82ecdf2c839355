package request

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal/validate"
)

func TestLoginLogMasksPassword(t *testing.T) {
	var buffer bytes.Buffer
	logger := zerolog.New(&buffer)
	loginReq := Login{Email: "email@mail.com", Password: "password"}

	logger.Info().Object("request", loginReq).Msg("login")

	line := map[string]json.RawMessage{}
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &line))
	actual := map[string]string{}
	require.NoError(t, json.Unmarshal(line["request"], &actual))
	assert.Equal(t, map[string]string{"email": "email@mail.com", "password": "***"}, actual)
	assert.EqualValues(t, "password", loginReq.Password)
}

func TestLoginBodyKeepsPassword(t *testing.T) {
	expected, _ := json.Marshal(map[string]string{"email": "email", "password": "password"})
	loginReq := Login{Email: "email", Password: "password"}

	actual, err := json.Marshal(loginReq)

	require.NoError(t, err)
	assert.JSONEq(t, string(expected), string(actual))
}

func TestSignupValidation(t *testing.T) {
	valid := Signup{Username: "ama", Email: "ama@mail.com", Password: "secret123", ConfirmPassword: "secret123"}

	tests := []struct {
		name        string
		mutate      func(s *Signup)
		expectedErr bool
	}{
		{name: "given complete signup should pass", mutate: func(s *Signup) {}},
		{name: "given blank username should fail", mutate: func(s *Signup) { s.Username = " " }, expectedErr: true},
		{name: "given invalid email should fail", mutate: func(s *Signup) { s.Email = "ama" }, expectedErr: true},
		{name: "given weak password should fail", mutate: func(s *Signup) { s.Password, s.ConfirmPassword = "password", "password" }, expectedErr: true},
		{name: "given mismatched confirmation should fail", mutate: func(s *Signup) { s.ConfirmPassword = "secret124" }, expectedErr: true},
		{name: "given international phone should pass", mutate: func(s *Signup) { s.PhoneNumber = "+233241234567" }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			signup := valid
			test.mutate(&signup)
			err := validate.Struct(signup)
			if test.expectedErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSignupBodyOmitsConfirmation(t *testing.T) {
	body, err := json.Marshal(Signup{Username: "ama", Email: "ama@mail.com", Password: "secret123", ConfirmPassword: "secret123"})

	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"ama","email":"ama@mail.com","password":"secret123"}`, string(body))
}

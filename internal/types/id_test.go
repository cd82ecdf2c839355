package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    ID
		expectedErr bool
	}{
		{name: "given number should keep digits", input: `42`, expected: "42"},
		{name: "given string should keep text", input: `"a1b2"`, expected: "a1b2"},
		{name: "given null should be zero", input: `null`, expected: ""},
		{name: "given object should fail", input: `{"id":1}`, expectedErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var id ID
			err := json.Unmarshal([]byte(test.input), &id)
			if test.expectedErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, id)
		})
	}
}

func TestIDMarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		id       ID
		expected string
	}{
		{name: "given numeric id should emit number", id: "42", expected: `42`},
		{name: "given uuid id should emit string", id: "7b1c-9", expected: `"7b1c-9"`},
		{name: "given empty id should emit empty string", id: "", expected: `""`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			actual, err := json.Marshal(test.id)
			require.NoError(t, err)
			assert.Equal(t, test.expected, string(actual))
		})
	}
}

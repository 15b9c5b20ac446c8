package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAmount(t *testing.T) {
	type testCase struct {
		name    string
		input   string
		wantErr bool
	}

	tests := []testCase{
		{name: "plain", input: "10000.00"},
		{name: "zero", input: "0"},
		{name: "negative", input: "-5.00", wantErr: true},
		{name: "text", input: "lots", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validateAmount(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
		})
	}
}

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Flag
	}{
		{"bool true", `true`, true},
		{"bool false", `false`, false},
		{"error message", `"no overview"`, true},
		{"string false", `"false"`, false},
		{"string zero", `"0"`, false},
		{"empty string", `""`, false},
		{"null", `null`, false},
		{"number one", `1`, true},
		{"number zero", `0`, false},
		{"object", `{}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r struct {
				Error Flag `json:"error"`
			}
			require.NoError(t, json.Unmarshal([]byte(`{"error":`+tt.raw+`}`), &r))
			assert.Equal(t, tt.want, r.Error)
		})
	}
}

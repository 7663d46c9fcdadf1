package httputil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalStringTriState(t *testing.T) {
	type payload struct {
		ParentID OptionalString `json:"parent_id"`
	}

	tests := []struct {
		name        string
		json        string
		wantPresent bool
		wantValue   *string
	}{
		{"absent", `{}`, false, nil},
		{"null", `{"parent_id": null}`, true, nil},
		{"value", `{"parent_id": "abc"}`, true, ptr("abc")},
		{"empty string", `{"parent_id": ""}`, true, ptr("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			require.NoError(t, json.Unmarshal([]byte(tt.json), &p))

			assert.Equal(t, tt.wantPresent, p.ParentID.Present)
			if tt.wantValue == nil {
				assert.Nil(t, p.ParentID.Value)
			} else {
				require.NotNil(t, p.ParentID.Value)
				assert.Equal(t, *tt.wantValue, *p.ParentID.Value)
			}
		})
	}

	t.Run("non-string value errors", func(t *testing.T) {
		var p payload
		assert.Error(t, json.Unmarshal([]byte(`{"parent_id": 42}`), &p))
	})
}

func ptr(s string) *string { return &s }

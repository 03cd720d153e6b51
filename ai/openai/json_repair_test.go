package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stripCodeFences(tc.in))
		})
	}
}

func TestRepairJSON(t *testing.T) {
	t.Run("trailing comma in object", func(t *testing.T) {
		fixed := repairJSON(`{"is_greeting": true, "language": "english",}`)
		var out map[string]any
		require.NoError(t, json.Unmarshal([]byte(fixed), &out))
		assert.Equal(t, "english", out["language"])
	})

	t.Run("trailing comma in array", func(t *testing.T) {
		fixed := repairJSON(`{"items": [1, 2, 3,]}`)
		var out map[string]any
		require.NoError(t, json.Unmarshal([]byte(fixed), &out))
	})

	t.Run("bare keys", func(t *testing.T) {
		fixed := repairJSON(`{is_greeting: false, language: "telugu"}`)
		var out map[string]any
		require.NoError(t, json.Unmarshal([]byte(fixed), &out))
		assert.Equal(t, "telugu", out["language"])
	})

	t.Run("valid json untouched", func(t *testing.T) {
		in := `{"is_greeting": false, "language": "hindi"}`
		assert.Equal(t, in, repairJSON(in))
	})

	t.Run("comma inside string preserved", func(t *testing.T) {
		in := `{"language": "english, mostly"}`
		fixed := repairJSON(in)
		var out map[string]any
		require.NoError(t, json.Unmarshal([]byte(fixed), &out))
		assert.Equal(t, "english, mostly", out["language"])
	})
}

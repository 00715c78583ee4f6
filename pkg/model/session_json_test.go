package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionKeepsUnknownFields(t *testing.T) {
	in := []byte(`{"id":"s1","problem":"Team misses deadlines","currentStep":2,"currentWhyStep":5,"mood":"tired","tags":["a","b"]}`)

	var s Session
	require.NoError(t, json.Unmarshal(in, &s))
	assert.Equal(t, "s1", s.ID)
	assert.Equal(t, 2, s.CurrentStep)
	require.Len(t, s.Extra, 2)
	assert.JSONEq(t, `"tired"`, string(s.Extra["mood"]))

	out, err := json.Marshal(s)
	require.NoError(t, err)

	var back map[string]any
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, "tired", back["mood"])
	assert.Equal(t, []any{"a", "b"}, back["tags"])
	assert.Equal(t, "Team misses deadlines", back["problem"])
}

func TestSessionKnownFieldsWinOverExtra(t *testing.T) {
	s := Session{
		ID:      "s2",
		Problem: "real",
		Extra:   map[string]json.RawMessage{"problem": json.RawMessage(`"shadow"`)},
	}
	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"problem":"real"`)
	assert.NotContains(t, string(out), "shadow")
}

func TestSessionWithoutExtra(t *testing.T) {
	var s Session
	require.NoError(t, json.Unmarshal([]byte(`{"problem":"x"}`), &s))
	assert.Nil(t, s.Extra)
}

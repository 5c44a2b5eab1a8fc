package formatter

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/direktor/internal/state"
)

func sample() []state.Domain {
	return []state.Domain{
		{Name: "corp.example.com", Extra: map[string]json.RawMessage{"port": json.RawMessage(`636`)}},
		{Name: "lab.example.com"},
	}
}

func TestJSON(t *testing.T) {
	out, err := Format("json", sample())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"corp.example.com","port":636},{"name":"lab.example.com"}]`, string(out))
	assert.NotContains(t, string(out), "\n")
}

func TestJSONPretty(t *testing.T) {
	out, err := Format("json-pretty", sample())
	require.NoError(t, err)
	assert.Contains(t, string(out), "\n  {")
}

func TestYAMLUsesJSONShape(t *testing.T) {
	out, err := Format("yaml", sample())
	require.NoError(t, err)

	want := "- name: corp.example.com\n  port: 636\n- name: lab.example.com\n"
	assert.Equal(t, want, string(out))
}

func TestTextIsDefault(t *testing.T) {
	out, err := Format("", sample())
	require.NoError(t, err)
	assert.Contains(t, string(out), "corp.example.com")
	assert.Contains(t, string(out), "lab.example.com")
}

func TestUnknownFormat(t *testing.T) {
	_, err := Format("ldif", sample())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "json-pretty"))
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"json", "json-pretty", "text", "yaml"}, Names())
}

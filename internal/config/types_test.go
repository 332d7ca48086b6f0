package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"2s", 2 * time.Second, false},
		{"500ms", 500 * time.Millisecond, false},
		{" 1m30s ", 90 * time.Second, false},
		{"0s", 0, false},
		{"-1s", 0, true},
		{"soon", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration())
		})
	}
}

func TestDuration_Marshal(t *testing.T) {
	d := Duration(1500 * time.Millisecond)

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1.5s", string(text))

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `"1.5s"`, string(data))
}

func TestSwitch_UnmarshalText(t *testing.T) {
	on := []string{"1", "true", "TRUE", "yes", "Yes", "on", " on "}
	off := []string{"", "0", "false", "False", "no", "off"}

	for _, v := range on {
		var s Switch
		require.NoError(t, s.UnmarshalText([]byte(v)), v)
		assert.True(t, s.Enabled(), v)
	}
	for _, v := range off {
		s := Switch(true)
		require.NoError(t, s.UnmarshalText([]byte(v)), v)
		assert.False(t, s.Enabled(), v)
	}

	var s Switch
	assert.Error(t, s.UnmarshalText([]byte("maybe")))
}

func TestSwitch_MarshalText(t *testing.T) {
	text, err := Switch(true).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "true", string(text))

	text, err = Switch(false).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "false", string(text))
}

func TestTOMLParser(t *testing.T) {
	p := TOMLParser()

	m, err := p.Unmarshal([]byte("debug = true\n\n[git]\nbackend = \"gogit\"\ntimeout = \"3s\"\n"))
	require.NoError(t, err)
	assert.Equal(t, true, m["debug"])

	gitSection, ok := m["git"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "gogit", gitSection["backend"])
	assert.Equal(t, "3s", gitSection["timeout"])

	out, err := p.Marshal(map[string]interface{}{"logging": map[string]interface{}{"level": "debug"}})
	require.NoError(t, err)
	assert.Contains(t, string(out), "[logging]")
	assert.Contains(t, string(out), `level = "debug"`)

	_, err = p.Unmarshal([]byte("git = [unterminated"))
	assert.Error(t, err)
}

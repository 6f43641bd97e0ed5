package room

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeConfig(t *testing.T) {
	cases := []struct {
		data   string
		fail   bool
		expect *Config
	}{
		{
			"",
			false,
			DefaultConfig(),
		},
		{
			"source: prog.ast\nlog_level: debug\nmax_call_depth: 64\nallow_unterminated_strings: true\ndump_vars: true\n",
			false,
			&Config{
				Source:                   "prog.ast",
				LogLevel:                 "debug",
				MaxCallDepth:             64,
				AllowUnterminatedStrings: true,
				DumpVars:                 true,
			},
		},
		{
			"dump_vars: true\n",
			false,
			&Config{Source: DefaultSource, LogLevel: "warn", MaxCallDepth: DefaultMaxCallDepth, DumpVars: true},
		},
		{
			"max_call_depth: 0\n",
			false,
			&Config{Source: DefaultSource, LogLevel: "warn"},
		},
		{"unknown_key: 1\n", true, nil},
		{"log_level: loud\n", true, nil},
		{"max_call_depth: -1\n", true, nil},
		{"source: \"  \"\n", true, nil},
		{"source: [1, 2]\n", true, nil},
	}

	for _, c := range cases {
		got, err := DecodeConfig(strings.NewReader(c.data))
		if c.fail {
			assert.Error(t, err, c.data)
			continue
		}

		require.NoError(t, err, c.data)
		assert.Equal(t, c.expect, got, c.data)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "room.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: error\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelError, lvl)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigOptions(t *testing.T) {
	cfg := &Config{Source: "x.ast", LogLevel: "info", MaxCallDepth: 5, AllowUnterminatedStrings: true}

	var out bytes.Buffer
	opt := cfg.Options(&out, nil)

	assert.Equal(t, 5, opt.MaxCallDepth)
	assert.True(t, opt.AllowUnterminatedStrings)
	assert.Same(t, &out, opt.Stdout)

	toks, err := Tokenize("\"tail", opt)
	require.NoError(t, err)
	assert.Equal(t, []Token{{TokenString, "\"tail", nil}}, stripLocs(toks))
}

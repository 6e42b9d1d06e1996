package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tempo.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func Test_Load(t *testing.T) {
	testCases := []struct {
		name      string
		content   string
		expect    Config
		expectErr bool
	}{
		{
			name:    "empty file defines nothing",
			content: "",
			expect:  Config{},
		},
		{
			name:    "verbosity only",
			content: "verbosity = 5\n",
			expect:  Config{Verbosity: 5, HasVerbosity: true},
		},
		{
			name:    "all keys",
			content: "verbosity = 0\nmaximum-depth = 64\nsat = false\ncolor = false\n",
			expect: Config{
				Verbosity: 0, HasVerbosity: true,
				MaximumDepth: 64, HasMaximumDepth: true,
				SAT: false, HasSAT: true,
				Color: false, HasColor: true,
			},
		},
		{
			name:      "unknown key is rejected",
			content:   "verbosity = 1\nshenanigans = true\n",
			expectErr: true,
		},
		{
			name:      "malformed file",
			content:   "verbosity = = 1",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			path := writeFile(t, tc.content)
			cfg, err := Load(path, true)

			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.expect, cfg)
		})
	}
}

func Test_Load_missingFile(t *testing.T) {
	assert := assert.New(t)

	missing := filepath.Join(t.TempDir(), "nope.toml")

	// optional: a missing file is fine and defines nothing.
	cfg, err := Load(missing, false)
	assert.NoError(err)
	assert.Equal(Config{}, cfg)

	// required: the same situation is an error.
	_, err = Load(missing, true)
	assert.Error(err)
}

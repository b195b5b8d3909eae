// SPDX-License-Identifier: MIT

package balance_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/zeroscale/balance"
)

const yamlConfig = `
tolerance: 1.0e-4
max_iterations: 500
max_attempts: 2
verbose: true
schedule:
  - {low_row_sum_excluded: 0, z_vals_ignored: 0}
  - {low_row_sum_excluded: 0.02, z_vals_ignored: 0.005}
`

const tomlConfig = `
tolerance = 1.0e-4
max_iterations = 500
max_attempts = 0

[[schedule]]
low_row_sum_excluded = 0.05
z_vals_ignored = 0.01
`

func TestDecodeConfig_YAML(t *testing.T) {
	t.Parallel()

	c, err := balance.DecodeConfig(strings.NewReader(yamlConfig), balance.FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, 1.0e-4, c.Tolerance)
	assert.Equal(t, 500, c.MaxIterations)
	require.NotNil(t, c.MaxAttempts)
	assert.Equal(t, 2, *c.MaxAttempts)
	assert.True(t, c.Verbose)
	assert.Equal(t, []balance.Params{{}, {LowRowSumExcluded: 0.02, ZValsIgnored: 0.005}}, c.Schedule)

	opts, err := c.Options()
	require.NoError(t, err)
	assert.NotEmpty(t, opts)
}

func TestDecodeConfig_TOML(t *testing.T) {
	t.Parallel()

	c, err := balance.DecodeConfig(strings.NewReader(tomlConfig), balance.FormatTOML)
	require.NoError(t, err)

	require.NotNil(t, c.MaxAttempts)
	assert.Equal(t, 0, *c.MaxAttempts)
	assert.Equal(t, []balance.Params{{LowRowSumExcluded: 0.05, ZValsIgnored: 0.01}}, c.Schedule)

	// Explicit zero attempts plus a one-entry schedule: exactly one solve.
	opts, err := c.Options()
	require.NoError(t, err)
	res, err := balance.Scale(tridiagonal(t), []float64{1, 1, 1}, "toml",
		append(opts, balance.WithMaxIterations(1))...)
	require.NoError(t, err)
	assert.Len(t, res.Attempts, 1)
}

func TestDecodeConfig_Rejects(t *testing.T) {
	t.Parallel()

	_, err := balance.DecodeConfig(strings.NewReader("tolerance: -1\n"), balance.FormatYAML)
	assert.ErrorIs(t, err, balance.ErrInvalidConfig)

	_, err = balance.DecodeConfig(strings.NewReader("stagnation_delta = 1.5\n"), balance.FormatTOML)
	assert.ErrorIs(t, err, balance.ErrInvalidConfig)

	_, err = balance.DecodeConfig(strings.NewReader("no_such_key: 1\n"), balance.FormatYAML)
	assert.Error(t, err)

	_, err = balance.DecodeConfig(strings.NewReader("schedule:\n  - {low_row_sum_excluded: 2}\n"), balance.FormatYAML)
	assert.ErrorIs(t, err, balance.ErrInvalidConfig)

	_, err = balance.DecodeConfig(strings.NewReader(""), "ini")
	assert.ErrorIs(t, err, balance.ErrUnknownConfigFormat)
}

func TestDecodeConfig_EmptyYAMLIsDefault(t *testing.T) {
	t.Parallel()

	c, err := balance.DecodeConfig(strings.NewReader(""), balance.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, balance.Config{}, c)

	opts, err := c.Options()
	require.NoError(t, err)
	assert.Len(t, opts, 1, "only the verbose flag is always set")
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	yml := filepath.Join(dir, "zeroscale.yml")
	tml := filepath.Join(dir, "zeroscale.toml")
	ini := filepath.Join(dir, "zeroscale.ini")
	require.NoError(t, os.WriteFile(yml, []byte(yamlConfig), 0o600))
	require.NoError(t, os.WriteFile(tml, []byte(tomlConfig), 0o600))
	require.NoError(t, os.WriteFile(ini, []byte("x=1"), 0o600))

	c, err := balance.LoadConfig(yml)
	require.NoError(t, err)
	assert.Equal(t, 500, c.MaxIterations)

	c, err = balance.LoadConfig(tml)
	require.NoError(t, err)
	assert.Equal(t, 1.0e-4, c.Tolerance)

	_, err = balance.LoadConfig(ini)
	assert.ErrorIs(t, err, balance.ErrUnknownConfigFormat)

	_, err = balance.LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultConfig_Valid(t *testing.T) {
	t.Parallel()

	c := balance.DefaultConfig()
	require.NoError(t, c.Validate())
	assert.Equal(t, balance.DefaultSchedule, c.Schedule)
	assert.Equal(t, balance.DefaultMaxAttempts, *c.MaxAttempts)
}

// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ReportsEveryContext(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{
		"--contexts", "2", "--bins", "30", "--density", "0.1", "--seed", "99", "--metrics",
	}, &stdout, &stderr)
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "CONTEXT")
	assert.Regexp(t, `ctx1@30bins\s+converged\s+\d+\s`, out)
	assert.Regexp(t, `ctx2@30bins\s+converged\s+\d+\s`, out)
	assert.Contains(t, out, `zeroscale_scaling_results_total{status="converged"} 2`)
	assert.Contains(t, stderr.String(), "balancing")
}

func TestRun_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_iterations: 1\nmax_attempts: 0\n"), 0o600))

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"--config", path, "--contexts", "1", "--bins", "20"}, &stdout, &stderr)
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "failed")
	// One solve per schedule entry, no escalations.
	assert.Regexp(t, `ctx1@20bins\s+failed\s+2\s`, out)
}

func TestRun_RejectsBadFlags(t *testing.T) {
	var stdout, stderr bytes.Buffer
	ctx := context.Background()

	assert.Error(t, run(ctx, []string{"--model", "gaussian"}, &stdout, &stderr))
	assert.Error(t, run(ctx, []string{"--bins", "0"}, &stdout, &stderr))
	assert.Error(t, run(ctx, []string{"--config", filepath.Join(t.TempDir(), "x.ini")}, &stdout, &stderr))
}

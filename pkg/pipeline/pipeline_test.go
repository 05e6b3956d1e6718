/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: pipeline_test.go
Description: Tests for the candidate parser pipeline. Uses a shell-based
toolchain so build, run, crash, timeout, and nonzero-exit outcomes are
all exercised without a real compiler.
*/

package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kleascm/lyra-formats/pkg/pipeline"
)

// shellConfig builds candidates by copying the script into place and runs
// them through the shell, standing in for the cc toolchain.
func shellConfig(t *testing.T) *pipeline.Config {
	t.Helper()
	return &pipeline.Config{
		WorkDir:   t.TempDir(),
		BuildArgs: []string{"/bin/sh", "-c", "cp {src} {bin} && chmod +x {bin}"},
		RunArgs:   []string{"/bin/sh", "{bin}", "{input}"},
		SourceExt: ".sh",
		Timeout:   5 * time.Second,
	}
}

// writeInput drops a sample file for candidates to consume
func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.bin")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestPipelineOK tests a clean build, run, and output capture
func TestPipelineOK(t *testing.T) {
	p, err := pipeline.New(shellConfig(t), nil)
	require.NoError(t, err)

	input := writeInput(t, "Magic: 7\nVersion: 1\n")
	res, err := p.BuildAndRun(context.Background(), `cat "$1"`, input)
	require.NoError(t, err)

	assert.Equal(t, pipeline.StatusOK, res.Status)
	assert.Equal(t, "Magic: 7\nVersion: 1\n", res.Output)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, 0, res.Signal)
	assert.Greater(t, res.Duration, time.Duration(0))

	// The candidate source landed in the work directory
	_, statErr := os.Stat(res.SourcePath)
	assert.NoError(t, statErr)
}

// TestPipelineBuildError tests toolchain rejection
func TestPipelineBuildError(t *testing.T) {
	cfg := shellConfig(t)
	cfg.BuildArgs = []string{"/bin/sh", "-c", "echo 'syntax error' >&2; exit 1"}

	p, err := pipeline.New(cfg, nil)
	require.NoError(t, err)

	res, err := p.BuildAndRun(context.Background(), "whatever", writeInput(t, "x"))
	require.NoError(t, err)

	assert.Equal(t, pipeline.StatusBuildError, res.Status)
	assert.Contains(t, res.Stderr, "syntax error")
	assert.Empty(t, res.Output)
}

// TestPipelineNonzeroExit tests that a failing candidate is data, not an error
func TestPipelineNonzeroExit(t *testing.T) {
	p, err := pipeline.New(shellConfig(t), nil)
	require.NoError(t, err)

	res, err := p.BuildAndRun(context.Background(), `echo "cannot parse" >&2; exit 3`, writeInput(t, "x"))
	require.NoError(t, err)

	assert.Equal(t, pipeline.StatusError, res.Status)
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, res.Stderr, "cannot parse")
}

// TestPipelineCrash tests signal classification
func TestPipelineCrash(t *testing.T) {
	p, err := pipeline.New(shellConfig(t), nil)
	require.NoError(t, err)

	res, err := p.BuildAndRun(context.Background(), `kill -s SEGV $$`, writeInput(t, "x"))
	require.NoError(t, err)

	assert.Equal(t, pipeline.StatusCrash, res.Status)
	assert.Equal(t, int(syscall.SIGSEGV), res.Signal)
}

// TestPipelineTimeout tests the per-stage wall clock limit
func TestPipelineTimeout(t *testing.T) {
	cfg := shellConfig(t)
	cfg.Timeout = 150 * time.Millisecond

	p, err := pipeline.New(cfg, nil)
	require.NoError(t, err)

	res, err := p.BuildAndRun(context.Background(), `sleep 5`, writeInput(t, "x"))
	require.NoError(t, err)

	assert.Equal(t, pipeline.StatusTimeout, res.Status)
}

// TestPipelineConfigValidation tests the constructor guards
func TestPipelineConfigValidation(t *testing.T) {
	_, err := pipeline.New(nil, nil)
	assert.Error(t, err)

	cfg := shellConfig(t)
	cfg.BuildArgs = nil
	_, err = pipeline.New(cfg, nil)
	assert.Error(t, err)

	cfg = shellConfig(t)
	cfg.Timeout = 0
	_, err = pipeline.New(cfg, nil)
	assert.Error(t, err)
}

// TestDefaultConfig tests the stock C toolchain shape
func TestDefaultConfig(t *testing.T) {
	cfg := pipeline.DefaultConfig("/tmp/work")
	assert.Equal(t, "/tmp/work", cfg.WorkDir)
	assert.Equal(t, ".c", cfg.SourceExt)
	assert.Contains(t, cfg.BuildArgs, "cc")
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: pipeline.go
Description: Candidate parser pipeline. Takes oracle-proposed source
code, writes it into the work directory, compiles it with the system
toolchain, and runs the binary against one sample file under a hard
timeout. Build failures, crashes, timeouts, and nonzero exits are all
first-class outcomes: a bad candidate is data, not an error.
*/

package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Status classifies the outcome of one build-and-run cycle
type Status string

const (
	// StatusOK means the candidate built, ran, and exited cleanly
	StatusOK Status = "ok"
	// StatusBuildError means the toolchain rejected the source
	StatusBuildError Status = "build_error"
	// StatusCrash means the candidate died on a signal
	StatusCrash Status = "crash"
	// StatusTimeout means a stage exceeded the configured timeout
	StatusTimeout Status = "timeout"
	// StatusError covers nonzero exits and infrastructure failures
	StatusError Status = "error"
)

// Placeholders expanded inside build and run argument vectors
const (
	placeholderSource = "{src}"
	placeholderBinary = "{bin}"
	placeholderInput  = "{input}"
)

// Config controls how candidates are built and executed
type Config struct {
	WorkDir   string        // where sources and binaries land
	BuildArgs []string      // compiler argv with {src}/{bin} placeholders
	RunArgs   []string      // run argv with {bin}/{input} placeholders
	SourceExt string        // extension for candidate sources
	Timeout   time.Duration // per-stage wall clock limit
}

// DefaultConfig builds and runs C candidates with the system compiler
func DefaultConfig(workDir string) *Config {
	return &Config{
		WorkDir:   workDir,
		BuildArgs: []string{"cc", placeholderSource, "-o", placeholderBinary},
		RunArgs:   []string{placeholderBinary, placeholderInput},
		SourceExt: ".c",
		Timeout:   30 * time.Second,
	}
}

// RunResult captures everything observable about one candidate cycle
type RunResult struct {
	Status     Status
	Output     string // candidate stdout, the text handed to scoring
	Stderr     string // compiler or candidate stderr
	ExitCode   int
	Signal     int // terminating signal when Status is crash
	Duration   time.Duration
	SourcePath string
	BinaryPath string
}

// Pipeline compiles and executes candidate parsers
type Pipeline struct {
	config *Config
	logger *logrus.Logger
}

// New validates the config, creates the work directory, and returns a
// ready pipeline.
func New(config *Config, logger *logrus.Logger) (*Pipeline, error) {
	if config == nil {
		return nil, fmt.Errorf("pipeline config is nil")
	}
	if len(config.BuildArgs) == 0 || len(config.RunArgs) == 0 {
		return nil, fmt.Errorf("pipeline needs build and run argument vectors")
	}
	if config.Timeout <= 0 {
		return nil, fmt.Errorf("pipeline timeout must be positive")
	}
	if err := os.MkdirAll(config.WorkDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create work dir %s: %w", config.WorkDir, err)
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Pipeline{config: config, logger: logger}, nil
}

// BuildAndRun writes source to disk, compiles it, and runs the binary
// against inputPath. The returned error covers only infrastructure
// failures; candidate failures come back as result statuses.
func (p *Pipeline) BuildAndRun(ctx context.Context, source, inputPath string) (*RunResult, error) {
	id := uuid.New().String()[:8]
	srcPath := filepath.Join(p.config.WorkDir, "candidate_"+id+p.config.SourceExt)
	binPath := filepath.Join(p.config.WorkDir, "candidate_"+id)

	result := &RunResult{SourcePath: srcPath, BinaryPath: binPath}

	if err := os.WriteFile(srcPath, []byte(source), 0644); err != nil {
		result.Status = StatusError
		return result, fmt.Errorf("failed to write candidate source: %w", err)
	}

	build := p.runCommand(ctx, expandArgs(p.config.BuildArgs, srcPath, binPath, inputPath))
	result.Duration = build.duration
	if build.timedOut {
		result.Status = StatusTimeout
		result.Stderr = build.stderr
		p.logger.WithField("source", srcPath).Warn("Candidate build timed out")
		return result, nil
	}
	if build.err != nil || build.exitCode != 0 {
		result.Status = StatusBuildError
		result.Stderr = build.stderr
		result.ExitCode = build.exitCode
		p.logger.WithFields(logrus.Fields{
			"source": srcPath,
			"exit":   build.exitCode,
		}).Debug("Candidate failed to build")
		return result, nil
	}

	run := p.runCommand(ctx, expandArgs(p.config.RunArgs, srcPath, binPath, inputPath))
	result.Duration += run.duration
	result.Output = run.stdout
	result.Stderr = run.stderr
	result.ExitCode = run.exitCode
	result.Signal = run.signal

	switch {
	case run.timedOut:
		result.Status = StatusTimeout
	case run.signal != 0:
		result.Status = StatusCrash
	case run.err != nil || run.exitCode != 0:
		result.Status = StatusError
	default:
		result.Status = StatusOK
	}

	p.logger.WithFields(logrus.Fields{
		"binary": binPath,
		"input":  inputPath,
		"status": result.Status,
	}).Debug("Candidate executed")

	return result, nil
}

// cmdResult is the raw outcome of one spawned command
type cmdResult struct {
	stdout   string
	stderr   string
	exitCode int
	signal   int
	duration time.Duration
	timedOut bool
	err      error
}

// runCommand executes argv under the stage timeout, buffering output in
// memory so a wedged child cannot block the read side.
func (p *Pipeline) runCommand(ctx context.Context, argv []string) cmdResult {
	cctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := cmdResult{
		stdout:   stdout.String(),
		stderr:   stderr.String(),
		duration: time.Since(start),
		err:      err,
	}

	if cctx.Err() == context.DeadlineExceeded {
		res.timedOut = true
		return res
	}

	if cmd.ProcessState != nil {
		res.exitCode = cmd.ProcessState.ExitCode()
		if waitStatus, ok := cmd.ProcessState.Sys().(syscall.WaitStatus); ok {
			if waitStatus.Signaled() {
				res.signal = int(waitStatus.Signal())
			}
		}
	}

	return res
}

// expandArgs substitutes the source, binary, and input placeholders
func expandArgs(args []string, src, bin, input string) []string {
	expanded := make([]string, len(args))
	for i, a := range args {
		a = strings.ReplaceAll(a, placeholderSource, src)
		a = strings.ReplaceAll(a, placeholderBinary, bin)
		a = strings.ReplaceAll(a, placeholderInput, input)
		expanded[i] = a
	}
	return expanded
}

// Package compile はリポジトリ内の Maven / Gradle プロジェクトを
// サブプロセスとしてビルドするランナーを提供します。実行対象のパスは
// workspace.Root の封じ込め検査を通過したものに限られます。
package compile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/moor-sun/git-mcp-server/internal/workspace"
)

// Tool is the supported build tool.
type Tool string

const (
	ToolMaven  Tool = "maven"
	ToolGradle Tool = "gradle"
)

// Goal is the supported build goal, kept deliberately minimal.
type Goal string

const (
	GoalTestCompile Goal = "test-compile"
	GoalTest        Goal = "test"
	GoalCompile     Goal = "compile"
)

var (
	// ErrInvalidRequest は検証で弾かれたリクエスト（未知のtool/goal、
	// 範囲外のtimeout、許可されない追加引数など）に返されます。
	ErrInvalidRequest = errors.New("invalid compile request")

	// ErrToolMissing はビルドツールの実行ファイルが見つからない場合に返されます。
	ErrToolMissing = errors.New("build tool not found")
)

// timeoutReturnCode は timeout(1) と同じ慣習に合わせた値です。
const timeoutReturnCode = 124

// Request is a single build invocation.
type Request struct {
	Repo           string
	Tool           Tool
	Goal           Goal
	ProjectPath    string
	TimeoutSeconds int
	ExtraArgs      []string
}

// Result mirrors what the build subprocess produced. Stdout, Stderr and
// ErrorSummary are tailed so responses stay bounded.
type Result struct {
	OK           bool     `json:"ok"`
	ReturnCode   int      `json:"returncode"`
	Command      []string `json:"command"`
	Cwd          string   `json:"cwd"`
	DurationMS   int64    `json:"duration_ms"`
	Stdout       string   `json:"stdout"`
	Stderr       string   `json:"stderr"`
	ErrorSummary string   `json:"error_summary"`
}

// Runner executes validated build requests beneath the repository root.
type Runner struct {
	root           *workspace.Root
	defaultTimeout int
	maxTimeout     int
	logger         *zap.Logger
}

func NewRunner(root *workspace.Root, defaultTimeoutSeconds, maxTimeoutSeconds int, logger *zap.Logger) *Runner {
	return &Runner{
		root:           root,
		defaultTimeout: defaultTimeoutSeconds,
		maxTimeout:     maxTimeoutSeconds,
		logger:         logger,
	}
}

// Run validates the request, picks the build executable and executes it
// with a deadline. A timed-out build is reported as a Result with
// returncode 124, not as an error.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	timeout := req.TimeoutSeconds
	if timeout == 0 {
		timeout = r.defaultTimeout
	}
	if timeout < 10 || timeout > r.maxTimeout {
		return nil, fmt.Errorf("%w: timeout_seconds %d out of range [10, %d]", ErrInvalidRequest, timeout, r.maxTimeout)
	}

	goal := req.Goal
	if goal == "" {
		goal = GoalTestCompile
	}

	projectPath := req.ProjectPath
	if projectPath == "" {
		projectPath = "."
	}
	cwd, err := r.root.Resolve(projectPath)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(cwd)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: project path %s", workspace.ErrNotFound, projectPath)
	}

	if req.Tool == ToolMaven {
		if _, err := os.Stat(filepath.Join(cwd, "pom.xml")); err != nil {
			return nil, fmt.Errorf("%w: pom.xml not found in %s", ErrInvalidRequest, projectPath)
		}
	}

	command, err := buildCommand(req.Tool, goal, cwd, req.ExtraArgs)
	if err != nil {
		return nil, err
	}

	r.logger.Info("running build",
		zap.String("tool", string(req.Tool)),
		zap.String("goal", string(goal)),
		zap.String("cwd", cwd),
		zap.Strings("command", command),
		zap.Int("timeout_seconds", timeout),
	)

	return r.execute(ctx, command, cwd, time.Duration(timeout)*time.Second)
}

func (r *Runner) execute(ctx context.Context, command []string, cwd string, timeout time.Duration) (*Result, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, command[0], command[1:]...)
	cmd.Dir = cwd
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	duration := time.Since(start)

	result := &Result{
		Command:    command,
		Cwd:        cwd,
		DurationMS: duration.Milliseconds(),
	}

	out, errOut, summary := normalizeOutput(stdout.String(), stderr.String())

	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		result.ReturnCode = timeoutReturnCode
		if summary == "" {
			summary = "TIMEOUT"
		}
	case runErr != nil:
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			// 実行ファイル不在などプロセスが起動しなかったケース
			return nil, fmt.Errorf("%w: %v", ErrToolMissing, runErr)
		}
		result.ReturnCode = exitErr.ExitCode()
	default:
		result.OK = true
		summary = ""
	}

	result.Stdout = out
	result.Stderr = errOut
	result.ErrorSummary = summary

	if !result.OK {
		r.logger.Warn("build failed",
			zap.Int("returncode", result.ReturnCode),
			zap.Int64("duration_ms", result.DurationMS),
		)
	}
	return result, nil
}

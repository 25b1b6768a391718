package executor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	shellwords "github.com/mattn/go-shellwords"
	"github.com/pkg/errors"
)

// sensitiveEnvSuffixes are case-insensitive suffixes for environment
// variables that are withheld from spawned commands.
var sensitiveEnvSuffixes = []string{
	"_API_KEY",
	"_SECRET",
	"_TOKEN",
	"_PASSWORD",
	"_CREDENTIAL",
}

// alwaysEnvVars are passed through regardless of suffix filtering.
var alwaysEnvVars = map[string]bool{
	"PATH": true, "HOME": true, "USER": true, "SHELL": true,
	"LANG": true, "TERM": true, "TMPDIR": true,
	"GOPATH": true, "GOROOT": true,
	"XDG_CONFIG_HOME": true, "XDG_DATA_HOME": true, "XDG_CACHE_HOME": true,
}

func isSensitiveEnvVar(name string) bool {
	upper := strings.ToUpper(name)
	for _, suffix := range sensitiveEnvSuffixes {
		if strings.HasSuffix(upper, suffix) {
			return true
		}
	}
	return false
}

func filteredEnviron() []string {
	var out []string
	for _, kv := range os.Environ() {
		name, _, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if alwaysEnvVars[name] || !isSensitiveEnvVar(name) {
			out = append(out, kv)
		}
	}
	return out
}

// Local runs actions on the local machine. The zero value is usable; all
// per-run state arrives through Options.
type Local struct{}

// NewLocal returns a local executor.
func NewLocal() *Local {
	return &Local{}
}

func resolvePath(opts Options, path string) string {
	if filepath.IsAbs(path) || opts.WorkingDir == "" {
		return path
	}
	return filepath.Join(opts.WorkingDir, path)
}

// ReadFile returns the raw content of the file at path.
func (l *Local) ReadFile(_ context.Context, path string, opts Options) (string, error) {
	resolved := resolvePath(opts, path)
	data, err := os.ReadFile(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &NotFoundError{Path: path}
		}
		return "", errors.Wrap(err, "read_file")
	}
	return string(data), nil
}

// WriteFile replaces the file at path, creating parent directories.
func (l *Local) WriteFile(_ context.Context, path, content string, opts Options) error {
	resolved := resolvePath(opts, path)
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return errors.Wrap(err, "write_file")
	}
	if err := os.WriteFile(resolved, []byte(content), 0o644); err != nil {
		return errors.Wrap(err, "write_file")
	}
	return nil
}

// EditFile replaces the first occurrence of oldStr with newStr.
func (l *Local) EditFile(ctx context.Context, path, oldStr, newStr string, opts Options) error {
	content, err := l.ReadFile(ctx, path, opts)
	if err != nil {
		return err
	}
	if !strings.Contains(content, oldStr) {
		return &NotFoundError{Path: path, Target: oldStr}
	}
	updated := strings.Replace(content, oldStr, newStr, 1)
	return l.WriteFile(ctx, path, updated, opts)
}

// Exec runs a command under the configured timeout and returns its combined
// stdout and stderr. A nonzero exit status is reported inline in the output
// rather than as an error, so the model can react to it.
func (l *Local) Exec(ctx context.Context, command string, opts Options) (string, error) {
	timeout := opts.ExecTimeout()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd, err := buildCommand(ctx, command, opts)
	if err != nil {
		return "", err
	}
	if opts.WorkingDir != "" {
		cmd.Dir = opts.WorkingDir
	}

	// Own process group so the whole tree dies on timeout.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	env := filteredEnviron()
	for k, v := range opts.Env {
		env = append(env, k+"="+v)
	}
	cmd.Env = env

	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined

	runErr := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		if cmd.Process != nil {
			_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		}
		return combined.String(), &TimeoutError{Command: command, Timeout: timeout}
	}
	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			return combined.String() + fmt.Sprintf("\n[exit status %d]", exitErr.ExitCode()), nil
		}
		return "", errors.Wrap(runErr, "exec")
	}
	return combined.String(), nil
}

func buildCommand(ctx context.Context, command string, opts Options) (*exec.Cmd, error) {
	if opts.DirectExec {
		parts, err := shellwords.Parse(command)
		if err != nil {
			return nil, errors.Wrap(err, "exec: parse command")
		}
		if len(parts) == 0 {
			return nil, errors.New("exec: empty command")
		}
		return exec.CommandContext(ctx, parts[0], parts[1:]...), nil
	}

	shell := "/bin/sh"
	shellArg := "-c"
	if runtime.GOOS == "windows" {
		shell = "cmd.exe"
		shellArg = "/c"
	}
	return exec.CommandContext(ctx, shell, shellArg, command), nil
}

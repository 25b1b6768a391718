package executor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLocalReadWriteFile(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal()
	opts := Options{WorkingDir: dir}
	ctx := context.Background()

	if err := l.WriteFile(ctx, "sub/hello.txt", "hello world", opts); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	content, err := l.ReadFile(ctx, "sub/hello.txt", opts)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if content != "hello world" {
		t.Errorf("content %q, want %q", content, "hello world")
	}

	// Absolute paths bypass the working directory.
	abs := filepath.Join(dir, "sub", "hello.txt")
	content, err = l.ReadFile(ctx, abs, Options{WorkingDir: "/nonexistent"})
	if err != nil {
		t.Fatalf("ReadFile by absolute path failed: %v", err)
	}
	if content != "hello world" {
		t.Errorf("absolute read content %q", content)
	}
}

func TestLocalReadFileNotFound(t *testing.T) {
	l := NewLocal()
	_, err := l.ReadFile(context.Background(), "missing.txt", Options{WorkingDir: t.TempDir()})

	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if notFound.Path != "missing.txt" {
		t.Errorf("path %q, want missing.txt", notFound.Path)
	}
}

func TestLocalEditFileFirstOccurrenceOnly(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal()
	opts := Options{WorkingDir: dir}
	ctx := context.Background()

	if err := l.WriteFile(ctx, "f.txt", "aaa bbb aaa", opts); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := l.EditFile(ctx, "f.txt", "aaa", "ccc", opts); err != nil {
		t.Fatalf("EditFile failed: %v", err)
	}

	content, _ := l.ReadFile(ctx, "f.txt", opts)
	if content != "ccc bbb aaa" {
		t.Errorf("content %q, want %q", content, "ccc bbb aaa")
	}
}

func TestLocalEditFileTargetAbsent(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal()
	opts := Options{WorkingDir: dir}
	ctx := context.Background()

	if err := l.WriteFile(ctx, "f.txt", "content", opts); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	err := l.EditFile(ctx, "f.txt", "nope", "x", opts)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if notFound.Target != "nope" {
		t.Errorf("target %q, want nope", notFound.Target)
	}
}

func TestLocalExecCombinedOutput(t *testing.T) {
	l := NewLocal()
	out, err := l.Exec(context.Background(), "echo out; echo err 1>&2", Options{})
	if err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	if !strings.Contains(out, "out") || !strings.Contains(out, "err") {
		t.Errorf("combined output missing streams: %q", out)
	}
}

func TestLocalExecNonzeroExitInOutput(t *testing.T) {
	l := NewLocal()
	out, err := l.Exec(context.Background(), "echo failing; exit 3", Options{})
	if err != nil {
		t.Fatalf("nonzero exit must not be an error: %v", err)
	}
	if !strings.Contains(out, "failing") {
		t.Errorf("output before exit lost: %q", out)
	}
	if !strings.Contains(out, "[exit status 3]") {
		t.Errorf("exit status marker missing: %q", out)
	}
}

func TestLocalExecTimeout(t *testing.T) {
	l := NewLocal()
	start := time.Now()
	_, err := l.Exec(context.Background(), "sleep 5", Options{Timeout: 100 * time.Millisecond})

	var timeout *TimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout did not terminate promptly: %v", elapsed)
	}
}

func TestLocalExecWorkingDir(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal()

	out, err := l.Exec(context.Background(), "pwd", Options{WorkingDir: dir})
	if err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	resolved, _ := filepath.EvalSymlinks(dir)
	if !strings.Contains(out, resolved) && !strings.Contains(out, dir) {
		t.Errorf("pwd %q not under %q", out, dir)
	}
}

func TestLocalExecEnvOverride(t *testing.T) {
	l := NewLocal()
	out, err := l.Exec(context.Background(), "echo $GREETING", Options{
		Env: map[string]string{"GREETING": "howdy"},
	})
	if err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	if !strings.Contains(out, "howdy") {
		t.Errorf("env var not forwarded: %q", out)
	}
}

func TestLocalExecDirectMode(t *testing.T) {
	l := NewLocal()
	out, err := l.Exec(context.Background(), `echo "two words"`, Options{DirectExec: true})
	if err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	if !strings.Contains(out, "two words") {
		t.Errorf("direct exec output %q", out)
	}
}

func TestSensitiveEnvFiltering(t *testing.T) {
	if err := os.Setenv("TESTONLY_API_KEY", "secret"); err != nil {
		t.Fatal(err)
	}
	defer os.Unsetenv("TESTONLY_API_KEY")

	for _, kv := range filteredEnviron() {
		if strings.HasPrefix(kv, "TESTONLY_API_KEY=") {
			t.Fatal("sensitive variable leaked into command environment")
		}
	}

	if isSensitiveEnvVar("PATH") {
		t.Error("PATH must not be sensitive")
	}
	if !isSensitiveEnvVar("AWS_SECRET") {
		t.Error("AWS_SECRET must be sensitive")
	}
}

package main

// Notes:
// - Test doubles for the converter pool. Conversions never start Chrome.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	scimark "github.com/alnah/go-scimark"
)

// ---------------------------------------------------------------------------
// Mock Implementations - For unit testing
// ---------------------------------------------------------------------------

// mockConverter records inputs and returns a deterministic result.
type mockConverter struct {
	mu    sync.Mutex
	calls []scimark.Input
	err   error
}

func (m *mockConverter) Convert(_ context.Context, input scimark.Input) (*scimark.Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, input)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	res := &scimark.Result{HTML: []byte("<p>" + input.Title + "</p>")}
	if input.PDF {
		res.PDF = []byte("%PDF-1.4 " + input.Title)
	}
	return res, nil
}

func (m *mockConverter) getCalls() []scimark.Input {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]scimark.Input(nil), m.calls...)
}

// mockPool hands out a single shared mockConverter.
type mockPool struct {
	conv       *mockConverter
	size       int
	acquireErr error
	opts       []scimark.Option
	closed     bool
}

func (p *mockPool) Acquire() (CLIConverter, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	return p.conv, nil
}

func (p *mockPool) Release(CLIConverter) {}

func (p *mockPool) Size() int { return p.size }

func (p *mockPool) Close() error {
	p.closed = true
	return nil
}

// testEnv returns an environment writing to buffers and building pools
// around conv.
func testEnv(conv *mockConverter) (*Environment, *bytes.Buffer, *bytes.Buffer, *mockPool) {
	var stdout, stderr bytes.Buffer
	pool := &mockPool{conv: conv}
	env := &Environment{
		Stdin:  bytes.NewReader(nil),
		Stdout: &stdout,
		Stderr: &stderr,
		Logger: zerolog.Nop(),
		NewPool: func(size int, opts ...scimark.Option) (Pool, error) {
			pool.size = size
			pool.opts = opts
			return pool, nil
		},
	}
	return env, &stdout, &stderr, pool
}

// setupTestDir creates a temp directory with the given file structure.
// Files map paths to content. Returns the temp directory path.
func setupTestDir(t *testing.T, files map[string]string) string {
	t.Helper()
	tempDir := t.TempDir()

	for path, content := range files {
		fullPath := filepath.Join(tempDir, path)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
			t.Fatalf("failed to create dir for %s: %v", path, err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}

	return tempDir
}

// mustParseFlags parses args or fails the test.
func mustParseFlags(t *testing.T, args ...string) (*cliFlags, []string) {
	t.Helper()
	f, positional, err := parseFlags(args, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseFlags(%v) error = %v", args, err)
	}
	return f, positional
}

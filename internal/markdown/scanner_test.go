package markdown

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bujatime/bujatime/pkg/interfaces"
)

func writeFile(t *testing.T, path, content string, mode os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func newScanFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "clean.md"), "# 정상 문서\n\n- 항목\n", 0o644)
	writeFile(t, filepath.Join(root, "posts", "broken.md"), "##제목\n본문\n-항목\n", 0o640)
	writeFile(t, filepath.Join(root, "posts", "also-broken.md"), "**[중요]] 내용\n", 0o644)
	writeFile(t, filepath.Join(root, "notes.txt"), "##not markdown\n", 0o644)
	return root
}

func newTestScanner(logger interfaces.Logger) *Scanner {
	clock := time.Date(2024, 3, 14, 15, 9, 26, 0, time.UTC)
	return NewScanner(
		ScannerConfig{Recursive: true, Concurrency: 2},
		WithScannerLogger(logger),
		WithScannerClock(func() time.Time { return clock }),
		WithRunIDGenerator(func() string { return "run-1" }),
	)
}

func TestScannerReportsWithoutWriting(t *testing.T) {
	root := newScanFixture(t)
	logger := &recordingLogger{}

	report, err := newTestScanner(logger).ScanDirectory(context.Background(), root, interfaces.ScanOptions{})
	if err != nil {
		t.Fatalf("ScanDirectory: %v", err)
	}

	if report.RunID != "run-1" || report.Fixed {
		t.Fatalf("unexpected report header %#v", report)
	}
	if report.Scanned != 3 {
		t.Fatalf("expected 3 markdown files scanned, got %d", report.Scanned)
	}
	if len(report.Files) != 2 {
		t.Fatalf("expected 2 files needing repair, got %#v", report.Files)
	}
	if report.Files[0].Path != "posts/also-broken.md" || report.Files[1].Path != "posts/broken.md" {
		t.Fatalf("expected files sorted by path, got %s and %s", report.Files[0].Path, report.Files[1].Path)
	}
	if report.TotalDiffs != 3 {
		t.Fatalf("expected 3 line diffs, got %d", report.TotalDiffs)
	}
	if got := readFile(t, filepath.Join(root, "posts", "broken.md")); got != "##제목\n본문\n-항목\n" {
		t.Fatalf("scan without fix must not write, got %q", got)
	}
	if !logger.has("info", "markdown.scan.completed") {
		t.Fatalf("expected completion log, got %v", logger.messages())
	}
}

func TestScannerFixWritesBackAndKeepsMode(t *testing.T) {
	root := newScanFixture(t)
	target := filepath.Join(root, "posts", "broken.md")
	before, err := os.Stat(target)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}

	report, err := newTestScanner(nil).ScanDirectory(context.Background(), root, interfaces.ScanOptions{Fix: true})
	if err != nil {
		t.Fatalf("ScanDirectory: %v", err)
	}
	if !report.Fixed {
		t.Fatal("expected report to mark fix mode")
	}

	if got := readFile(t, target); got != "## 제목\n본문\n- 항목\n" {
		t.Fatalf("unexpected repaired content %q", got)
	}
	after, err := os.Stat(target)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if after.Mode() != before.Mode() {
		t.Fatalf("expected mode %v preserved, got %v", before.Mode(), after.Mode())
	}

	again, err := newTestScanner(nil).ScanDirectory(context.Background(), root, interfaces.ScanOptions{})
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if len(again.Files) != 0 || again.TotalDiffs != 0 {
		t.Fatalf("expected repaired tree to be clean, got %#v", again.Files)
	}
}

func TestScannerSingleFile(t *testing.T) {
	root := newScanFixture(t)

	report, err := newTestScanner(nil).ScanDirectory(context.Background(), filepath.Join(root, "posts", "broken.md"), interfaces.ScanOptions{})
	if err != nil {
		t.Fatalf("ScanDirectory: %v", err)
	}
	if report.Scanned != 1 || len(report.Files) != 1 || report.Files[0].Path != "broken.md" {
		t.Fatalf("unexpected single file report %#v", report)
	}
}

func TestScannerPatternOverride(t *testing.T) {
	root := newScanFixture(t)

	report, err := newTestScanner(nil).ScanDirectory(context.Background(), root, interfaces.ScanOptions{Pattern: "*.txt"})
	if err != nil {
		t.Fatalf("ScanDirectory: %v", err)
	}
	if report.Scanned != 1 || len(report.Files) != 1 || report.Files[0].Path != "notes.txt" {
		t.Fatalf("unexpected report %#v", report)
	}
}

func TestScannerMissingDirectory(t *testing.T) {
	_, err := newTestScanner(nil).ScanDirectory(context.Background(), filepath.Join(t.TempDir(), "missing"), interfaces.ScanOptions{})
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestScannerCancelledContext(t *testing.T) {
	root := newScanFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestScanner(nil).ScanDirectory(ctx, root, interfaces.ScanOptions{}); err == nil {
		t.Fatal("expected cancellation error")
	}
}

type loggedEntry struct {
	level string
	msg   string
	args  []any
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []loggedEntry
}

func (l *recordingLogger) record(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, loggedEntry{level: level, msg: msg, args: args})
}

func (l *recordingLogger) Trace(msg string, args ...any) { l.record("trace", msg, args) }
func (l *recordingLogger) Debug(msg string, args ...any) { l.record("debug", msg, args) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args) }
func (l *recordingLogger) Error(msg string, args ...any) { l.record("error", msg, args) }
func (l *recordingLogger) Fatal(msg string, args ...any) { l.record("fatal", msg, args) }

func (l *recordingLogger) WithContext(context.Context) interfaces.Logger { return l }

func (l *recordingLogger) has(level, msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, entry := range l.entries {
		if entry.level == level && entry.msg == msg {
			return true
		}
	}
	return false
}

func (l *recordingLogger) messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.entries))
	for _, entry := range l.entries {
		out = append(out, entry.level+":"+entry.msg)
	}
	return out
}

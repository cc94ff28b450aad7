package markdowncmd

import (
	"context"
	"errors"
	"testing"

	"github.com/bujatime/bujatime/internal/markdown"
	"github.com/bujatime/bujatime/pkg/interfaces"
	"github.com/goliatone/go-command/dispatcher"
)

// flakyScanner fails the first failures calls, then reports report.
type flakyScanner struct {
	failures int
	calls    int
	report   *interfaces.ScanReport
}

func (s *flakyScanner) ScanDirectory(context.Context, string, interfaces.ScanOptions) (*interfaces.ScanReport, error) {
	s.calls++
	if s.calls <= s.failures {
		return nil, errors.New("content volume not mounted")
	}
	return s.report, nil
}

func subscribeScanner(t *testing.T, scanner interfaces.MarkdownScanner, retries int) {
	t.Helper()
	set, err := RegisterMarkdownCommands(nil, markdown.Repairer{}, scanner, nil, enabled())
	if err != nil {
		t.Fatalf("register markdown commands: %v", err)
	}
	for _, sub := range set.Subscribe(retries) {
		t.Cleanup(sub.Unsubscribe)
	}
}

func TestDispatchedScanRetriesTransientFailure(t *testing.T) {
	scanner := &flakyScanner{failures: 1, report: &interfaces.ScanReport{Root: "posts", Scanned: 4}}
	subscribeScanner(t, scanner, 1)

	var report interfaces.ScanReport
	if err := dispatcher.Dispatch(context.Background(), ScanDirectoryCommand{Directory: "posts", Report: &report}); err != nil {
		t.Fatalf("dispatch scan: %v", err)
	}
	if scanner.calls != 2 {
		t.Fatalf("expected one retry, got %d calls", scanner.calls)
	}
	if report.Scanned != 4 || report.Root != "posts" {
		t.Fatalf("report not delivered after retry: %+v", report)
	}
}

func TestDispatchedScanGivesUpAfterRetries(t *testing.T) {
	scanner := &flakyScanner{failures: 10}
	subscribeScanner(t, scanner, 2)

	var report interfaces.ScanReport
	err := dispatcher.Dispatch(context.Background(), ScanDirectoryCommand{Directory: "posts", Report: &report})
	if err == nil {
		t.Fatal("expected dispatch to fail once retries are exhausted")
	}
	if scanner.calls != 3 {
		t.Fatalf("expected initial attempt plus two retries, got %d calls", scanner.calls)
	}
}

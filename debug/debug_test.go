package debug

import (
	"bytes"
	"context"
	"log/slog"
	"runtime/metrics"
	"strings"
	"sync"
	"testing"
	"time"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestProcessRSS(t *testing.T) {
	rss, err := processRSS()
	if err != nil {
		t.Fatalf("rss: %v", err)
	}
	if rss == 0 {
		t.Fatalf("expected non-zero rss")
	}
}

func TestGoroutineAttrs(t *testing.T) {
	attrs := goroutineAttrs([]metrics.Sample{{Name: "/sched/goroutines:goroutines"}})
	a, ok := attrs[0].(slog.Attr)
	if !ok || a.Key != "goroutines" || a.Value.Uint64() == 0 {
		t.Fatalf("unexpected attrs %v", attrs)
	}
}

func TestLoggersStopWithContext(t *testing.T) {
	out := &syncBuffer{}
	logger := slog.New(slog.NewTextHandler(out, nil))
	ctx, cancel := context.WithCancel(context.Background())
	StartMemLogger(ctx, 5*time.Millisecond, logger)
	StartGoroutineLogger(ctx, 5*time.Millisecond, logger)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s := out.String()
		if strings.Contains(s, "memstats") && strings.Contains(s, "goroutine-stacks") {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	s := out.String()
	if !strings.Contains(s, "memstats") || !strings.Contains(s, "rss_human") {
		t.Fatalf("mem logger output missing: %q", s)
	}
	if !strings.Contains(s, "goroutine-stacks") {
		t.Fatalf("goroutine logger output missing: %q", s)
	}
}

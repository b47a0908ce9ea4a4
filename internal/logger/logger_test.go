package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
)

func TestWithContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "info", true)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	WithContext(ctx).Info("hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if line["request_id"] != "req-1" {
		t.Fatalf("expected request_id req-1, got %v", line["request_id"])
	}
	if line["msg"] != "hello" {
		t.Fatalf("unexpected msg %v", line["msg"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "warn", false)

	Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}
	Warn("kept")
	if !bytes.Contains(buf.Bytes(), []byte("kept")) {
		t.Fatalf("expected warn line, got %q", buf.String())
	}
}

func TestGetConcurrentFirstUse(t *testing.T) {
	mu.Lock()
	defaultLogger = nil
	mu.Unlock()

	const n = 16
	got := make(chan *slog.Logger, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got <- Get()
		}()
	}
	wg.Wait()
	close(got)

	first := <-got
	if first == nil {
		t.Fatalf("expected a logger")
	}
	for l := range got {
		if l != first {
			t.Fatalf("concurrent first use created more than one logger")
		}
	}
}

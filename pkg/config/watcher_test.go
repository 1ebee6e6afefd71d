package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "solace.yaml")

	write := func(secret string) {
		content := "provider:\n  api_key: sk-test\nauth:\n  secret: " + secret + "\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
	}
	write("first")

	reloaded := make(chan *Config, 4)
	w, err := NewWatcher(path, nil, func(cfg *Config) { reloaded <- cfg })
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	w.interval = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	// Give the event loop a moment to start before writing
	time.Sleep(50 * time.Millisecond)
	write("second")

	select {
	case cfg := <-reloaded:
		if cfg.Auth.Secret != "second" {
			t.Errorf("expected reloaded secret %q, got %q", "second", cfg.Auth.Secret)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcher_InvalidReloadKeepsPrevious(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "solace.yaml")
	if err := os.WriteFile(path, []byte("provider:\n  api_key: sk\nauth:\n  secret: ok\n"), 0644); err != nil {
		t.Fatal(err)
	}

	called := make(chan struct{}, 1)
	w, err := NewWatcher(path, nil, func(*Config) { called <- struct{}{} })
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	// Drive reload directly with a config that fails validation
	if err := os.WriteFile(path, []byte("provider:\n  api_key: sk\n"), 0644); err != nil {
		t.Fatal(err)
	}
	w.reload()
	w.close()

	select {
	case <-called:
		t.Error("expected no callback for invalid configuration")
	default:
	}
}

func TestNewWatcher_EmptyPath(t *testing.T) {
	if _, err := NewWatcher("", nil, nil); err == nil {
		t.Error("expected error for empty path")
	}
}

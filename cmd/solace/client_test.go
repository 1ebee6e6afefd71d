package main

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	testhelpers "mercator-hq/solace/internal/providers"
	"mercator-hq/solace/pkg/config"
	"mercator-hq/solace/pkg/conversation"
	"mercator-hq/solace/pkg/safety"
	"mercator-hq/solace/pkg/security/auth"
	"mercator-hq/solace/pkg/server"
)

const testSecret = "abc123"

func newTestProxy(t *testing.T, disclaimer bool) (*httptest.Server, *conversation.Service) {
	t.Helper()

	screen := safety.NewScreen(safety.Options{Disclaimer: disclaimer})
	svc, err := conversation.NewService(conversation.Options{
		Provider:     testhelpers.NewMockProvider("openai", "You are not alone."),
		Authorizer:   auth.NewSecretValidator(testSecret, ""),
		Model:        "gpt-4o",
		SystemPrompt: "You are a compassionate chatbot.",
		Screen:       screen,
	})
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	cfg := config.Default().Server
	srv, err := server.New(&cfg, server.Options{Conversation: svc, Disclaimer: screen.Disclaimer()})
	if err != nil {
		t.Fatalf("server.New failed: %v", err)
	}

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, svc
}

func testFlags(url, secret string) *clientFlags {
	return &clientFlags{url: url + "/", secret: secret, header: "devkey", timeout: 5 * time.Second}
}

func TestChatClient_SendAndClear(t *testing.T) {
	ts, svc := newTestProxy(t, false)
	client := testFlags(ts.URL, testSecret).client()

	resp, err := client.Send(context.Background(), "I had a rough day")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if resp.Reply != "You are not alone." {
		t.Errorf("reply = %q", resp.Reply)
	}
	if resp.Disclaimer != "" {
		t.Errorf("unexpected disclaimer %q", resp.Disclaimer)
	}
	if n := len(svc.Snapshot()); n != 3 {
		t.Errorf("transcript length = %d, want 3", n)
	}

	cleared, err := client.Clear(context.Background())
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if cleared.Message == "" {
		t.Error("expected a clear acknowledgement")
	}
	if n := len(svc.Snapshot()); n != 1 {
		t.Errorf("transcript length after clear = %d, want 1", n)
	}
}

func TestChatClient_Unauthorized(t *testing.T) {
	ts, _ := newTestProxy(t, false)
	client := testFlags(ts.URL, "wrong").client()

	_, err := client.Send(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "Unauthorized (HTTP 401)") {
		t.Errorf("error = %v", err)
	}
}

func TestChatClient_SecretFromEnv(t *testing.T) {
	ts, _ := newTestProxy(t, true)
	t.Setenv("SECRET_KEY", testSecret)

	resp, err := testFlags(ts.URL, "").client().Send(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if resp.Disclaimer != safety.Disclaimer {
		t.Errorf("disclaimer = %q, want %q", resp.Disclaimer, safety.Disclaimer)
	}
}

func TestSendCommand(t *testing.T) {
	ts, _ := newTestProxy(t, false)

	orig := sendFlags
	defer func() { sendFlags = orig }()
	sendFlags = *testFlags(ts.URL, testSecret)

	cmd, buf := newTestCommand()
	if err := sendCmd.RunE(cmd, []string{"I", "feel", "low"}); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "You are not alone." {
		t.Errorf("output = %q", got)
	}
}

func TestClearCommand_Unreachable(t *testing.T) {
	orig := clearFlags
	defer func() { clearFlags = orig }()
	clearFlags = *testFlags("http://127.0.0.1:1", testSecret)

	cmd, _ := newTestCommand()
	if err := clearCmd.RunE(cmd, nil); err == nil {
		t.Error("expected an error for an unreachable proxy")
	}
}

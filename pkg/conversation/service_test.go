package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sourcegraph/conc"

	testhelpers "mercator-hq/solace/internal/providers"
	"mercator-hq/solace/pkg/providers"
	"mercator-hq/solace/pkg/safety"
	"mercator-hq/solace/pkg/security/auth"
)

const (
	testSecret = "abc123"
	testPrompt = "You are a compassionate chatbot."
)

type recorder struct {
	mu        sync.Mutex
	exchanges []Exchange
}

func (r *recorder) ObserveExchange(_ context.Context, ex *Exchange) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exchanges = append(r.exchanges, *ex)
}

func (r *recorder) last() Exchange {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.exchanges[len(r.exchanges)-1]
}

func newTestService(t *testing.T, mock *testhelpers.MockProvider, mutate func(*Options)) (*Service, *recorder) {
	t.Helper()

	rec := &recorder{}
	opts := Options{
		Provider:     mock,
		Authorizer:   auth.NewSecretValidator(testSecret, ""),
		Model:        "gpt-4o",
		SystemPrompt: testPrompt,
		Observers:    []Observer{rec},
	}
	if mutate != nil {
		mutate(&opts)
	}

	svc, err := NewService(opts)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc, rec
}

func TestNewService_Validation(t *testing.T) {
	mock := testhelpers.NewMockProvider("mock", "ok")
	validator := auth.NewSecretValidator(testSecret, "")

	tests := []struct {
		name string
		opts Options
	}{
		{"missing provider", Options{Authorizer: validator, Model: "m"}},
		{"missing authorizer", Options{Provider: mock, Model: "m"}},
		{"missing model", Options{Provider: mock, Authorizer: validator}},
		{"negative max turns", Options{Provider: mock, Authorizer: validator, Model: "m", MaxTurns: -1}},
		{"preserve with one turn", Options{Provider: mock, Authorizer: validator, Model: "m", MaxTurns: 1, PreserveSystemTurn: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewService(tt.opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestService_InitialTranscript(t *testing.T) {
	svc, _ := newTestService(t, testhelpers.NewMockProvider("mock", "ok"), nil)

	turns := svc.Snapshot()
	if len(turns) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(turns))
	}
	if turns[0] != (Turn{Role: providers.RoleSystem, Content: testPrompt}) {
		t.Errorf("unexpected initial turn: %+v", turns[0])
	}
}

func TestService_SendMessage_Scenario(t *testing.T) {
	mock := testhelpers.NewMockProvider("mock", "I'm here for you.")
	svc, rec := newTestService(t, mock, nil)

	reply, err := svc.SendMessage(context.Background(), testSecret, "I feel low today")
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if reply != "I'm here for you." {
		t.Errorf("expected reply %q, got %q", "I'm here for you.", reply)
	}

	turns := svc.Snapshot()
	want := []Turn{
		{Role: providers.RoleSystem, Content: testPrompt},
		{Role: providers.RoleUser, Content: "I feel low today"},
		{Role: providers.RoleAssistant, Content: "I'm here for you."},
	}
	if len(turns) != len(want) {
		t.Fatalf("expected %d turns, got %d", len(want), len(turns))
	}
	for i := range want {
		if turns[i] != want[i] {
			t.Errorf("turn %d = %+v, want %+v", i, turns[i], want[i])
		}
	}

	ex := rec.last()
	if ex.Status != StatusSuccess || ex.MessageLength != len("I feel low today") || ex.TranscriptTurns != 3 {
		t.Errorf("unexpected exchange: %+v", ex)
	}
}

func TestService_SendMessage_SendsWholeTranscript(t *testing.T) {
	mock := testhelpers.NewMockProvider("mock", "reply")
	svc, _ := newTestService(t, mock, nil)
	ctx := context.Background()

	for _, msg := range []string{"one", "two"} {
		if _, err := svc.SendMessage(ctx, testSecret, msg); err != nil {
			t.Fatalf("SendMessage failed: %v", err)
		}
	}

	reqs := mock.Requests()
	if len(reqs) != 2 {
		t.Fatalf("expected 2 provider calls, got %d", len(reqs))
	}
	second := reqs[1]
	if second.Model != "gpt-4o" {
		t.Errorf("expected model gpt-4o, got %s", second.Model)
	}
	roles := make([]string, len(second.Messages))
	for i, m := range second.Messages {
		roles[i] = m.Role
	}
	if got := strings.Join(roles, ","); got != "system,user,assistant,user" {
		t.Errorf("unexpected roles sent: %s", got)
	}
	if second.Messages[3].Content != "two" {
		t.Errorf("expected last message 'two', got %q", second.Messages[3].Content)
	}
}

func TestService_SendMessage_EchoRoundTrip(t *testing.T) {
	mock := testhelpers.NewMockProvider("mock", "")
	mock.OnSend = func(req *providers.CompletionRequest) (string, error) {
		return "echo: " + req.Messages[len(req.Messages)-1].Content, nil
	}
	svc, _ := newTestService(t, mock, nil)

	reply, err := svc.SendMessage(context.Background(), testSecret, "hello")
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if reply != "echo: hello" {
		t.Errorf("unexpected reply %q", reply)
	}

	turns := svc.Snapshot()
	if turns[1] != (Turn{Role: providers.RoleUser, Content: "hello"}) {
		t.Errorf("unexpected user turn: %+v", turns[1])
	}
	if turns[2] != (Turn{Role: providers.RoleAssistant, Content: "echo: hello"}) {
		t.Errorf("unexpected assistant turn: %+v", turns[2])
	}
}

func TestService_Unauthorized(t *testing.T) {
	mock := testhelpers.NewMockProvider("mock", "reply")
	svc, rec := newTestService(t, mock, nil)
	ctx := context.Background()

	if _, err := svc.SendMessage(ctx, testSecret, "first"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	before := svc.Snapshot()

	for _, credential := range []string{"wrong", "", "ABC123"} {
		if _, err := svc.SendMessage(ctx, credential, "hi"); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("SendMessage(%q): expected ErrUnauthorized, got %v", credential, err)
		}
		if err := svc.ClearHistory(ctx, credential); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("ClearHistory(%q): expected ErrUnauthorized, got %v", credential, err)
		}
	}

	if after := svc.Snapshot(); len(after) != len(before) {
		t.Errorf("transcript changed: %d -> %d turns", len(before), len(after))
	}
	if mock.CallCount() != 1 {
		t.Errorf("provider should not be called for unauthorized requests, got %d calls", mock.CallCount())
	}
	if rec.last().Status != StatusUnauthorized {
		t.Errorf("expected unauthorized exchange, got %s", rec.last().Status)
	}
}

func TestService_EmptyMessage(t *testing.T) {
	mock := testhelpers.NewMockProvider("mock", "reply")
	svc, _ := newTestService(t, mock, nil)

	_, err := svc.SendMessage(context.Background(), testSecret, "")
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
	if len(svc.Snapshot()) != 1 {
		t.Error("transcript must not change on bad request")
	}
	if mock.CallCount() != 0 {
		t.Error("provider must not be called on bad request")
	}
}

func TestService_UnauthorizedCheckedBeforeMessage(t *testing.T) {
	svc, _ := newTestService(t, testhelpers.NewMockProvider("mock", "reply"), nil)

	if _, err := svc.SendMessage(context.Background(), "wrong", ""); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestService_UpstreamErrorKeepsUserTurn(t *testing.T) {
	mock := testhelpers.NewMockProvider("mock", "")
	cause := &providers.RateLimitError{Provider: "mock", Message: "slow down"}
	mock.SetError(cause)
	svc, rec := newTestService(t, mock, nil)

	_, err := svc.SendMessage(context.Background(), testSecret, "are you there?")

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected *UpstreamError, got %T: %v", err, err)
	}
	var rateLimit *providers.RateLimitError
	if !errors.As(err, &rateLimit) {
		t.Error("expected the provider error to be reachable through Unwrap")
	}
	if !IsUpstream(err) {
		t.Error("IsUpstream should report true")
	}

	turns := svc.Snapshot()
	if len(turns) != 2 || turns[1].Content != "are you there?" {
		t.Errorf("expected the user turn to remain, got %+v", turns)
	}
	if ex := rec.last(); ex.Status != StatusUpstreamError || ex.ErrorType != providers.ErrorTypeRateLimit {
		t.Errorf("unexpected exchange: %+v", ex)
	}
}

func TestService_TranscriptLengthAfterNSends(t *testing.T) {
	for _, n := range []int{1, 5, 9, 10, 11, 15, 25} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			svc, _ := newTestService(t, testhelpers.NewMockProvider("mock", "reply"), nil)
			for i := 0; i < n; i++ {
				if _, err := svc.SendMessage(context.Background(), testSecret, fmt.Sprintf("m%d", i)); err != nil {
					t.Fatalf("send %d failed: %v", i, err)
				}
			}

			want := min(1+2*n, 20)
			if got := len(svc.Snapshot()); got != want {
				t.Errorf("expected %d turns, got %d", want, got)
			}
		})
	}
}

func TestService_TwentyFiveSendsEvictsSystemTurn(t *testing.T) {
	mock := testhelpers.NewMockProvider("mock", "")
	mock.OnSend = func(req *providers.CompletionRequest) (string, error) {
		return "r-" + req.Messages[len(req.Messages)-1].Content, nil
	}
	svc, rec := newTestService(t, mock, nil)

	for i := 0; i < 25; i++ {
		if _, err := svc.SendMessage(context.Background(), testSecret, fmt.Sprintf("m%d", i)); err != nil {
			t.Fatalf("send %d failed: %v", i, err)
		}
	}

	turns := svc.Snapshot()
	if len(turns) != 20 {
		t.Fatalf("expected 20 turns, got %d", len(turns))
	}
	for i := 0; i < 10; i++ {
		msg := fmt.Sprintf("m%d", 15+i)
		user, assistant := turns[2*i], turns[2*i+1]
		if user != (Turn{Role: providers.RoleUser, Content: msg}) {
			t.Errorf("turn %d = %+v, want user %s", 2*i, user, msg)
		}
		if assistant != (Turn{Role: providers.RoleAssistant, Content: "r-" + msg}) {
			t.Errorf("turn %d = %+v, want assistant r-%s", 2*i+1, assistant, msg)
		}
	}
	if rec.last().Truncated != 2 {
		t.Errorf("expected 2 turns dropped by the last send, got %d", rec.last().Truncated)
	}
}

func TestService_PreserveSystemTurn(t *testing.T) {
	svc, _ := newTestService(t, testhelpers.NewMockProvider("mock", "reply"), func(o *Options) {
		o.PreserveSystemTurn = true
	})

	for i := 0; i < 25; i++ {
		if _, err := svc.SendMessage(context.Background(), testSecret, fmt.Sprintf("m%d", i)); err != nil {
			t.Fatalf("send %d failed: %v", i, err)
		}
	}

	turns := svc.Snapshot()
	if len(turns) != 20 {
		t.Fatalf("expected 20 turns, got %d", len(turns))
	}
	if turns[0] != (Turn{Role: providers.RoleSystem, Content: testPrompt}) {
		t.Errorf("system turn not preserved: %+v", turns[0])
	}
	if turns[19].Role != providers.RoleAssistant || turns[18].Content != "m24" {
		t.Errorf("expected the most recent exchange last, got %+v %+v", turns[18], turns[19])
	}
}

func TestService_CapHoldsAfterFailedSend(t *testing.T) {
	mock := testhelpers.NewMockProvider("mock", "reply")
	svc, _ := newTestService(t, mock, func(o *Options) { o.MaxTurns = 4 })
	ctx := context.Background()

	if _, err := svc.SendMessage(ctx, testSecret, "a"); err != nil {
		t.Fatal(err)
	}
	mock.SetError(&providers.ProviderError{Provider: "mock", StatusCode: 502, Message: "bad gateway"})
	for i := 0; i < 3; i++ {
		_, _ = svc.SendMessage(ctx, testSecret, "b")
	}

	if got := len(svc.Snapshot()); got != 4 {
		t.Errorf("expected cap of 4 turns after failed sends, got %d", got)
	}
}

func TestService_ClearHistory(t *testing.T) {
	svc, rec := newTestService(t, testhelpers.NewMockProvider("mock", "reply"), nil)
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		if _, err := svc.SendMessage(ctx, testSecret, "x"); err != nil {
			t.Fatal(err)
		}
	}

	if err := svc.ClearHistory(ctx, testSecret); err != nil {
		t.Fatalf("ClearHistory failed: %v", err)
	}

	turns := svc.Snapshot()
	if len(turns) != 1 || turns[0] != (Turn{Role: providers.RoleSystem, Content: testPrompt}) {
		t.Errorf("expected only the system turn, got %+v", turns)
	}
	if ex := rec.last(); ex.Operation != OperationClear || ex.TranscriptTurns != 1 {
		t.Errorf("unexpected exchange: %+v", ex)
	}
}

func TestService_CrisisScreen(t *testing.T) {
	mock := testhelpers.NewMockProvider("mock", "model reply")
	svc, rec := newTestService(t, mock, func(o *Options) {
		o.Screen = safety.NewScreen(safety.Options{CrisisDetection: true})
	})

	reply, err := svc.SendMessage(context.Background(), testSecret, "I want to end my life")
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if reply != safety.CrisisReply {
		t.Errorf("expected crisis reply, got %q", reply)
	}
	if mock.CallCount() != 0 {
		t.Error("provider must not be called for a crisis message")
	}
	if turns := svc.Snapshot(); len(turns) != 3 || turns[2].Content != safety.CrisisReply {
		t.Errorf("expected crisis reply in transcript, got %+v", turns)
	}
	if rec.last().Status != StatusCrisis {
		t.Errorf("expected crisis status, got %s", rec.last().Status)
	}
}

func TestService_SecretRotation(t *testing.T) {
	validator := auth.NewSecretValidator("old", "")
	svc, _ := newTestService(t, testhelpers.NewMockProvider("mock", "reply"), func(o *Options) {
		o.Authorizer = validator
	})

	validator.Rotate("new", "")

	if svc.Authorize("old") {
		t.Error("old secret accepted after rotation")
	}
	if _, err := svc.SendMessage(context.Background(), "new", "hi"); err != nil {
		t.Errorf("new secret rejected: %v", err)
	}
}

func TestService_ConcurrentSendsAreSerialized(t *testing.T) {
	mock := testhelpers.NewMockProvider("mock", "")

	var inFlight, maxInFlight int
	var mu sync.Mutex
	mock.OnSend = func(req *providers.CompletionRequest) (string, error) {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()

		last := req.Messages[len(req.Messages)-1].Content
		time.Sleep(time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
		return "re:" + last, nil
	}

	svc, _ := newTestService(t, mock, func(o *Options) { o.MaxTurns = 1000 })

	const senders = 20
	var wg conc.WaitGroup
	for i := 0; i < senders; i++ {
		msg := fmt.Sprintf("msg-%d", i)
		wg.Go(func() {
			if _, err := svc.SendMessage(context.Background(), testSecret, msg); err != nil {
				t.Errorf("send %s failed: %v", msg, err)
			}
		})
	}
	wg.Wait()

	if maxInFlight != 1 {
		t.Errorf("expected provider calls to be serialized, saw %d in flight", maxInFlight)
	}

	turns := svc.Snapshot()
	if len(turns) != 1+2*senders {
		t.Fatalf("expected %d turns, got %d", 1+2*senders, len(turns))
	}
	// Every user turn is immediately followed by its own reply
	for i := 1; i < len(turns); i += 2 {
		if turns[i].Role != providers.RoleUser || turns[i+1].Role != providers.RoleAssistant {
			t.Fatalf("unexpected roles at %d: %s, %s", i, turns[i].Role, turns[i+1].Role)
		}
		if turns[i+1].Content != "re:"+turns[i].Content {
			t.Errorf("reply %q does not answer %q", turns[i+1].Content, turns[i].Content)
		}
	}
}

func TestService_CancelledContext(t *testing.T) {
	mock := testhelpers.NewMockProvider("mock", "reply")
	mock.Gate = make(chan struct{})
	svc, _ := newTestService(t, mock, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.SendMessage(ctx, testSecret, "hi")
	if !IsUpstream(err) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain, got %v", err)
	}
}

func TestService_Stats(t *testing.T) {
	svc, _ := newTestService(t, testhelpers.NewMockProvider("mock", "reply"), nil)

	if _, err := svc.SendMessage(context.Background(), testSecret, "hi"); err != nil {
		t.Fatal(err)
	}

	st := svc.Stats()
	want := Stats{Turns: 3, UserTurns: 1, AssistantTurns: 1, HasSystemTurn: true, Exchanges: 1, MaxTurns: 20}
	if st != want {
		t.Errorf("Stats() = %+v, want %+v", st, want)
	}
}

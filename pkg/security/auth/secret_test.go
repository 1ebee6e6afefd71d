package auth

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestSecretValidator_Plain(t *testing.T) {
	v := NewSecretValidator("letmein", "")

	tests := []struct {
		name       string
		credential string
		want       bool
	}{
		{"exact match", "letmein", true},
		{"wrong secret", "letmeout", false},
		{"prefix only", "letme", false},
		{"longer", "letmein!", false},
		{"case differs", "LetMeIn", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.Authorize(tt.credential); got != tt.want {
				t.Errorf("Authorize(%q) = %v, want %v", tt.credential, got, tt.want)
			}
		})
	}
}

func TestSecretValidator_Hash(t *testing.T) {
	hash, err := Hash("letmein", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected bcrypt hash, got %q", hash)
	}

	// The hash wins over a plain secret
	v := NewSecretValidator("other", hash)

	if !v.Authorize("letmein") {
		t.Error("expected hashed secret to authorize")
	}
	if v.Authorize("other") {
		t.Error("plain secret must be ignored when a hash is set")
	}
	if v.Authorize(hash) {
		t.Error("the hash itself must not authorize")
	}
}

func TestSecretValidator_NoSecretRejectsAll(t *testing.T) {
	v := NewSecretValidator("", "")

	if v.Configured() {
		t.Error("expected unconfigured validator")
	}
	for _, credential := range []string{"", "anything", "devkey"} {
		if v.Authorize(credential) {
			t.Errorf("unconfigured validator authorized %q", credential)
		}
	}
}

func TestSecretValidator_Rotate(t *testing.T) {
	v := NewSecretValidator("old", "")

	v.Rotate("new", "")

	if v.Authorize("old") {
		t.Error("old secret still accepted after rotation")
	}
	if !v.Authorize("new") {
		t.Error("new secret rejected after rotation")
	}

	v.Rotate("", "")
	if v.Configured() || v.Authorize("new") {
		t.Error("rotating to empty should reject everything")
	}
}

func TestSecretValidator_ConcurrentRotate(t *testing.T) {
	v := NewSecretValidator("a", "")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			v.Rotate("b", "")
		}()
		go func() {
			defer wg.Done()
			_ = v.Authorize("a")
		}()
	}
	wg.Wait()

	if !v.Authorize("b") {
		t.Error("expected final secret b")
	}
}

func TestHash_Empty(t *testing.T) {
	if _, err := Hash("", 0); !errors.Is(err, ErrNoSecret) {
		t.Errorf("expected ErrNoSecret, got %v", err)
	}
}

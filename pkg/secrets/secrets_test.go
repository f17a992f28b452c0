package secrets_test

import (
	"errors"
	"testing"

	"github.com/JaimeStill/trendr/pkg/secrets"
)

func TestSealOpen(t *testing.T) {
	box, err := secrets.New("master-secret")
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	token, err := box.Seal("sk-test-1234", "workspace-a/openai")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if token == "sk-test-1234" {
		t.Fatal("token equals plaintext")
	}

	got, err := box.Open(token, "workspace-a/openai")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got != "sk-test-1234" {
		t.Errorf("got %q", got)
	}
}

func TestOpenRejectsWrongScopeOrKey(t *testing.T) {
	box, _ := secrets.New("master-secret")
	other, _ := secrets.New("other-secret")

	token, err := box.Seal("sk-test-1234", "workspace-a/openai")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}

	tests := []struct {
		name  string
		box   *secrets.Box
		token string
		scope string
	}{
		{"wrong scope", box, token, "workspace-b/openai"},
		{"wrong key", other, token, "workspace-a/openai"},
		{"not base64", box, "%%%", "workspace-a/openai"},
		{"truncated", box, token[:8], "workspace-a/openai"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.box.Open(tt.token, tt.scope)
			if !errors.Is(err, secrets.ErrInvalidCiphertext) {
				t.Errorf("got %v, want ErrInvalidCiphertext", err)
			}
		})
	}
}

func TestNewEmptyKey(t *testing.T) {
	if _, err := secrets.New(""); !errors.Is(err, secrets.ErrEmptyKey) {
		t.Errorf("got %v, want ErrEmptyKey", err)
	}
}

func TestHint(t *testing.T) {
	tests := map[string]string{
		"sk-abcdef1234": "***1234",
		"abc":           "***",
		" sk-xyz9876 ":  "***9876",
	}
	for in, want := range tests {
		if got := secrets.Hint(in); got != want {
			t.Errorf("Hint(%q): got %q, want %q", in, got, want)
		}
	}
}

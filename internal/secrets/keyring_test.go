package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestKeyringRoundTrip(t *testing.T) {
	k := &Keyring{Dir: filepath.Join(t.TempDir(), "mindmap")}
	if err := k.Put(" Gemini ", " secret-1 "); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := k.Get("gemini")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "secret-1" {
		t.Fatalf("Get = %q, want secret-1", got)
	}

	data, err := os.ReadFile(filepath.Join(k.Dir, fileName))
	if err != nil {
		t.Fatalf("read key file: %v", err)
	}
	if strings.Contains(string(data), "secret-1") {
		t.Fatal("key stored in plain text")
	}
}

func TestKeyringMissingAndDelete(t *testing.T) {
	k := &Keyring{Dir: t.TempDir()}
	if _, err := k.Get("openai"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty keyring = %v, want ErrNotFound", err)
	}
	if err := k.Put("openai", "sk-1"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := k.Delete("OpenAI"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := k.Get("openai"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete = %v, want ErrNotFound", err)
	}
	if err := k.Delete("openai"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestKeyringRejectsBlank(t *testing.T) {
	k := &Keyring{Dir: t.TempDir()}
	if err := k.Put("gemini", "  "); err == nil {
		t.Fatal("expected error for blank key")
	}
	if err := k.Put("", "x"); err == nil {
		t.Fatal("expected error for blank provider")
	}
}

func TestKeyringCorruptFile(t *testing.T) {
	k := &Keyring{Dir: t.TempDir()}
	if err := os.WriteFile(filepath.Join(k.Dir, fileName), []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := k.Get("gemini"); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on corrupt file = %v, want parse error", err)
	}
}

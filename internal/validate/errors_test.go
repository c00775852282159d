package validate

import (
	"testing"

	"record-validate/internal/engine"
)

func TestNormalizeErrors_LastMessageWins(t *testing.T) {
	raw := engine.RawErrors{
		"password": {"password is required", "password is too short"},
	}
	got := NormalizeErrors(raw)
	if got["password"] != "password is too short" {
		t.Fatalf("expected last message to win, got %q", got["password"])
	}
}

func TestNormalizeErrors_PassIsNilSentinel(t *testing.T) {
	if got := NormalizeErrors(nil); got != nil {
		t.Fatalf("expected nil sentinel for nil raw errors, got %v", got)
	}
	if got := NormalizeErrors(engine.RawErrors{}); got != nil {
		t.Fatalf("expected nil sentinel for empty raw errors, got %v", got)
	}
	// Fields with empty message lists are not failures.
	if got := NormalizeErrors(engine.RawErrors{"email": {}}); got != nil {
		t.Fatalf("expected nil sentinel when no field has messages, got %v", got)
	}
}

func TestNormalizeErrors_OmitsPassingFields(t *testing.T) {
	raw := engine.RawErrors{
		"email": {"email must be a valid email address"},
		"name":  {},
	}
	got := NormalizeErrors(raw)
	if len(got) != 1 {
		t.Fatalf("expected only failing fields, got %v", got)
	}
	if _, ok := got["name"]; ok {
		t.Fatal("field without failures must be omitted")
	}
}

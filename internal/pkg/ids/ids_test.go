package ids

import (
	"strings"
	"testing"
)

func TestNewULIDIsMonotonic(t *testing.T) {
	prev := NewULID()
	for i := 0; i < 100; i++ {
		next := NewULID()
		if next <= prev {
			t.Fatalf("ulid not increasing: %s <= %s", next, prev)
		}
		prev = next
	}
}

func TestNewToken(t *testing.T) {
	tok := NewToken()
	if len(tok) != 32 {
		t.Fatalf("token length = %d", len(tok))
	}
	if tok != strings.ToUpper(tok) {
		t.Fatalf("token not upper-case: %s", tok)
	}
	if NewToken() == tok {
		t.Fatal("tokens should not repeat")
	}
}

func TestNewDigits(t *testing.T) {
	code, err := NewDigits(6)
	if err != nil {
		t.Fatalf("NewDigits: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("len = %d", len(code))
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			t.Fatalf("non-digit in %s", code)
		}
	}
}

func TestWithPrefix(t *testing.T) {
	id, err := WithPrefix("LAN", 10)
	if err != nil {
		t.Fatalf("WithPrefix: %v", err)
	}
	if !strings.HasPrefix(id, "LAN") || len(id) != 13 {
		t.Fatalf("unexpected id %s", id)
	}
}

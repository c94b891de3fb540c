package store

import "testing"

func TestNullableString(t *testing.T) {
	if got := nullableString(""); got != nil {
		t.Fatalf("expected nil for empty string, got %q", *got)
	}
	if got := nullableString("ref"); got == nil || *got != "ref" {
		t.Fatal("expected pointer to non-empty string")
	}
}

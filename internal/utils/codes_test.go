package utils

import "testing"

func TestNewNumericCodeRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := NewNumericCode()
		if err != nil {
			t.Fatalf("NewNumericCode: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q is not 6 digits", code)
		}
		if code[0] == '0' {
			t.Fatalf("code %q has a leading zero", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("code %q contains non-digit %q", code, r)
			}
		}
	}
}

func TestNewOpaqueToken(t *testing.T) {
	a, err := NewOpaqueToken(32)
	if err != nil {
		t.Fatalf("NewOpaqueToken: %v", err)
	}
	if len(a) != 64 { // 32 bytes hex-encoded
		t.Fatalf("token length = %d, want 64", len(a))
	}
	b, _ := NewOpaqueToken(32)
	if a == b {
		t.Fatal("two tokens are identical")
	}

	// zero size falls back to the 32-byte default
	d, err := NewOpaqueToken(0)
	if err != nil {
		t.Fatalf("NewOpaqueToken(0): %v", err)
	}
	if len(d) != 64 {
		t.Fatalf("default token length = %d, want 64", len(d))
	}
}

package validators

import "testing"

func TestSanitizeStringTrimsAndStripsControls(t *testing.T) {
	got := SanitizeString("  Rahim\x00 Uddin\n", 0)
	if got != "Rahim Uddin" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestSanitizeStringCapsRunesNotBytes(t *testing.T) {
	// Four Bengali characters, twelve bytes.
	input := "ঢাকা জেলা"
	got := SanitizeString(input, 4)
	if got != "ঢাকা" {
		t.Fatalf("expected rune-safe cap, got %q", got)
	}
}

func TestSanitizeStringShortInputUntouched(t *testing.T) {
	if got := SanitizeString("Sylhet", 120); got != "Sylhet" {
		t.Fatalf("unexpected result %q", got)
	}
}

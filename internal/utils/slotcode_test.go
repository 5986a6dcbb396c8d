package utils

import "testing"

func TestValidSlotCode(t *testing.T) {
	valid := []string{"M1001", "A0000", "Z9999", "C2005"}
	for _, code := range valid {
		if !ValidSlotCode(code) {
			t.Errorf("ValidSlotCode(%q) = false, want true", code)
		}
	}

	invalid := []string{
		"",        // empty
		"m1001",   // lowercase letter
		"M100",    // too few digits
		"M10011",  // too many digits
		"MM1001",  // two letters
		"1234A",   // digits first
		"M 1001",  // embedded space
		"M1001\n", // trailing newline
		"É1001",   // non-ASCII letter
	}
	for _, code := range invalid {
		if ValidSlotCode(code) {
			t.Errorf("ValidSlotCode(%q) = true, want false", code)
		}
	}
}

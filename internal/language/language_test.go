package language

import "testing"

func TestName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"en", "English"},
		{"es", "Spanish"},
		{"zh", "Chinese"},
		{"", "Auto-detect"},
		{"xx", "xx"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := Name(tt.code); got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"en", true},
		{"it", true},
		{"", true}, // auto
		{"invalid", false},
		{"EN", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := IsValid(tt.code); got != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestCodes(t *testing.T) {
	codes := Codes()
	if len(codes) != 57 {
		t.Fatalf("Codes() returned %d codes, want 57", len(codes))
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Fatalf("Codes() not sorted at %d: %q >= %q", i, codes[i-1], codes[i])
		}
	}
}

func TestForWhisperCLI(t *testing.T) {
	if got := ForWhisperCLI(""); got != "auto" {
		t.Errorf("ForWhisperCLI(\"\") = %q, want auto", got)
	}
	if got := ForWhisperCLI("de"); got != "de" {
		t.Errorf("ForWhisperCLI(\"de\") = %q, want de", got)
	}
}

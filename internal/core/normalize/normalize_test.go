package normalize

import "testing"

func TestValue_Table(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  string
	}{
		{"identity", "Moby Dick", "Moby Dick"},
		{"empty", "", ""},
		{"invalid bytes dropped", string([]byte{0xff, 'd', 'u', 'n', 'e', 0x80}), "dune"},
		{"controls dropped", "du\x00ne\x7f", "dune"},
		{"zero widths removed", "Mel\u200bvi\u200dlle\ufeff", "Melville"},
		{"soft hyphen removed", "bib\u00adliography", "bibliography"},
		{"fullwidth digits folded", "\uff29\uff33\uff22\uff2e\uff19\uff17\uff18", "ISBN978"},
		{"whitespace collapsed and trimmed", "  war \t and\n\npeace  ", "war and peace"},
		{"nbsp collapsed", "les\u00a0mis\u00e9rables", "les mis\u00e9rables"},
		{"case and diacritics kept", "\u00c9lo\u00efse", "\u00c9lo\u00efse"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Value(tc.in); got != tc.out {
				t.Fatalf("Value(%q) = %q, want %q", tc.in, got, tc.out)
			}
		})
	}
}

func TestSanitize_CleanInputUnchanged(t *testing.T) {
	in := "tabs\tand\nlines stay"
	if got := Sanitize(in); got != in {
		t.Fatalf("Sanitize = %q", got)
	}
}

package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"London_2026-09-01", "London_2026-09-01"},
		{"a/b\\c:d", "a-b-c-d"},
		{`what?"<>|`, "what"},
		{"  padded  ", "padded"},
		{"São Paulo", "São Paulo"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := SanitizeFileName(tc.input); got != tc.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

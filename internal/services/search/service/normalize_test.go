package service

import "testing"

func TestNormalizeText_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		out  string
	}{
		{
			name: "identity ascii",
			in:   "hello world",
			out:  "hello world",
		},
		{
			name: "utf8 repair drops invalid bytes",
			in:   string([]byte{0xff, 'f', 'o', 'o', 0x80, ' ', 'b', 'a', 'r'}),
			out:  "foo bar",
		},
		{
			name: "case fold",
			in:   "QuArTeRlY RePoRt",
			out:  "quarterly report",
		},
		{
			name: "remove zero-widths",
			in:   "re​port‍", // ZERO WIDTH SPACE + ZERO WIDTH JOINER
			out:  "report",
		},
		{
			name: "remove combining marks",
			in:   "café menu",
			out:  "cafe menu",
		},
		{
			name: "width fold fullwidth",
			in:   "ＲＥＰＯＲＴ ４２",
			out:  "report 42",
		},
		{
			name: "nfkc ligature",
			in:   "oﬃce",
			out:  "office",
		},
		{
			name: "collapse whitespace",
			in:   "  a\t\tb\nc   d  ",
			out:  "a b c d",
		},
		{
			name: "empty stays empty",
			in:   "",
			out:  "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := normalizeText(tc.in); got != tc.out {
				t.Fatalf("normalizeText(%q) = %q, want %q", tc.in, got, tc.out)
			}
		})
	}
}

func TestPlainExtractor_MimeRouting(t *testing.T) {
	t.Parallel()
	ex := PlainExtractor{}

	tests := []struct {
		mime string
		want string
	}{
		{"text/plain", "body"},
		{"text/markdown", "body"},
		{"application/json", "body"},
		{"", "body"},
		{"application/pdf", ""},
		{"image/png", ""},
	}
	for _, tc := range tests {
		got, err := ex.Extract(tc.mime, "body")
		if err != nil {
			t.Fatalf("extract %s: %v", tc.mime, err)
		}
		if got != tc.want {
			t.Fatalf("extract %s = %q, want %q", tc.mime, got, tc.want)
		}
	}
}

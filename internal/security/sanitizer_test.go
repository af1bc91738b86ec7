package security

import "testing"

func TestSanitizer_StripMarkup(t *testing.T) {
	s := NewSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "hello world", "hello world"},
		{"empty", "", ""},
		{"ampersand preserved", "Tom & Jerry", "Tom & Jerry"},
		{"tags removed", "<b>bold</b> move", "bold move"},
		{"script removed entirely", "hi<script>alert(1)</script>", "hi"},
		{"attributes dropped", `<a href="https://x.test" onclick="x()">link</a>`, "link"},
		{"angle bracket comparison kept as text", "1 &lt; 2", "1 < 2"},
		{"encoded script removed", "&lt;script&gt;alert(1)&lt;/script&gt;", ""},
		{"encoded tags removed", "hi &lt;b&gt;there&lt;/b&gt;", "hi there"},
		{"double encoded tags removed", "&amp;lt;i&amp;gt;x&amp;lt;/i&amp;gt;", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.StripMarkup(tt.input); got != tt.want {
				t.Errorf("StripMarkup(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizer_StripMarkup_OnlyMarkupBecomesEmpty(t *testing.T) {
	s := NewSanitizer()
	if got := s.StripMarkup("<img src=x onerror=alert(1)>"); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

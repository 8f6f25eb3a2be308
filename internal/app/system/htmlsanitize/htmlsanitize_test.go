package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/aftershift/internal/app/system/htmlsanitize"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []string
		notWant []string
	}{
		{
			name: "empty",
			in:   "",
		},
		{
			name: "article body keeps formatting",
			in:   "<h2>Pool reopening</h2><p>The <strong>rooftop pool</strong> reopens <em>Monday</em>.</p><ul><li>7am</li></ul>",
			want: []string{"<h2>", "<strong>rooftop pool</strong>", "<em>Monday</em>", "<li>7am</li>"},
		},
		{
			name:    "script removed",
			in:      `<p>Open house</p><script>document.cookie</script>`,
			want:    []string{"<p>Open house</p>"},
			notWant: []string{"<script", "document.cookie"},
		},
		{
			name:    "event handlers removed",
			in:      `<p onclick="steal()">Tour</p><img src="/tour.jpg" onerror="steal()">`,
			want:    []string{"<p>Tour</p>", `src="/tour.jpg"`},
			notWant: []string{"onclick", "onerror"},
		},
		{
			name:    "javascript links removed",
			in:      `<a href="javascript:alert(1)">Book</a> <a href="https://example.com/units">Units</a>`,
			want:    []string{`href="https://example.com/units"`},
			notWant: []string{"javascript:"},
		},
		{
			name:    "frames and forms removed",
			in:      `<iframe src="https://evil.example"></iframe><form><input name="card"></form><p>ok</p>`,
			want:    []string{"<p>ok</p>"},
			notWant: []string{"<iframe", "<form", "<input"},
		},
		{
			name: "rate table keeps layout attributes",
			in:   `<table class="rates" style="width: 100%"><tr><td colspan="2" style="text-align: right">Studio</td></tr></table>`,
			want: []string{`class="rates"`, `colspan="2"`, "text-align: right", "Studio"},
		},
		{
			name: "extra inline elements allowed",
			in:   "<p><u>Note</u> H<sub>2</sub>O <mark>new</mark></p><hr>",
			want: []string{"<u>Note</u>", "<sub>2</sub>", "<mark>new</mark>", "<hr"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := htmlsanitize.Sanitize(tt.in)
			if tt.in == "" && got != "" {
				t.Fatalf("Sanitize(\"\") = %q", got)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("missing %q in %q", w, got)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(got, nw) {
					t.Errorf("unexpected %q in %q", nw, got)
				}
			}
		})
	}
}

func TestIsPlainText(t *testing.T) {
	tests := map[string]bool{
		"":                   true,
		"Rent is due Friday": true,
		"3 > 2":              true,
		"<p>Rent is due</p>": false,
		"a < b but c > d":    false,
		"<unterminated":      true,
	}
	for in, want := range tests {
		if got := htmlsanitize.IsPlainText(in); got != want {
			t.Errorf("IsPlainText(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestPlainTextToHTML(t *testing.T) {
	got := htmlsanitize.PlainTextToHTML("Dear guest,\r\nUnit 4 & 5 are <available>.")
	want := "<p>Dear guest,<br>Unit 4 &amp; 5 are &lt;available&gt;.</p>"
	if got != want {
		t.Errorf("PlainTextToHTML = %q, want %q", got, want)
	}
	if htmlsanitize.PlainTextToHTML("") != "" {
		t.Error("empty input should stay empty")
	}
}

func TestPrepareForDisplay(t *testing.T) {
	plain := string(htmlsanitize.PrepareForDisplay("line one\nline two"))
	if plain != "<p>line one<br>line two</p>" {
		t.Errorf("plain text = %q", plain)
	}

	rich := string(htmlsanitize.PrepareForDisplay(`<p>Lobby <b>renovated</b></p><script>x()</script>`))
	if !strings.Contains(rich, "<b>renovated</b>") || strings.Contains(rich, "<script") {
		t.Errorf("html = %q", rich)
	}

	if htmlsanitize.PrepareForDisplay("") != "" {
		t.Error("empty input should stay empty")
	}
}

func TestMarkdown(t *testing.T) {
	got := string(htmlsanitize.Markdown("Hello **there**\nsecond line\n\n<script>alert(1)</script>"))
	for _, w := range []string{"<strong>there</strong>", "<br"} {
		if !strings.Contains(got, w) {
			t.Errorf("missing %q in %q", w, got)
		}
	}
	if strings.Contains(got, "<script>") {
		t.Errorf("raw html should be dropped, got %q", got)
	}

	if htmlsanitize.Markdown("  \n ") != "" {
		t.Error("blank markdown should render empty")
	}
}

package text

import "testing"

func TestSanitizeStripsMarkdownAndUnicode(t *testing.T) {
	got := Sanitize("Hello *world* \U0001F44B café")
	// Emphasis markers and the emoji go away; the accent decomposes and
	// drops its combining mark, keeping the base letter.
	want := "Hello world  cafe"
	if got != want {
		t.Fatalf("Sanitize = %q, want %q", got, want)
	}
}

func TestSanitizeReplacesMarkdownLinks(t *testing.T) {
	got := Sanitize("Join [Women Coding Community](https://example.com/wcc) today!")
	want := "Join Women Coding Community today!"
	if got != want {
		t.Fatalf("Sanitize = %q, want %q", got, want)
	}
}

func TestSanitizeDeletesEmphasisRunsEntirely(t *testing.T) {
	got := Sanitize("a**b__c~~d`e")
	if got != "abcde" {
		t.Fatalf("Sanitize = %q, want %q", got, "abcde")
	}
}

func TestSanitizeKeepsRightSingleQuote(t *testing.T) {
	got := Sanitize("It’s Sarah’s talk")
	want := "It’s Sarah’s talk"
	if got != want {
		t.Fatalf("Sanitize = %q, want %q", got, want)
	}
}

func TestSanitizeKeepsAllowedPunctuationAndWhitespace(t *testing.T) {
	in := "Q&A; line1\nline2\ttab (details): 50% off!"
	got := Sanitize(in)
	// & and % are outside the allow-list and disappear without spacing.
	want := "QA; line1\nline2\ttab (details): 50 off!"
	if got != want {
		t.Fatalf("Sanitize = %q, want %q", got, want)
	}
}

func TestSanitizeEmpty(t *testing.T) {
	if got := Sanitize(""); got != "" {
		t.Fatalf("Sanitize(\"\") = %q, want empty", got)
	}
}

func TestCleanName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"**Jane Doe**", "Jane Doe"},
		{"  Jane Doe  ", "Jane Doe"},
		{"[Jane Doe](https://example.com/jane)", "Jane Doe"},
		{"Jane Doe | Staff Engineer at Acme", "Jane Doe"},
		{"*[Jane](https://example.com)* | bio", "Jane"},
		{"___", ""},
	}
	for _, c := range cases {
		if got := CleanName(c.in); got != c.want {
			t.Errorf("CleanName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

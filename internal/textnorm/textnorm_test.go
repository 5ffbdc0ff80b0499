package textnorm

import "testing"

func TestDecodeEntities_DoubleEncoded(t *testing.T) {
	if got := DecodeEntities("&amp;lt;script&amp;gt;"); got != "<script>" {
		t.Fatalf("DecodeEntities = %q, want %q", got, "<script>")
	}
}

func TestDecodeEntities_FixedPoint(t *testing.T) {
	inputs := []string{
		"&amp;lt;script&amp;gt;",
		"&#x27;quoted&#x27;",
		"&#8211; dash",
		"plain text",
		"a &amp; b",
	}
	for _, in := range inputs {
		once := DecodeEntities(in)
		twice := DecodeEntities(once)
		if once != twice {
			t.Errorf("DecodeEntities not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"tags", "<p>Hello <b>world</b></p>", "Hello world"},
		{"comments", "before<!-- hidden -->after", "beforeafter"},
		{"script body", "<div>keep</div><script>var x = 1;</script>", "keep"},
		{"whitespace runs", "a\n\n  b\t\tc", "a b c"},
		{"plain", "  already plain  ", "already plain"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripHTML(tt.in); got != tt.want {
				t.Fatalf("StripHTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanDescription_OrderMatters(t *testing.T) {
	// Encoded markup decodes into tags first, which are then stripped.
	got := CleanDescription("Needs &lt;b&gt;Go&lt;/b&gt; and SQL")
	if got != "Needs Go and SQL" {
		t.Fatalf("CleanDescription = %q", got)
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  Senior GO Developer "); got != "senior go developer" {
		t.Fatalf("Normalize = %q", got)
	}
}

package pipeline

import (
	"strings"
	"testing"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  map[Kind][]string // expected literal contents per kind
	}{
		{
			name:  "fenced code with language",
			input: "```python\n\n  print(1)\n\n```",
			want:  map[Kind][]string{KindCode: {"  print(1)"}},
		},
		{
			name:  "code before math",
			input: "```\n$a$\n```\n$b$",
			want:  map[Kind][]string{KindCode: {"$a$"}, KindInlineMath: {"b"}},
		},
		{
			name:  "display before inline",
			input: "$$x$$ and $y$",
			want:  map[Kind][]string{KindDisplayMath: {"x"}, KindInlineMath: {"y"}},
		},
		{
			name:  "multiline display math",
			input: "$$\na\nb\n$$",
			want:  map[Kind][]string{KindDisplayMath: {"a\nb"}},
		},
		{
			name:  "inline math does not cross lines",
			input: "costs $5\nand $x$",
			want:  map[Kind][]string{KindInlineMath: {"x"}},
		},
		{
			name:  "escaped dollar is not a delimiter",
			input: `\$a$ b$`,
			want:  map[Kind][]string{KindInlineMath: {"b"}, KindEscape: {"$"}},
		},
		{
			name:  "double backslash does not escape",
			input: `\\$a$`,
			want:  map[Kind][]string{KindInlineMath: {"a"}, KindEscape: {`\`}},
		},
		{
			name:  "empty math is left alone",
			input: "$$ $$ and $ $",
			want:  map[Kind][]string{},
		},
		{
			name:  "escapes",
			input: `\* \_ \# \|`,
			want:  map[Kind][]string{KindEscape: {"*", "_", "#", "|"}},
		},
		{
			name:  "unterminated fence",
			input: "```go\nx",
			want:  map[Kind][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			text, ph := extract(tt.input)

			for _, k := range []Kind{KindCode, KindInlineCode, KindDisplayMath, KindInlineMath, KindEscape} {
				want := tt.want[k]
				if got := ph.Len(k); got != len(want) {
					t.Fatalf("extract(%q): %d literals of kind %c, want %d", tt.input, got, k, len(want))
				}
				for i, content := range want {
					lit, _ := ph.Lookup(k, i)
					if lit.Content != content {
						t.Errorf("extract(%q): kind %c[%d] = %q, want %q", tt.input, k, i, lit.Content, content)
					}
				}
			}
			if got := ph.Plain(text); strings.Contains(got, sentinelOpen) {
				t.Errorf("Plain left a token in %q", got)
			}
		})
	}
}

func TestSplitLanguageTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		wantLang string
		wantRest string
	}{
		{"tag", "go\nx", "go", "x"},
		{"no tag", "\nx", "", "\nx"},
		{"tag with space is code", "a b\nx", "", "a b\nx"},
		{"single line", "x", "", "x"},
		{"tag too long", strings.Repeat("a", 20) + "\nx", "", strings.Repeat("a", 20) + "\nx"},
		{"tag just short enough", strings.Repeat("a", 19) + "\nx", strings.Repeat("a", 19), "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lang, rest := splitLanguageTag(tt.body)
			if lang != tt.wantLang || rest != tt.wantRest {
				t.Errorf("splitLanguageTag(%q) = (%q, %q), want (%q, %q)", tt.body, lang, rest, tt.wantLang, tt.wantRest)
			}
		})
	}
}

func TestPlaceholders_Resolve(t *testing.T) {
	t.Parallel()

	ph := NewPlaceholders()
	code := ph.Protect(Literal{Kind: KindCode, Content: "x"})
	esc := ph.Protect(Literal{Kind: KindEscape, Content: "*"})

	got := ph.Resolve(code+" "+esc, KindCode, func(l Literal) string { return "[" + l.Content + "]" })
	if got != "[x] "+esc {
		t.Errorf("Resolve() = %q, want code resolved and escape untouched", got)
	}

	if _, ok := ph.Lookup(KindCode, 5); ok {
		t.Error("Lookup() out of range should fail")
	}
	if !isSoleToken("  "+code+" ", KindCode) {
		t.Error("isSoleToken() should accept surrounding whitespace")
	}
	if isSoleToken(code+"x", KindCode) || isSoleToken(esc, KindCode) {
		t.Error("isSoleToken() accepted a non-matching line")
	}
}

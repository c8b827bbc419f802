package pipeline

import (
	"errors"
	"strings"
	"testing"
)

// mathRecorder is a MathRenderer that records every call.
type mathRecorder struct {
	calls  []mathCall
	err    error
	panics bool
}

type mathCall struct {
	formula string
	display bool
	trust   bool
}

func (m *mathRecorder) RenderMath(formula string, display, trust bool) (string, error) {
	m.calls = append(m.calls, mathCall{formula, display, trust})
	if m.panics {
		panic("boom")
	}
	if m.err != nil {
		return "", m.err
	}
	return "<katex>" + formula + "</katex>", nil
}

// highlightRecorder is a Highlighter that records every call.
type highlightRecorder struct {
	calls  int
	err    error
	panics bool
}

func (h *highlightRecorder) Highlight(code, language string) (string, error) {
	h.calls++
	if h.panics {
		panic("boom")
	}
	if h.err != nil {
		return "", h.err
	}
	return `<span class="hl-` + language + `">` + code + "</span>", nil
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.MathRenderer = &mathRecorder{}
	opts.Highlighter = &highlightRecorder{}
	return opts
}

func TestRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "fenced code is never interpreted",
			input:        "```\n$x$ **y**\n```",
			wantContains: []string{"<pre><code>$x$ **y**</code></pre>"},
			wantExcludes: []string{"<strong>", "katex", "<p>"},
		},
		{
			name:         "escaped asterisks stay literal",
			input:        `\*not bold\*`,
			wantContains: []string{"<p>*not bold*</p>"},
			wantExcludes: []string{"<em>", "<strong>"},
		},
		{
			name:         "duplicate headings get unique ids",
			input:        "# Intro\n\n# Intro",
			wantContains: []string{`<h1 id="intro">Intro</h1>`, `<h1 id="intro-2">Intro</h1>`},
		},
		{
			name:         "heading levels",
			input:        "###### Deep\n## Mid",
			wantContains: []string{`<h6 id="deep">Deep</h6>`, `<h2 id="mid">Mid</h2>`},
		},
		{
			name:  "table alignment",
			input: "| A | B |\n|:--|--:|\n| x | y |",
			wantContains: []string{
				`<th style="text-align: left">A</th><th style="text-align: right">B</th>`,
				`<td style="text-align: left">x</td><td style="text-align: right">y</td>`,
			},
			wantExcludes: []string{"<p>"},
		},
		{
			name:         "horizontal rules",
			input:        "a\n\n---\n\n***\n\n___",
			wantContains: []string{"<p>a</p>\n<hr>\n<hr>\n<hr>"},
		},
		{
			name:         "inline spans",
			input:        "**b** *i* ***bi*** ~~s~~ ==m==",
			wantContains: []string{"<p><strong>b</strong> <em>i</em> <strong><em>bi</em></strong> <del>s</del> <mark>m</mark></p>"},
		},
		{
			name:         "link with title",
			input:        `[Go](https://go.dev "Go site")`,
			wantContains: []string{`<a href="https://go.dev" title="Go site">Go</a>`},
		},
		{
			name:         "image before link",
			input:        "![alt](img.png)",
			wantContains: []string{`<img src="img.png" alt="alt">`},
			wantExcludes: []string{"<a "},
		},
		{
			name:         "url autolink",
			input:        "<https://example.com>",
			wantContains: []string{`<a href="https://example.com">https://example.com</a>`},
		},
		{
			name:         "email autolink",
			input:        "<me@example.com>",
			wantContains: []string{`href="mailto:`, `>me@example.com</a>`},
		},
		{
			name:         "inline code protects markup",
			input:        "Use `a*b*c` and `$x$` here",
			wantContains: []string{"<p>Use <code>a*b*c</code> and <code>$x$</code> here</p>"},
			wantExcludes: []string{"<em>", "katex"},
		},
		{
			name:         "inline code is escaped",
			input:        "`<b>`",
			wantContains: []string{"<code>&lt;b&gt;</code>"},
		},
		{
			name:         "escaped dollars are not math",
			input:        `\$5 and \$6`,
			wantContains: []string{"<p>$5 and $6</p>"},
			wantExcludes: []string{"katex"},
		},
		{
			name:         "paragraph lines are joined with a space",
			input:        "one\ntwo\n\nthree",
			wantContains: []string{"<p>one two</p>\n<p>three</p>"},
		},
		{
			name:         "crlf input",
			input:        "a\r\nb\r\rc",
			wantContains: []string{"<p>a b</p>\n<p>c</p>"},
		},
		{
			name:         "blank lines inside code survive compression",
			input:        "```\na\n\n\n\nb\n```",
			wantContains: []string{"<code>a\n\n\n\nb</code>"},
		},
		{
			name:         "forged sentinel runes are stripped",
			input:        "\uE000C0\uE001",
			wantContains: []string{"<p>C0</p>"},
			wantExcludes: []string{"\uE000", "\uE001"},
		},
		{
			name:         "definition list",
			input:        "Term\n: Definition",
			wantContains: []string{"<dl><dt>Term</dt><dd>Definition</dd></dl>"},
		},
		{
			name:         "definition lists separated by blank lines merge",
			input:        "A\n: one\n\nB\n: two",
			wantContains: []string{"<dl><dt>A</dt><dd>one</dd><dt>B</dt><dd>two</dd></dl>"},
		},
		{
			name:         "emoji shortcode",
			input:        "Ship it :rocket: now :unknown_code:",
			wantContains: []string{"<p>Ship it 🚀 now :unknown_code:</p>"},
		},
		{
			name:         "display math is not wrapped in a paragraph",
			input:        "Text\n\n$$\nE=mc^2\n$$\n\nMore",
			wantContains: []string{"<p>Text</p>\n<div class=\"math-display\"><katex>E=mc^2</katex></div>\n<p>More</p>"},
		},
		{
			name:         "inline math",
			input:        "Area $ \\pi r^2 $ here",
			wantContains: []string{`<p>Area <span class="math-inline"><katex>\pi r^2</katex></span> here</p>`},
		},
		{
			name:         "empty input",
			input:        "",
			wantExcludes: []string{"<p>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Run(tt.input, testOptions())

			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("Run(%q) missing %q\ngot: %s", tt.input, want, got)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("Run(%q) should not contain %q\ngot: %s", tt.input, exclude, got)
				}
			}
		})
	}
}

func TestRun_Lists(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "unordered",
			input:    "- a\n* b",
			expected: "<ul>\n<li>a\n</li>\n<li>b\n</li>\n</ul>",
		},
		{
			name:     "type change at same indent reopens",
			input:    "- a\n1. b",
			expected: "<ul>\n<li>a\n</li>\n</ul>\n<ol>\n<li value=\"1\">b\n</li>\n</ol>",
		},
		{
			name:     "nested list stays inside its item",
			input:    "- a\n  - b\n- c",
			expected: "<ul>\n<li>a\n<ul>\n<li>b\n</li>\n</ul>\n</li>\n<li>c\n</li>\n</ul>",
		},
		{
			name:     "ordered list keeps its start",
			input:    "3. c\n4. d",
			expected: "<ol start=\"3\">\n<li value=\"3\">c\n</li>\n<li value=\"4\">d\n</li>\n</ol>",
		},
		{
			name:     "blank line does not close a list",
			input:    "- a\n\n- b",
			expected: "<ul>\n<li>a\n</li>\n<li>b\n</li>\n</ul>",
		},
		{
			name:     "text closes the list",
			input:    "- a\nafter",
			expected: "<ul>\n<li>a\n</li>\n</ul>\n<p>after</p>",
		},
		{
			name:     "upper alpha",
			input:    "A. one\nB. two",
			expected: "<ol type=\"A\">\n<li value=\"1\" data-marker=\"A\">one\n</li>\n<li value=\"2\" data-marker=\"B\">two\n</li>\n</ol>",
		},
		{
			name:     "lower roman",
			input:    "ii. two\niii. three",
			expected: "<ol type=\"i\" start=\"2\">\n<li value=\"2\" data-marker=\"ii\">two\n</li>\n<li value=\"3\" data-marker=\"iii\">three\n</li>\n</ol>",
		},
		{
			name:     "list item content gets inline formatting",
			input:    "- **bold**",
			expected: "<ul>\n<li><strong>bold</strong>\n</li>\n</ul>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Run(tt.input, testOptions())
			if got != tt.expected {
				t.Errorf("Run(%q) =\n%s\nwant:\n%s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRun_TaskAndEmojiLists(t *testing.T) {
	t.Parallel()

	got := Run("- [x] done\n- [ ] todo", testOptions())
	for _, want := range []string{
		`<ul class="task-list">`,
		`<li class="task-list-item"><input type="checkbox" checked disabled> done`,
		`<li class="task-list-item"><input type="checkbox" disabled> todo`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("task list missing %q\ngot: %s", want, got)
		}
	}

	got = Run(":rocket: Launch\n✅ Done", testOptions())
	for _, want := range []string{
		`<ul class="emoji-list">`,
		`<li class="emoji-item" data-emoji="🚀"><span class="emoji-bullet">🚀</span> Launch`,
		`<li class="emoji-item" data-emoji="✅"><span class="emoji-bullet">✅</span> Done`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("emoji list missing %q\ngot: %s", want, got)
		}
	}
	if strings.Count(got, "<ul") != 1 {
		t.Errorf("emoji items should share one list\ngot: %s", got)
	}
}

func TestRun_Blockquotes(t *testing.T) {
	t.Parallel()

	got := Run("> a\n>> b\nc", testOptions())
	expected := "<blockquote>\n<p>a</p>\n<blockquote>\n<p>b</p>\n</blockquote>\n</blockquote>\n<p>c</p>"
	if got != expected {
		t.Errorf("Run() =\n%s\nwant:\n%s", got, expected)
	}
}

func TestRun_Footnotes(t *testing.T) {
	t.Parallel()

	t.Run("numbered in first reference order", func(t *testing.T) {
		t.Parallel()

		got := Run("[^y]: Why\n[^x]: Ex\n\nFirst[^x] then[^y].", testOptions())

		for _, want := range []string{
			`<a href="#fn-x" id="fnref-x">1</a>`,
			`<a href="#fn-y" id="fnref-y">2</a>`,
			`<section class="footnotes">`,
			`<li id="fn-x">Ex <a href="#fnref-x" class="footnote-backref">&#8617;</a></li>`,
		} {
			if !strings.Contains(got, want) {
				t.Errorf("missing %q\ngot: %s", want, got)
			}
		}
		if strings.Index(got, `id="fn-x"`) > strings.Index(got, `id="fn-y"`) {
			t.Errorf("fn-x should be listed before fn-y\ngot: %s", got)
		}
	})

	t.Run("repeated reference reuses number", func(t *testing.T) {
		t.Parallel()

		got := Run("a[^x] b[^x]\n\n[^x]: X", testOptions())
		if !strings.Contains(got, `id="fnref-x">1</a>`) || !strings.Contains(got, `id="fnref-x-2">1</a>`) {
			t.Errorf("repeated reference should reuse number 1\ngot: %s", got)
		}
		if strings.Count(got, `<li id="fn-x">`) != 1 {
			t.Errorf("footnote should be listed once\ngot: %s", got)
		}
	})

	t.Run("missing definition", func(t *testing.T) {
		t.Parallel()

		got := Run("Ref[^nope]", testOptions())
		if !strings.Contains(got, `<li id="fn-nope">Missing footnote content`) {
			t.Errorf("missing definition placeholder\ngot: %s", got)
		}
	})

	t.Run("no references no section", func(t *testing.T) {
		t.Parallel()

		got := Run("[^a]: unused\n\ntext", testOptions())
		if strings.Contains(got, "footnotes") {
			t.Errorf("unreferenced definitions should not render a section\ngot: %s", got)
		}
	})

	t.Run("definition with code is restored", func(t *testing.T) {
		t.Parallel()

		got := Run("See[^c]\n\n[^c]: Run `go test` **now**", testOptions())
		if !strings.Contains(got, "Run <code>go test</code> <strong>now</strong>") {
			t.Errorf("footnote content not formatted\ngot: %s", got)
		}
	})
}

func TestRun_Math(t *testing.T) {
	t.Parallel()

	t.Run("disabled emits placeholder without calling renderer", func(t *testing.T) {
		t.Parallel()

		rec := &mathRecorder{}
		opts := testOptions()
		opts.Math = false
		opts.MathRenderer = rec

		got := Run("$x^2$", opts)
		want := `<span class="math-placeholder" data-math="x^2" data-display="false">x^2</span>`
		if !strings.Contains(got, want) {
			t.Errorf("Run() = %s, want it to contain %s", got, want)
		}
		if len(rec.calls) != 0 {
			t.Errorf("renderer called %d times, want 0", len(rec.calls))
		}
	})

	t.Run("trust follows chemistry", func(t *testing.T) {
		t.Parallel()

		for _, chemistry := range []bool{true, false} {
			rec := &mathRecorder{}
			opts := testOptions()
			opts.Chemistry = chemistry
			opts.MathRenderer = rec

			Run("$$\\ce{H2O}$$", opts)
			if len(rec.calls) != 1 {
				t.Fatalf("renderer called %d times, want 1", len(rec.calls))
			}
			call := rec.calls[0]
			if call.trust != chemistry || !call.display || call.formula != `\ce{H2O}` {
				t.Errorf("call = %+v, want formula \\ce{H2O}, display true, trust %v", call, chemistry)
			}
		}
	})

	t.Run("renderer error yields marked span", func(t *testing.T) {
		t.Parallel()

		opts := testOptions()
		opts.MathRenderer = &mathRecorder{err: errors.New("bad <input>")}

		got := Run("$a<b$", opts)
		want := `<span class="math-error" title="bad &lt;input&gt;">a&lt;b</span>`
		if !strings.Contains(got, want) {
			t.Errorf("Run() = %s, want it to contain %s", got, want)
		}
	})

	t.Run("renderer panic is contained", func(t *testing.T) {
		t.Parallel()

		opts := testOptions()
		opts.MathRenderer = &mathRecorder{panics: true}

		got := Run("before $x$ after", opts)
		if !strings.Contains(got, `class="math-error"`) || !strings.Contains(got, "after") {
			t.Errorf("panic not contained: %s", got)
		}
	})

	t.Run("math inside code is never rendered", func(t *testing.T) {
		t.Parallel()

		rec := &mathRecorder{}
		opts := testOptions()
		opts.MathRenderer = rec

		Run("```\n$$x$$\n```\n`$y$`", opts)
		if len(rec.calls) != 0 {
			t.Errorf("renderer called %d times, want 0", len(rec.calls))
		}
	})
}

func TestRun_Highlight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		enabled   bool
		hl        *highlightRecorder
		want      string
		wantCalls int
	}{
		{
			name:      "tagged block is highlighted",
			input:     "```go\nx := 1\n```",
			enabled:   true,
			hl:        &highlightRecorder{},
			want:      `<pre><code class="language-go"><span class="hl-go">x := 1</span></code></pre>`,
			wantCalls: 1,
		},
		{
			name:      "untagged block is not highlighted",
			input:     "```\nx := 1\n```",
			enabled:   true,
			hl:        &highlightRecorder{},
			want:      `<pre><code>x := 1</code></pre>`,
			wantCalls: 0,
		},
		{
			name:      "disabled",
			input:     "```go\nx := 1\n```",
			enabled:   false,
			hl:        &highlightRecorder{},
			want:      `<pre><code class="language-go">x := 1</code></pre>`,
			wantCalls: 0,
		},
		{
			name:      "failure falls back to escaped text",
			input:     "```go\nif a < b {}\n```",
			enabled:   true,
			hl:        &highlightRecorder{err: errors.New("no lexer")},
			want:      `<pre><code class="language-go">if a &lt; b {}</code></pre>`,
			wantCalls: 1,
		},
		{
			name:      "panic falls back to escaped text",
			input:     "```go\nx\n```",
			enabled:   true,
			hl:        &highlightRecorder{panics: true},
			want:      `<pre><code class="language-go">x</code></pre>`,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := testOptions()
			opts.Highlight = tt.enabled
			opts.Highlighter = tt.hl

			got := Run(tt.input, opts)
			if got != tt.want {
				t.Errorf("Run(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if tt.hl.calls != tt.wantCalls {
				t.Errorf("highlighter calls = %d, want %d", tt.hl.calls, tt.wantCalls)
			}
		})
	}
}

func TestRun_Typography(t *testing.T) {
	t.Parallel()

	opts := testOptions()
	opts.Typography = true

	got := Run(`"Hi" -- it's [x](http://a.b/c--d)...`, opts)
	want := `<p>“Hi” – it’s <a href="http://a.b/c--d">x</a>…</p>`
	if got != want {
		t.Errorf("Run() = %q, want %q", got, want)
	}

	if got := Run(`"Hi" -- there`, testOptions()); got != `<p>"Hi" -- there</p>` {
		t.Errorf("typography should be off by default, got %q", got)
	}
}

func TestRun_NilCollaborators(t *testing.T) {
	t.Parallel()

	opts := Options{Math: true, Highlight: true}
	got := Run("```go\nx\n```\n\n$y$", opts)
	if !strings.Contains(got, `<pre><code class="language-go">x</code></pre>`) {
		t.Errorf("code fallback missing: %s", got)
	}
	if !strings.Contains(got, `class="math-error"`) {
		t.Errorf("math fallback missing: %s", got)
	}
}

func TestRun_Totality(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"```go\nunterminated",
		"$$",
		"$",
		`\`,
		"> ",
		">>>>>> deep",
		"|",
		"| a |\n|---|",
		"- ",
		"1.",
		"[^]",
		"[^x]:",
		"![](",
		"[a](",
		"#",
		"# ",
		":",
		": only definition",
		"\t\t- tabbed",
		"    - a\n- b\n        - c\n  - d",
		"- a\n> b\n- c\n# d\n1. e",
		"***",
		"**unclosed",
		"\x00\xff\xfe",
		strings.Repeat("$a$ ", 100),
		strings.Repeat("- x\n  ", 50),
	}

	for _, in := range inputs {
		// Run must return without panicking.
		_ = Run(in, testOptions())
	}
}

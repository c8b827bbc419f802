package scimark

// Notes:
// - Tests use fake math renderers so no JavaScript runtime is started; the
//   default chroma highlighter is real and pure Go.
// - PDF generation is replaced by mockPDFConverter through withPDFConverter;
//   no browser is launched by these tests.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

type fakeMath struct {
	mu     sync.Mutex
	trust  []bool
	err    error
	render func(formula string, display bool) string
}

func (f *fakeMath) RenderMath(formula string, display, trust bool) (string, error) {
	f.mu.Lock()
	f.trust = append(f.trust, trust)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	if f.render != nil {
		return f.render(formula, display), nil
	}
	return "<katex>" + formula + "</katex>", nil
}

type mockPDFConverter struct {
	called    bool
	inputHTML string
	inputPage *PageSettings
	output    []byte
	err       error
	panics    bool
	closed    bool
}

func (m *mockPDFConverter) ToPDF(ctx context.Context, htmlContent string, page *PageSettings) ([]byte, error) {
	if m.panics {
		panic("renderer exploded")
	}
	m.called = true
	m.inputHTML = htmlContent
	m.inputPage = page
	if m.err != nil {
		return nil, m.err
	}
	if m.output != nil {
		return m.output, nil
	}
	return []byte("%PDF-1.4 mock"), nil
}

func (m *mockPDFConverter) Close() error {
	m.closed = true
	return nil
}

func withPDFConverter(p pdfConverter) Option {
	return func(c *Converter) {
		c.pdfConverter = p
	}
}

func newTestConverter(t *testing.T, opts ...Option) (*Converter, *mockPDFConverter) {
	t.Helper()
	pdf := &mockPDFConverter{}
	opts = append([]Option{WithMathRenderer(&fakeMath{}), withPDFConverter(pdf)}, opts...)
	c, err := NewConverter(opts...)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	return c, pdf
}

// ---------------------------------------------------------------------------
// Parse
// ---------------------------------------------------------------------------

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        string
		opts         []Option
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "heading and math",
			input:        "# Energy\n\n$$E=mc^2$$",
			wantContains: []string{`<h1 id="energy">Energy</h1>`, `<div class="math-display"><katex>E=mc^2</katex></div>`},
		},
		{
			name:         "highlighting on by default",
			input:        "```go\nfunc f() {}\n```",
			wantContains: []string{`<pre><code class="language-go">`, `<span class="kd">func</span>`},
		},
		{
			name:         "highlighting off",
			input:        "```go\nfunc f() {}\n```",
			opts:         []Option{WithHighlight(false)},
			wantContains: []string{`<pre><code class="language-go">func f() {}</code></pre>`},
		},
		{
			name:         "math off leaves a placeholder",
			input:        "$x^2$",
			opts:         []Option{WithMath(false)},
			wantContains: []string{`class="math-placeholder"`, "x^2"},
			wantExcludes: []string{"<katex>"},
		},
		{
			name:         "typography",
			input:        `"quoted" -- text`,
			opts:         []Option{WithTypography(true)},
			wantContains: []string{"“quoted” – text"},
		},
		{
			name:         "custom highlighter",
			input:        "```py\nx\n```",
			opts:         []Option{WithHighlighter(HighlighterFunc(func(code, lang string) (string, error) { return "[" + lang + "]", nil }))},
			wantContains: []string{`<code class="language-py">[py]</code>`},
		},
		{
			name:         "unknown highlight style falls back",
			input:        "```go\nfunc f() {}\n```",
			opts:         []Option{WithHighlightStyle("no-such-style")},
			wantContains: []string{`<span class="kd">func</span>`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := append([]Option{WithMathRenderer(&fakeMath{})}, tt.opts...)
			got := Parse(tt.input, opts...)
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("Parse(%q) missing %q\ngot: %s", tt.input, want, got)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("Parse(%q) should not contain %q\ngot: %s", tt.input, exclude, got)
				}
			}
		})
	}
}

func TestParse_Chemistry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		opts      []Option
		wantTrust bool
	}{
		{"on by default", nil, true},
		{"disabled", []Option{WithChemistry(false)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := &fakeMath{}
			Parse(`$\ce{H2O}$`, append([]Option{WithMathRenderer(m)}, tt.opts...)...)
			if len(m.trust) != 1 || m.trust[0] != tt.wantTrust {
				t.Errorf("trust = %v, want [%v]", m.trust, tt.wantTrust)
			}
		})
	}
}

func TestParse_MathFailure(t *testing.T) {
	t.Parallel()

	got := Parse("$x < y$", WithMathRenderer(&fakeMath{err: errors.New("bad")}))
	want := `<p><span class="math-inline"><span class="math-error" title="bad">x &lt; y</span></span></p>`
	if got != want {
		t.Errorf("Parse() = %q, want %q", got, want)
	}
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	if got := Parse(""); got != "" {
		t.Errorf(`Parse("") = %q, want ""`, got)
	}
}

func TestParse_CommonMarkEngine(t *testing.T) {
	t.Parallel()

	got := Parse("# Title\n\n| a |\n|---|\n| b |", WithEngine(EngineCommonMark), WithMath(false))
	for _, want := range []string{`<h1 id="title">Title</h1>`, "<table>"} {
		if !strings.Contains(got, want) {
			t.Errorf("Parse() missing %q\ngot: %s", want, got)
		}
	}
}

// ---------------------------------------------------------------------------
// NewConverter
// ---------------------------------------------------------------------------

func TestNewConverter_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{"invalid engine", []Option{WithEngine(Engine(42))}, ErrInvalidEngine},
		{"unknown highlight style", []Option{WithHighlightStyle("no-such-style")}, ErrUnknownHighlightStyle},
		{"unknown style", []Option{WithStyle("no-such-style")}, ErrStyleNotFound},
		{"invalid asset path", []Option{WithAssetPath(filepath.Join(dir, "missing"))}, ErrInvalidAssetPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewConverter(tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewConverter() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewConverter_StyleSources(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cssFile := filepath.Join(dir, "custom.css")
	if err := os.WriteFile(cssFile, []byte(".from-file{}"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "styles"), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "styles", "house.css"), []byte(".from-assets{}"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		opts []Option
		want string
	}{
		{"embedded default", nil, "article.scimark"},
		{"embedded by name", []Option{WithStyle("paper")}, "Latin Modern"},
		{"file path", []Option{WithStyle(cssFile)}, ".from-file{}"},
		{"css content", []Option{WithStyle(".inline{}")}, ".inline{}"},
		{"asset path", []Option{WithAssetPath(dir), WithStyle("house")}, ".from-assets{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, _ := newTestConverter(t, tt.opts...)
			if !strings.Contains(c.stylesheet, tt.want) {
				t.Errorf("stylesheet missing %q", tt.want)
			}
			if !strings.Contains(c.stylesheet, ".chroma") {
				t.Error("stylesheet should include the highlight stylesheet")
			}
		})
	}
}

func TestNewConverter_NoHighlightCSSWithoutHighlighting(t *testing.T) {
	t.Parallel()

	c, _ := newTestConverter(t, WithHighlight(false))
	if strings.Contains(c.stylesheet, ".chroma") {
		t.Error("highlight stylesheet should be omitted when highlighting is off")
	}
}

// ---------------------------------------------------------------------------
// Convert
// ---------------------------------------------------------------------------

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	markdown := "# Intro\n\nSee ![fig](img/a.png) and $x$.\n\n## Method\n\ntext"

	tests := []struct {
		name         string
		input        Input
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "fragment",
			input:        Input{Markdown: markdown},
			wantContains: []string{`<h1 id="intro">Intro</h1>`, "<katex>x</katex>"},
			wantExcludes: []string{"<!DOCTYPE html>", "<style>", `<nav class="toc">`},
		},
		{
			name:  "standalone",
			input: Input{Markdown: markdown, Standalone: true, Title: "Paper", CSS: ".user-rule{}"},
			wantContains: []string{
				"<!DOCTYPE html>",
				"<title>Paper</title>",
				"<style>",
				".chroma",
				".user-rule{}</style>",
				`<article class="scimark">`,
			},
		},
		{
			name:         "toc in standalone document",
			input:        Input{Markdown: markdown, Standalone: true, TOC: &TOC{Title: "Contents", MaxDepth: 2}},
			wantContains: []string{"<body>\n<nav class=\"toc\">", `href="#intro"`, `href="#method"`, "Contents"},
		},
		{
			name:         "toc in fragment",
			input:        Input{Markdown: markdown, TOC: &TOC{MinDepth: 2}},
			wantContains: []string{`<nav class="toc">`, `href="#method"`},
			wantExcludes: []string{`href="#intro"`},
		},
		{
			name:         "source dir rewrites relative paths",
			input:        Input{Markdown: markdown, SourceDir: "/docs"},
			wantContains: []string{`src="file:///docs/img/a.png"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if tt.input.SourceDir != "" && filepath.Separator != '/' {
				t.Skip("Unix paths")
			}

			c, pdf := newTestConverter(t)
			res, err := c.Convert(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			got := string(res.HTML)
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("Convert() missing %q\ngot: %s", want, got)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("Convert() should not contain %q\ngot: %s", exclude, got)
				}
			}
			if res.PDF != nil || pdf.called {
				t.Error("PDF should not be generated unless requested")
			}
		})
	}
}

func TestConverter_Convert_PDF(t *testing.T) {
	t.Parallel()

	c, pdf := newTestConverter(t)
	page := &PageSettings{Size: PageSizeA4, Orientation: OrientationLandscape, Margin: 1}

	res, err := c.Convert(context.Background(), Input{Markdown: "# T", PDF: true, Page: page})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if string(res.PDF) != "%PDF-1.4 mock" {
		t.Errorf("PDF = %q, want mock output", res.PDF)
	}
	if !strings.HasPrefix(pdf.inputHTML, "<!DOCTYPE html>") {
		t.Error("PDF input should be a standalone document")
	}
	if pdf.inputPage != page {
		t.Error("page settings were not passed to the PDF converter")
	}
	if string(res.HTML) != pdf.inputHTML {
		t.Error("HTML result should match the rendered document")
	}
}

func TestConverter_Convert_Errors(t *testing.T) {
	t.Parallel()

	pdfErr := errors.New("chrome gone")
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name       string
		ctx        context.Context
		input      Input
		pdf        *mockPDFConverter
		wantErr    error
		wantErrMsg string
	}{
		{name: "empty markdown", input: Input{}, wantErr: ErrEmptyMarkdown},
		{name: "invalid page size", input: Input{Markdown: "x", Page: &PageSettings{Size: "a0", Orientation: OrientationPortrait, Margin: 1}}, wantErr: ErrInvalidPageSize},
		{name: "invalid TOC depth", input: Input{Markdown: "x", TOC: &TOC{MinDepth: 7}}, wantErr: ErrInvalidTOCDepth},
		{name: "cancelled context", ctx: cancelled, input: Input{Markdown: "x"}, wantErr: context.Canceled},
		{name: "pdf failure", input: Input{Markdown: "x", PDF: true}, pdf: &mockPDFConverter{err: pdfErr}, wantErr: pdfErr},
		{name: "panic is recovered", input: Input{Markdown: "x", PDF: true}, pdf: &mockPDFConverter{panics: true}, wantErrMsg: "internal error: renderer exploded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := tt.ctx
			if ctx == nil {
				ctx = context.Background()
			}
			pdf := tt.pdf
			if pdf == nil {
				pdf = &mockPDFConverter{}
			}
			c, err := NewConverter(WithMathRenderer(&fakeMath{}), withPDFConverter(pdf))
			if err != nil {
				t.Fatalf("NewConverter() error = %v", err)
			}

			res, err := c.Convert(ctx, tt.input)
			if res != nil {
				t.Errorf("Convert() result = %v, want nil", res)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Convert() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErrMsg != "" && (err == nil || err.Error() != tt.wantErrMsg) {
				t.Errorf("Convert() error = %v, want %q", err, tt.wantErrMsg)
			}
		})
	}
}

func TestConverter_Convert_CommonMark(t *testing.T) {
	t.Parallel()

	c, _ := newTestConverter(t, WithEngine(EngineCommonMark), WithMath(false))
	res, err := c.Convert(context.Background(), Input{Markdown: "# Title\n\n- [x] done", Standalone: true})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	for _, want := range []string{`<h1 id="title">Title</h1>`, `type="checkbox"`, "<!DOCTYPE html>"} {
		if !strings.Contains(string(res.HTML), want) {
			t.Errorf("Convert() missing %q\ngot: %s", want, res.HTML)
		}
	}
}

func TestConverter_ConcurrentParse(t *testing.T) {
	t.Parallel()

	c, _ := newTestConverter(t)
	const n = 8

	results := make([]string, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = c.Parse("# Same\n\n```go\nx := 1\n```\n\n$y$")
		}()
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if results[i] != results[0] {
			t.Fatalf("concurrent Parse results differ:\n%s\n%s", results[0], results[i])
		}
	}
}

func TestConverter_Close(t *testing.T) {
	t.Parallel()

	c, pdf := newTestConverter(t)
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !pdf.closed {
		t.Error("Close() should close the PDF converter")
	}

	var empty Converter
	if err := empty.Close(); err != nil {
		t.Errorf("Close() on zero Converter error = %v", err)
	}
}

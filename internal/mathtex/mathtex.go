// Package mathtex typesets TeX formulas to HTML with KaTeX.
//
// KaTeX runs in an embedded JavaScript engine provided by goldmark-katex.
// Commands that KaTeX gates behind its trust setting, and the chemistry
// commands, are refused unless the caller passes trust.
package mathtex

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"sync"

	katex "github.com/FurqanSoftware/goldmark-katex"
)

// Sentinel errors.
var (
	ErrUntrustedCommand = errors.New("command requires trust")
	ErrRender           = errors.New("KaTeX rendering failed")
)

// trustedCommands matches commands only rendered when trust is set.
var trustedCommands = regexp.MustCompile(`\\(href|url|includegraphics|htmlClass|htmlId|htmlStyle|htmlData|ce|pu)\b`)

// renderFunc is the KaTeX entry point, swapped in tests.
type renderFunc func(formula string, display bool) (string, error)

func katexRender(formula string, display bool) (string, error) {
	var buf bytes.Buffer
	if err := katex.Render(&buf, []byte(formula), display); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type cacheKey struct {
	formula string
	display bool
}

// KaTeX renders formulas and memoises the results, since each KaTeX call
// starts a fresh JavaScript runtime. Safe for concurrent use.
type KaTeX struct {
	render renderFunc
	cache  sync.Map // cacheKey -> string
}

// New returns a KaTeX renderer.
func New() *KaTeX {
	return &KaTeX{render: katexRender}
}

// RenderMath typesets formula. Without trust, formulas using gated
// commands fail with ErrUntrustedCommand before KaTeX is called.
func (k *KaTeX) RenderMath(formula string, display, trust bool) (string, error) {
	if !trust {
		if m := trustedCommands.FindString(formula); m != "" {
			return "", fmt.Errorf("%w: %s", ErrUntrustedCommand, m)
		}
	}

	key := cacheKey{formula, display}
	if html, ok := k.cache.Load(key); ok {
		return html.(string), nil
	}

	html, err := k.render(formula, display)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	k.cache.Store(key, html)
	return html, nil
}

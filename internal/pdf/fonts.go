package pdf

import (
	"fmt"
	"sort"
	"sync"
	"unicode"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

const fontFamily = "Go"

var (
	coverageOnce sync.Once
	coverage     *sfnt.Font
	coverageErr  error
)

// registerFonts embeds the Go font family as UTF-8 fonts.
func registerFonts(doc *fpdf.Fpdf) {
	doc.AddUTF8FontFromBytes(fontFamily, "", goregular.TTF)
	doc.AddUTF8FontFromBytes(fontFamily, "B", gobold.TTF)
	doc.AddUTF8FontFromBytes(fontFamily, "I", goitalic.TTF)
}

// glyphChecker records runes the embedded fonts have no glyph for. fpdf would draw
// them as blanks.
type glyphChecker struct {
	font    *sfnt.Font
	buf     sfnt.Buffer
	missing map[rune]bool
}

func newGlyphChecker() (*glyphChecker, error) {
	coverageOnce.Do(func() {
		coverage, coverageErr = sfnt.Parse(goregular.TTF)
	})
	if coverageErr != nil {
		return nil, fmt.Errorf("failed to parse embedded font: %w", coverageErr)
	}
	return &glyphChecker{font: coverage, missing: map[rune]bool{}}, nil
}

func (c *glyphChecker) check(s string) {
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) || c.missing[r] {
			continue
		}
		if idx, err := c.font.GlyphIndex(&c.buf, r); err != nil || idx == 0 {
			c.missing[r] = true
		}
	}
}

func (c *glyphChecker) runes() []rune {
	if len(c.missing) == 0 {
		return nil
	}
	out := make([]rune, 0, len(c.missing))
	for r := range c.missing {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Package pdf is the document backend: it lays report blocks out on A4 pages with
// fpdf and post-processes the result with pdfcpu. Text is set in the embedded Go
// fonts; characters they cannot draw are reported by Builder.Unsupported.
package pdf

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/Lllllllleong/firesafetyreport/internal/report"
	"github.com/go-pdf/fpdf"
)

const (
	margin     = 40.0
	lineHeight = 14.0
	bodySize   = 11.0
	rowGap     = 20.0
)

var headingSizes = map[int]float64{1: 18, 2: 14, 3: 12}

// Builder implements report.Backend.
type Builder struct {
	Title   string
	Author  string
	Subject string
	// CreatedAt is written as the creation and modification date. When zero fpdf
	// stamps the current time, which makes the output differ between runs.
	CreatedAt time.Time

	unsupported []rune
}

var _ report.Backend = (*Builder)(nil)

// Build renders blocks into a PDF held in memory. Images never touch the filesystem.
func (b *Builder) Build(blocks []report.Block) ([]byte, error) {
	b.unsupported = nil
	glyphs, err := newGlyphChecker()
	if err != nil {
		return nil, err
	}

	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetMargins(margin, margin, margin)
	doc.SetAutoPageBreak(true, margin)
	doc.SetCatalogSort(true)
	doc.SetCompression(true)
	doc.SetTitle(b.Title, true)
	doc.SetAuthor(b.Author, true)
	doc.SetSubject(b.Subject, true)
	doc.SetCreator("firesafetyreport", true)
	if !b.CreatedAt.IsZero() {
		doc.SetCreationDate(b.CreatedAt)
		doc.SetModificationDate(b.CreatedAt)
	}
	doc.AliasNbPages("")
	registerFonts(doc)
	if doc.Err() {
		return nil, fmt.Errorf("failed to register fonts: %w", doc.Error())
	}

	w := &writer{doc: doc, glyphs: glyphs}
	doc.SetFooterFunc(w.footer)
	doc.AddPage()

	for i, blk := range blocks {
		if err := w.block(i, blk); err != nil {
			return nil, fmt.Errorf("block %d (%s): %w", i, blk.Kind, err)
		}
		if doc.Err() {
			return nil, fmt.Errorf("block %d (%s): %w", i, blk.Kind, doc.Error())
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	b.unsupported = glyphs.runes()
	return buf.Bytes(), nil
}

// Unsupported returns, sorted, the runes of the last Build that the embedded fonts
// have no glyph for. Those characters are missing from the document.
func (b *Builder) Unsupported() []rune {
	return append([]rune(nil), b.unsupported...)
}

type writer struct {
	doc    *fpdf.Fpdf
	glyphs *glyphChecker
}

func (w *writer) text(s string) string {
	w.glyphs.check(s)
	return s
}

func (w *writer) footer() {
	w.doc.SetY(-margin + 10)
	w.doc.SetFont(fontFamily, "I", 8)
	w.doc.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", w.doc.PageNo()), "", 0, "C", false, 0, "")
}

func (w *writer) block(i int, blk report.Block) error {
	switch blk.Kind {
	case report.KindHeading:
		size, ok := headingSizes[blk.Level]
		if !ok {
			size = bodySize
		}
		align := "L"
		if blk.Level == 1 {
			align = "C"
		}
		w.doc.SetFont(fontFamily, "B", size)
		w.doc.MultiCell(0, size*1.3, w.text(blk.Text), "", align, false)
		w.doc.Ln(size / 3)
	case report.KindKeyValueLine:
		w.doc.SetFont(fontFamily, "", bodySize)
		w.doc.MultiCell(0, lineHeight, w.text(blk.Line()), "", "L", false)
	case report.KindParagraph:
		style := ""
		if blk.Bold {
			style = "B"
		}
		w.doc.SetFont(fontFamily, style, bodySize)
		w.doc.MultiCell(0, lineHeight, w.text(blk.Text), "", "L", false)
	case report.KindImage:
		if len(blk.Data) == 0 {
			return nil
		}
		name, opts, err := w.register(fmt.Sprintf("img-%d", i), blk.Data)
		if err != nil {
			return err
		}
		w.doc.ImageOptions(name, w.doc.GetX(), w.doc.GetY(), blk.Width, 0, true, opts, 0, "")
	case report.KindImageRow:
		return w.imageRow(i, blk.Slots)
	case report.KindSpacer:
		w.doc.Ln(blk.Height)
	default:
		return fmt.Errorf("unknown block kind %q", blk.Kind)
	}
	return nil
}

// imageRow places the slots side by side from the left margin. Blank slots still
// advance x by their width so the other images keep their position.
func (w *writer) imageRow(i int, slots []report.ImageSlot) error {
	type placed struct {
		name   string
		opts   fpdf.ImageOptions
		x, w   float64
		height float64
	}
	left, _, _, bottom := w.doc.GetMargins()
	_, pageHeight := w.doc.GetPageSize()

	x := left
	rowHeight := 0.0
	var row []placed
	for j, slot := range slots {
		if len(slot.Data) > 0 {
			name, opts, err := w.register(fmt.Sprintf("img-%d-%d", i, j), slot.Data)
			if err != nil {
				return fmt.Errorf("slot %d: %w", j, err)
			}
			info := w.doc.GetImageInfo(name)
			h := 0.0
			if info != nil && info.Width() > 0 {
				h = slot.Width * info.Height() / info.Width()
			}
			row = append(row, placed{name: name, opts: opts, x: x, w: slot.Width, height: h})
			if h > rowHeight {
				rowHeight = h
			}
		}
		x += slot.Width + rowGap
	}
	if len(row) == 0 {
		return nil
	}

	y := w.doc.GetY()
	if y+rowHeight > pageHeight-bottom {
		w.doc.AddPage()
		y = w.doc.GetY()
	}
	for _, p := range row {
		w.doc.ImageOptions(p.name, p.x, y, p.w, 0, false, p.opts, 0, "")
	}
	w.doc.SetXY(left, y+rowHeight)
	w.doc.Ln(lineHeight / 2)
	return nil
}

func (w *writer) register(name string, data []byte) (string, fpdf.ImageOptions, error) {
	imageType, err := imageType(data)
	if err != nil {
		return "", fpdf.ImageOptions{}, err
	}
	opts := fpdf.ImageOptions{ImageType: imageType}
	w.doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if w.doc.Err() {
		return "", fpdf.ImageOptions{}, fmt.Errorf("failed to register image %s: %w", name, w.doc.Error())
	}
	return name, opts, nil
}

// imageType maps sniffed content to the fpdf image type names.
func imageType(data []byte) (string, error) {
	switch ct := http.DetectContentType(data); ct {
	case "image/jpeg":
		return "JPG", nil
	case "image/png":
		return "PNG", nil
	case "image/gif":
		return "GIF", nil
	default:
		return "", fmt.Errorf("unsupported image content type %s", ct)
	}
}

package report

import (
	"fmt"

	"github.com/Lllllllleong/firesafetyreport/internal/checklist"
	"github.com/Lllllllleong/firesafetyreport/internal/models"
)

// QRRenderer turns a URL into an image.
type QRRenderer interface {
	Render(url string) ([]byte, error)
}

// Backend builds a paginated binary document from a block sequence.
type Backend interface {
	Build(blocks []Block) ([]byte, error)
}

// Rendered is the block sequence of one report.
type Rendered struct {
	Blocks []Block
}

// ItemGroup returns the blocks that belong to item k, in order.
func (r *Rendered) ItemGroup(k checklist.Key) []Block {
	var out []Block
	for _, b := range r.Blocks {
		if b.Item != nil && *b.Item == k {
			out = append(out, b)
		}
	}
	return out
}

// ItemKeys returns the key of every item group in the order the groups appear.
func (r *Rendered) ItemKeys() []checklist.Key {
	var keys []checklist.Key
	for _, b := range r.Blocks {
		if b.Item == nil {
			continue
		}
		if n := len(keys); n == 0 || keys[n-1] != *b.Item {
			keys = append(keys, *b.Item)
		}
	}
	return keys
}

// Renderer produces report blocks. The zero value is not usable; use NewRenderer.
type Renderer struct {
	Layout Layout
	// QR renders the download link. When nil, or when no download URL is known, the
	// QR block is left out.
	QR QRRenderer
	// DefaultURL is used when the metadata carries no download URL.
	DefaultURL string
}

func NewRenderer(layout Layout, qr QRRenderer) *Renderer {
	return &Renderer{Layout: layout, QR: qr}
}

// Validate fails with a *MismatchError when answers holds keys that address no item
// of schema.
func Validate(schema checklist.Schema, answers *models.AnswerSet) error {
	var unknown []checklist.Key
	for _, k := range answers.Keys() {
		if !schema.Has(k) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		return &MismatchError{Keys: unknown}
	}
	return nil
}

// Render walks schema in order and emits the report blocks. Missing answers, notes,
// codes and images render as blanks; the only failures are a schema mismatch and a
// failing QR renderer.
func (r *Renderer) Render(schema checklist.Schema, tables checklist.CodeTables, answers *models.AnswerSet, meta models.ReportMetadata) (*Rendered, error) {
	if err := Validate(schema, answers); err != nil {
		return nil, err
	}
	l := r.Layout
	var blocks []Block

	blocks = append(blocks,
		ImageRow(
			ImageSlot{Data: meta.CompanyLogo, Width: l.LogoWidth},
			ImageSlot{Data: meta.SitePhoto, Width: l.SitePhotoWidth},
		),
		Heading(l.Title, 1),
		KeyValue(l.ClientNameLabel, meta.ClientName),
		KeyValue(l.LocationLabel, meta.Location),
		KeyValue(l.DateLabel, meta.InspectionDate),
		Spacer(l.HeaderSpacing),
	)

	for _, sec := range schema.Sections {
		blocks = append(blocks, Heading(sec.Title, 2))
		for i, label := range sec.Items {
			k := checklist.Key{Section: sec.Title, Item: i}
			blocks = append(blocks, r.item(k, label, answers.Get(k), tables)...)
			blocks = append(blocks, Spacer(l.ItemSpacing))
		}
	}

	blocks = append(blocks, KeyValue(l.InspectorLabel, meta.InspectorName))
	if len(meta.Signature) > 0 {
		blocks = append(blocks, Image(meta.Signature, l.SignatureWidth))
	}

	qr, err := r.qrBlocks(meta.DownloadURL)
	if err != nil {
		return nil, err
	}
	blocks = append(blocks, qr...)

	return &Rendered{Blocks: blocks}, nil
}

func (r *Renderer) item(k checklist.Key, label string, ans models.Answer, tables checklist.CodeTables) []Block {
	l := r.Layout
	group := []Block{
		Paragraph(label, true),
		KeyValue(l.StatusLabel, ans.Status.String()),
		KeyValue(l.NoteLabel, ans.Note),
	}
	for _, ref := range ans.Codes {
		if !ref.Selected() {
			continue
		}
		group = append(group, codeLine(tables, ref))
	}
	if len(ans.Image) > 0 {
		group = append(group, Image(ans.Image, l.ItemImageWidth))
	}
	for i := range group {
		key := k
		group[i].Item = &key
	}
	return group
}

// codeLine renders "Label: CODE - description", or just the raw code when it does
// not resolve.
func codeLine(tables checklist.CodeTables, ref models.CodeRef) Block {
	label := ref.Table + " Code"
	if t := tables.Table(ref.Table); t != nil && t.Label != "" {
		label = t.Label
	}
	if desc, ok := tables.Resolve(ref.Table, ref.Code); ok {
		return KeyValue(label, ref.Code+" - "+desc)
	}
	return KeyValue(label, ref.Code)
}

func (r *Renderer) qrBlocks(url string) ([]Block, error) {
	if url == "" {
		url = r.DefaultURL
	}
	if url == "" || r.QR == nil {
		return nil, nil
	}
	img, err := r.QR.Render(url)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code for %s: %w", url, err)
	}
	l := r.Layout
	return []Block{
		Spacer(l.QRSpacing),
		Paragraph(l.QRCaption, false),
		Image(img, l.QRWidth),
	}, nil
}

// Export renders the report and builds the document with backend.
func (r *Renderer) Export(schema checklist.Schema, tables checklist.CodeTables, answers *models.AnswerSet, meta models.ReportMetadata, backend Backend) (*Rendered, []byte, error) {
	rendered, err := r.Render(schema, tables, answers, meta)
	if err != nil {
		return nil, nil, err
	}
	doc, err := backend.Build(rendered.Blocks)
	if err != nil {
		return rendered, nil, fmt.Errorf("failed to build document: %w", err)
	}
	return rendered, doc, nil
}

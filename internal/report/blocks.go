// Package report turns a checklist, a session's answers and the report metadata into
// an ordered sequence of document blocks, and hands that sequence to a document
// backend.
package report

import "github.com/Lllllllleong/firesafetyreport/internal/checklist"

// Kind discriminates the Block variants.
type Kind string

const (
	KindHeading      Kind = "heading"
	KindKeyValueLine Kind = "keyValue"
	KindParagraph    Kind = "paragraph"
	KindImage        Kind = "image"
	KindImageRow     Kind = "imageRow"
	KindSpacer       Kind = "spacer"
)

// ImageSlot is one cell of an image row. A slot without data is blank space of the
// same width.
type ImageSlot struct {
	Data  []byte
	Width float64
}

// Block is one atomic unit of document content. Which fields matter depends on Kind:
//
//	heading   Text, Level
//	keyValue  Key, Value (rendered "Key: Value")
//	paragraph Text, Bold
//	image     Data, Width
//	imageRow  Slots
//	spacer    Height
//
// Widths and heights are in points.
type Block struct {
	Kind   Kind
	Text   string
	Level  int
	Bold   bool
	Key    string
	Value  string
	Data   []byte
	Width  float64
	Height float64
	Slots  []ImageSlot
	// Item is set on blocks that belong to a checklist item's line group.
	Item *checklist.Key
}

// Line renders a keyValue block the way it appears in the document.
func (b Block) Line() string {
	return b.Key + ": " + b.Value
}

func Heading(text string, level int) Block {
	return Block{Kind: KindHeading, Text: text, Level: level}
}

func KeyValue(key, value string) Block {
	return Block{Kind: KindKeyValueLine, Key: key, Value: value}
}

func Paragraph(text string, bold bool) Block {
	return Block{Kind: KindParagraph, Text: text, Bold: bold}
}

func Image(data []byte, width float64) Block {
	return Block{Kind: KindImage, Data: data, Width: width}
}

func ImageRow(slots ...ImageSlot) Block {
	return Block{Kind: KindImageRow, Slots: slots}
}

func Spacer(height float64) Block {
	return Block{Kind: KindSpacer, Height: height}
}

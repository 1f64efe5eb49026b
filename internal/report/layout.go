package report

// Layout holds the fixed text and sizes of the report. Sizes are in points.
type Layout struct {
	Title           string
	LogoWidth       float64
	SitePhotoWidth  float64
	ItemImageWidth  float64
	SignatureWidth  float64
	QRWidth         float64
	QRCaption       string
	HeaderSpacing   float64
	ItemSpacing     float64
	QRSpacing       float64
	ClientNameLabel string
	LocationLabel   string
	DateLabel       string
	StatusLabel     string
	NoteLabel       string
	InspectorLabel  string
}

// DefaultLayout matches the fire-safety report.
func DefaultLayout() Layout {
	return Layout{
		Title:           "Fire Safety Inspection Report",
		LogoWidth:       100,
		SitePhotoWidth:  120,
		ItemImageWidth:  200,
		SignatureWidth:  100,
		QRWidth:         100,
		QRCaption:       "Scan to download:",
		HeaderSpacing:   20,
		ItemSpacing:     10,
		QRSpacing:       15,
		ClientNameLabel: "Client Name",
		LocationLabel:   "Location",
		DateLabel:       "Date",
		StatusLabel:     "Status",
		NoteLabel:       "Note",
		InspectorLabel:  "Inspector",
	}
}

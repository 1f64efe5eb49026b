package models

import "time"

// ReportMetadata is the non-checklist part of a report. Every field is optional;
// empty strings still render as lines and missing images render as blank space.
type ReportMetadata struct {
	ClientName     string
	Location       string
	InspectionDate string
	InspectorName  string
	Signature      []byte
	CompanyLogo    []byte
	SitePhoto      []byte
	RecipientEmail string
	// DownloadURL is what the QR code in the report points to.
	DownloadURL string
	// GeneratedAt is stamped into the PDF properties only.
	GeneratedAt time.Time
}

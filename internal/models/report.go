package models

import "time"

// Report lifecycle states stored in Firestore.
const (
	ReportRendered       = "RENDERED"
	ReportStored         = "STORED"
	ReportDelivered      = "DELIVERED"
	ReportDeliveryFailed = "DELIVERY_FAILED"
	ReportFailed         = "FAILED"
)

// Report represents the record of one generated inspection report in Firestore.
// The PDF itself lives in Cloud Storage under Object.
type Report struct {
	Status         string    `firestore:"status,omitempty"`
	ClientName     string    `firestore:"clientName,omitempty"`
	Location       string    `firestore:"location,omitempty"`
	InspectionDate string    `firestore:"inspectionDate,omitempty"`
	InspectorName  string    `firestore:"inspectorName,omitempty"`
	Object         string    `firestore:"object,omitempty"`
	DownloadURL    string    `firestore:"downloadUrl,omitempty"`
	Recipient      string    `firestore:"recipient,omitempty"`
	PageCount      int       `firestore:"pageCount,omitempty"`
	FileHash       string    `firestore:"fileHash,omitempty"`
	ItemCount      int       `firestore:"itemCount,omitempty"`
	ErrorDetails   string    `firestore:"errorDetails,omitempty"`
	DeliveryError  string    `firestore:"deliveryError,omitempty"`
	RenderWarning  string    `firestore:"renderWarning,omitempty"`
	CreatedAt      time.Time `firestore:"createdAt,omitempty"`
	ArchivedAt     time.Time `firestore:"archivedAt,omitempty"`
}

package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Lllllllleong/firesafetyreport/internal/checklist"
	"github.com/go-playground/validator/v10"
)

// These structs define the JSON payloads of the report-generator HTTP function.
// Image fields carry raw file bytes and travel as base64 strings.

// Upload field identifiers, shared with the form layer.
const (
	FieldCompanyLogo = "logo"
	FieldSitePhoto   = "site"
	FieldSignature   = "signature"
)

// MediaField is the upload field that carries the photo attached to item k.
func MediaField(k checklist.Key) string {
	return fmt.Sprintf("media_%s_%d", k.Section, k.Item)
}

// ImageSource hands out uploaded image bytes by field id.
type ImageSource interface {
	Image(fieldID string) ([]byte, bool)
}

// ErrInvalidRequest is returned for payloads that fail validation.
var ErrInvalidRequest = errors.New("invalid report request")

// ValidationError lists the offending fields and the rule each one broke.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + e.Fields[name]
	}
	return fmt.Sprintf("%v: %s", ErrInvalidRequest, strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidRequest }

var validate = validator.New()

// AnswerPayload is one checklist line as submitted by the form.
type AnswerPayload struct {
	Section string    `json:"section" validate:"required"`
	Item    int       `json:"item" validate:"gte=0"`
	Status  Status    `json:"status"`
	Note    string    `json:"note" validate:"max=4000"`
	Codes   []CodeRef `json:"codes" validate:"dive"`
	Image   []byte    `json:"image,omitempty"`
}

// Key returns the checklist key this answer belongs to.
func (p AnswerPayload) Key() checklist.Key {
	return checklist.Key{Section: p.Section, Item: p.Item}
}

// GenerateReportRequest is the input for the report-generator function.
type GenerateReportRequest struct {
	ClientName     string          `json:"clientName" validate:"max=200"`
	Location       string          `json:"location" validate:"max=200"`
	InspectionDate string          `json:"inspectionDate" validate:"max=50"`
	InspectorName  string          `json:"inspectorName" validate:"max=200"`
	RecipientEmail string          `json:"recipientEmail" validate:"omitempty,email"`
	CompanyLogo    []byte          `json:"companyLogo,omitempty"`
	SitePhoto      []byte          `json:"sitePhoto,omitempty"`
	Signature      []byte          `json:"signature,omitempty"`
	Answers        []AnswerPayload `json:"answers" validate:"dive"`
}

// Validate checks field rules and rejects two answers for the same item.
func (r *GenerateReportRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		fields := make(map[string]string, len(verrs))
		for _, ve := range verrs {
			fields[ve.Namespace()] = ve.Tag()
		}
		return &ValidationError{Fields: fields}
	}

	seen := make(map[checklist.Key]int, len(r.Answers))
	for i, a := range r.Answers {
		if j, dup := seen[a.Key()]; dup {
			return &ValidationError{Fields: map[string]string{
				fmt.Sprintf("GenerateReportRequest.Answers[%d]", i): fmt.Sprintf("duplicate of Answers[%d]", j),
			}}
		}
		seen[a.Key()] = i
	}
	return nil
}

// Uploads returns every non-empty image in the request keyed by upload field id.
func (r *GenerateReportRequest) Uploads() map[string][]byte {
	out := make(map[string][]byte)
	add := func(id string, data []byte) {
		if len(data) > 0 {
			out[id] = data
		}
	}
	add(FieldCompanyLogo, r.CompanyLogo)
	add(FieldSitePhoto, r.SitePhoto)
	add(FieldSignature, r.Signature)
	for _, a := range r.Answers {
		add(MediaField(a.Key()), a.Image)
	}
	return out
}

// AnswerSet builds the session's answers, taking item photos from images.
func (r *GenerateReportRequest) AnswerSet(images ImageSource) *AnswerSet {
	set := NewAnswerSet()
	for _, a := range r.Answers {
		ans := Answer{
			Status: a.Status,
			Note:   a.Note,
			Codes:  append([]CodeRef(nil), a.Codes...),
		}
		if img, ok := images.Image(MediaField(a.Key())); ok {
			ans.Image = img
		}
		set.Set(a.Key(), ans)
	}
	return set
}

// Metadata builds the report metadata, taking logo, site photo and signature from
// images.
func (r *GenerateReportRequest) Metadata(images ImageSource) ReportMetadata {
	meta := ReportMetadata{
		ClientName:     r.ClientName,
		Location:       r.Location,
		InspectionDate: r.InspectionDate,
		InspectorName:  r.InspectorName,
		RecipientEmail: r.RecipientEmail,
	}
	meta.CompanyLogo, _ = images.Image(FieldCompanyLogo)
	meta.SitePhoto, _ = images.Image(FieldSitePhoto)
	meta.Signature, _ = images.Image(FieldSignature)
	return meta
}

// DeliveryResult reports what happened to the optional email.
type DeliveryResult struct {
	Attempted bool   `json:"attempted"`
	Delivered bool   `json:"delivered"`
	Warning   string `json:"warning,omitempty"`
}

// GenerateReportResponse is the output of the report-generator function.
type GenerateReportResponse struct {
	ReportID    string         `json:"reportId"`
	Status      string         `json:"status"`
	DownloadURL string         `json:"downloadUrl"`
	PageCount   int            `json:"pageCount"`
	ItemCount   int            `json:"itemCount"`
	Delivery    DeliveryResult `json:"delivery"`
	Warnings    []string       `json:"warnings,omitempty"`
}

// ErrorResponse is written for failed requests.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

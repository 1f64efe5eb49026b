package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"github.com/Lllllllleong/firesafetyreport/internal/checklist"
	"github.com/Lllllllleong/firesafetyreport/internal/gcp"
	"github.com/Lllllllleong/firesafetyreport/internal/mail"
	"github.com/Lllllllleong/firesafetyreport/internal/media"
	"github.com/Lllllllleong/firesafetyreport/internal/models"
	"github.com/Lllllllleong/firesafetyreport/internal/pdf"
	"github.com/Lllllllleong/firesafetyreport/internal/qr"
	"github.com/Lllllllleong/firesafetyreport/internal/report"
	"github.com/google/uuid"
)

const uploadConcurrency = 4

// GeneratorConfig holds configuration for the report generator service.
type GeneratorConfig struct {
	ProjectID       string
	ReportsBucket   string
	CollectionName  string
	DownloadBaseURL string
	ReportTitle     string
	MaxImageWidth   int
	Mail            mail.Config
}

// reportStore is the part of gcp.ReportStore the services use.
type reportStore interface {
	Create(ctx context.Context, id string, r models.Report) error
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	MarkFailed(ctx context.Context, id, details string) error
}

// objectStore persists finished documents.
type objectStore interface {
	Save(ctx context.Context, object, contentType string, data []byte) error
}

// reportSender is the email collaborator.
type reportSender interface {
	SendReport(pdf []byte, recipient string) error
}

type gcsObjects struct {
	bucket *storage.BucketHandle
}

func (g gcsObjects) Save(ctx context.Context, object, contentType string, data []byte) error {
	return gcp.SaveToGCSAtomically(ctx, g.bucket, object, contentType, data)
}

// GeneratorFunction holds dependencies for the report generation logic.
type GeneratorFunction struct {
	storageClient   *storage.Client
	firestoreClient *firestore.Client
	store           reportStore
	objects         objectStore
	sender          reportSender
	renderer        *report.Renderer
	schema          checklist.Schema
	tables          checklist.CodeTables
	config          GeneratorConfig
	newID           func() string
	now             func() time.Time
}

// Result is what one Process call produced. PDF stays available even when email
// delivery failed.
type Result struct {
	Response models.GenerateReportResponse
	PDF      []byte
}

// loadGeneratorConfig loads and validates all necessary environment variables for this service.
func loadGeneratorConfig() (*GeneratorConfig, error) {
	projectID := gcp.GetEnv("PROJECT_ID", "")
	if projectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set")
	}
	bucket := gcp.GetEnv("REPORTS_BUCKET", "")
	if bucket == "" {
		return nil, fmt.Errorf("REPORTS_BUCKET environment variable must be set")
	}
	maxWidth, err := strconv.Atoi(gcp.GetEnv("MAX_IMAGE_WIDTH_PX", strconv.Itoa(media.DefaultMaxWidth)))
	if err != nil {
		return nil, fmt.Errorf("MAX_IMAGE_WIDTH_PX must be an integer: %w", err)
	}

	mailCfg := mail.DefaultConfig()
	mailCfg.Host = gcp.GetEnv("SMTP_HOST", "")
	mailCfg.Username = gcp.GetEnv("SMTP_USERNAME", "")
	mailCfg.Password = gcp.GetEnv("SMTP_PASSWORD", "")
	mailCfg.From = gcp.GetEnv("SMTP_FROM", mailCfg.Username)
	if mailCfg.Port, err = strconv.Atoi(gcp.GetEnv("SMTP_PORT", strconv.Itoa(mailCfg.Port))); err != nil {
		return nil, fmt.Errorf("SMTP_PORT must be an integer: %w", err)
	}

	return &GeneratorConfig{
		ProjectID:       projectID,
		ReportsBucket:   bucket,
		CollectionName:  gcp.GetEnv("FIRESTORE_COLLECTION", "inspection_reports"),
		DownloadBaseURL: strings.TrimSuffix(gcp.GetEnv("DOWNLOAD_BASE_URL", "https://storage.googleapis.com/"+bucket), "/"),
		ReportTitle:     gcp.GetEnv("REPORT_TITLE", report.DefaultLayout().Title),
		MaxImageWidth:   maxWidth,
		Mail:            mailCfg,
	}, nil
}

// NewGenerator creates a new GeneratorFunction instance.
func NewGenerator(ctx context.Context) (*GeneratorFunction, error) {
	config, err := loadGeneratorConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	firestoreClient, err := gcp.NewFirestoreClient(ctx, config.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	f := newGenerator(*config,
		gcp.NewReportStore(firestoreClient, config.CollectionName),
		gcsObjects{bucket: storageClient.Bucket(config.ReportsBucket)},
		mail.NewSender(config.Mail),
	)
	f.storageClient = storageClient
	f.firestoreClient = firestoreClient
	slog.Info("Report generator initialized.", "bucket", config.ReportsBucket, "emailEnabled", config.Mail.Host != "")
	return f, nil
}

func newGenerator(config GeneratorConfig, store reportStore, objects objectStore, sender reportSender) *GeneratorFunction {
	layout := report.DefaultLayout()
	if config.ReportTitle != "" {
		layout.Title = config.ReportTitle
	}
	return &GeneratorFunction{
		store:    store,
		objects:  objects,
		sender:   sender,
		renderer: report.NewRenderer(layout, qr.NewEncoder()),
		schema:   checklist.Default(),
		tables:   checklist.DefaultCodeTables(),
		config:   config,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// Close releases the GCP clients.
func (f *GeneratorFunction) Close() error {
	var errs []error
	if f.firestoreClient != nil {
		errs = append(errs, f.firestoreClient.Close())
	}
	if f.storageClient != nil {
		errs = append(errs, f.storageClient.Close())
	}
	return errors.Join(errs...)
}

// Schema returns the checklist and code tables the form must mirror.
func (f *GeneratorFunction) Schema() checklist.View {
	return checklist.NewView(f.schema, f.tables)
}

// Process renders, stores and optionally emails one inspection report.
func (f *GeneratorFunction) Process(ctx context.Context, req *models.GenerateReportRequest) (*Result, error) {
	if err := req.Validate(); err != nil {
		slog.Warn("Rejected report request.", "error", err)
		return nil, err
	}

	reportID := f.newID()
	logCtx := slog.With("reportId", reportID)
	logCtx.Info("Starting report generation.", "answers", len(req.Answers))

	uploads, err := media.NormalizeAll(ctx, req.Uploads(), f.config.MaxImageWidth, uploadConcurrency)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			logCtx.Warn("Request cancelled while normalizing uploads.", "error", ctxErr)
			return nil, ctxErr
		}
		logCtx.Warn("Rejected uploaded image.", "error", err)
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidRequest, err)
	}

	answers := req.AnswerSet(uploads)
	logCtx.Info("Answers collected.", "answered", answers.Len(), "items", f.schema.ItemCount())
	meta := req.Metadata(uploads)
	object := reportID + ".pdf"
	meta.DownloadURL = f.config.DownloadBaseURL + "/" + object
	meta.GeneratedAt = f.now().UTC()

	backend := &pdf.Builder{
		Title:     f.renderer.Layout.Title,
		Author:    meta.InspectorName,
		Subject:   meta.ClientName,
		CreatedAt: meta.GeneratedAt,
	}
	_, raw, err := f.renderer.Export(f.schema, f.tables, answers, meta, backend)
	if err != nil {
		logCtx.Error("Failed to render report", "error", err)
		return nil, err
	}
	var warnings []string
	if missing := backend.Unsupported(); len(missing) > 0 {
		warning := unsupportedTextWarning(missing)
		logCtx.Warn("Report text contains characters the PDF fonts cannot display.", "runes", string(missing))
		warnings = append(warnings, warning)
	}
	doc, pageCount, err := pdf.Finalize(raw)
	if err != nil {
		logCtx.Error("Failed to finalize PDF", "error", err)
		return nil, err
	}
	logCtx.Info("Report rendered.", "pageCount", pageCount, "bytes", len(doc))

	record := models.Report{
		Status:         models.ReportRendered,
		ClientName:     meta.ClientName,
		Location:       meta.Location,
		InspectionDate: meta.InspectionDate,
		InspectorName:  meta.InspectorName,
		Object:         object,
		DownloadURL:    meta.DownloadURL,
		Recipient:      meta.RecipientEmail,
		PageCount:      pageCount,
		ItemCount:      f.schema.ItemCount(),
		RenderWarning:  strings.Join(warnings, "; "),
		CreatedAt:      meta.GeneratedAt,
	}
	if err := f.store.Create(ctx, reportID, record); err != nil {
		logCtx.Error("Failed to create report record", "error", err)
		return nil, err
	}

	if err := f.objects.Save(ctx, object, "application/pdf", doc); err != nil {
		return nil, f.handleError(ctx, logCtx, reportID, "failed to upload report PDF", err)
	}
	f.setStatus(ctx, logCtx, reportID, map[string]interface{}{"status": models.ReportStored})
	logCtx.Info("Report stored.", "gcsObject", object)

	res := &Result{
		PDF: doc,
		Response: models.GenerateReportResponse{
			ReportID:    reportID,
			Status:      models.ReportStored,
			DownloadURL: meta.DownloadURL,
			PageCount:   pageCount,
			ItemCount:   record.ItemCount,
			Warnings:    warnings,
		},
	}
	if meta.RecipientEmail != "" {
		res.Response.Delivery = f.deliver(ctx, logCtx, reportID, doc, meta.RecipientEmail)
		if res.Response.Delivery.Delivered {
			res.Response.Status = models.ReportDelivered
		} else {
			res.Response.Status = models.ReportDeliveryFailed
		}
	}

	logCtx.Info("Report generation complete.", "status", res.Response.Status)
	return res, nil
}

// unsupportedTextWarning is ASCII-only so it can travel in an HTTP header.
func unsupportedTextWarning(missing []rune) string {
	return fmt.Sprintf("The PDF cannot display %d character(s) and leaves them blank: %+q", len(missing), string(missing))
}

// deliver emails the report once. A failure is a warning for the caller; the stored
// document is unaffected.
func (f *GeneratorFunction) deliver(ctx context.Context, logCtx *slog.Logger, reportID string, doc []byte, recipient string) models.DeliveryResult {
	result := models.DeliveryResult{Attempted: true}
	err := f.sender.SendReport(doc, recipient)
	if err == nil {
		result.Delivered = true
		f.setStatus(ctx, logCtx, reportID, map[string]interface{}{"status": models.ReportDelivered})
		logCtx.Info("Report emailed.", "recipient", recipient)
		return result
	}

	if errors.Is(err, mail.ErrNotConfigured) {
		result.Warning = "Email sending is not configured. Download the report instead."
	} else {
		result.Warning = "Email sending failed. Check SMTP settings."
	}
	logCtx.Warn("Email delivery failed.", "recipient", recipient, "error", err)
	f.setStatus(ctx, logCtx, reportID, map[string]interface{}{
		"status":        models.ReportDeliveryFailed,
		"deliveryError": err.Error(),
	})
	return result
}

// setStatus updates the record without failing the request; the PDF already exists.
func (f *GeneratorFunction) setStatus(ctx context.Context, logCtx *slog.Logger, reportID string, fields map[string]interface{}) {
	if err := f.store.Update(ctx, reportID, fields); err != nil {
		logCtx.Error("Failed to update report record", "error", err, "fields", fields)
	}
}

func (f *GeneratorFunction) handleError(ctx context.Context, logCtx *slog.Logger, reportID, message string, originalErr error) error {
	fullError := fmt.Sprintf("%s: %v", message, originalErr)
	logCtx.Error(message, "error", originalErr)
	if err := f.store.MarkFailed(ctx, reportID, fullError); err != nil {
		logCtx.Error("CRITICAL: Failed to update Firestore status to FAILED after a processing error.", "updateError", err)
	}
	return fmt.Errorf("%s: %w", message, originalErr)
}

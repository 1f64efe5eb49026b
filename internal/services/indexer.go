package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"github.com/Lllllllleong/firesafetyreport/internal/gcp"
	"github.com/Lllllllleong/firesafetyreport/internal/pdf"
)

// GCSEvent is the payload of a GCS event.
type GCSEvent struct {
	Bucket string `json:"bucket"`
	Name   string `json:"name"`
}

// IndexerConfig holds configuration for the report indexer service.
type IndexerConfig struct {
	ProjectID      string
	ReportsBucket  string
	CollectionName string
}

// objectReader downloads an object and returns its bytes and SHA-256.
type objectReader interface {
	Read(ctx context.Context, bucket, object string) ([]byte, string, error)
}

type gcsReader struct {
	client *storage.Client
}

func (g gcsReader) Read(ctx context.Context, bucket, object string) ([]byte, string, error) {
	return gcp.ReadObject(ctx, g.client.Bucket(bucket), object)
}

// IndexerFunction records hash and page count of every report PDF that lands in the
// reports bucket.
type IndexerFunction struct {
	storageClient   *storage.Client
	firestoreClient *firestore.Client
	reader          objectReader
	store           reportStore
	config          IndexerConfig
	now             func() time.Time
}

// NewIndexer creates a new IndexerFunction instance.
func NewIndexer(ctx context.Context) (*IndexerFunction, error) {
	projectID := gcp.GetEnv("PROJECT_ID", "")
	if projectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set")
	}

	config := IndexerConfig{
		ProjectID:      projectID,
		ReportsBucket:  gcp.GetEnv("REPORTS_BUCKET", ""),
		CollectionName: gcp.GetEnv("FIRESTORE_COLLECTION", "inspection_reports"),
	}
	if config.ReportsBucket == "" {
		return nil, fmt.Errorf("REPORTS_BUCKET environment variable must be set")
	}

	firestoreClient, err := gcp.NewFirestoreClient(ctx, config.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Storage client: %w", err)
	}

	f := &IndexerFunction{
		storageClient:   storageClient,
		firestoreClient: firestoreClient,
		reader:          gcsReader{client: storageClient},
		store:           gcp.NewReportStore(firestoreClient, config.CollectionName),
		config:          config,
		now:             time.Now,
	}
	slog.Info("Report indexer initialized.", "bucket", config.ReportsBucket)
	return f, nil
}

// Process indexes one finalized GCS object. Objects outside the reports bucket and
// non-PDF objects are skipped.
func (f *IndexerFunction) Process(ctx context.Context, e GCSEvent) error {
	logCtx := slog.With("gcsBucket", e.Bucket, "gcsObject", e.Name)
	if e.Bucket != f.config.ReportsBucket || !strings.HasSuffix(e.Name, ".pdf") {
		logCtx.Info("Ignoring object outside the report set.")
		return nil
	}
	reportID := strings.TrimSuffix(path.Base(e.Name), ".pdf")
	logCtx = logCtx.With("reportId", reportID)
	logCtx.Info("Indexing report.")

	data, fileHash, err := f.reader.Read(ctx, e.Bucket, e.Name)
	if err != nil {
		logCtx.Error("Failed to download report", "error", err)
		return err
	}

	pageCount, err := pdf.PageCount(bytes.NewReader(data))
	if err != nil {
		fullError := fmt.Sprintf("stored report is not a readable PDF: %v", err)
		logCtx.Error("Stored report is not a readable PDF", "error", err)
		if uerr := f.store.MarkFailed(ctx, reportID, fullError); uerr != nil {
			logCtx.Error("CRITICAL: Failed to update Firestore status to FAILED after a processing error.", "updateError", uerr)
		}
		return fmt.Errorf("%s", fullError)
	}

	// status is left alone; the generator may still be recording email delivery.
	if err := f.store.Update(ctx, reportID, map[string]interface{}{
		"fileHash":   fileHash,
		"pageCount":  pageCount,
		"archivedAt": f.now().UTC(),
	}); err != nil {
		logCtx.Error("Failed to update report record", "error", err)
		return err
	}
	logCtx.Info("Report indexed.", "fileHash", fileHash, "pageCount", pageCount)
	return nil
}

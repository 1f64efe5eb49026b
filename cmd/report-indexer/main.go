package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/Lllllllleong/firesafetyreport/internal/services"
	cloudevents "github.com/cloudevents/sdk-go/v2"
)

var (
	indexerInstance *services.IndexerFunction
	once            sync.Once
	initErr         error
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Fired by google.cloud.storage.object.v1.finalized on the reports bucket.
	functions.CloudEvent("IndexReport", indexReport)
}

// main is required by the Go Functions Framework.
func main() {}

// indexReport is the Cloud Function entry point.
func indexReport(ctx context.Context, e cloudevents.Event) error {
	once.Do(func() {
		indexerInstance, initErr = services.NewIndexer(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		return initErr
	}

	var gcsEvent services.GCSEvent
	if err := json.Unmarshal(e.Data(), &gcsEvent); err != nil {
		slog.Error("Failed to unmarshal event data", "error", err, "data", string(e.Data()))
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	// Errors are logged with context inside Process.
	return indexerInstance.Process(ctx, gcsEvent)
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/Lllllllleong/firesafetyreport/internal/checklist"
	"github.com/Lllllllleong/firesafetyreport/internal/gcp"
	"github.com/Lllllllleong/firesafetyreport/internal/models"
	"github.com/Lllllllleong/firesafetyreport/internal/report"
	"github.com/Lllllllleong/firesafetyreport/internal/services"
	"github.com/joho/godotenv"
)

const (
	maxRequestBytes = 32 << 20
	reportFilename  = "fire_safety_report.pdf"
)

var (
	generatorInstance *services.GeneratorFunction
	once              sync.Once
	initErr           error
)

// reportService is the part of services.GeneratorFunction the handler needs.
type reportService interface {
	Schema() checklist.View
	Process(ctx context.Context, req *models.GenerateReportRequest) (*services.Result, error)
}

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// "HandleGenerateReport" is the entry point name configured in GCP.
	functions.HTTP("HandleGenerateReport", handleGenerateReport)
}

// main runs the function locally, reading a .env file if there is one.
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file loaded.", "error", err)
	}
	port := gcp.GetEnv("PORT", "8080")
	if err := funcframework.Start(port); err != nil {
		log.Fatalf("funcframework.Start: %v", err)
	}
}

// handleGenerateReport is the HTTP handler.
func handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	// Use sync.Once for robust, one-time initialization of clients.
	once.Do(func() {
		generatorInstance, initErr = services.NewGenerator(context.Background())
	})
	if initErr != nil {
		slog.Error("CRITICAL: Report generator initialization failed", "error", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}
	serve(generatorInstance, w, r)
}

// serve answers GET with the checklist schema and POST with a generated report.
// POST ?format=pdf streams the document itself instead of the JSON summary.
func serve(svc reportService, w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, svc.Schema())
		return
	case http.MethodPost:
	default:
		w.Header().Set("Allow", "GET, POST")
		writeJSON(w, http.StatusMethodNotAllowed, models.ErrorResponse{Error: "method not allowed"})
		return
	}

	var req models.GenerateReportRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		slog.Warn("Could not decode request body", "error", err)
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "could not parse JSON: " + err.Error()})
		return
	}

	res, err := svc.Process(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "pdf" {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="`+reportFilename+`"`)
		w.Header().Set("Content-Length", strconv.Itoa(len(res.PDF)))
		w.Header().Set("X-Report-Id", res.Response.ReportID)
		if warning := res.Response.Delivery.Warning; warning != "" {
			w.Header().Set("X-Delivery-Warning", warning)
		}
		for _, warning := range res.Response.Warnings {
			w.Header().Add("X-Render-Warning", warning)
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(res.PDF); err != nil {
			slog.Error("Failed to write PDF response", "error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, res.Response)
}

// writeError maps service errors to status codes. The specific error is already
// logged by the service.
func writeError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: models.ErrInvalidRequest.Error(), Fields: verr.Fields})
	case errors.Is(err, models.ErrInvalidRequest):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, report.ErrSchemaMismatch):
		writeJSON(w, http.StatusUnprocessableEntity, models.ErrorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal Server Error: processing failed"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

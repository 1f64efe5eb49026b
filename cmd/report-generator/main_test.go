package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Lllllllleong/firesafetyreport/internal/checklist"
	"github.com/Lllllllleong/firesafetyreport/internal/models"
	"github.com/Lllllllleong/firesafetyreport/internal/report"
	"github.com/Lllllllleong/firesafetyreport/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	got *models.GenerateReportRequest
	res *services.Result
	err error
}

func (f *fakeService) Schema() checklist.View {
	return checklist.NewView(checklist.Default(), checklist.DefaultCodeTables())
}

func (f *fakeService) Process(_ context.Context, req *models.GenerateReportRequest) (*services.Result, error) {
	f.got = req
	return f.res, f.err
}

func okResult() *services.Result {
	return &services.Result{
		PDF: []byte("%PDF-1.7 test"),
		Response: models.GenerateReportResponse{
			ReportID:    "r1",
			Status:      models.ReportDeliveryFailed,
			DownloadURL: "https://storage.googleapis.com/reports/r1.pdf",
			PageCount:   1,
			ItemCount:   3,
			Delivery:    models.DeliveryResult{Attempted: true, Warning: "Email sending failed. Check SMTP settings."},
			Warnings:    []string{`The PDF cannot display 1 character(s) and leaves them blank: "\u0634"`},
		},
	}
}

const body = `{"clientName":"ACME","answers":[{"section":"EMERGENCY & EXIT LIGHTS","item":0,"status":"N/A","note":"","codes":[{"table":"UAE","code":"None"}]}]}`

func TestServeSchema(t *testing.T) {
	rec := httptest.NewRecorder()
	serve(&fakeService{}, rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var view checklist.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Len(t, view.Sections, 2)
}

func TestServeGenerateJSON(t *testing.T) {
	svc := &fakeService{res: okResult()}
	rec := httptest.NewRecorder()

	serve(svc, rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got)
	assert.Equal(t, "ACME", svc.got.ClientName)
	require.Len(t, svc.got.Answers, 1)
	assert.Equal(t, models.StatusNotApplicable, svc.got.Answers[0].Status)

	var resp models.GenerateReportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, okResult().Response, resp)
}

func TestServeGeneratePDF(t *testing.T) {
	rec := httptest.NewRecorder()

	serve(&fakeService{res: okResult()}, rec, httptest.NewRequest(http.MethodPost, "/?format=pdf", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="fire_safety_report.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "Email sending failed. Check SMTP settings.", rec.Header().Get("X-Delivery-Warning"))
	assert.Equal(t, []string{`The PDF cannot display 1 character(s) and leaves them blank: "\u0634"`}, rec.Header().Values("X-Render-Warning"))
	assert.Equal(t, "%PDF-1.7 test", rec.Body.String())
}

func TestServeErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"bad json", `{`, nil, http.StatusBadRequest},
		{"unknown status", `{"answers":[{"section":"S","item":0,"status":"Maybe"}]}`, nil, http.StatusBadRequest},
		{"validation", body, &models.ValidationError{Fields: map[string]string{"GenerateReportRequest.RecipientEmail": "email"}}, http.StatusBadRequest},
		{"bad image", body, fmt.Errorf("%w: field logo: unrecognized image", models.ErrInvalidRequest), http.StatusBadRequest},
		{"mismatch", body, &report.MismatchError{Keys: []checklist.Key{{Section: "X", Item: 0}}}, http.StatusUnprocessableEntity},
		{"internal", body, errors.New("bucket unavailable"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			serve(&fakeService{err: tt.err}, rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body)))

			assert.Equal(t, tt.status, rec.Code)
			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
			assert.NotContains(t, resp.Error, "bucket unavailable")
		})
	}
}

func TestServeValidationFields(t *testing.T) {
	rec := httptest.NewRecorder()
	verr := &models.ValidationError{Fields: map[string]string{"GenerateReportRequest.RecipientEmail": "email"}}

	serve(&fakeService{err: verr}, rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "email", resp.Fields["GenerateReportRequest.RecipientEmail"])
}

func TestServeRejectsOtherMethods(t *testing.T) {
	rec := httptest.NewRecorder()
	serve(&fakeService{}, rec, httptest.NewRequest(http.MethodDelete, "/", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, POST", rec.Header().Get("Allow"))
}

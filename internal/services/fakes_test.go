package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/Lllllllleong/firesafetyreport/internal/models"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	created map[string]models.Report
	updates []map[string]interface{}
	failed  map[string]string
	err     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{created: map[string]models.Report{}, failed: map[string]string{}}
}

func (s *fakeStore) Create(_ context.Context, id string, r models.Report) error {
	if s.err != nil {
		return s.err
	}
	s.created[id] = r
	return nil
}

func (s *fakeStore) Update(_ context.Context, id string, fields map[string]interface{}) error {
	s.updates = append(s.updates, fields)
	return s.err
}

func (s *fakeStore) MarkFailed(_ context.Context, id, details string) error {
	s.failed[id] = details
	return s.err
}

func (s *fakeStore) statuses() []string {
	var out []string
	for _, u := range s.updates {
		if st, ok := u["status"].(string); ok {
			out = append(out, st)
		}
	}
	return out
}

type fakeObjects struct {
	saved map[string][]byte
	err   error
}

func (o *fakeObjects) Save(_ context.Context, object, contentType string, data []byte) error {
	if o.err != nil {
		return o.err
	}
	if o.saved == nil {
		o.saved = map[string][]byte{}
	}
	o.saved[object] = data
	return nil
}

func (o *fakeObjects) Read(_ context.Context, bucket, object string) ([]byte, string, error) {
	if o.err != nil {
		return nil, "", o.err
	}
	return o.saved[object], "hash-of-" + object, nil
}

type fakeSender struct {
	sent []string
	err  error
}

func (s *fakeSender) SendReport(pdf []byte, recipient string) error {
	s.sent = append(s.sent, recipient)
	return s.err
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 30, 20))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

var fixedNow = time.Date(2026, 10, 17, 8, 30, 0, 0, time.UTC)

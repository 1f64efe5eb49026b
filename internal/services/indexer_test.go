package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Lllllllleong/firesafetyreport/internal/pdf"
	"github.com/Lllllllleong/firesafetyreport/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndexer(objects *fakeObjects, store *fakeStore) *IndexerFunction {
	return &IndexerFunction{
		reader: objects,
		store:  store,
		config: IndexerConfig{ReportsBucket: "reports"},
		now:    func() time.Time { return fixedNow },
	}
}

func TestIndexerRecordsHashAndPages(t *testing.T) {
	doc, err := (&pdf.Builder{}).Build([]report.Block{report.Heading("Fire Safety Inspection Report", 1)})
	require.NoError(t, err)
	objects := &fakeObjects{saved: map[string][]byte{"abc.pdf": doc}}
	store := newFakeStore()

	require.NoError(t, newTestIndexer(objects, store).Process(context.Background(), GCSEvent{Bucket: "reports", Name: "abc.pdf"}))

	require.Len(t, store.updates, 1)
	update := store.updates[0]
	assert.Equal(t, "hash-of-abc.pdf", update["fileHash"])
	assert.Equal(t, 1, update["pageCount"])
	assert.Equal(t, fixedNow, update["archivedAt"])
	assert.NotContains(t, update, "status")
}

func TestIndexerSkipsForeignObjects(t *testing.T) {
	store := newFakeStore()
	ix := newTestIndexer(&fakeObjects{}, store)

	require.NoError(t, ix.Process(context.Background(), GCSEvent{Bucket: "reports", Name: "notes.txt"}))
	require.NoError(t, ix.Process(context.Background(), GCSEvent{Bucket: "other", Name: "abc.pdf"}))
	assert.Empty(t, store.updates)
}

func TestIndexerMarksUnreadablePDF(t *testing.T) {
	objects := &fakeObjects{saved: map[string][]byte{"bad.pdf": []byte("garbage")}}
	store := newFakeStore()

	err := newTestIndexer(objects, store).Process(context.Background(), GCSEvent{Bucket: "reports", Name: "bad.pdf"})
	require.Error(t, err)
	assert.Contains(t, store.failed["bad"], "not a readable PDF")
}

func TestIndexerDownloadFailure(t *testing.T) {
	objects := &fakeObjects{err: errors.New("404")}

	err := newTestIndexer(objects, newFakeStore()).Process(context.Background(), GCSEvent{Bucket: "reports", Name: "abc.pdf"})
	assert.ErrorContains(t, err, "404")
}

package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/Lllllllleong/firesafetyreport/internal/models"
)

// NewFirestoreClient creates and returns a new Firestore client for the given project ID.
func NewFirestoreClient(ctx context.Context, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore client")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return client, nil
}

// ReportStore keeps one Firestore document per generated report, keyed by report ID.
type ReportStore struct {
	collection *firestore.CollectionRef
}

func NewReportStore(client *firestore.Client, collection string) *ReportStore {
	return &ReportStore{collection: client.Collection(collection)}
}

// Create writes the initial record. It fails if the ID is already taken.
func (s *ReportStore) Create(ctx context.Context, id string, r models.Report) error {
	if _, err := s.collection.Doc(id).Create(ctx, r); err != nil {
		return fmt.Errorf("failed to create report %s: %w", id, err)
	}
	return nil
}

// Update sets the given fields on an existing record. Keys are Firestore field paths.
func (s *ReportStore) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	if _, err := s.collection.Doc(id).Update(ctx, updates); err != nil {
		return fmt.Errorf("failed to update report %s: %w", id, err)
	}
	return nil
}

// MarkFailed records a processing error on the report.
func (s *ReportStore) MarkFailed(ctx context.Context, id, details string) error {
	return s.Update(ctx, id, map[string]interface{}{
		"status":       models.ReportFailed,
		"errorDetails": details,
	})
}

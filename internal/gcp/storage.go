package gcp

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

// ErrObjectExists is returned by SaveToGCSAtomically when the object is already there.
var ErrObjectExists = errors.New("object already exists")

// GetEnv is a helper to read an environment variable or return a default value.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// SaveToGCSAtomically writes data to a GCS object only if it doesn't already exist.
func SaveToGCSAtomically(ctx context.Context, bucket *storage.BucketHandle, objectName, contentType string, data []byte) error {
	writer := bucket.Object(objectName).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := io.Copy(writer, bytes.NewReader(data)); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write to GCS: %w", preconditionErr(objectName, err))
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize GCS write: %w", preconditionErr(objectName, err))
	}
	return nil
}

// preconditionErr maps a failed DoesNotExist precondition to ErrObjectExists.
func preconditionErr(objectName string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed {
		slog.Warn("GCS object already exists.", "gcsObject", objectName)
		return ErrObjectExists
	}
	return err
}

// ReadObject downloads an object into memory and returns its SHA-256 alongside.
func ReadObject(ctx context.Context, bucket *storage.BucketHandle, objectName string) ([]byte, string, error) {
	reader, err := bucket.Object(objectName).NewReader(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get GCS object reader for %s: %w", objectName, err)
	}
	defer reader.Close()

	hash := sha256.New()
	data, err := io.ReadAll(io.TeeReader(reader, hash))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read GCS object %s: %w", objectName, err)
	}
	return data, hex.EncodeToString(hash.Sum(nil)), nil
}

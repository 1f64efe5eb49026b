// Package media normalizes uploaded photos, logos and signatures before they are
// placed in a report: EXIF orientation is applied, oversized images are scaled down
// and everything is re-encoded as PNG or JPEG.
package media

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxWidth bounds the pixel width of stored images.
const DefaultMaxWidth = 1600

const jpegQuality = 85

// Normalize decodes data, applies its orientation, shrinks it to at most maxWidth
// pixels wide and re-encodes it. PNG input stays PNG so transparent logos and
// signatures keep their alpha channel; anything else becomes JPEG. Empty input
// returns nil without error.
func Normalize(data []byte, maxWidth int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unrecognized image: %w", err)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s image: %w", format, err)
	}
	if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if format == "png" {
		err = imaging.Encode(&buf, img, imaging.PNG)
	} else {
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// Uploads holds normalized images keyed by upload field id.
type Uploads map[string][]byte

// Image returns the bytes uploaded for fieldID, if any.
func (u Uploads) Image(fieldID string) ([]byte, bool) {
	data, ok := u[fieldID]
	if !ok || len(data) == 0 {
		return nil, false
	}
	return data, true
}

// NormalizeAll normalizes every upload with at most limit images in flight. The first
// failure cancels the rest and names the offending field. Cancellation of ctx is
// returned as ctx.Err().
func NormalizeAll(ctx context.Context, raw map[string][]byte, maxWidth, limit int) (Uploads, error) {
	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	results := make([][]byte, len(ids))

	eg, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}
	for i, id := range ids {
		i, id := i, id
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := Normalize(raw[id], maxWidth)
			if err != nil {
				return fmt.Errorf("field %s: %w", id, err)
			}
			results[i] = out
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}

	uploads := make(Uploads, len(ids))
	for i, id := range ids {
		if len(results[i]) > 0 {
			uploads[id] = results[i]
		}
	}
	return uploads, nil
}

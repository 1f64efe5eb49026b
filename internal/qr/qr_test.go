package qr

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProducesPNG(t *testing.T) {
	out, err := NewEncoder().Render("https://storage.googleapis.com/reports/abc.pdf")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
	assert.Equal(t, 256, img.Bounds().Dy())
}

func TestRenderRejectsEmptyURL(t *testing.T) {
	_, err := NewEncoder().Render("")
	assert.Error(t, err)
}

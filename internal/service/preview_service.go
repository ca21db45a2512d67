package service

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"helpdesk-console/pkg/apierror"
)

// PreviewService downscales image attachments before they reach the browser
// so ticket views don't pull full-resolution screenshots through the
// gateway. Scaled previews are cached on disk keyed by attachment and size.
type PreviewService struct {
	cacheDir string
	maxEdge  int
}

func NewPreviewService(cacheDir string, maxEdge int) (*PreviewService, error) {
	if strings.TrimSpace(cacheDir) == "" {
		cacheDir = "./state/previews"
	}
	if maxEdge <= 0 {
		maxEdge = 480
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create preview cache dir: %w", err)
	}

	return &PreviewService{cacheDir: cacheDir, maxEdge: maxEdge}, nil
}

// Previewable reports whether a content type is worth scaling. Anything
// else streams through the download path untouched.
func (s *PreviewService) Previewable(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), "image/")
}

// Render returns a scaled JPEG for the attachment body, serving from cache
// when present.
func (s *PreviewService) Render(attachmentID string, body []byte) ([]byte, error) {
	cachePath := s.cachePath(attachmentID)
	if cached, err := os.ReadFile(cachePath); err == nil {
		return cached, nil
	}

	src, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, apierror.New("UNSUPPORTED_TYPE", "cannot decode image", err.Error(), http.StatusUnsupportedMediaType)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, apierror.New("UNSUPPORTED_TYPE", "invalid image dimensions", attachmentID, http.StatusUnsupportedMediaType)
	}

	scaledW, scaledH := fitWithin(width, height, s.maxEdge)
	dst := image.NewRGBA(image.Rect(0, 0, scaledW, scaledH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: 82}); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}

	// Cache write failures only cost a rescale next time.
	_ = os.WriteFile(cachePath, out.Bytes(), 0o644)

	return out.Bytes(), nil
}

func (s *PreviewService) cachePath(attachmentID string) string {
	sum := sha256.Sum256([]byte(attachmentID))
	name := fmt.Sprintf("%s_%d.jpg", hex.EncodeToString(sum[:8]), s.maxEdge)
	return filepath.Join(s.cacheDir, name)
}

// fitWithin shrinks (never grows) dimensions to fit the max edge while
// preserving aspect ratio.
func fitWithin(width int, height int, maxEdge int) (int, int) {
	if width <= maxEdge && height <= maxEdge {
		return width, height
	}

	if width >= height {
		scaled := height * maxEdge / width
		if scaled < 1 {
			scaled = 1
		}
		return maxEdge, scaled
	}

	scaled := width * maxEdge / height
	if scaled < 1 {
		scaled = 1
	}
	return scaled, maxEdge
}

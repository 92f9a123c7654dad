package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// Uploader stores an object and returns the URL clients fetch it from.
type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (publicURL string, err error)
}

// MaxImageBytes bounds logo and avatar uploads.
const MaxImageBytes = 2 << 20

var imageExt = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// ImageExtension returns the file extension for an accepted image type.
func ImageExtension(contentType string) (string, bool) {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	ext, ok := imageExt[ct]
	return ext, ok
}

// LogoObjectName builds a unique object key for a company logo, ex:
// companies/<id>/logo-1700000000.png.
func LogoObjectName(companyID, ext string, at time.Time) string {
	return path.Join("companies", companyID, fmt.Sprintf("logo-%d%s", at.Unix(), ext))
}

// AngelaMos | 2026
// storage.go

package storage

import (
	"context"
	"path/filepath"
	"strings"
)

const (
	ResourceImage = "image"
	ResourceRaw   = "raw"

	FolderSignatures = "signatures"
	FolderAgreements = "agreements"
)

type UploadInput struct {
	Data         []byte
	Filename     string
	Folder       string
	ResourceType string
}

type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// Uploader stores a byte buffer externally and returns a durable public URL
// plus a provider handle usable for later deletion.
type Uploader interface {
	Upload(ctx context.Context, in UploadInput) (*UploadResult, error)
	Destroy(ctx context.Context, publicID, resourceType string) error
}

// PublicIDFromFilename derives a deterministic, collision-safe public id
// from the original filename so a re-upload overwrites the previous blob
// instead of accumulating orphans.
func PublicIDFromFilename(filename string) string {
	base := strings.TrimSuffix(
		filepath.Base(filename),
		filepath.Ext(filename),
	)

	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(base) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "file"
	}
	return slug
}

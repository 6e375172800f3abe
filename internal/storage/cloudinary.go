// AngelaMos | 2026
// cloudinary.go

package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/partnerdesk/agreements-api/internal/config"
	"github.com/partnerdesk/agreements-api/internal/core"
)

type CloudinaryStore struct {
	client *cloudinary.Cloudinary
}

func NewCloudinaryStore(
	cfg config.CloudinaryConfig,
) (*CloudinaryStore, error) {
	client, err := cloudinary.NewFromParams(
		cfg.CloudName,
		cfg.APIKey,
		cfg.APISecret,
	)
	if err != nil {
		return nil, fmt.Errorf("create cloudinary client: %w", err)
	}

	return &CloudinaryStore{client: client}, nil
}

func (s *CloudinaryStore) Upload(
	ctx context.Context,
	in UploadInput,
) (*UploadResult, error) {
	if len(in.Data) == 0 {
		return nil, fmt.Errorf("upload: empty file: %w", core.ErrInvalidInput)
	}

	resourceType := in.ResourceType
	if resourceType == "" {
		resourceType = ResourceImage
	}

	result, err := s.client.Upload.Upload(
		ctx,
		bytes.NewReader(in.Data),
		uploader.UploadParams{
			Folder:         in.Folder,
			PublicID:       PublicIDFromFilename(in.Filename),
			ResourceType:   resourceType,
			Overwrite:      api.Bool(true),
			UseFilename:    api.Bool(true),
			UniqueFilename: api.Bool(false),
		},
	)
	if err != nil {
		return nil, core.UploadFailedError(err)
	}
	if result.Error.Message != "" {
		return nil, core.UploadFailedError(
			fmt.Errorf("cloudinary: %s", result.Error.Message),
		)
	}

	return &UploadResult{
		URL:      result.SecureURL,
		PublicID: result.PublicID,
	}, nil
}

func (s *CloudinaryStore) Destroy(
	ctx context.Context,
	publicID, resourceType string,
) error {
	_, err := s.client.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return fmt.Errorf("destroy %s: %w", publicID, err)
	}
	return nil
}

var _ Uploader = (*CloudinaryStore)(nil)

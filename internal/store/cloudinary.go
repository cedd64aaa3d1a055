// Package store provides the object-store client used to publish rendered
// videos and raw assets.
package store

import (
	"context"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Resource kinds accepted by the upload contract.
const (
	ResourceVideo = "video"
	ResourceRaw   = "raw"
)

// ObjectStore uploads bytes to Cloudinary and returns publicly resolvable
// URLs.
type ObjectStore struct {
	cld *cloudinary.Cloudinary
	log zerolog.Logger
}

// New creates an ObjectStore from Cloudinary credentials.
func New(cloudName, apiKey, apiSecret string, log zerolog.Logger) (*ObjectStore, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("cloudinary credentials are not configured")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize cloudinary")
	}
	return &ObjectStore{cld: cld, log: log}, nil
}

// UploadVideo uploads a local video file under the given folder and returns
// its URL.
func (s *ObjectStore) UploadVideo(ctx context.Context, path, folder string) (string, error) {
	return s.upload(ctx, path, ResourceVideo, folder)
}

// UploadRaw uploads arbitrary bytes (e.g. a subtitle document) under the
// given folder and returns their URL.
func (s *ObjectStore) UploadRaw(ctx context.Context, r io.Reader, folder string) (string, error) {
	return s.upload(ctx, r, ResourceRaw, folder)
}

func (s *ObjectStore) upload(ctx context.Context, file interface{}, resourceType, folder string) (string, error) {
	resp, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		ResourceType: resourceType,
		Folder:       folder,
	})
	if err != nil {
		return "", errors.Wrap(err, "upload failed")
	}
	if resp.Error.Message != "" {
		return "", errors.Errorf("upload rejected: %s", resp.Error.Message)
	}

	s.log.Debug().Str("folder", folder).Str("url", resp.SecureURL).Msg("uploaded asset")
	return resp.SecureURL, nil
}

package service

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// StorageService stores reference images in the Supabase Storage
// bucket through its S3-compatible endpoint.
type StorageService interface {
	// UploadReference stores the image under a fresh object key and
	// returns its public URL.
	UploadReference(ctx context.Context, userID, filename, contentType string, data []byte) (string, error)
}

type storageService struct {
	s3Client    *s3.Client
	bucket      string
	supabaseURL string
	logger      zerolog.Logger
}

// NewStorageService creates a new StorageService.
func NewStorageService(s3Client *s3.Client, bucket, supabaseURL string, logger zerolog.Logger) StorageService {
	return &storageService{
		s3Client:    s3Client,
		bucket:      bucket,
		supabaseURL: supabaseURL,
		logger:      logger.With().Str("service", "StorageService").Logger(),
	}
}

func (s *storageService) UploadReference(ctx context.Context, userID, filename, contentType string, data []byte) (string, error) {
	key := fmt.Sprintf("%s/%s%s", userID, uuid.NewString(), path.Ext(filename))

	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("uploading reference %s: %w", key, err)
	}

	s.logger.Debug().Str("key", key).Int("bytes", len(data)).Msg("Reference uploaded")

	// Objects in a public bucket are served from the storage object
	// endpoint, not the S3 one.
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.supabaseURL, s.bucket, key), nil
}

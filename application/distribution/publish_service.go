package distribution

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"vidtowav/domain/conversion"
	"vidtowav/domain/distribution"

	"go.uber.org/zap"
)

// ErrInsufficientStorage is returned when the Drive quota cannot hold the batch
var ErrInsufficientStorage = errors.New("insufficient Google Drive storage")

// ErrNothingToPublish is returned when Publish is called without files
var ErrNothingToPublish = errors.New("no files to publish")

// PublishService uploads converted audio files to a Google Drive folder
type PublishService struct {
	driveClient distribution.DriveClient
	folderID    string
	public      bool
	output      io.Writer
	logger      *zap.Logger
}

// PublishOption configures a PublishService
type PublishOption func(*PublishService)

// WithPublicSharing grants "anyone with the link" read access to each upload
func WithPublicSharing(public bool) PublishOption {
	return func(s *PublishService) {
		s.public = public
	}
}

// WithOutput sets where progress lines are written
func WithOutput(w io.Writer) PublishOption {
	return func(s *PublishService) {
		if w != nil {
			s.output = w
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) PublishOption {
	return func(s *PublishService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewPublishService creates a new publish service
func NewPublishService(client distribution.DriveClient, folderID string, opts ...PublishOption) *PublishService {
	s := &PublishService{
		driveClient: client,
		folderID:    folderID,
		output:      io.Discard,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("publish")
	return s
}

// Published pairs a local file with its upload result
type Published struct {
	LocalPath string
	Result    *distribution.UploadResult
}

// Publish uploads every path in order. Files already in the folder under the same
// name are replaced. It stops at the first failure and returns what was uploaded.
func (s *PublishService) Publish(ctx context.Context, paths []string) ([]Published, error) {
	if len(paths) == 0 {
		return nil, ErrNothingToPublish
	}

	var total int64
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("file does not exist: %s", p)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("not a file: %s", p)
		}
		total += info.Size()
	}

	quota, err := s.driveClient.GetStorageQuota(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check storage: %w", err)
	}
	if !quota.Fits(total) {
		return nil, fmt.Errorf("%w: need %.1f MB, %.1f MB available",
			ErrInsufficientStorage, megabytes(total), megabytes(quota.Free()))
	}

	published := make([]Published, 0, len(paths))
	for i, p := range paths {
		if err := ctx.Err(); err != nil {
			return published, err
		}
		fmt.Fprintf(s.output, "[%d/%d] Uploading %s\n", i+1, len(paths), filepath.Base(p))

		result, err := s.publishOne(ctx, p)
		if err != nil {
			return published, err
		}
		fmt.Fprintf(s.output, "      %s\n", result.ShareableURL)
		published = append(published, Published{LocalPath: p, Result: result})
	}
	return published, nil
}

func (s *PublishService) publishOne(ctx context.Context, filePath string) (*distribution.UploadResult, error) {
	fileName := filepath.Base(filePath)

	existing, err := s.driveClient.FindFileByName(ctx, s.folderID, fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing file: %w", err)
	}
	if existing != nil {
		fmt.Fprintf(s.output, "      Replacing existing %s (%.1f MB)\n", existing.Name, megabytes(existing.Size))
		if err := s.driveClient.DeletePermanently(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to delete existing file %s: %w", existing.Name, err)
		}
	}

	mimeType, ok := conversion.MimeTypeForPath(filePath)
	if !ok {
		mimeType = distribution.MimeTypeOctetStream
	}

	req := distribution.UploadRequest{
		LocalPath: filePath,
		FileName:  fileName,
		FolderID:  s.folderID,
		MimeType:  mimeType,
		Public:    s.public,
	}

	result, err := s.driveClient.UploadAndShare(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", fileName, err)
	}
	s.logger.Debug("uploaded", zap.String("file", fileName), zap.String("id", result.FileID))
	return result, nil
}

func megabytes(n int64) float64 {
	return float64(n) / 1024 / 1024
}

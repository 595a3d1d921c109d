// Package distribution describes where finished audio is published.
package distribution

import (
	"context"
	"time"
)

// DriveClient is a remote folder that converted audio can be published to
type DriveClient interface {
	ListFiles(ctx context.Context, folderID string) ([]FileInfo, error)

	// FindFileByName returns the file named name in folderID, or nil if absent
	FindFileByName(ctx context.Context, folderID, name string) (*FileInfo, error)

	GetStorageQuota(ctx context.Context) (*Quota, error)

	// UploadAndShare uploads a local file and applies the requested sharing
	UploadAndShare(ctx context.Context, req UploadRequest) (*UploadResult, error)

	// DeletePermanently removes a file without moving it to the trash
	DeletePermanently(ctx context.Context, fileID string) error
}

// FileInfo is a file already in the remote folder
type FileInfo struct {
	ID          string
	Name        string
	MimeType    string
	Size        int64
	CreatedTime time.Time
}

// UploadRequest publishes one local audio file
type UploadRequest struct {
	LocalPath string
	FileName  string // name in the remote folder
	FolderID  string
	MimeType  string
	Public    bool // readable by anyone with the link
}

// UploadResult is what the remote side reports for a finished upload
type UploadResult struct {
	FileID       string
	FileName     string
	ShareableURL string
	Size         int64
}

// MimeTypeOctetStream is used for files whose extension matches no audio format
const MimeTypeOctetStream = "application/octet-stream"

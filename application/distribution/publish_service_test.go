package distribution

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vidtowav/domain/distribution"
)

type mockDriveClient struct {
	storage   distribution.Quota
	quotaErr  error
	existing  map[string]*distribution.FileInfo
	uploadErr error
	uploads   []distribution.UploadRequest
	deleted   []string
}

func (m *mockDriveClient) ListFiles(ctx context.Context, folderID string) ([]distribution.FileInfo, error) {
	return nil, nil
}

func (m *mockDriveClient) FindFileByName(ctx context.Context, folderID, name string) (*distribution.FileInfo, error) {
	return m.existing[name], nil
}

func (m *mockDriveClient) GetStorageQuota(ctx context.Context) (*distribution.Quota, error) {
	if m.quotaErr != nil {
		return nil, m.quotaErr
	}
	s := m.storage
	return &s, nil
}

func (m *mockDriveClient) UploadAndShare(ctx context.Context, req distribution.UploadRequest) (*distribution.UploadResult, error) {
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	m.uploads = append(m.uploads, req)
	return &distribution.UploadResult{
		FileID:       "id-" + req.FileName,
		FileName:     req.FileName,
		ShareableURL: "https://drive.google.com/file/d/id-" + req.FileName + "/view",
	}, nil
}

func (m *mockDriveClient) DeletePermanently(ctx context.Context, fileID string) error {
	m.deleted = append(m.deleted, fileID)
	return nil
}

func writeFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, make([]byte, size), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestPublishService_Publish(t *testing.T) {
	dir := t.TempDir()
	mp3 := writeFile(t, dir, "talk.mp3", 10)
	odd := writeFile(t, dir, "talk.bin", 10)

	client := &mockDriveClient{
		existing: map[string]*distribution.FileInfo{
			"talk.mp3": {ID: "old-id", Name: "talk.mp3", Size: 5},
		},
	}
	var out bytes.Buffer
	svc := NewPublishService(client, "folder", WithPublicSharing(true), WithOutput(&out))

	got, err := svc.Publish(context.Background(), []string{mp3, odd})
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("published %d files, want 2", len(got))
	}
	if len(client.deleted) != 1 || client.deleted[0] != "old-id" {
		t.Errorf("deleted = %v, want [old-id]", client.deleted)
	}
	if client.uploads[0].MimeType != "audio/mpeg" {
		t.Errorf("mime = %q, want audio/mpeg", client.uploads[0].MimeType)
	}
	if client.uploads[1].MimeType != distribution.MimeTypeOctetStream {
		t.Errorf("mime = %q, want octet-stream", client.uploads[1].MimeType)
	}
	for _, u := range client.uploads {
		if !u.Public || u.FolderID != "folder" {
			t.Errorf("upload request = %+v", u)
		}
	}
	if !strings.Contains(out.String(), "Replacing existing talk.mp3") {
		t.Errorf("output missing replace line:\n%s", out.String())
	}
}

func TestPublishService_Errors(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "talk.wav", 2048)

	tests := []struct {
		name    string
		client  *mockDriveClient
		paths   []string
		wantErr error
		errMsg  string
	}{
		{
			name:    "no paths",
			client:  &mockDriveClient{},
			wantErr: ErrNothingToPublish,
		},
		{
			name:   "missing file",
			client: &mockDriveClient{},
			paths:  []string{filepath.Join(dir, "gone.wav")},
			errMsg: "file does not exist",
		},
		{
			name:    "quota too small",
			client:  &mockDriveClient{storage: distribution.Quota{Limit: 4096, Used: 3072}},
			paths:   []string{file},
			wantErr: ErrInsufficientStorage,
		},
		{
			name:   "quota lookup fails",
			client: &mockDriveClient{quotaErr: errors.New("offline")},
			paths:  []string{file},
			errMsg: "failed to check storage",
		},
		{
			name:   "upload fails",
			client: &mockDriveClient{uploadErr: errors.New("boom")},
			paths:  []string{file},
			errMsg: "failed to upload talk.wav",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPublishService(tt.client, "folder").Publish(context.Background(), tt.paths)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error = %q, want containing %q", err.Error(), tt.errMsg)
			}
		})
	}
}

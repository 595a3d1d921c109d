//go:build manual

package drive

import (
	"context"
	"os"
	"testing"
)

// TestRealDriveFolder reads quota and folder contents from a real account.
// Run with: VIDTOWAV_DRIVE_FOLDER=<id> go test -tags=manual -v ./infrastructure/drive/... -run TestRealDriveFolder
func TestRealDriveFolder(t *testing.T) {
	credentialsPath := "../../credentials.json"
	folderID := os.Getenv("VIDTOWAV_DRIVE_FOLDER")

	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		t.Skip("credentials.json not found")
	}
	if folderID == "" {
		t.Skip("VIDTOWAV_DRIVE_FOLDER not set")
	}

	ctx := context.Background()
	client, err := NewClient(ctx, credentialsPath)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	quota, err := client.GetStorageQuota(ctx)
	if err != nil {
		t.Fatalf("GetStorageQuota() error = %v", err)
	}
	if quota.Unlimited() {
		t.Log("storage: unlimited")
	} else {
		t.Logf("storage: %d of %d bytes free", quota.Free(), quota.Limit)
	}

	files, err := client.ListFiles(ctx, folderID)
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}
	t.Logf("%d file(s) in %s", len(files), folderID)

	for _, f := range files {
		found, err := client.FindFileByName(ctx, folderID, f.Name)
		if err != nil {
			t.Fatalf("FindFileByName(%q) error = %v", f.Name, err)
		}
		if found == nil {
			t.Errorf("FindFileByName(%q) found nothing", f.Name)
		}
		t.Logf("  %s (%s, %d bytes)", f.Name, f.MimeType, f.Size)
	}
}

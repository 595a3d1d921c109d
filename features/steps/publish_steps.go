//go:build integration

package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vidtowav/cmd"
	"vidtowav/domain/distribution"

	"github.com/cucumber/godog"
)

// fakeDrive is an in-memory Drive folder
type fakeDrive struct {
	files     map[string]distribution.FileInfo // name -> file
	uploads   []distribution.UploadRequest
	deleted   []string
	available int64
	limited   bool
	nextID    int
}

func (d *fakeDrive) ListFiles(ctx context.Context, folderID string) ([]distribution.FileInfo, error) {
	out := make([]distribution.FileInfo, 0, len(d.files))
	for _, f := range d.files {
		out = append(out, f)
	}
	return out, nil
}

func (d *fakeDrive) FindFileByName(ctx context.Context, folderID, name string) (*distribution.FileInfo, error) {
	if f, ok := d.files[name]; ok {
		return &f, nil
	}
	return nil, nil
}

func (d *fakeDrive) GetStorageQuota(ctx context.Context) (*distribution.Quota, error) {
	if !d.limited {
		return &distribution.Quota{}, nil
	}
	return &distribution.Quota{Limit: d.available}, nil
}

func (d *fakeDrive) UploadAndShare(ctx context.Context, req distribution.UploadRequest) (*distribution.UploadResult, error) {
	info, err := os.Stat(req.LocalPath)
	if err != nil {
		return nil, err
	}
	d.nextID++
	id := fmt.Sprintf("file-%d", d.nextID)
	d.files[req.FileName] = distribution.FileInfo{ID: id, Name: req.FileName, MimeType: req.MimeType, Size: info.Size()}
	d.uploads = append(d.uploads, req)
	return &distribution.UploadResult{
		FileID:       id,
		FileName:     req.FileName,
		ShareableURL: "https://drive.google.com/file/d/" + id + "/view",
		Size:         info.Size(),
	}, nil
}

func (d *fakeDrive) DeletePermanently(ctx context.Context, fileID string) error {
	for name, f := range d.files {
		if f.ID == fileID {
			delete(d.files, name)
		}
	}
	d.deleted = append(d.deleted, fileID)
	return nil
}

type publishContext struct {
	audioDir string
	drive    *fakeDrive
	public   bool
}

var SharedPublishContext = &publishContext{}

func InitializePublishScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedPublishContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		testCtx.audioDir = filepath.Join(result.tempDir, "audio")
		testCtx.drive = &fakeDrive{files: map[string]distribution.FileInfo{}}
		testCtx.public = false
		return c, os.MkdirAll(testCtx.audioDir, 0755)
	})

	ctx.Step(`^an audio file "([^"]*)" of (\d+) bytes$`, testCtx.anAudioFileOfBytes)
	ctx.Step(`^the Drive folder already has "([^"]*)"$`, testCtx.theDriveFolderAlreadyHas)
	ctx.Step(`^the Drive has (\d+) bytes available$`, testCtx.theDriveHasBytesAvailable)
	ctx.Step(`^public sharing is enabled$`, testCtx.publicSharingIsEnabled)
	ctx.Step(`^I publish "([^"]*)"$`, testCtx.iPublish)
	ctx.Step(`^the Drive folder should contain "([^"]*)"$`, testCtx.theDriveFolderShouldContain)
	ctx.Step(`^(\d+) files? should have been uploaded$`, testCtx.filesShouldHaveBeenUploaded)
	ctx.Step(`^(\d+) files? should have been replaced$`, testCtx.filesShouldHaveBeenReplaced)
	ctx.Step(`^the upload of "([^"]*)" should have MIME type "([^"]*)"$`, testCtx.theUploadShouldHaveMimeType)
	ctx.Step(`^every upload should be public$`, testCtx.everyUploadShouldBePublic)
}

func (p *publishContext) anAudioFileOfBytes(name string, size int) error {
	return os.WriteFile(filepath.Join(p.audioDir, name), make([]byte, size), 0644)
}

func (p *publishContext) theDriveFolderAlreadyHas(name string) error {
	p.drive.nextID++
	id := fmt.Sprintf("old-%d", p.drive.nextID)
	p.drive.files[name] = distribution.FileInfo{ID: id, Name: name}
	return nil
}

func (p *publishContext) theDriveHasBytesAvailable(n int) error {
	p.drive.limited = true
	p.drive.available = int64(n)
	return nil
}

func (p *publishContext) publicSharingIsEnabled() error {
	p.public = true
	return nil
}

// iPublish takes file names separated by " and "
func (p *publishContext) iPublish(names string) error {
	var paths []string
	for _, n := range strings.Split(names, " and ") {
		paths = append(paths, filepath.Join(p.audioDir, n))
	}
	result.output.Reset()
	result.err = cmd.RunPublishWithDependencies(context.Background(), p.drive, "folder-1", p.public, paths, result.output)
	return nil
}

func (p *publishContext) theDriveFolderShouldContain(name string) error {
	if _, ok := p.drive.files[name]; !ok {
		return fmt.Errorf("expected %s in the Drive folder", name)
	}
	return nil
}

func (p *publishContext) filesShouldHaveBeenUploaded(n int) error {
	if len(p.drive.uploads) != n {
		return fmt.Errorf("expected %d uploads, got %d", n, len(p.drive.uploads))
	}
	return nil
}

func (p *publishContext) filesShouldHaveBeenReplaced(n int) error {
	if len(p.drive.deleted) != n {
		return fmt.Errorf("expected %d replaced files, got %d", n, len(p.drive.deleted))
	}
	return nil
}

func (p *publishContext) theUploadShouldHaveMimeType(name, mime string) error {
	for _, u := range p.drive.uploads {
		if u.FileName == name {
			if u.MimeType != mime {
				return fmt.Errorf("expected %s to upload as %s, got %s", name, mime, u.MimeType)
			}
			return nil
		}
	}
	return fmt.Errorf("%s was not uploaded", name)
}

func (p *publishContext) everyUploadShouldBePublic() error {
	for _, u := range p.drive.uploads {
		if !u.Public {
			return fmt.Errorf("upload of %s was not public", u.FileName)
		}
	}
	return nil
}

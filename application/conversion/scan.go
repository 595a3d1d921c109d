package conversion

import (
	"path/filepath"
	"sort"

	"vidtowav/domain/conversion"
)

// RootLabel names the scan root in folder reports
const RootLabel = "(root)"

// FolderCount is the number of candidate videos directly inside one folder
type FolderCount struct {
	Folder string // relative to the root; "." for the root itself
	Count  int
}

// Label returns Folder, or RootLabel for the root
func (f FolderCount) Label() string {
	if f.Folder == "." {
		return RootLabel
	}
	return f.Folder
}

// ScanReport summarizes where candidate videos live
type ScanReport struct {
	Folders []FolderCount
	Total   int
}

// FoldersWithVideos returns the number of folders holding at least one video
func (r ScanReport) FoldersWithVideos() int {
	return len(r.Folders)
}

// CountByFolder groups items by parent folder relative to root, sorted by
// folder. Items outside root are grouped under their absolute folder.
func CountByFolder(items []conversion.WorkItem, root string) ScanReport {
	counts := make(map[string]int)
	for _, it := range items {
		dir := filepath.Dir(it.Path)
		if root != "" {
			rel, err := filepath.Rel(root, dir)
			if err == nil && (rel == "." || filepath.IsLocal(rel)) {
				dir = rel
			}
		}
		counts[dir]++
	}

	report := ScanReport{Total: len(items)}
	for dir, n := range counts {
		report.Folders = append(report.Folders, FolderCount{Folder: dir, Count: n})
	}
	sort.Slice(report.Folders, func(i, j int) bool {
		return report.Folders[i].Folder < report.Folders[j].Folder
	})
	return report
}

package conversion

import "path/filepath"

// Request is the immutable configuration of one conversion run
type Request struct {
	SourceRoot      string
	DestinationRoot string // empty writes outputs beside each source
	Recursive       bool
	Overwrite       bool
	Format          FormatID
	Quality         int
	Extensions      ExtensionSet

	// Selection restricts the run to chosen folders and files.
	// Nil scans SourceRoot.
	Selection *Selection
}

// Selection is the flattened result of a user picking folders and files
type Selection struct {
	Folders []string
	Files   []string
}

// Empty reports whether nothing was selected
func (s Selection) Empty() bool {
	return len(s.Folders) == 0 && len(s.Files) == 0
}

// WorkItem is one source file queued for conversion
type WorkItem struct {
	Path string
}

// NewRequest creates a Request with validation, defaulting format, quality and extensions
func NewRequest(sourceRoot, destinationRoot string, format FormatID, quality int) (*Request, error) {
	req := &Request{
		SourceRoot:      sourceRoot,
		DestinationRoot: destinationRoot,
		Format:          format,
		Quality:         quality,
	}
	req.Normalize()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// Normalize fills defaults and cleans paths. Call before a run starts.
func (r *Request) Normalize() {
	if r.Format == "" {
		r.Format = DefaultFormat
	}
	r.Quality = ClampQuality(r.Quality)
	if r.Extensions == nil {
		r.Extensions = DefaultExtensionSet()
	}
	if r.SourceRoot != "" {
		r.SourceRoot = filepath.Clean(r.SourceRoot)
	}
	if r.DestinationRoot != "" {
		r.DestinationRoot = filepath.Clean(r.DestinationRoot)
	}
}

// ScanFolders returns the folders discovery will walk: exactly the selected
// folders when a selection is present, otherwise the source root.
func (r *Request) ScanFolders() []string {
	if r.Selection != nil {
		return r.Selection.Folders
	}
	if r.SourceRoot == "" {
		return nil
	}
	return []string{r.SourceRoot}
}

// ExplicitFiles returns individually selected files
func (r *Request) ExplicitFiles() []string {
	if r.Selection == nil {
		return nil
	}
	return r.Selection.Files
}

// Validate checks that the request can start a run
func (r *Request) Validate() error {
	if r.Selection != nil {
		if r.Selection.Empty() {
			return ErrNothingSelected
		}
	} else if r.SourceRoot == "" {
		return ErrNoInput
	}
	if len(r.ScanFolders()) > 0 && r.Extensions.Len() == 0 {
		return ErrNoExtensions
	}
	return nil
}

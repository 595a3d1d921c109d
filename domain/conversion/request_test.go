package conversion

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func TestNewRequest(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		format      FormatID
		quality     int
		wantFormat  FormatID
		wantQuality int
		wantErr     error
	}{
		{
			name:        "defaults format",
			source:      "/videos",
			wantFormat:  FormatWAV,
			wantQuality: 0,
		},
		{
			name:        "keeps explicit format and quality",
			source:      "/videos",
			format:      FormatMP3,
			quality:     3,
			wantFormat:  FormatMP3,
			wantQuality: 3,
		},
		{
			name:        "clamps invalid quality",
			source:      "/videos",
			format:      FormatOGG,
			quality:     12,
			wantFormat:  FormatOGG,
			wantQuality: DefaultQuality,
		},
		{
			name:    "missing source",
			source:  "",
			wantErr: ErrNoInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewRequest(tt.source, "", tt.format, tt.quality)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewRequest() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewRequest() unexpected error: %v", err)
			}
			if got.Format != tt.wantFormat {
				t.Errorf("Format = %q, want %q", got.Format, tt.wantFormat)
			}
			if got.Quality != tt.wantQuality {
				t.Errorf("Quality = %d, want %d", got.Quality, tt.wantQuality)
			}
			if got.Extensions.Len() != len(DefaultExtensions) {
				t.Errorf("Extensions has %d entries, want %d", got.Extensions.Len(), len(DefaultExtensions))
			}
		})
	}
}

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{
			name: "root only",
			req:  Request{SourceRoot: "/in", Extensions: DefaultExtensionSet()},
		},
		{
			name:    "empty selection",
			req:     Request{SourceRoot: "/in", Extensions: DefaultExtensionSet(), Selection: &Selection{}},
			wantErr: ErrNothingSelected,
		},
		{
			name:    "no extensions with folder scan",
			req:     Request{SourceRoot: "/in", Extensions: NewExtensionSet()},
			wantErr: ErrNoExtensions,
		},
		{
			name: "no extensions but only explicit files",
			req: Request{
				Extensions: NewExtensionSet(),
				Selection:  &Selection{Files: []string{"/in/a.bin"}},
			},
		},
		{
			name:    "nothing at all",
			req:     Request{Extensions: DefaultExtensionSet()},
			wantErr: ErrNoInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRequest_ScanFolders(t *testing.T) {
	root := filepath.FromSlash("/in")
	sub := filepath.FromSlash("/in/sub")

	tests := []struct {
		name string
		req  Request
		want []string
	}{
		{"root when no selection", Request{SourceRoot: root}, []string{root}},
		{"selected folders only", Request{SourceRoot: root, Selection: &Selection{Folders: []string{sub}}}, []string{sub}},
		{"files only selection scans nothing", Request{SourceRoot: root, Selection: &Selection{Files: []string{"x"}}}, nil},
		{"no root no selection", Request{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.ScanFolders(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ScanFolders() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtensionSet_Matches(t *testing.T) {
	set := NewExtensionSet(".mp4", "MKV", " .Mov ")

	tests := []struct {
		path string
		want bool
	}{
		{"video.mp4", true},
		{"video.MP4", true},
		{"clip.mkv", true},
		{"clip.MoV", true},
		{"archive.tar.mp4", true},
		{"notes.txt", false},
		{"mp4", false},
		{"dir.mp4/file", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := set.Matches(tt.path); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestNormalizeExtension(t *testing.T) {
	tests := map[string]string{
		"mp4":    ".mp4",
		".MP4":   ".mp4",
		"..mkv":  ".mkv",
		"  ":     "",
		" .Ts  ": ".ts",
	}
	for in, want := range tests {
		if got := NormalizeExtension(in); got != want {
			t.Errorf("NormalizeExtension(%q) = %q, want %q", in, got, want)
		}
	}
}

package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	appconv "vidtowav/application/conversion"
	"vidtowav/domain/conversion"
	"vidtowav/infrastructure/config"
	"vidtowav/infrastructure/history"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Paths.InputDirectory = "/videos"
	return cfg
}

func intPtr(v int) *int { return &v }
func boolPtr(v bool) *bool { return &v }

func TestBuildRequest(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		in      ConvertInput
		wantErr error
		check   func(*testing.T, *conversion.Request)
	}{
		{
			name: "config values",
			check: func(t *testing.T, r *conversion.Request) {
				if r.SourceRoot != "/videos" || r.Format != conversion.FormatWAV || r.Quality != conversion.DefaultQuality {
					t.Errorf("request = %+v", r)
				}
				if !r.Recursive || r.Selection != nil {
					t.Errorf("expected a recursive scan of the root, got %+v", r)
				}
			},
		},
		{
			name: "overrides win",
			in: ConvertInput{
				Input:     "/other",
				Output:    "/audio",
				Format:    "MP3",
				Quality:   intPtr(0),
				Recursive: boolPtr(false),
				Overwrite: boolPtr(true),
			},
			check: func(t *testing.T, r *conversion.Request) {
				if r.SourceRoot != "/other" || r.DestinationRoot != "/audio" {
					t.Errorf("roots = %q, %q", r.SourceRoot, r.DestinationRoot)
				}
				if r.Format != conversion.FormatMP3 || r.Quality != 0 {
					t.Errorf("format = %s quality = %d", r.Format, r.Quality)
				}
				if r.Recursive || !r.Overwrite {
					t.Errorf("recursive = %v overwrite = %v", r.Recursive, r.Overwrite)
				}
			},
		},
		{
			name: "extensions replace the configured list",
			in:   ConvertInput{Extensions: []string{"MTS"}},
			check: func(t *testing.T, r *conversion.Request) {
				if r.Extensions.Len() != 1 || !r.Extensions.Has(".mts") {
					t.Errorf("extensions = %v", r.Extensions.List())
				}
			},
		},
		{
			name: "folders and files become a selection",
			in:   ConvertInput{Folders: []string{"/videos/a"}, Files: []string{"/elsewhere/b.raw"}},
			check: func(t *testing.T, r *conversion.Request) {
				if r.Selection == nil {
					t.Fatal("expected a selection")
				}
				if len(r.Selection.Folders) != 1 || len(r.Selection.Files) != 1 {
					t.Errorf("selection = %+v", r.Selection)
				}
			},
		},
		{
			name:    "unknown format is rejected",
			in:      ConvertInput{Format: "aiff"},
			wantErr: conversion.ErrUnknownFormat,
		},
		{
			name:    "quality out of range",
			in:      ConvertInput{Quality: intPtr(9)},
			wantErr: config.ErrInvalidQuality,
		},
		{
			name:    "no input directory",
			mutate:  func(c *config.Config) { c.Paths.InputDirectory = "" },
			wantErr: conversion.ErrNoInput,
		},
		{
			name:    "no extensions",
			mutate:  func(c *config.Config) { c.Conversion.Extensions = []string{} },
			wantErr: conversion.ErrNoExtensions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}
			req, err := BuildRequest(cfg, tt.in)
			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("expected error %v, got nil", tt.wantErr)
				}
				if !errors.Is(err, tt.wantErr) && !strings.Contains(err.Error(), tt.wantErr.Error()) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, req)
		})
	}
}

func TestBuildRequest_RelativeRootsMirrorTree(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir() error = %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg := testConfig()
	cfg.Paths.InputDirectory = "videos"
	req, err := BuildRequest(cfg, ConvertInput{
		Output:  "audio",
		Format:  "mp3",
		Folders: []string{filepath.Join("videos", "a")},
	})
	if err != nil {
		t.Fatalf("BuildRequest() error = %v", err)
	}

	wantRoot := filepath.Join(dir, "videos")
	if req.SourceRoot != wantRoot {
		t.Errorf("SourceRoot = %q, want %q", req.SourceRoot, wantRoot)
	}
	if !filepath.IsAbs(req.DestinationRoot) {
		t.Errorf("DestinationRoot = %q, want an absolute path", req.DestinationRoot)
	}

	// same base name in two subfolders must not collide
	tests := []struct {
		source string
		want   string
	}{
		{filepath.Join(dir, "videos", "a", "b", "c.mp4"), filepath.Join(dir, "audio", "a", "b", "c.mp3")},
		{filepath.Join(dir, "videos", "a", "c.mp4"), filepath.Join(dir, "audio", "a", "c.mp3")},
	}
	for _, tt := range tests {
		if got := conversion.ResolveOutputPath(tt.source, req); got != tt.want {
			t.Errorf("ResolveOutputPath(%s) = %s, want %s", tt.source, got, tt.want)
		}
	}
}

func TestExplain(t *testing.T) {
	tests := []struct {
		err        error
		suggestion string
	}{
		{conversion.ErrNoInput, "vidtowav config set input"},
		{conversion.ErrNoExtensions, "vidtowav config add extension .mp4"},
		{conversion.ErrToolUnavailable, "vidtowav check"},
		{conversion.ErrUnknownFormat, "vidtowav formats"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			err := explain(tt.err)
			var ve *appconv.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("explain(%v) = %T, want *ValidationError", tt.err, err)
			}
			if !strings.Contains(err.Error(), "To fix this, run:") || !strings.Contains(err.Error(), tt.suggestion) {
				t.Errorf("error = %q, want suggestion %q", err.Error(), tt.suggestion)
			}
		})
	}

	other := errors.New("disk on fire")
	if explain(other) != other {
		t.Error("unrelated errors should pass through")
	}
	if explain(nil) != nil {
		t.Error("nil should stay nil")
	}
}

func TestStyleLine_LeavesTextIntact(t *testing.T) {
	lines := []string{
		appconv.PrefixConverted + "a.mp4",
		appconv.PrefixSkipped + "b.mp4 (already exists)",
		appconv.PrefixFailed + "c.mp4: boom",
		appconv.LineSummaryStart,
		appconv.LineStopped,
		"Found 3 video file(s).",
	}
	for _, line := range lines {
		if got := styleLine(line); !strings.Contains(got, line) {
			t.Errorf("styleLine(%q) = %q", line, got)
		}
	}
}

func TestTerminalSink_RecordsSummaries(t *testing.T) {
	var out bytes.Buffer
	sink := NewTerminalSink(&out, false)

	sink.OnProgress(1, 2)
	sink.OnLog("Converted: a.mp4")
	sink.OnFinished(conversion.Summary{Total: 2, Converted: 2})

	if !strings.Contains(out.String(), "Converted: a.mp4") {
		t.Errorf("output = %q", out.String())
	}
	if got := sink.Finished(); len(got) != 1 || got[0].Converted != 2 {
		t.Errorf("Finished() = %+v", got)
	}
}

type mockHistory struct {
	records  []history.Record
	appended []history.Record
	err      error
}

func (m *mockHistory) Append(rec history.Record) (history.Record, error) {
	if m.err != nil {
		return history.Record{}, m.err
	}
	rec.ID = uint64(len(m.appended) + 1)
	m.appended = append(m.appended, rec)
	return rec, nil
}

func (m *mockHistory) List(limit int) ([]history.Record, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit > 0 && limit < len(m.records) {
		return m.records[:limit], nil
	}
	return m.records, nil
}

func (m *mockHistory) Last() (history.Record, error) {
	if len(m.records) == 0 {
		return history.Record{}, history.ErrEmpty
	}
	return m.records[0], nil
}

func TestRunHistoryWithDependencies(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var out bytes.Buffer
		if err := RunHistoryWithDependencies(&mockHistory{}, 10, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out.String(), "No runs recorded.") {
			t.Errorf("output = %q", out.String())
		}
	})

	t.Run("rows", func(t *testing.T) {
		store := &mockHistory{records: []history.Record{
			{ID: 2, SourceRoot: "/videos", Format: "mp3", Quality: 1, Total: 3, Converted: 2, Failed: 1, Stopped: true},
			{ID: 1, SourceRoot: "/old", Format: "wav", Total: 1, Converted: 1},
		}}
		var out bytes.Buffer
		if err := RunHistoryWithDependencies(store, 1, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := out.String()
		if !strings.Contains(got, "mp3/q1") || !strings.Contains(got, "(stopped)") {
			t.Errorf("output = %q", got)
		}
		if strings.Contains(got, "/old") {
			t.Errorf("limit not applied: %q", got)
		}
	})

	t.Run("error", func(t *testing.T) {
		var out bytes.Buffer
		if err := RunHistoryWithDependencies(&mockHistory{err: errors.New("locked")}, 10, &out); err == nil {
			t.Error("expected error")
		}
	})
}

func TestLastOutputs(t *testing.T) {
	if _, err := lastOutputs(&mockHistory{}); err == nil || !strings.Contains(err.Error(), "--file") {
		t.Errorf("empty history error = %v", err)
	}

	store := &mockHistory{records: []history.Record{{Outputs: []string{"/audio/a.mp3"}}}}
	paths, err := lastOutputs(store)
	if err != nil || len(paths) != 1 || paths[0] != "/audio/a.mp3" {
		t.Errorf("lastOutputs() = %v, %v", paths, err)
	}
}

type mockChecker struct {
	installErr error
	version    string
}

func (m *mockChecker) VerifyInstalled(ctx context.Context) error { return m.installErr }
func (m *mockChecker) Version(ctx context.Context) (string, error) {
	return m.version, nil
}

func TestRunCheckWithDependencies(t *testing.T) {
	var out bytes.Buffer
	err := RunCheckWithDependencies(context.Background(), &mockChecker{version: "ffmpeg version 7.0"}, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "ffmpeg: available") || !strings.Contains(out.String(), "ffmpeg version 7.0") {
		t.Errorf("output = %q", out.String())
	}

	out.Reset()
	err = RunCheckWithDependencies(context.Background(), &mockChecker{installErr: conversion.ErrToolUnavailable}, &out)
	if !errors.Is(err, conversion.ErrToolUnavailable) {
		t.Errorf("error = %v, want ErrToolUnavailable", err)
	}
	if !strings.Contains(out.String(), "brew install ffmpeg") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunFormatsWithDependencies(t *testing.T) {
	var out bytes.Buffer
	if err := RunFormatsWithDependencies(&out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, f := range conversion.Formats() {
		if !strings.Contains(out.String(), string(f.ID)) {
			t.Errorf("format %s missing from listing", f.ID)
		}
	}
}

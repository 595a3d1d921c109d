package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"testing"

	"vidtowav/domain/conversion"
)

func TestPreflight_IsToolAvailable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "runs", err: nil, want: true},
		{name: "not on PATH", err: &exec.Error{Name: "ffmpeg", Err: exec.ErrNotFound}, want: false},
		{name: "missing absolute path", err: &fs.PathError{Op: "fork/exec", Path: "/nope/ffmpeg", Err: fs.ErrNotExist}, want: false},
		{name: "not executable", err: &fs.PathError{Op: "fork/exec", Path: "/tmp/ffmpeg", Err: fs.ErrPermission}, want: false},
		{name: "non-zero exit still launched", err: fmt.Errorf("exit status 1"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &mockRunner{outErr: tt.err}
			p := NewPreflight(WithCommandRunner(runner))

			if got := p.IsToolAvailable(context.Background()); got != tt.want {
				t.Errorf("IsToolAvailable() = %v, want %v", got, tt.want)
			}
			if len(runner.calls) != 1 || runner.calls[0][1] != "-version" {
				t.Errorf("expected a single -version probe, got %v", runner.calls)
			}
		})
	}
}

func TestPreflight_VerifyInstalled(t *testing.T) {
	p := NewPreflight(WithCommandRunner(&mockRunner{outErr: exec.ErrNotFound}))

	err := p.VerifyInstalled(context.Background())
	if !errors.Is(err, conversion.ErrToolUnavailable) {
		t.Errorf("VerifyInstalled() error = %v, want ErrToolUnavailable", err)
	}
}

func TestPreflight_Version(t *testing.T) {
	runner := &mockRunner{output: []byte("ffmpeg version 6.1.1 Copyright (c) 2000-2023\nbuilt with gcc\n")}
	p := NewPreflight(WithCommandRunner(runner))

	got, err := p.Version(context.Background())
	if err != nil {
		t.Fatalf("Version() error = %v", err)
	}
	if got != "ffmpeg version 6.1.1 Copyright (c) 2000-2023" {
		t.Errorf("Version() = %q", got)
	}
}

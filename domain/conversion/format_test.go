package conversion

import (
	"reflect"
	"testing"
)

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		id   FormatID
		want string
	}{
		{FormatWAV, ".wav"},
		{FormatWAVVoice, ".wav"},
		{FormatMP3, ".mp3"},
		{FormatOGG, ".ogg"},
		{FormatFLAC, ".flac"},
		{FormatAAC, ".aac"},
		{FormatM4A, ".m4a"},
		{FormatOpus, ".opus"},
		{FormatWMA, ".wma"},
		{"aiff", ".wav"},
		{"", ".wav"},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			if got := ExtensionFor(tt.id); got != tt.want {
				t.Errorf("ExtensionFor(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestCodecArgsFor(t *testing.T) {
	tests := []struct {
		name  string
		id    FormatID
		level int
		want  []string
	}{
		{"mp3 best", FormatMP3, 0, []string{"-codec:a", "libmp3lame", "-qscale:a", "0"}},
		{"mp3 lowest", FormatMP3, 4, []string{"-codec:a", "libmp3lame", "-qscale:a", "9"}},
		{"mp3 out of range uses default", FormatMP3, 7, []string{"-codec:a", "libmp3lame", "-qscale:a", "4"}},
		{"mp3 negative uses default", FormatMP3, -1, []string{"-codec:a", "libmp3lame", "-qscale:a", "4"}},
		{"ogg best", FormatOGG, 0, []string{"-codec:a", "libvorbis", "-qscale:a", "10"}},
		{"ogg lowest", FormatOGG, 4, []string{"-codec:a", "libvorbis", "-qscale:a", "1"}},
		{"flac", FormatFLAC, 3, []string{"-codec:a", "flac", "-compression_level", "3"}},
		{"aac", FormatAAC, 1, []string{"-codec:a", "aac", "-b:a", "192k"}},
		{"m4a", FormatM4A, 4, []string{"-codec:a", "aac", "-b:a", "64k"}},
		{"opus", FormatOpus, 0, []string{"-codec:a", "libopus", "-b:a", "192k"}},
		{"wma", FormatWMA, 2, []string{"-codec:a", "wmav2", "-b:a", "128k"}},
		{"wav ignores quality", FormatWAV, 0, []string{"-acodec", "pcm_s16le", "-ar", "44100", "-ac", "2"}},
		{"wav ignores invalid quality", FormatWAV, 99, []string{"-acodec", "pcm_s16le", "-ar", "44100", "-ac", "2"}},
		{"wav_voice", FormatWAVVoice, 4, []string{"-acodec", "pcm_s16le", "-ar", "16000", "-ac", "1"}},
		{"unknown falls back to wav", "aiff", 1, []string{"-acodec", "pcm_s16le", "-ar", "44100", "-ac", "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodecArgsFor(tt.id, tt.level); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CodecArgsFor(%q, %d) = %v, want %v", tt.id, tt.level, got, tt.want)
			}
		})
	}
}

func TestCodecArgsFor_IndependentOfCallOrder(t *testing.T) {
	low := CodecArgsFor(FormatMP3, 4)
	best := CodecArgsFor(FormatMP3, 0)

	// mutate a returned slice; later calls must not observe it
	low[3] = "tampered"

	if got := CodecArgsFor(FormatMP3, 4)[3]; got != "9" {
		t.Errorf("lowest mp3 quality = %q after mutation, want %q", got, "9")
	}
	if got := CodecArgsFor(FormatMP3, 0)[3]; got != best[3] {
		t.Errorf("best mp3 quality changed between calls: %q vs %q", got, best[3])
	}
}

func TestUsesQuality(t *testing.T) {
	for _, f := range Formats() {
		want := f.ID != FormatWAV && f.ID != FormatWAVVoice
		if got := UsesQuality(f.ID); got != want {
			t.Errorf("UsesQuality(%q) = %v, want %v", f.ID, got, want)
		}
	}
}

func TestFormats_CatalogOrder(t *testing.T) {
	want := []FormatID{FormatWAV, FormatWAVVoice, FormatMP3, FormatOGG, FormatFLAC, FormatAAC, FormatM4A, FormatOpus, FormatWMA}

	formats := Formats()
	if len(formats) != len(want) {
		t.Fatalf("Formats() returned %d entries, want %d", len(formats), len(want))
	}
	for i, f := range formats {
		if f.ID != want[i] {
			t.Errorf("Formats()[%d] = %q, want %q", i, f.ID, want[i])
		}
		if f.MimeType == "" {
			t.Errorf("format %q has no MIME type", f.ID)
		}
	}
}

func TestClampQuality(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 0}, {4, 4}, {2, 2}, {-1, DefaultQuality}, {5, DefaultQuality},
	}
	for _, tt := range tests {
		if got := ClampQuality(tt.in); got != tt.want {
			t.Errorf("ClampQuality(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestMimeTypeForPath(t *testing.T) {
	tests := []struct {
		path   string
		want   string
		wantOK bool
	}{
		{"/out/talk.mp3", "audio/mpeg", true},
		{"/out/TALK.FLAC", "audio/flac", true},
		{"clip.wav", "audio/wav", true},
		{"notes.txt", "", false},
		{"noext", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := MimeTypeForPath(tt.path)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("MimeTypeForPath(%q) = %q, %v; want %q, %v", tt.path, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

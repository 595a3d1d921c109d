package conversion

import (
	"path/filepath"
	"strconv"
	"strings"
)

// FormatID identifies an output audio format
type FormatID string

// Output formats supported by the catalog
const (
	FormatWAV      FormatID = "wav"
	FormatWAVVoice FormatID = "wav_voice"
	FormatMP3      FormatID = "mp3"
	FormatOGG      FormatID = "ogg"
	FormatFLAC     FormatID = "flac"
	FormatAAC      FormatID = "aac"
	FormatM4A      FormatID = "m4a"
	FormatOpus     FormatID = "opus"
	FormatWMA      FormatID = "wma"
)

// Quality levels run from MinQuality (best) to MaxQuality (smallest output)
const (
	MinQuality     = 0
	MaxQuality     = 4
	DefaultQuality = 2
)

// DefaultFormat is used when no format is configured
const DefaultFormat = FormatWAV

// FormatSpec describes how a format is named on disk and encoded by ffmpeg
type FormatSpec struct {
	ID        FormatID
	Name      string
	Extension string
	MimeType  string

	// FixedProfile formats ignore the quality level entirely
	FixedProfile bool

	codecArgs func(level int) []string
}

// Args returns the codec arguments for a quality level
func (f FormatSpec) Args(level int) []string {
	return f.codecArgs(ClampQuality(level))
}

var (
	mp3Scale    = [5]string{"0", "2", "4", "6", "9"}
	vorbisScale = [5]string{"10", "8", "6", "3", "1"}
	aacBitrate  = [5]string{"256k", "192k", "128k", "96k", "64k"}
	opusBitrate = [5]string{"192k", "128k", "96k", "64k", "32k"}
	wmaBitrate  = [5]string{"256k", "192k", "128k", "96k", "64k"}
)

func pcm(sampleRate, channels string) func(int) []string {
	return func(int) []string {
		return []string{"-acodec", "pcm_s16le", "-ar", sampleRate, "-ac", channels}
	}
}

func table(codec, flag string, values [5]string) func(int) []string {
	return func(level int) []string {
		return []string{"-codec:a", codec, flag, values[level]}
	}
}

var catalog = []FormatSpec{
	{
		ID: FormatWAV, Name: "WAV (PCM 44.1kHz stereo, uncompressed)", Extension: ".wav",
		MimeType: "audio/wav", FixedProfile: true, codecArgs: pcm("44100", "2"),
	},
	{
		ID: FormatWAVVoice, Name: "WAV for speech transcription (16kHz mono)", Extension: ".wav",
		MimeType: "audio/wav", FixedProfile: true, codecArgs: pcm("16000", "1"),
	},
	{
		ID: FormatMP3, Name: "MP3 (LAME VBR)", Extension: ".mp3",
		MimeType: "audio/mpeg", codecArgs: table("libmp3lame", "-qscale:a", mp3Scale),
	},
	{
		ID: FormatOGG, Name: "Ogg Vorbis", Extension: ".ogg",
		MimeType: "audio/ogg", codecArgs: table("libvorbis", "-qscale:a", vorbisScale),
	},
	{
		ID: FormatFLAC, Name: "FLAC (lossless)", Extension: ".flac",
		MimeType: "audio/flac",
		codecArgs: func(level int) []string {
			return []string{"-codec:a", "flac", "-compression_level", strconv.Itoa(level)}
		},
	},
	{
		ID: FormatAAC, Name: "AAC (ADTS)", Extension: ".aac",
		MimeType: "audio/aac", codecArgs: table("aac", "-b:a", aacBitrate),
	},
	{
		ID: FormatM4A, Name: "M4A (AAC in MP4 container)", Extension: ".m4a",
		MimeType: "audio/mp4", codecArgs: table("aac", "-b:a", aacBitrate),
	},
	{
		ID: FormatOpus, Name: "Opus", Extension: ".opus",
		MimeType: "audio/opus", codecArgs: table("libopus", "-b:a", opusBitrate),
	},
	{
		ID: FormatWMA, Name: "Windows Media Audio", Extension: ".wma",
		MimeType: "audio/x-ms-wma", codecArgs: table("wmav2", "-b:a", wmaBitrate),
	},
}

// Formats returns every catalog entry in display order
func Formats() []FormatSpec {
	out := make([]FormatSpec, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the catalog entry for id
func Lookup(id FormatID) (FormatSpec, bool) {
	for _, f := range catalog {
		if f.ID == id {
			return f, true
		}
	}
	return FormatSpec{}, false
}

// IsKnownFormat reports whether id is in the catalog
func IsKnownFormat(id FormatID) bool {
	_, ok := Lookup(id)
	return ok
}

// specFor never fails: unknown ids resolve to the baseline WAV profile
func specFor(id FormatID) FormatSpec {
	if f, ok := Lookup(id); ok {
		return f
	}
	f, _ := Lookup(DefaultFormat)
	return f
}

// ExtensionFor returns the output extension for a format, defaulting to .wav
func ExtensionFor(id FormatID) string {
	return specFor(id).Extension
}

// MimeTypeFor returns the MIME type used when publishing outputs
func MimeTypeFor(id FormatID) string {
	return specFor(id).MimeType
}

// CodecArgsFor returns the ffmpeg codec arguments for a format and quality level.
// Levels outside 0-4 use DefaultQuality. Fixed-profile formats ignore the level.
func CodecArgsFor(id FormatID, level int) []string {
	return specFor(id).Args(level)
}

// UsesQuality reports whether the quality level changes the output for id
func UsesQuality(id FormatID) bool {
	return !specFor(id).FixedProfile
}

// ClampQuality maps out-of-range levels to DefaultQuality
func ClampQuality(level int) int {
	if level < MinQuality || level > MaxQuality {
		return DefaultQuality
	}
	return level
}

// MimeTypeForPath returns the MIME type of an audio file from its extension.
// ok is false when no catalog format writes that extension.
func MimeTypeForPath(path string) (mime string, ok bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range catalog {
		if f.Extension == ext {
			return f.MimeType, true
		}
	}
	return "", false
}

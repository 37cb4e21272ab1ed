package edit

import (
	"errors"
	"strings"
	"testing"
)

func TestValidatePrompt(t *testing.T) {
	tests := []struct {
		name       string
		prompt     string
		maxLen     int
		wantReason string
	}{
		{name: "valid prompt", prompt: "make the sky blue", maxLen: 1000},
		{name: "empty", prompt: "", maxLen: 1000, wantReason: "Prompt is required"},
		{name: "whitespace only", prompt: "   \t\n", maxLen: 1000, wantReason: "Prompt is required"},
		{name: "too long", prompt: strings.Repeat("a", 1001), maxLen: 1000, wantReason: "Prompt must be under 1000 characters"},
		{name: "trimmed within limit", prompt: "  " + strings.Repeat("a", 1000) + "  ", maxLen: 1000},
		{name: "sexual content", prompt: "generate a NSFW scene", maxLen: 1000, wantReason: "Prompt contains disallowed content"},
		{name: "violence content", prompt: "make him kill the dragon", maxLen: 1000, wantReason: "Prompt contains disallowed content"},
		{name: "hate content", prompt: "add racist imagery", maxLen: 1000, wantReason: "Prompt contains disallowed content"},
		{name: "word boundary not substring", prompt: "add a skillful painter", maxLen: 1000},
		{name: "default max when zero", prompt: strings.Repeat("b", 1001), maxLen: 0, wantReason: "Prompt must be under 1000 characters"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePrompt(tc.prompt, tc.maxLen)
			if tc.wantReason == "" {
				if err != nil {
					t.Fatalf("ValidatePrompt() = %v, want nil", err)
				}
				return
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("ValidatePrompt() = %v, want *ValidationError", err)
			}
			if vErr.Reason != tc.wantReason {
				t.Fatalf("reason = %q, want %q", vErr.Reason, tc.wantReason)
			}
		})
	}
}

func TestValidateImage(t *testing.T) {
	tests := []struct {
		name       string
		img        *ImageUpload
		maxBytes   int64
		wantReason string
	}{
		{
			name: "valid jpeg",
			img:  &ImageUpload{MIME: "image/jpeg", Size: 2 << 20, Data: []byte{0xff, 0xd8}},
		},
		{
			name: "valid webp",
			img:  &ImageUpload{MIME: "image/webp", Size: 128, Data: []byte("RIFF")},
		},
		{
			name:       "missing file",
			img:        nil,
			wantReason: "Image file is required",
		},
		{
			name:       "empty file",
			img:        &ImageUpload{MIME: "image/png"},
			wantReason: "Image file is required",
		},
		{
			name:       "over size ceiling",
			img:        &ImageUpload{MIME: "image/png", Size: 11 << 20, Data: []byte{0x89}},
			wantReason: "File must be under 10 MB",
		},
		{
			name:       "disallowed mime",
			img:        &ImageUpload{MIME: "image/gif", Size: 10, Data: []byte("GIF89a")},
			wantReason: "File type must be one of: image/jpeg, image/png, image/webp",
		},
		{
			name: "mime case insensitive",
			img:  &ImageUpload{MIME: "IMAGE/PNG", Size: 10, Data: []byte{0x89}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateImage(tc.img, tc.maxBytes)
			if tc.wantReason == "" {
				if err != nil {
					t.Fatalf("ValidateImage() = %v, want nil", err)
				}
				return
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("ValidateImage() = %v, want *ValidationError", err)
			}
			if vErr.Reason != tc.wantReason {
				t.Fatalf("reason = %q, want %q", vErr.Reason, tc.wantReason)
			}
		})
	}
}

func TestSanitizePrompt(t *testing.T) {
	got := SanitizePrompt("  add <script>bold</script> text  ", 1000)
	if got != "add scriptbold/script text" {
		t.Fatalf("SanitizePrompt() = %q", got)
	}
	long := strings.Repeat("x", 50)
	if got := SanitizePrompt(long, 10); got != strings.Repeat("x", 10) {
		t.Fatalf("SanitizePrompt() did not cap length: %q", got)
	}
}

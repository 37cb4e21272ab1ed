package edit

import (
	"fmt"
	"regexp"
	"strings"
)

// Default ceilings applied when configuration does not override them.
const (
	DefaultMaxPromptLength = 1000
	DefaultMaxImageBytes   = 10 << 20
)

// AllowedImageTypes is the MIME allow-list for uploaded source images.
var AllowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

// contentFilters are case-insensitive word-boundary matches against
// disallowed prompt content. Extend the list per category as needed.
var contentFilters = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(nude|naked|nsfw|explicit|sexual)\b`),
	regexp.MustCompile(`(?i)\b(violence|violent|kill|murder|death)\b`),
	regexp.MustCompile(`(?i)\b(hate|racist|discrimination)\b`),
	regexp.MustCompile(`(?i)\b(illegal|drugs|weapons)\b`),
}

// ImageUpload describes the uploaded source image as seen by validation and
// submission. Data is the full file content.
type ImageUpload struct {
	Filename string
	MIME     string
	Size     int64
	Data     []byte
}

// ValidatePrompt checks the edit instruction against emptiness, length, and
// content limits. The prompt is trimmed before every check. maxLen <= 0 falls
// back to DefaultMaxPromptLength.
func ValidatePrompt(prompt string, maxLen int) error {
	if maxLen <= 0 {
		maxLen = DefaultMaxPromptLength
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return &ValidationError{Reason: "Prompt is required"}
	}
	if len(prompt) > maxLen {
		return &ValidationError{Reason: fmt.Sprintf("Prompt must be under %d characters", maxLen)}
	}
	for _, filter := range contentFilters {
		if filter.MatchString(prompt) {
			return &ValidationError{Reason: "Prompt contains disallowed content"}
		}
	}
	return nil
}

// ValidateImage checks presence, size, and MIME type of the uploaded image.
// maxBytes <= 0 falls back to DefaultMaxImageBytes.
func ValidateImage(img *ImageUpload, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	if img == nil || len(img.Data) == 0 {
		return &ValidationError{Reason: "Image file is required"}
	}
	size := img.Size
	if size == 0 {
		size = int64(len(img.Data))
	}
	if size > maxBytes {
		return &ValidationError{Reason: fmt.Sprintf("File must be under %d MB", maxBytes>>20)}
	}
	mime := strings.ToLower(strings.TrimSpace(img.MIME))
	for _, allowed := range AllowedImageTypes {
		if mime == allowed {
			return nil
		}
	}
	return &ValidationError{Reason: "File type must be one of: " + strings.Join(AllowedImageTypes, ", ")}
}

// SanitizePrompt trims the prompt, strips angle brackets, and caps the length.
// It runs after validation so the submitted text can never exceed the ceiling.
func SanitizePrompt(prompt string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxPromptLength
	}
	prompt = strings.TrimSpace(prompt)
	prompt = strings.NewReplacer("<", "", ">", "").Replace(prompt)
	if len(prompt) > maxLen {
		prompt = prompt[:maxLen]
	}
	return prompt
}

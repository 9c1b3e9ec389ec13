package utils

import (
	"fmt"
	"mime"
	"strings"

	"github.com/dustin/go-humanize"

	"imghost/errs"
)

const DefaultMaxFileSize int64 = 10 * 1024 * 1024

var AllowedImageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"image/svg+xml",
}

// NormalizeContentType lowercases the media type and drops parameters.
// Unparseable input is returned lowercased so that validation rejects it.
func NormalizeContentType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}

func IsAllowedImageType(contentType string) bool {
	ct := NormalizeContentType(contentType)
	for _, allowed := range AllowedImageTypes {
		if ct == allowed {
			return true
		}
	}
	return false
}

func IsValidFileSize(size, maxSize int64) bool {
	return size > 0 && size <= maxSize
}

// ValidateFile checks a candidate upload against the type allow-list and size policy.
// It returns the first failing reason as an invalid-input error, nil when valid.
func ValidateFile(contentType string, size, maxSize int64) error {
	if !IsAllowedImageType(contentType) {
		return errs.New(errs.InvalidInput,
			"Invalid file type. Allowed types: "+strings.Join(AllowedImageTypes, ", "))
	}

	if !IsValidFileSize(size, maxSize) {
		return errs.New(errs.InvalidInput,
			fmt.Sprintf("File size must be between 1 byte and %s", humanize.IBytes(uint64(maxSize))))
	}

	return nil
}

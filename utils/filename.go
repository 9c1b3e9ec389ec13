package utils

import (
	"strings"
	"unicode/utf8"
)

const maxFilenameLength = 200

// SanitizeFilename reduces an untrusted client filename to a single path segment
// made of [A-Za-z0-9._-]. It never returns an empty string.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}

	var b strings.Builder
	lastUnderscore := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	cleaned := strings.Trim(b.String(), "._")
	for strings.Contains(cleaned, "..") {
		cleaned = strings.ReplaceAll(cleaned, "..", ".")
	}
	if len(cleaned) > maxFilenameLength {
		cleaned = cleaned[len(cleaned)-maxFilenameLength:]
		cleaned = strings.TrimLeft(cleaned, "._-")
	}
	if cleaned == "" {
		return "image"
	}
	return cleaned
}

// DisplayFilename strips control characters from the client filename kept for display.
func DisplayFilename(name string) string {
	if !utf8.ValidString(name) {
		name = strings.ToValidUTF8(name, "_")
	}
	var b strings.Builder
	for _, r := range name {
		if r >= 32 && r != 127 {
			b.WriteRune(r)
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "image"
	}
	return out
}

// ObjectKey is the object store path for an image: images/<id>/<sanitized name>.
func ObjectKey(id, originalFilename string) string {
	return "images/" + id + "/" + SanitizeFilename(originalFilename)
}

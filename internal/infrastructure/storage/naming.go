package storage

import (
	"errors"
	"mime"
	"path"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrObjectNotFound is returned by Download for missing keys
var ErrObjectNotFound = errors.New("object not found")

var (
	unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
	slugChars       = regexp.MustCompile(`[^a-z0-9]+`)
)

// FoldAccents strips diacritics: "Razão Açaí" -> "Razao Acai".
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// ObjectName turns free text into a safe object name segment. Spaces become
// underscores; anything outside [A-Za-z0-9._-] is dropped.
func ObjectName(s string) string {
	s = FoldAccents(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), "_")
	s = unsafeNameChars.ReplaceAllString(s, "")
	s = strings.Trim(s, "._-")
	if s == "" {
		return "arquivo"
	}
	return s
}

// Slug builds a lowercase, dash separated folder name.
func Slug(s string) string {
	s = strings.ToLower(FoldAccents(s))
	s = slugChars.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "sem-nome"
	}
	return s
}

// JoinKey joins key segments with "/" and collapses duplicate slashes.
func JoinKey(parts ...string) string {
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return strings.Join(cleaned, "/")
}

// ContentTypeFor guesses the MIME type from the key's extension.
func ContentTypeFor(key string) string {
	ext := strings.ToLower(path.Ext(key))
	if ext == "" {
		return "application/octet-stream"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Extension returns the lowercase extension (with dot) for a known
// document MIME type, falling back to the original file name.
func Extension(contentType, fileName string) string {
	switch contentType {
	case "application/pdf":
		return ".pdf"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	}
	return strings.ToLower(path.Ext(fileName))
}

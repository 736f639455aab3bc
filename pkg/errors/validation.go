package errors

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// spreadsheetIDRegex matches Google spreadsheet IDs as they appear in sheet
// URLs: letters, digits, dashes and underscores.
var spreadsheetIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{10,128}$`)

// ValidateSpreadsheetID checks that id looks like a spreadsheet ID and not a
// full URL or something that could escape the request path.
func ValidateSpreadsheetID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "spreadsheet ID cannot be empty")
	}
	if strings.Contains(id, "/") {
		return New(ErrCodeInvalidInput, "spreadsheet ID must be the ID, not the sheet URL")
	}
	if !spreadsheetIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid spreadsheet ID: %q", id)
	}
	return nil
}

// ValidateSheetName validates a sheet (tab) name.
//
// The rules follow what the Sheets UI accepts:
//   - No empty names
//   - No control characters
//   - None of the characters []*?:/\
//   - Maximum length of 100 characters
func ValidateSheetName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "sheet name cannot be empty")
	}
	if len(name) > 100 {
		return New(ErrCodeInvalidInput, "sheet name too long (max 100 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "sheet name contains invalid control characters")
		}
	}
	if i := strings.IndexAny(name, `[]*?:/\`); i >= 0 {
		return New(ErrCodeInvalidInput, "sheet name contains invalid character %q", name[i])
	}
	return nil
}

// ValidatePath validates a relative path (artifact names, cache keys used as
// file names). It rejects absolute paths, traversal and control characters.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}
	return nil
}

// ValidateOutputPath validates a user-supplied output file or directory.
// Absolute paths are allowed here; the path only has to be clean.
func ValidateOutputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return New(ErrCodeInvalidPath, "output path cannot contain path traversal sequences (..)")
		}
	}
	return nil
}

// ValidateURL ensures the URL has an http or https scheme.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	return nil
}

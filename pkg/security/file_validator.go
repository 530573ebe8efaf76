package security

import (
	"bytes"
	"errors"
	"path/filepath"
	"regexp"
	"strings"
)

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Valid        bool   // Whether the file passed all validation checks
	Extension    string // Detected file extension
	DetectedMIME string // Detected MIME type
	Error        string // Error message if validation failed
}

// Magic byte signatures for allowed resume types
var magicBytes = map[string][][]byte{
	".pdf":  {{0x25, 0x50, 0x44, 0x46}},                         // %PDF
	".doc":  {{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}}, // OLE Compound Document
	".docx": {{0x50, 0x4B, 0x03, 0x04}},                         // ZIP (PK..)
}

// Allowed resume extensions (strict whitelist)
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// MIME types net/http may sniff for each allowed extension
var allowedMIMETypes = map[string]map[string]bool{
	".pdf":  {"application/pdf": true},
	".doc":  {"application/msword": true, "application/octet-stream": true},
	".docx": {"application/zip": true, "application/octet-stream": true, "application/vnd.openxmlformats-officedocument.wordprocessingml.document": true},
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// ErrInvalidFileType is returned for anything other than PDF, DOC or DOCX.
var ErrInvalidFileType = errors.New("Invalid file type. Only PDF, DOC, and DOCX files are allowed")

// SanitizeFilename reduces an uploaded filename to a safe base name:
// directories dropped, whitespace turned into '_', anything outside
// [A-Za-z0-9_.-] removed, and leading dots or underscores trimmed.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, "._")
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// ValidateResume checks extension, magic bytes and sniffed MIME type of an
// uploaded resume. head holds at least the first 512 bytes when available.
func ValidateResume(filename string, head []byte, detectedMIME string) FileValidationResult {
	result := FileValidationResult{
		DetectedMIME: detectedMIME,
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		result.Error = "file has no extension"
		return result
	}
	result.Extension = ext

	// Layer 1: Extension whitelist
	if !allowedExtensions[ext] {
		result.Error = ErrInvalidFileType.Error()
		return result
	}

	// Layer 2: Magic byte validation
	if !validateMagicBytes(ext, head) {
		result.Error = "file content does not match extension"
		return result
	}

	// Layer 3: MIME type whitelist per extension
	if detectedMIME != "" && !allowedMIMETypes[ext][detectedMIME] {
		result.Error = "MIME type not allowed: " + detectedMIME
		return result
	}

	result.Valid = true
	return result
}

// validateMagicBytes checks if file content starts with expected magic bytes
func validateMagicBytes(ext string, data []byte) bool {
	if len(data) < 4 {
		return false
	}

	for _, sig := range magicBytes[ext] {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}

// ValidateFileExtension checks only the extension (for quick pre-validation)
func ValidateFileExtension(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return ErrInvalidFileType
	}
	return nil
}

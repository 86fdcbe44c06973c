package security

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
)

// MaxResumeSize is the upload cap for resume files (5 MB).
const MaxResumeSize = 5 * 1024 * 1024

// FileValidationResult contains the result of resume file validation
type FileValidationResult struct {
	Valid     bool   // Whether the file passed all validation checks
	Extension string // Detected file extension
	Error     string // Error message if validation failed
}

// Magic byte signatures for allowed resume types.
// Maps lowercase extension to possible magic byte prefixes.
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

// ValidateResumeFile performs 3-layer validation on an uploaded resume:
// 1. Extension whitelist check
// 2. Size cap
// 3. Magic byte verification (content matches extension)
// A rejected file must never reach storage.
func ValidateResumeFile(filename string, data []byte) FileValidationResult {
	result := FileValidationResult{}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		result.Error = "file has no extension"
		return result
	}
	result.Extension = ext

	// Layer 1: Extension whitelist
	if !allowedExtensions[ext] {
		result.Error = "only PDF, DOC, and DOCX files are allowed"
		return result
	}

	// Layer 2: Size cap
	if len(data) == 0 {
		result.Error = "file is empty"
		return result
	}
	if len(data) > MaxResumeSize {
		result.Error = fmt.Sprintf("file too large. Maximum size is %dMB", MaxResumeSize/(1024*1024))
		return result
	}

	// Layer 3: Magic byte validation
	if !validateMagicBytes(ext, data) {
		result.Error = "file content does not match extension (potential file spoofing detected)"
		return result
	}

	result.Valid = true
	return result
}

// validateMagicBytes checks if file content starts with expected magic bytes
func validateMagicBytes(ext string, data []byte) bool {
	if len(data) < 4 {
		return false // File too small to validate
	}

	signatures, ok := magicBytes[ext]
	if !ok {
		return false // Unknown extension
	}

	for _, sig := range signatures {
		if len(data) >= len(sig) && bytes.HasPrefix(data, sig) {
			return true
		}
	}

	return false
}

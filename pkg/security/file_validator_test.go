package security

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"My Resume.pdf":            "My_Resume.pdf",
		"../../etc/passwd.pdf":     "passwd.pdf",
		`C:\Users\me\cv final.doc`: "cv_final.doc",
		".hidden.docx":             "hidden.docx",
		"résumé.pdf":               "rsum.pdf",
		"":                         "",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeFilename(in), in)
	}
}

func TestValidateResume(t *testing.T) {
	pdf := []byte("%PDF-1.7\n%âãÏÓ\n1 0 obj")
	docx := []byte{0x50, 0x4B, 0x03, 0x04, 0x14, 0x00, 0x06, 0x00}

	t.Run("pdf accepted", func(t *testing.T) {
		res := ValidateResume("cv.pdf", pdf, http.DetectContentType(pdf))
		assert.True(t, res.Valid, res.Error)
	})

	t.Run("docx accepted", func(t *testing.T) {
		res := ValidateResume("cv.DOCX", docx, http.DetectContentType(docx))
		assert.True(t, res.Valid, res.Error)
		assert.Equal(t, ".docx", res.Extension)
	})

	t.Run("spoofed extension rejected", func(t *testing.T) {
		res := ValidateResume("cv.pdf", docx, http.DetectContentType(docx))
		assert.False(t, res.Valid)
	})

	t.Run("disallowed extension rejected", func(t *testing.T) {
		res := ValidateResume("cv.txt", []byte("hello world"), "text/plain; charset=utf-8")
		assert.False(t, res.Valid)
		assert.Equal(t, ErrInvalidFileType.Error(), res.Error)
	})

	t.Run("extension only check", func(t *testing.T) {
		assert.NoError(t, ValidateFileExtension("a.Doc"))
		assert.ErrorIs(t, ValidateFileExtension("a.exe"), ErrInvalidFileType)
		assert.ErrorIs(t, ValidateFileExtension("noext"), ErrInvalidFileType)
	})
}

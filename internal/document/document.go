// Package document provides the text sources scanned for chunks.
package document

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf16"
)

const (
	// LanguageShellScript is the language id of documents that get chunk lenses
	LanguageShellScript = "shellscript"
	// LanguagePlainText is used for everything else
	LanguagePlainText = "plaintext"
)

var (
	lineBreak = regexp.MustCompile(`\r?\n`)
	shebang   = regexp.MustCompile(`^#!\s*(?:/usr)?/bin/(?:env\s+)?(?:ba|z|k|da)?sh\b`)

	shellExtensions = map[string]bool{
		".sh":   true,
		".bash": true,
		".zsh":  true,
		".ksh":  true,
	}
)

// TextSource supplies a document's text and identity
type TextSource interface {
	URI() string
	LanguageID() string
	Text() (string, error)
}

// Lines splits text on LF or CRLF line breaks
func Lines(text string) []string {
	return lineBreak.Split(text, -1)
}

// LineLength returns the length of a line in UTF-16 code units, the
// column convention used by editors.
func LineLength(line string) int {
	return len(utf16.Encode([]rune(line)))
}

// ContentHash returns the SHA-256 of the text
func ContentHash(text string) [32]byte {
	return sha256.Sum256([]byte(text))
}

// DetectLanguage derives a language id from a file name and its first line
func DetectLanguage(path, firstLine string) string {
	if shellExtensions[strings.ToLower(filepath.Ext(path))] {
		return LanguageShellScript
	}
	if shebang.MatchString(firstLine) {
		return LanguageShellScript
	}
	return LanguagePlainText
}

// File is a document read from disk on every Text call
type File struct {
	path       string
	languageID string
}

// NewFile creates a file source. The language id is detected from the
// extension, falling back to the shebang line.
func NewFile(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	firstLine, _, _ := strings.Cut(string(content), "\n")

	return &File{
		path:       abs,
		languageID: DetectLanguage(abs, strings.TrimSuffix(firstLine, "\r")),
	}, nil
}

// Path returns the absolute file path
func (f *File) Path() string {
	return f.path
}

// URI returns the file URI
func (f *File) URI() string {
	return "file://" + filepath.ToSlash(f.path)
}

// LanguageID returns the detected language id
func (f *File) LanguageID() string {
	return f.languageID
}

// Text reads the current file content
func (f *File) Text() (string, error) {
	content, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(content), nil
}

// Memory is an in-memory document
type Memory struct {
	uri        string
	languageID string
	text       string
}

// NewMemory creates an in-memory source
func NewMemory(uri, languageID, text string) *Memory {
	return &Memory{uri: uri, languageID: languageID, text: text}
}

// URI returns the document URI
func (m *Memory) URI() string {
	return m.uri
}

// LanguageID returns the document language id
func (m *Memory) LanguageID() string {
	return m.languageID
}

// Text returns the document text
func (m *Memory) Text() (string, error) {
	return m.text, nil
}

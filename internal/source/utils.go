package source

import (
	"bytes"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}

// AbsolutePath returns the cleaned absolute form of p.
func AbsolutePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return normalizePath(abs), nil
}

// RelativePath returns p relative to baseDir. Paths that would escape baseDir
// are returned in absolute form instead.
func RelativePath(p, baseDir string) (string, error) {
	absP, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absBase, absP)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return normalizePath(absP), nil
	}
	return normalizePath(rel), nil
}

// BaseName returns the last element of p.
func BaseName(p string) string {
	return filepath.Base(p)
}

// Inspect describes content without changing it.
func Inspect(content []byte) FileFlags {
	var flags FileFlags
	if bytes.HasPrefix(content, []byte(bom)) {
		flags |= FileBOM
	}
	if bytes.Contains(content, []byte("\r\n")) {
		flags |= FileCRLF
	}
	if !norm.NFC.IsNormal(content) {
		flags |= FileNotNFC
	}
	return flags
}
